package store

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

func TestSnapshotStoreUpsertConflictClause(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "ON CONFLICT (account_id, date)") {
				t.Fatalf("expected upsert on (account_id, date): %s", query)
			}
			if !strings.Contains(query, "DO UPDATE SET balance = EXCLUDED.balance") {
				t.Fatalf("expected balance overwrite: %s", query)
			}
			if len(args) != 4 || args[1] != "acc-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			row := dest.(*models.BalanceSnapshot)
			row.ID = args[0].(string)
			row.AccountID = "acc-1"
			return nil
		},
	})
	snapshot, err := store.Upsert(ctx, "snap-1", "acc-1", date("2024-06-01"), decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.AccountID != "acc-1" {
		t.Fatalf("unexpected snapshot: %#v", snapshot)
	}
}

func TestSnapshotStoreListForUserScopesToOwner(t *testing.T) {
	ctx := context.Background()
	from := date("2024-01-01")
	store := NewSnapshotStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "a.user_id = $1") {
				t.Fatalf("expected owner scoping: %s", query)
			}
			if !strings.Contains(query, "s.account_id = $2") || !strings.Contains(query, "s.date >= $3") {
				t.Fatalf("expected optional filters: %s", query)
			}
			if !strings.Contains(query, "ORDER BY s.date") {
				t.Fatalf("expected ascending date order: %s", query)
			}
			return nil
		},
	})
	if _, err := store.ListForUser(ctx, "user-1", "acc-1", &from, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
