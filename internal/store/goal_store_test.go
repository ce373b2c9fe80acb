package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

func TestGoalListDerivesProgress(t *testing.T) {
	ctx := context.Background()
	store := NewGoalStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			rows := dest.(*[]GoalRow)
			*rows = []GoalRow{
				{
					Goal:           models.Goal{ID: "goal-1", TargetAmount: decimal.RequireFromString("1000")},
					AccountBalance: decimal.RequireFromString("250"),
				},
				{
					Goal:           models.Goal{ID: "goal-2", TargetAmount: decimal.RequireFromString("100")},
					AccountBalance: decimal.RequireFromString("350"),
				},
			}
			return nil
		},
	})

	rows, err := store.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rows[0].Progress.Equal(decimal.RequireFromString("25")) {
		t.Fatalf("expected 25%% progress, got %s", rows[0].Progress)
	}
	// An overfunded account caps at 100, never beyond.
	if !rows[1].Progress.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("expected capped progress, got %s", rows[1].Progress)
	}
}

func TestGoalGetDerivesProgress(t *testing.T) {
	ctx := context.Background()
	store := NewGoalStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			row := dest.(*GoalRow)
			row.Goal = models.Goal{ID: "goal-1", TargetAmount: decimal.RequireFromString("200")}
			row.AccountBalance = decimal.RequireFromString("50")
			return nil
		},
	})

	row, err := store.GetByIDForUser(ctx, "goal-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !row.Progress.Equal(decimal.RequireFromString("25")) {
		t.Fatalf("expected 25%% progress, got %s", row.Progress)
	}
}

func TestGoalProgressZeroTarget(t *testing.T) {
	row := GoalRow{
		Goal:           models.Goal{ID: "goal-1"},
		AccountBalance: decimal.RequireFromString("50"),
	}
	row.deriveProgress()
	if !row.Progress.IsZero() {
		t.Fatalf("zero target must yield zero progress, got %s", row.Progress)
	}
}
