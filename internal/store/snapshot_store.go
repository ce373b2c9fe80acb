package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

type SnapshotStore struct {
	db DB
}

func NewSnapshotStore(db DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Upsert records the balance of one account for one calendar date. Repeating
// the call for the same (account, date) overwrites the stored value instead
// of inserting a second row.
func (s *SnapshotStore) Upsert(ctx context.Context, id, accountID string, date time.Time, balance decimal.Decimal) (models.BalanceSnapshot, error) {
	var row models.BalanceSnapshot
	err := s.db.GetContext(ctx, &row, `
		INSERT INTO balance_snapshots (id, account_id, date, balance)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id, date)
		DO UPDATE SET balance = EXCLUDED.balance
		RETURNING id, account_id, date, balance, created_at
	`, id, accountID, date, balance)
	if err != nil {
		return models.BalanceSnapshot{}, err
	}
	return row, nil
}

type SnapshotRow struct {
	models.BalanceSnapshot
	AccountName     string `db:"account_name" json:"account_name"`
	AccountCurrency string `db:"account_currency" json:"account_currency"`
}

// ListForUser returns snapshot rows restricted to accounts owned by userID,
// optionally narrowed to one account and a date range, oldest first.
func (s *SnapshotStore) ListForUser(ctx context.Context, userID, accountID string, from, to *time.Time) ([]SnapshotRow, error) {
	clauses := []string{"a.user_id = $1"}
	args := []any{userID}
	if accountID != "" {
		args = append(args, accountID)
		clauses = append(clauses, fmt.Sprintf("s.account_id = $%d", len(args)))
	}
	if from != nil {
		args = append(args, *from)
		clauses = append(clauses, fmt.Sprintf("s.date >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		clauses = append(clauses, fmt.Sprintf("s.date <= $%d", len(args)))
	}
	query := `
		SELECT s.id, s.account_id, s.date, s.balance, s.created_at,
		       a.name AS account_name, a.currency AS account_currency
		FROM balance_snapshots s
		JOIN accounts a ON a.id = s.account_id
		WHERE ` + strings.Join(clauses, " AND ") + `
		ORDER BY s.date`
	var rows []SnapshotRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
