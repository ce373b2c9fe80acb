package store

import (
	"context"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

type GoalStore struct {
	db DB
}

func NewGoalStore(db DB) *GoalStore {
	return &GoalStore{db: db}
}

type GoalRow struct {
	models.Goal
	AccountName     string          `db:"account_name" json:"account_name"`
	AccountBalance  decimal.Decimal `db:"account_balance" json:"current_amount"`
	AccountCurrency string          `db:"account_currency" json:"currency"`
	Progress        decimal.Decimal `db:"-" json:"progress"`
}

var fullProgress = decimal.NewFromInt(100)

// deriveProgress computes how far the funding account has come toward the
// target, capped at 100. Progress is never stored; it is recomputed from the
// live balance on every read.
func (r *GoalRow) deriveProgress() {
	if r.TargetAmount.IsZero() {
		r.Progress = decimal.Zero
		return
	}
	progress := r.AccountBalance.Div(r.TargetAmount).Mul(fullProgress)
	if progress.GreaterThan(fullProgress) {
		progress = fullProgress
	}
	r.Progress = progress
}

const goalJoin = `
	SELECT g.id, g.user_id, g.account_id, g.name, g.target_amount, g.created_at,
	       a.name AS account_name, a.balance AS account_balance, a.currency AS account_currency
	FROM goals g
	JOIN accounts a ON a.id = g.account_id`

func (s *GoalStore) ListByUser(ctx context.Context, userID string) ([]GoalRow, error) {
	var rows []GoalRow
	err := s.db.SelectContext(ctx, &rows, goalJoin+`
		WHERE g.user_id = $1
		ORDER BY g.created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].deriveProgress()
	}
	return rows, nil
}

func (s *GoalStore) GetByIDForUser(ctx context.Context, goalID, userID string) (GoalRow, error) {
	var row GoalRow
	err := s.db.GetContext(ctx, &row, goalJoin+`
		WHERE g.id = $1 AND g.user_id = $2
	`, goalID, userID)
	if err != nil {
		return GoalRow{}, err
	}
	row.deriveProgress()
	return row, nil
}

func (s *GoalStore) Create(ctx context.Context, goal models.Goal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (id, user_id, account_id, name, target_amount)
		VALUES ($1, $2, $3, $4, $5)
	`, goal.ID, goal.UserID, goal.AccountID, goal.Name, goal.TargetAmount)
	return err
}

func (s *GoalStore) Update(ctx context.Context, goal models.Goal) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE goals
		SET account_id = $1, name = $2, target_amount = $3
		WHERE id = $4 AND user_id = $5
	`, goal.AccountID, goal.Name, goal.TargetAmount, goal.ID, goal.UserID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *GoalStore) Delete(ctx context.Context, goalID, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM goals
		WHERE id = $1 AND user_id = $2
	`, goalID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
