package store

import (
	"context"

	"fintrack/internal/models"
)

type BudgetStore struct {
	db DB
}

func NewBudgetStore(db DB) *BudgetStore {
	return &BudgetStore{db: db}
}

type BudgetRow struct {
	models.Budget
	TagName  string `db:"tag_name" json:"tag_name"`
	TagColor string `db:"tag_color" json:"tag_color"`
	TagIcon  string `db:"tag_icon" json:"tag_icon"`
}

func (s *BudgetStore) ListByUser(ctx context.Context, userID, month string) ([]BudgetRow, error) {
	query := `
		SELECT b.id, b.user_id, b.tag_id, b.amount, b.month,
		       t.name AS tag_name, t.color AS tag_color, t.icon AS tag_icon
		FROM budgets b
		JOIN tags t ON t.id = b.tag_id
		WHERE b.user_id = $1`
	args := []any{userID}
	if month != "" {
		query += ` AND b.month = $2`
		args = append(args, month)
	}
	query += ` ORDER BY b.month DESC, t.name`
	var rows []BudgetRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert saves the budget for (user, tag, month), replacing the amount when
// the row already exists.
func (s *BudgetStore) Upsert(ctx context.Context, budget models.Budget) (models.Budget, error) {
	var row models.Budget
	err := s.db.GetContext(ctx, &row, `
		INSERT INTO budgets (id, user_id, tag_id, amount, month)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, tag_id, month)
		DO UPDATE SET amount = EXCLUDED.amount
		RETURNING id, user_id, tag_id, amount, month
	`, budget.ID, budget.UserID, budget.TagID, budget.Amount, budget.Month)
	if err != nil {
		return models.Budget{}, err
	}
	return row, nil
}

func (s *BudgetStore) Delete(ctx context.Context, budgetID, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM budgets
		WHERE id = $1 AND user_id = $2
	`, budgetID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
