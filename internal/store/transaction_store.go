package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/models"
)

type TransactionStore struct {
	db DB
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

const transactionColumns = `id, user_id, account_id, type, amount, currency, target_account_id, target_amount, description, date, created_at`

// TransactionFilter is the base predicate for List and Count. The tag filter
// is intentionally absent: tags are a many-to-many overlay resolved after the
// row fetch, not part of the base query.
type TransactionFilter struct {
	UserID    string
	From      *time.Time
	To        *time.Time
	AccountID string
	Type      string
	Limit     int
	Offset    int
}

func (f TransactionFilter) where() (string, []any) {
	clauses := []string{"user_id = $1"}
	args := []any{f.UserID}
	if f.From != nil {
		args = append(args, *f.From)
		clauses = append(clauses, fmt.Sprintf("date >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		clauses = append(clauses, fmt.Sprintf("date <= $%d", len(args)))
	}
	if f.AccountID != "" {
		args = append(args, f.AccountID)
		clauses = append(clauses, fmt.Sprintf("account_id = $%d", len(args)))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		clauses = append(clauses, fmt.Sprintf("type = $%d", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

func (s *TransactionStore) Insert(ctx context.Context, tx Execer, txn models.Transaction) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, account_id, type, amount, currency, target_account_id, target_amount, description, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, txn.ID, txn.UserID, txn.AccountID, txn.Type, txn.Amount, txn.Currency,
		txn.TargetAccountID, txn.TargetAmount, txn.Description, txn.Date)
	return err
}

func (s *TransactionStore) GetForUser(ctx context.Context, transactionID, userID string) (models.Transaction, error) {
	var row models.Transaction
	err := s.db.GetContext(ctx, &row, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1 AND user_id = $2
	`, transactionID, userID)
	if err != nil {
		return models.Transaction{}, err
	}
	return row, nil
}

func (s *TransactionStore) Update(ctx context.Context, tx Execer, txn models.Transaction) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE transactions
		SET account_id = $1, type = $2, amount = $3, currency = $4,
		    target_account_id = $5, target_amount = $6, description = $7, date = $8
		WHERE id = $9
	`, txn.AccountID, txn.Type, txn.Amount, txn.Currency,
		txn.TargetAccountID, txn.TargetAmount, txn.Description, txn.Date, txn.ID)
	return err
}

func (s *TransactionStore) Delete(ctx context.Context, tx Execer, transactionID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, transactionID)
	return err
}

func (s *TransactionStore) List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	where, args := filter.where()
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE ` + where + `
		ORDER BY date DESC, created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	var rows []models.Transaction
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TransactionStore) Count(ctx context.Context, filter TransactionFilter) (int, error) {
	where, args := filter.where()
	var count int
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM transactions WHERE `+where, args...)
	if err != nil {
		return 0, err
	}
	return count, nil
}
