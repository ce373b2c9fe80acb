package store

import (
	"context"
	"time"

	"fintrack/internal/models"
)

type RecurringStore struct {
	db DB
}

func NewRecurringStore(db DB) *RecurringStore {
	return &RecurringStore{db: db}
}

const recurringColumns = `id, user_id, account_id, type, amount, description, frequency, next_date, is_active, created_at`

func (s *RecurringStore) Create(ctx context.Context, tx Execer, payment models.RecurringPayment) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO recurring_payments (id, user_id, account_id, type, amount, description, frequency, next_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, payment.ID, payment.UserID, payment.AccountID, payment.Type, payment.Amount,
		payment.Description, payment.Frequency, payment.NextDate, payment.IsActive)
	return err
}

func (s *RecurringStore) ListByUser(ctx context.Context, userID string, active *bool) ([]models.RecurringPayment, error) {
	query := `
		SELECT ` + recurringColumns + `
		FROM recurring_payments
		WHERE user_id = $1`
	args := []any{userID}
	if active != nil {
		query += ` AND is_active = $2`
		args = append(args, *active)
	}
	query += ` ORDER BY next_date`
	var rows []models.RecurringPayment
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *RecurringStore) GetByIDForUser(ctx context.Context, paymentID, userID string) (models.RecurringPayment, error) {
	var row models.RecurringPayment
	err := s.db.GetContext(ctx, &row, `
		SELECT `+recurringColumns+`
		FROM recurring_payments
		WHERE id = $1 AND user_id = $2
	`, paymentID, userID)
	if err != nil {
		return models.RecurringPayment{}, err
	}
	return row, nil
}

func (s *RecurringStore) Update(ctx context.Context, tx Execer, payment models.RecurringPayment) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE recurring_payments
		SET account_id = $1, type = $2, amount = $3, description = $4,
		    frequency = $5, next_date = $6, is_active = $7
		WHERE id = $8
	`, payment.AccountID, payment.Type, payment.Amount, payment.Description,
		payment.Frequency, payment.NextDate, payment.IsActive, payment.ID)
	return err
}

// AdvanceNextDate moves next_date forward after a successful execution. The
// next_date guard keeps it monotonic if two executions race.
func (s *RecurringStore) AdvanceNextDate(ctx context.Context, paymentID string, nextDate time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE recurring_payments
		SET next_date = $1
		WHERE id = $2 AND next_date < $1
	`, nextDate, paymentID)
	return err
}

func (s *RecurringStore) Delete(ctx context.Context, paymentID, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM recurring_payments
		WHERE id = $1 AND user_id = $2
	`, paymentID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
