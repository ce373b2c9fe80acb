package store

import (
	"context"

	"github.com/lib/pq"

	"fintrack/internal/models"
)

type TagStore struct {
	db DB
}

func NewTagStore(db DB) *TagStore {
	return &TagStore{db: db}
}

func (s *TagStore) Create(ctx context.Context, tag models.Tag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, user_id, name, color, icon)
		VALUES ($1, $2, $3, $4, $5)
	`, tag.ID, tag.UserID, tag.Name, tag.Color, tag.Icon)
	return err
}

func (s *TagStore) ListByUser(ctx context.Context, userID string) ([]models.Tag, error) {
	var rows []models.Tag
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, name, color, icon
		FROM tags
		WHERE user_id = $1
		ORDER BY name
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TagStore) GetByIDForUser(ctx context.Context, tagID, userID string) (models.Tag, error) {
	var row models.Tag
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, name, color, icon
		FROM tags
		WHERE id = $1 AND user_id = $2
	`, tagID, userID)
	if err != nil {
		return models.Tag{}, err
	}
	return row, nil
}

func (s *TagStore) Update(ctx context.Context, tag models.Tag) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tags
		SET name = $1, color = $2, icon = $3
		WHERE id = $4 AND user_id = $5
	`, tag.Name, tag.Color, tag.Icon, tag.ID, tag.UserID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *TagStore) Delete(ctx context.Context, tagID, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM tags
		WHERE id = $1 AND user_id = $2
	`, tagID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type taggedRow struct {
	OwnerID string `db:"owner_id"`
	models.Tag
}

// ForTransactions resolves the tag sets for a page of transactions in one
// round trip, keyed by transaction id.
func (s *TagStore) ForTransactions(ctx context.Context, transactionIDs []string) (map[string][]models.Tag, error) {
	return s.forOwners(ctx, `
		SELECT tt.transaction_id AS owner_id, t.id, t.user_id, t.name, t.color, t.icon
		FROM transaction_tags tt
		JOIN tags t ON t.id = tt.tag_id
		WHERE tt.transaction_id = ANY($1)
	`, transactionIDs)
}

func (s *TagStore) ForRecurringPayments(ctx context.Context, paymentIDs []string) (map[string][]models.Tag, error) {
	return s.forOwners(ctx, `
		SELECT rt.recurring_payment_id AS owner_id, t.id, t.user_id, t.name, t.color, t.icon
		FROM recurring_payment_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recurring_payment_id = ANY($1)
	`, paymentIDs)
}

func (s *TagStore) forOwners(ctx context.Context, query string, ids []string) (map[string][]models.Tag, error) {
	result := make(map[string][]models.Tag, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []taggedRow
	if err := s.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.OwnerID] = append(result[row.OwnerID], row.Tag)
	}
	return result, nil
}

func (s *TagStore) LinkTransaction(ctx context.Context, tx Execer, transactionID string, tagIDs []string) error {
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO transaction_tags (transaction_id, tag_id)
			VALUES ($1, $2)
		`, transactionID, tagID); err != nil {
			return err
		}
	}
	return nil
}

func (s *TagStore) UnlinkTransaction(ctx context.Context, tx Execer, transactionID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM transaction_tags WHERE transaction_id = $1`, transactionID)
	return err
}

func (s *TagStore) LinkRecurringPayment(ctx context.Context, tx Execer, paymentID string, tagIDs []string) error {
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO recurring_payment_tags (recurring_payment_id, tag_id)
			VALUES ($1, $2)
		`, paymentID, tagID); err != nil {
			return err
		}
	}
	return nil
}

func (s *TagStore) UnlinkRecurringPayment(ctx context.Context, tx Execer, paymentID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM recurring_payment_tags WHERE recurring_payment_id = $1`, paymentID)
	return err
}
