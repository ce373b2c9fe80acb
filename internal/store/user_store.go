package store

import (
	"context"

	"fintrack/internal/models"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, tx Execer, id, email, passwordHash, displayCurrency string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, display_currency)
		VALUES ($1, $2, $3, $4)
	`, id, email, passwordHash, displayCurrency)
	return err
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, email, password_hash, display_currency, created_at
		FROM users
		WHERE email = $1
	`, email)
	if err != nil {
		return models.User{}, err
	}
	return row, nil
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, email, password_hash, display_currency, created_at
		FROM users
		WHERE id = $1
	`, userID)
	if err != nil {
		return models.User{}, err
	}
	return row, nil
}
