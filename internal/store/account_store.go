package store

import (
	"context"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

type AccountStore struct {
	db DB
}

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

const accountColumns = `id, user_id, name, type, currency, balance, wallet_address, blockchain, last_synced_at, icon, color, created_at`

func (s *AccountStore) Create(ctx context.Context, tx Execer, account models.Account) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, name, type, currency, balance, wallet_address, blockchain, icon, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, account.ID, account.UserID, account.Name, account.Type, account.Currency,
		account.Balance, account.WalletAddress, account.Blockchain, account.Icon, account.Color)
	return err
}

func (s *AccountStore) ListByUser(ctx context.Context, userID string) ([]models.Account, error) {
	var rows []models.Account
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AccountStore) GetByID(ctx context.Context, accountID string) (models.Account, error) {
	var row models.Account
	err := s.db.GetContext(ctx, &row, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1
	`, accountID)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

func (s *AccountStore) GetByIDForUser(ctx context.Context, accountID, userID string) (models.Account, error) {
	var row models.Account
	err := s.db.GetContext(ctx, &row, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1 AND user_id = $2
	`, accountID, userID)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

// Update covers display and wallet metadata only. Balance is owned by the
// balance engine and never written through here.
func (s *AccountStore) Update(ctx context.Context, account models.Account) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE accounts
		SET name = $1, type = $2, currency = $3, wallet_address = $4, blockchain = $5,
		    last_synced_at = $6, icon = $7, color = $8
		WHERE id = $9 AND user_id = $10
	`, account.Name, account.Type, account.Currency, account.WalletAddress, account.Blockchain,
		account.LastSyncedAt, account.Icon, account.Color, account.ID, account.UserID)
	return err
}

func (s *AccountStore) Delete(ctx context.Context, accountID, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM accounts
		WHERE id = $1 AND user_id = $2
	`, accountID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// AdjustBalance applies delta as an atomic increment against the stored
// balance and returns the resulting value. sql.ErrNoRows means the account
// vanished mid-operation; callers treat that as a consistency failure.
func (s *AccountStore) AdjustBalance(ctx context.Context, tx Getter, accountID string, delta decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.GetContext(ctx, &balance, `
		UPDATE accounts
		SET balance = balance + $1
		WHERE id = $2
		RETURNING balance
	`, delta, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}
