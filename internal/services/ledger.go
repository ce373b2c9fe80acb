package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"fintrack/internal/db"
	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/store"
	"fintrack/internal/websocket"
)

// LedgerService orchestrates transaction create/update/delete. It owns the
// tag associations and drives the BalanceEngine so that every posting,
// edit, and reversal runs as one transactional unit.
type LedgerService struct {
	txRunner     db.TxRunner
	accounts     AccountStore
	transactions TransactionStore
	tags         TagStore
	engine       *BalanceEngine
	hub          BalanceHub
	now          func() time.Time
}

type AccountStore interface {
	GetByID(ctx context.Context, accountID string) (models.Account, error)
	GetByIDForUser(ctx context.Context, accountID, userID string) (models.Account, error)
	ListByUser(ctx context.Context, userID string) ([]models.Account, error)
}

type TransactionStore interface {
	Insert(ctx context.Context, tx store.Execer, txn models.Transaction) error
	GetForUser(ctx context.Context, transactionID, userID string) (models.Transaction, error)
	Update(ctx context.Context, tx store.Execer, txn models.Transaction) error
	Delete(ctx context.Context, tx store.Execer, transactionID string) error
	List(ctx context.Context, filter store.TransactionFilter) ([]models.Transaction, error)
	Count(ctx context.Context, filter store.TransactionFilter) (int, error)
}

type TagStore interface {
	ForTransactions(ctx context.Context, transactionIDs []string) (map[string][]models.Tag, error)
	LinkTransaction(ctx context.Context, tx store.Execer, transactionID string, tagIDs []string) error
	UnlinkTransaction(ctx context.Context, tx store.Execer, transactionID string) error
}

type BalanceHub interface {
	BroadcastBalance(userID string, update websocket.BalanceUpdate)
}

func NewLedgerService(txRunner db.TxRunner, accounts AccountStore, transactions TransactionStore, tags TagStore, engine *BalanceEngine, hub BalanceHub) *LedgerService {
	return &LedgerService{
		txRunner:     txRunner,
		accounts:     accounts,
		transactions: transactions,
		tags:         tags,
		engine:       engine,
		hub:          hub,
		now:          time.Now,
	}
}

type TransactionInput struct {
	AccountID       string
	Type            string
	Amount          decimal.Decimal
	Currency        string
	TargetAccountID *string
	TargetAmount    *decimal.Decimal
	Description     *string
	Date            *time.Time
	TagIDs          []string
}

// TransactionUpdate carries a partial edit: nil fields keep their stored
// values, a nil TagIDs leaves the tag set untouched.
type TransactionUpdate struct {
	AccountID       *string
	Type            *string
	Amount          *decimal.Decimal
	Currency        *string
	TargetAccountID *string
	TargetAmount    *decimal.Decimal
	Description     *string
	Date            *time.Time
	TagIDs          *[]string
}

type ListFilters struct {
	From      *time.Time
	To        *time.Time
	AccountID string
	Type      string
	TagID     string
	Limit     int
	Offset    int
}

func validTransactionType(t string) bool {
	switch t {
	case models.TransactionIncome, models.TransactionExpense, models.TransactionTransfer:
		return true
	}
	return false
}

func (s *LedgerService) Create(ctx context.Context, userID string, input TransactionInput) (models.Transaction, error) {
	if input.AccountID == "" || input.Type == "" || input.Currency == "" || input.Amount.IsZero() {
		return models.Transaction{}, validationErrorf("account_id, type, amount, currency are required")
	}
	if !validTransactionType(input.Type) {
		return models.Transaction{}, validationErrorf("unknown transaction type %q", input.Type)
	}
	if !input.Amount.IsPositive() {
		return models.Transaction{}, validationErrorf("amount must be positive")
	}
	if input.Type == models.TransactionTransfer {
		if input.TargetAccountID == nil || *input.TargetAccountID == "" {
			return models.Transaction{}, validationErrorf("transfer requires target_account_id")
		}
		if input.TargetAmount != nil && !input.TargetAmount.IsPositive() {
			return models.Transaction{}, validationErrorf("target_amount must be positive")
		}
	} else {
		// Target fields are transfer-only.
		input.TargetAccountID = nil
		input.TargetAmount = nil
	}

	if err := s.checkAccountOwnership(ctx, userID, input.AccountID, input.TargetAccountID); err != nil {
		return models.Transaction{}, err
	}

	txnDate := truncateToDay(s.now())
	if input.Date != nil {
		txnDate = truncateToDay(*input.Date)
	}
	txn := models.Transaction{
		ID:              uuid.NewString(),
		UserID:          userID,
		AccountID:       input.AccountID,
		Type:            input.Type,
		Amount:          input.Amount,
		Currency:        input.Currency,
		TargetAccountID: input.TargetAccountID,
		TargetAmount:    input.TargetAmount,
		Description:     input.Description,
		Date:            txnDate,
		CreatedAt:       s.now(),
		Tags:            []models.Tag{},
	}

	var changes []BalanceChange
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.transactions.Insert(ctx, tx, txn); err != nil {
			return err
		}
		if len(input.TagIDs) > 0 {
			if err := s.tags.LinkTransaction(ctx, tx, txn.ID, input.TagIDs); err != nil {
				return err
			}
		}
		applied, err := s.engine.Apply(ctx, tx, txn)
		if err != nil {
			return err
		}
		changes = applied
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}
	s.broadcast(userID, txn.Currency, changes)

	if len(input.TagIDs) > 0 {
		byTx, err := s.tags.ForTransactions(ctx, []string{txn.ID})
		if err == nil {
			txn.Tags = byTx[txn.ID]
		}
	}
	return txn, nil
}

func (s *LedgerService) Update(ctx context.Context, userID, transactionID string, update TransactionUpdate) (models.Transaction, error) {
	existing, err := s.transactions.GetForUser(ctx, transactionID, userID)
	if err != nil {
		return models.Transaction{}, mapNoRows(err)
	}

	updated, err := mergeUpdate(existing, update)
	if err != nil {
		return models.Transaction{}, err
	}
	if err := s.checkAccountOwnership(ctx, userID, updated.AccountID, updated.TargetAccountID); err != nil {
		return models.Transaction{}, err
	}

	// Reverse(old) then Apply(new), never a diff: symmetry keeps the
	// reversal logic independent of what changed.
	var changes []BalanceChange
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		reversed, err := s.engine.Reverse(ctx, tx, existing)
		if err != nil {
			return err
		}
		if err := s.transactions.Update(ctx, tx, updated); err != nil {
			return err
		}
		if update.TagIDs != nil {
			if err := s.tags.UnlinkTransaction(ctx, tx, updated.ID); err != nil {
				return err
			}
			if len(*update.TagIDs) > 0 {
				if err := s.tags.LinkTransaction(ctx, tx, updated.ID, *update.TagIDs); err != nil {
					return err
				}
			}
		}
		applied, err := s.engine.Apply(ctx, tx, updated)
		if err != nil {
			return err
		}
		changes = mergeChanges(reversed, applied)
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}
	s.broadcast(userID, updated.Currency, changes)

	byTx, err := s.tags.ForTransactions(ctx, []string{updated.ID})
	if err == nil {
		updated.Tags = byTx[updated.ID]
	}
	if updated.Tags == nil {
		updated.Tags = []models.Tag{}
	}
	return updated, nil
}

func (s *LedgerService) Delete(ctx context.Context, userID, transactionID string) error {
	existing, err := s.transactions.GetForUser(ctx, transactionID, userID)
	if err != nil {
		return mapNoRows(err)
	}
	var changes []BalanceChange
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		reversed, err := s.engine.Reverse(ctx, tx, existing)
		if err != nil {
			return err
		}
		if err := s.tags.UnlinkTransaction(ctx, tx, existing.ID); err != nil {
			return err
		}
		if err := s.transactions.Delete(ctx, tx, existing.ID); err != nil {
			return err
		}
		changes = reversed
		return nil
	})
	if err != nil {
		return err
	}
	s.broadcast(userID, existing.Currency, changes)
	return nil
}

func (s *LedgerService) Get(ctx context.Context, userID, transactionID string) (models.Transaction, error) {
	txn, err := s.transactions.GetForUser(ctx, transactionID, userID)
	if err != nil {
		return models.Transaction{}, mapNoRows(err)
	}
	byTx, err := s.tags.ForTransactions(ctx, []string{txn.ID})
	if err != nil {
		return models.Transaction{}, err
	}
	txn.Tags = byTx[txn.ID]
	if txn.Tags == nil {
		txn.Tags = []models.Tag{}
	}
	return txn, nil
}

// List applies date/account/type filters in the base query and the tag
// filter after the tag-join fetch; the total count is computed under the base
// predicate without pagination.
func (s *LedgerService) List(ctx context.Context, userID string, filters ListFilters) ([]models.Transaction, int, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	base := store.TransactionFilter{
		UserID:    userID,
		From:      filters.From,
		To:        filters.To,
		AccountID: filters.AccountID,
		Type:      filters.Type,
		Limit:     limit,
		Offset:    filters.Offset,
	}
	rows, err := s.transactions.List(ctx, base)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	byTx, err := s.tags.ForTransactions(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	result := make([]models.Transaction, 0, len(rows))
	for _, row := range rows {
		row.Tags = byTx[row.ID]
		if row.Tags == nil {
			row.Tags = []models.Tag{}
		}
		if filters.TagID != "" && !hasTag(row.Tags, filters.TagID) {
			continue
		}
		result = append(result, row)
	}
	count, err := s.transactions.Count(ctx, store.TransactionFilter{
		UserID:    userID,
		From:      filters.From,
		To:        filters.To,
		AccountID: filters.AccountID,
		Type:      filters.Type,
	})
	if err != nil {
		return nil, 0, err
	}
	return result, count, nil
}

func (s *LedgerService) checkAccountOwnership(ctx context.Context, userID, accountID string, targetAccountID *string) error {
	if _, err := s.accounts.GetByIDForUser(ctx, accountID, userID); err != nil {
		return mapNoRows(err)
	}
	if targetAccountID != nil {
		if _, err := s.accounts.GetByIDForUser(ctx, *targetAccountID, userID); err != nil {
			return mapNoRows(err)
		}
	}
	return nil
}

func (s *LedgerService) broadcast(userID, currency string, changes []BalanceChange) {
	if s.hub == nil {
		return
	}
	for _, change := range changes {
		s.hub.BroadcastBalance(userID, websocket.BalanceUpdate{
			AccountID: change.AccountID,
			Balance:   money.Format(change.Balance),
			Currency:  currency,
		})
	}
}

func mergeUpdate(existing models.Transaction, update TransactionUpdate) (models.Transaction, error) {
	merged := existing
	if update.AccountID != nil {
		merged.AccountID = *update.AccountID
	}
	if update.Type != nil {
		merged.Type = *update.Type
	}
	if update.Amount != nil {
		merged.Amount = *update.Amount
	}
	if update.Currency != nil {
		merged.Currency = *update.Currency
	}
	if update.TargetAccountID != nil {
		merged.TargetAccountID = update.TargetAccountID
	}
	if update.TargetAmount != nil {
		merged.TargetAmount = update.TargetAmount
	}
	if update.Description != nil {
		merged.Description = update.Description
	}
	if update.Date != nil {
		merged.Date = truncateToDay(*update.Date)
	}
	if !validTransactionType(merged.Type) {
		return models.Transaction{}, validationErrorf("unknown transaction type %q", merged.Type)
	}
	if !merged.Amount.IsPositive() {
		return models.Transaction{}, validationErrorf("amount must be positive")
	}
	if merged.Type == models.TransactionTransfer {
		if merged.TargetAccountID == nil || *merged.TargetAccountID == "" {
			return models.Transaction{}, validationErrorf("transfer requires target_account_id")
		}
		if merged.TargetAmount != nil && !merged.TargetAmount.IsPositive() {
			return models.Transaction{}, validationErrorf("target_amount must be positive")
		}
	} else {
		merged.TargetAccountID = nil
		merged.TargetAmount = nil
	}
	return merged, nil
}

// mergeChanges keeps the latest balance seen per account when reverse and
// apply touch overlapping accounts.
func mergeChanges(first, second []BalanceChange) []BalanceChange {
	byAccount := make(map[string]int, len(first)+len(second))
	merged := make([]BalanceChange, 0, len(first)+len(second))
	for _, change := range append(first, second...) {
		if i, ok := byAccount[change.AccountID]; ok {
			merged[i] = change
			continue
		}
		byAccount[change.AccountID] = len(merged)
		merged = append(merged, change)
	}
	return merged
}

func hasTag(tags []models.Tag, tagID string) bool {
	for _, tag := range tags {
		if tag.ID == tagID {
			return true
		}
	}
	return false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func mapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
