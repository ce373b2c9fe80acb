package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/store"
	"fintrack/internal/websocket"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

// memoryBalances backs the balance engine in tests with an in-memory account
// table, mirroring the atomic-increment contract of the real store.
type memoryBalances struct {
	balances map[string]decimal.Decimal
}

func newMemoryBalances(initial map[string]string) *memoryBalances {
	balances := make(map[string]decimal.Decimal, len(initial))
	for id, value := range initial {
		balances[id] = decimal.RequireFromString(value)
	}
	return &memoryBalances{balances: balances}
}

func (m *memoryBalances) AdjustBalance(ctx context.Context, tx store.Getter, accountID string, delta decimal.Decimal) (decimal.Decimal, error) {
	current, ok := m.balances[accountID]
	if !ok {
		return decimal.Decimal{}, sql.ErrNoRows
	}
	next := current.Add(delta)
	m.balances[accountID] = next
	return next, nil
}

func (m *memoryBalances) get(accountID string) decimal.Decimal {
	return m.balances[accountID]
}

type stubAccountStore struct {
	getByIDFn        func(ctx context.Context, accountID string) (models.Account, error)
	getByIDForUserFn func(ctx context.Context, accountID, userID string) (models.Account, error)
	listByUserFn     func(ctx context.Context, userID string) ([]models.Account, error)
}

func (s stubAccountStore) GetByID(ctx context.Context, accountID string) (models.Account, error) {
	if s.getByIDFn == nil {
		return models.Account{ID: accountID}, nil
	}
	return s.getByIDFn(ctx, accountID)
}

func (s stubAccountStore) GetByIDForUser(ctx context.Context, accountID, userID string) (models.Account, error) {
	if s.getByIDForUserFn == nil {
		return models.Account{ID: accountID, UserID: userID}, nil
	}
	return s.getByIDForUserFn(ctx, accountID, userID)
}

func (s stubAccountStore) ListByUser(ctx context.Context, userID string) ([]models.Account, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

type stubTransactionStore struct {
	insertFn     func(ctx context.Context, tx store.Execer, txn models.Transaction) error
	getForUserFn func(ctx context.Context, transactionID, userID string) (models.Transaction, error)
	updateFn     func(ctx context.Context, tx store.Execer, txn models.Transaction) error
	deleteFn     func(ctx context.Context, tx store.Execer, transactionID string) error
	listFn       func(ctx context.Context, filter store.TransactionFilter) ([]models.Transaction, error)
	countFn      func(ctx context.Context, filter store.TransactionFilter) (int, error)
}

func (s stubTransactionStore) Insert(ctx context.Context, tx store.Execer, txn models.Transaction) error {
	if s.insertFn == nil {
		return nil
	}
	return s.insertFn(ctx, tx, txn)
}

func (s stubTransactionStore) GetForUser(ctx context.Context, transactionID, userID string) (models.Transaction, error) {
	return s.getForUserFn(ctx, transactionID, userID)
}

func (s stubTransactionStore) Update(ctx context.Context, tx store.Execer, txn models.Transaction) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, tx, txn)
}

func (s stubTransactionStore) Delete(ctx context.Context, tx store.Execer, transactionID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, tx, transactionID)
}

func (s stubTransactionStore) List(ctx context.Context, filter store.TransactionFilter) ([]models.Transaction, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, filter)
}

func (s stubTransactionStore) Count(ctx context.Context, filter store.TransactionFilter) (int, error) {
	if s.countFn == nil {
		return 0, nil
	}
	return s.countFn(ctx, filter)
}

type stubTagStore struct {
	forTransactionsFn func(ctx context.Context, transactionIDs []string) (map[string][]models.Tag, error)
	linkFn            func(ctx context.Context, tx store.Execer, transactionID string, tagIDs []string) error
	unlinkFn          func(ctx context.Context, tx store.Execer, transactionID string) error
	forRecurringFn    func(ctx context.Context, paymentIDs []string) (map[string][]models.Tag, error)
	linkRecurringFn   func(ctx context.Context, tx store.Execer, paymentID string, tagIDs []string) error
	unlinkRecurringFn func(ctx context.Context, tx store.Execer, paymentID string) error
}

func (s stubTagStore) ForTransactions(ctx context.Context, transactionIDs []string) (map[string][]models.Tag, error) {
	if s.forTransactionsFn == nil {
		return map[string][]models.Tag{}, nil
	}
	return s.forTransactionsFn(ctx, transactionIDs)
}

func (s stubTagStore) LinkTransaction(ctx context.Context, tx store.Execer, transactionID string, tagIDs []string) error {
	if s.linkFn == nil {
		return nil
	}
	return s.linkFn(ctx, tx, transactionID, tagIDs)
}

func (s stubTagStore) UnlinkTransaction(ctx context.Context, tx store.Execer, transactionID string) error {
	if s.unlinkFn == nil {
		return nil
	}
	return s.unlinkFn(ctx, tx, transactionID)
}

func (s stubTagStore) ForRecurringPayments(ctx context.Context, paymentIDs []string) (map[string][]models.Tag, error) {
	if s.forRecurringFn == nil {
		return map[string][]models.Tag{}, nil
	}
	return s.forRecurringFn(ctx, paymentIDs)
}

func (s stubTagStore) LinkRecurringPayment(ctx context.Context, tx store.Execer, paymentID string, tagIDs []string) error {
	if s.linkRecurringFn == nil {
		return nil
	}
	return s.linkRecurringFn(ctx, tx, paymentID, tagIDs)
}

func (s stubTagStore) UnlinkRecurringPayment(ctx context.Context, tx store.Execer, paymentID string) error {
	if s.unlinkRecurringFn == nil {
		return nil
	}
	return s.unlinkRecurringFn(ctx, tx, paymentID)
}

type stubRecurringStore struct {
	createFn  func(ctx context.Context, tx store.Execer, payment models.RecurringPayment) error
	listFn    func(ctx context.Context, userID string, active *bool) ([]models.RecurringPayment, error)
	getFn     func(ctx context.Context, paymentID, userID string) (models.RecurringPayment, error)
	updateFn  func(ctx context.Context, tx store.Execer, payment models.RecurringPayment) error
	advanceFn func(ctx context.Context, paymentID string, nextDate time.Time) error
	deleteFn  func(ctx context.Context, paymentID, userID string) (int64, error)
}

func (s stubRecurringStore) Create(ctx context.Context, tx store.Execer, payment models.RecurringPayment) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, payment)
}

func (s stubRecurringStore) ListByUser(ctx context.Context, userID string, active *bool) ([]models.RecurringPayment, error) {
	return s.listFn(ctx, userID, active)
}

func (s stubRecurringStore) GetByIDForUser(ctx context.Context, paymentID, userID string) (models.RecurringPayment, error) {
	return s.getFn(ctx, paymentID, userID)
}

func (s stubRecurringStore) Update(ctx context.Context, tx store.Execer, payment models.RecurringPayment) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, tx, payment)
}

func (s stubRecurringStore) AdvanceNextDate(ctx context.Context, paymentID string, nextDate time.Time) error {
	if s.advanceFn == nil {
		return nil
	}
	return s.advanceFn(ctx, paymentID, nextDate)
}

func (s stubRecurringStore) Delete(ctx context.Context, paymentID, userID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, paymentID, userID)
}

type stubSnapshotStore struct {
	upsertFn func(ctx context.Context, id, accountID string, date time.Time, balance decimal.Decimal) (models.BalanceSnapshot, error)
	listFn   func(ctx context.Context, userID, accountID string, from, to *time.Time) ([]store.SnapshotRow, error)
}

func (s stubSnapshotStore) Upsert(ctx context.Context, id, accountID string, date time.Time, balance decimal.Decimal) (models.BalanceSnapshot, error) {
	if s.upsertFn == nil {
		return models.BalanceSnapshot{ID: id, AccountID: accountID, Date: date, Balance: balance}, nil
	}
	return s.upsertFn(ctx, id, accountID, date, balance)
}

func (s stubSnapshotStore) ListForUser(ctx context.Context, userID, accountID string, from, to *time.Time) ([]store.SnapshotRow, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, userID, accountID, from, to)
}

type recordingHub struct {
	updates []websocket.BalanceUpdate
}

func (h *recordingHub) BroadcastBalance(userID string, update websocket.BalanceUpdate) {
	h.updates = append(h.updates, update)
}

type stubLedger struct {
	createFn func(ctx context.Context, userID string, input TransactionInput) (models.Transaction, error)
}

func (s stubLedger) Create(ctx context.Context, userID string, input TransactionInput) (models.Transaction, error) {
	return s.createFn(ctx, userID, input)
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T {
	return &v
}
