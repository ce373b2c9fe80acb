package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"fintrack/internal/auth"
	"fintrack/internal/config"
	"fintrack/internal/models"
	"fintrack/internal/services"
	"fintrack/internal/store"
	"fintrack/internal/websocket"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn     func(ctx context.Context, tx store.Execer, id, email, passwordHash, displayCurrency string) error
	getByEmailFn func(ctx context.Context, email string) (models.User, error)
	getByIDFn    func(ctx context.Context, userID string) (models.User, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, id, email, passwordHash, displayCurrency string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, email, passwordHash, displayCurrency)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if s.getByEmailFn == nil {
		return models.User{}, nil
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{ID: userID}, nil
	}
	return s.getByIDFn(ctx, userID)
}

type stubAccountStore struct {
	createFn     func(ctx context.Context, tx store.Execer, account models.Account) error
	listFn       func(ctx context.Context, userID string) ([]models.Account, error)
	getForUserFn func(ctx context.Context, accountID, userID string) (models.Account, error)
	updateFn     func(ctx context.Context, account models.Account) error
	deleteFn     func(ctx context.Context, accountID, userID string) (int64, error)
}

func (s stubAccountStore) Create(ctx context.Context, tx store.Execer, account models.Account) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, account)
}

func (s stubAccountStore) ListByUser(ctx context.Context, userID string) ([]models.Account, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, userID)
}

func (s stubAccountStore) GetByIDForUser(ctx context.Context, accountID, userID string) (models.Account, error) {
	if s.getForUserFn == nil {
		return models.Account{ID: accountID, UserID: userID}, nil
	}
	return s.getForUserFn(ctx, accountID, userID)
}

func (s stubAccountStore) Update(ctx context.Context, account models.Account) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, account)
}

func (s stubAccountStore) Delete(ctx context.Context, accountID, userID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, accountID, userID)
}

type stubTagStore struct {
	createFn func(ctx context.Context, tag models.Tag) error
	listFn   func(ctx context.Context, userID string) ([]models.Tag, error)
	getFn    func(ctx context.Context, tagID, userID string) (models.Tag, error)
	updateFn func(ctx context.Context, tag models.Tag) (int64, error)
	deleteFn func(ctx context.Context, tagID, userID string) (int64, error)
}

func (s stubTagStore) Create(ctx context.Context, tag models.Tag) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tag)
}

func (s stubTagStore) ListByUser(ctx context.Context, userID string) ([]models.Tag, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, userID)
}

func (s stubTagStore) GetByIDForUser(ctx context.Context, tagID, userID string) (models.Tag, error) {
	if s.getFn == nil {
		return models.Tag{ID: tagID, UserID: userID}, nil
	}
	return s.getFn(ctx, tagID, userID)
}

func (s stubTagStore) Update(ctx context.Context, tag models.Tag) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, tag)
}

func (s stubTagStore) Delete(ctx context.Context, tagID, userID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tagID, userID)
}

type stubBudgetStore struct {
	listFn   func(ctx context.Context, userID, month string) ([]store.BudgetRow, error)
	upsertFn func(ctx context.Context, budget models.Budget) (models.Budget, error)
	deleteFn func(ctx context.Context, budgetID, userID string) (int64, error)
}

func (s stubBudgetStore) ListByUser(ctx context.Context, userID, month string) ([]store.BudgetRow, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, userID, month)
}

func (s stubBudgetStore) Upsert(ctx context.Context, budget models.Budget) (models.Budget, error) {
	if s.upsertFn == nil {
		return budget, nil
	}
	return s.upsertFn(ctx, budget)
}

func (s stubBudgetStore) Delete(ctx context.Context, budgetID, userID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, budgetID, userID)
}

type stubGoalStore struct {
	listFn   func(ctx context.Context, userID string) ([]store.GoalRow, error)
	getFn    func(ctx context.Context, goalID, userID string) (store.GoalRow, error)
	createFn func(ctx context.Context, goal models.Goal) error
	updateFn func(ctx context.Context, goal models.Goal) (int64, error)
	deleteFn func(ctx context.Context, goalID, userID string) (int64, error)
}

func (s stubGoalStore) ListByUser(ctx context.Context, userID string) ([]store.GoalRow, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, userID)
}

func (s stubGoalStore) GetByIDForUser(ctx context.Context, goalID, userID string) (store.GoalRow, error) {
	if s.getFn == nil {
		return store.GoalRow{Goal: models.Goal{ID: goalID, UserID: userID}}, nil
	}
	return s.getFn(ctx, goalID, userID)
}

func (s stubGoalStore) Create(ctx context.Context, goal models.Goal) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, goal)
}

func (s stubGoalStore) Update(ctx context.Context, goal models.Goal) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, goal)
}

func (s stubGoalStore) Delete(ctx context.Context, goalID, userID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, goalID, userID)
}

type stubLedgerService struct {
	createFn func(ctx context.Context, userID string, input services.TransactionInput) (models.Transaction, error)
	updateFn func(ctx context.Context, userID, transactionID string, update services.TransactionUpdate) (models.Transaction, error)
	deleteFn func(ctx context.Context, userID, transactionID string) error
	getFn    func(ctx context.Context, userID, transactionID string) (models.Transaction, error)
	listFn   func(ctx context.Context, userID string, filters services.ListFilters) ([]models.Transaction, int, error)
}

func (s stubLedgerService) Create(ctx context.Context, userID string, input services.TransactionInput) (models.Transaction, error) {
	if s.createFn == nil {
		return models.Transaction{}, nil
	}
	return s.createFn(ctx, userID, input)
}

func (s stubLedgerService) Update(ctx context.Context, userID, transactionID string, update services.TransactionUpdate) (models.Transaction, error) {
	if s.updateFn == nil {
		return models.Transaction{}, nil
	}
	return s.updateFn(ctx, userID, transactionID, update)
}

func (s stubLedgerService) Delete(ctx context.Context, userID, transactionID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, userID, transactionID)
}

func (s stubLedgerService) Get(ctx context.Context, userID, transactionID string) (models.Transaction, error) {
	if s.getFn == nil {
		return models.Transaction{}, nil
	}
	return s.getFn(ctx, userID, transactionID)
}

func (s stubLedgerService) List(ctx context.Context, userID string, filters services.ListFilters) ([]models.Transaction, int, error) {
	if s.listFn == nil {
		return nil, 0, nil
	}
	return s.listFn(ctx, userID, filters)
}

type stubRecurringService struct {
	createFn  func(ctx context.Context, userID string, input services.RecurringInput) (models.RecurringPayment, error)
	listFn    func(ctx context.Context, userID string, active *bool) ([]models.RecurringPayment, error)
	getFn     func(ctx context.Context, userID, paymentID string) (models.RecurringPayment, error)
	updateFn  func(ctx context.Context, userID, paymentID string, update services.RecurringUpdate) (models.RecurringPayment, error)
	deleteFn  func(ctx context.Context, userID, paymentID string) error
	executeFn func(ctx context.Context, userID, paymentID string) (models.Transaction, models.RecurringPayment, error)
}

func (s stubRecurringService) Create(ctx context.Context, userID string, input services.RecurringInput) (models.RecurringPayment, error) {
	if s.createFn == nil {
		return models.RecurringPayment{}, nil
	}
	return s.createFn(ctx, userID, input)
}

func (s stubRecurringService) List(ctx context.Context, userID string, active *bool) ([]models.RecurringPayment, error) {
	if s.listFn == nil {
		return []models.RecurringPayment{}, nil
	}
	return s.listFn(ctx, userID, active)
}

func (s stubRecurringService) Get(ctx context.Context, userID, paymentID string) (models.RecurringPayment, error) {
	if s.getFn == nil {
		return models.RecurringPayment{}, nil
	}
	return s.getFn(ctx, userID, paymentID)
}

func (s stubRecurringService) Update(ctx context.Context, userID, paymentID string, update services.RecurringUpdate) (models.RecurringPayment, error) {
	if s.updateFn == nil {
		return models.RecurringPayment{}, nil
	}
	return s.updateFn(ctx, userID, paymentID, update)
}

func (s stubRecurringService) Delete(ctx context.Context, userID, paymentID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, userID, paymentID)
}

func (s stubRecurringService) Execute(ctx context.Context, userID, paymentID string) (models.Transaction, models.RecurringPayment, error) {
	if s.executeFn == nil {
		return models.Transaction{}, models.RecurringPayment{}, nil
	}
	return s.executeFn(ctx, userID, paymentID)
}

type stubAnalyticsService struct {
	summaryFn  func(ctx context.Context, userID string, from, to *time.Time, txType string) (services.Summary, error)
	trendsFn   func(ctx context.Context, userID string, months int) ([]services.TrendPoint, error)
	historyFn  func(ctx context.Context, userID, accountID string, from, to *time.Time) ([]store.SnapshotRow, error)
	snapshotFn func(ctx context.Context, userID string, date *time.Time) ([]models.BalanceSnapshot, error)
}

func (s stubAnalyticsService) Summary(ctx context.Context, userID string, from, to *time.Time, txType string) (services.Summary, error) {
	if s.summaryFn == nil {
		return services.Summary{}, nil
	}
	return s.summaryFn(ctx, userID, from, to, txType)
}

func (s stubAnalyticsService) Trends(ctx context.Context, userID string, months int) ([]services.TrendPoint, error) {
	if s.trendsFn == nil {
		return nil, nil
	}
	return s.trendsFn(ctx, userID, months)
}

func (s stubAnalyticsService) BalanceHistory(ctx context.Context, userID, accountID string, from, to *time.Time) ([]store.SnapshotRow, error) {
	if s.historyFn == nil {
		return nil, nil
	}
	return s.historyFn(ctx, userID, accountID, from, to)
}

func (s stubAnalyticsService) Snapshot(ctx context.Context, userID string, date *time.Time) ([]models.BalanceSnapshot, error) {
	if s.snapshotFn == nil {
		return nil, nil
	}
	return s.snapshotFn(ctx, userID, date)
}

type testDeps struct {
	txRunner  fakeTxRunner
	users     stubUserStore
	accounts  stubAccountStore
	tags      stubTagStore
	budgets   stubBudgetStore
	goals     stubGoalStore
	ledger    stubLedgerService
	recurring stubRecurringService
	analytics stubAnalyticsService
}

func newTestHandler(deps testDeps) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		Port:           "0",
		JWTSecret:      "secret",
		TokenTTL:       time.Minute,
		AllowedOrigins: "*",
	}
	return New(deps.txRunner, cfg, deps.users, deps.accounts, deps.tags, deps.budgets, deps.goals, deps.ledger, deps.recurring, deps.analytics, websocket.NewHub())
}

func doRequest(t *testing.T, h *Handler, method, path string, body io.Reader, userID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if userID != "" {
		token, err := auth.GenerateToken("secret", userID, time.Minute)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)
	return rr
}

func stringPtr(value string) *string {
	return &value
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}
