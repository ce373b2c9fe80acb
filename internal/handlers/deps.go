package handlers

import (
	"context"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, email, passwordHash, displayCurrency string) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
}

type AccountStore interface {
	Create(ctx context.Context, tx store.Execer, account models.Account) error
	ListByUser(ctx context.Context, userID string) ([]models.Account, error)
	GetByIDForUser(ctx context.Context, accountID, userID string) (models.Account, error)
	Update(ctx context.Context, account models.Account) error
	Delete(ctx context.Context, accountID, userID string) (int64, error)
}

type TagStore interface {
	Create(ctx context.Context, tag models.Tag) error
	ListByUser(ctx context.Context, userID string) ([]models.Tag, error)
	GetByIDForUser(ctx context.Context, tagID, userID string) (models.Tag, error)
	Update(ctx context.Context, tag models.Tag) (int64, error)
	Delete(ctx context.Context, tagID, userID string) (int64, error)
}

type BudgetStore interface {
	ListByUser(ctx context.Context, userID, month string) ([]store.BudgetRow, error)
	Upsert(ctx context.Context, budget models.Budget) (models.Budget, error)
	Delete(ctx context.Context, budgetID, userID string) (int64, error)
}

type GoalStore interface {
	ListByUser(ctx context.Context, userID string) ([]store.GoalRow, error)
	GetByIDForUser(ctx context.Context, goalID, userID string) (store.GoalRow, error)
	Create(ctx context.Context, goal models.Goal) error
	Update(ctx context.Context, goal models.Goal) (int64, error)
	Delete(ctx context.Context, goalID, userID string) (int64, error)
}

type LedgerService interface {
	Create(ctx context.Context, userID string, input services.TransactionInput) (models.Transaction, error)
	Update(ctx context.Context, userID, transactionID string, update services.TransactionUpdate) (models.Transaction, error)
	Delete(ctx context.Context, userID, transactionID string) error
	Get(ctx context.Context, userID, transactionID string) (models.Transaction, error)
	List(ctx context.Context, userID string, filters services.ListFilters) ([]models.Transaction, int, error)
}

type RecurringService interface {
	Create(ctx context.Context, userID string, input services.RecurringInput) (models.RecurringPayment, error)
	List(ctx context.Context, userID string, active *bool) ([]models.RecurringPayment, error)
	Get(ctx context.Context, userID, paymentID string) (models.RecurringPayment, error)
	Update(ctx context.Context, userID, paymentID string, update services.RecurringUpdate) (models.RecurringPayment, error)
	Delete(ctx context.Context, userID, paymentID string) error
	Execute(ctx context.Context, userID, paymentID string) (models.Transaction, models.RecurringPayment, error)
}

type AnalyticsService interface {
	Summary(ctx context.Context, userID string, from, to *time.Time, txType string) (services.Summary, error)
	Trends(ctx context.Context, userID string, months int) ([]services.TrendPoint, error)
	BalanceHistory(ctx context.Context, userID, accountID string, from, to *time.Time) ([]store.SnapshotRow, error)
	Snapshot(ctx context.Context, userID string, date *time.Time) ([]models.BalanceSnapshot, error)
}
