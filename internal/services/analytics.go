package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/store"
)

// AnalyticsService derives read-only aggregates from the ledger: period
// summaries, monthly trends, and balance history backed by daily snapshots.
type AnalyticsService struct {
	accounts     AccountStore
	transactions TransactionStore
	tags         TagStore
	snapshots    SnapshotStore
	now          func() time.Time
}

type SnapshotStore interface {
	Upsert(ctx context.Context, id, accountID string, date time.Time, balance decimal.Decimal) (models.BalanceSnapshot, error)
	ListForUser(ctx context.Context, userID, accountID string, from, to *time.Time) ([]store.SnapshotRow, error)
}

func NewAnalyticsService(accounts AccountStore, transactions TransactionStore, tags TagStore, snapshots SnapshotStore) *AnalyticsService {
	return &AnalyticsService{
		accounts:     accounts,
		transactions: transactions,
		tags:         tags,
		snapshots:    snapshots,
		now:          time.Now,
	}
}

type TagBreakdown struct {
	Tag     models.Tag      `json:"tag"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

type Summary struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpense     decimal.Decimal `json:"total_expense"`
	TotalTransfer    decimal.Decimal `json:"total_transfer"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transaction_count"`
	ByTag            []TagBreakdown  `json:"by_tag"`
}

// Summary totals the user's transactions in the window per type and breaks
// income and expense down per tag. Balance is income minus expense over the
// window. Transfers move money between the user's own accounts, so they count
// toward TotalTransfer but never into the tag breakdown or Balance. An empty
// txType matches all types.
func (s *AnalyticsService) Summary(ctx context.Context, userID string, from, to *time.Time, txType string) (Summary, error) {
	rows, err := s.transactions.List(ctx, store.TransactionFilter{
		UserID: userID,
		From:   from,
		To:     to,
		Type:   txType,
	})
	if err != nil {
		return Summary{}, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	byTx, err := s.tags.ForTransactions(ctx, ids)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		TransactionCount: len(rows),
		ByTag:            []TagBreakdown{},
	}
	perTag := make(map[string]*TagBreakdown)
	for _, row := range rows {
		switch row.Type {
		case models.TransactionIncome:
			summary.TotalIncome = summary.TotalIncome.Add(row.Amount)
		case models.TransactionExpense:
			summary.TotalExpense = summary.TotalExpense.Add(row.Amount)
		case models.TransactionTransfer:
			summary.TotalTransfer = summary.TotalTransfer.Add(row.Amount)
			continue
		}
		for _, tag := range byTx[row.ID] {
			entry, ok := perTag[tag.ID]
			if !ok {
				entry = &TagBreakdown{Tag: tag}
				perTag[tag.ID] = entry
			}
			if row.Type == models.TransactionIncome {
				entry.Income = entry.Income.Add(row.Amount)
			} else {
				entry.Expense = entry.Expense.Add(row.Amount)
			}
		}
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)

	for _, entry := range perTag {
		summary.ByTag = append(summary.ByTag, *entry)
	}
	sort.Slice(summary.ByTag, func(i, j int) bool {
		if !summary.ByTag[i].Expense.Equal(summary.ByTag[j].Expense) {
			return summary.ByTag[i].Expense.GreaterThan(summary.ByTag[j].Expense)
		}
		return summary.ByTag[i].Tag.Name < summary.ByTag[j].Tag.Name
	})
	return summary, nil
}

type TrendPoint struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// Trends buckets income and expense by calendar month, starting from today
// minus the requested number of months. Each bucket carries its own
// income-minus-expense balance. Months without transactions produce no point.
func (s *AnalyticsService) Trends(ctx context.Context, userID string, months int) ([]TrendPoint, error) {
	if months <= 0 {
		months = 12
	}
	from := truncateToDay(s.now().AddDate(0, -months, 0))
	rows, err := s.transactions.List(ctx, store.TransactionFilter{
		UserID: userID,
		From:   &from,
	})
	if err != nil {
		return nil, err
	}
	buckets := make(map[string]*TrendPoint)
	for _, row := range rows {
		if row.Type == models.TransactionTransfer {
			continue
		}
		month := row.Date.Format("2006-01")
		point, ok := buckets[month]
		if !ok {
			point = &TrendPoint{Month: month}
			buckets[month] = point
		}
		if row.Type == models.TransactionIncome {
			point.Income = point.Income.Add(row.Amount)
		} else {
			point.Expense = point.Expense.Add(row.Amount)
		}
	}
	trends := make([]TrendPoint, 0, len(buckets))
	for _, point := range buckets {
		point.Balance = point.Income.Sub(point.Expense)
		trends = append(trends, *point)
	}
	sort.Slice(trends, func(i, j int) bool { return trends[i].Month < trends[j].Month })
	return trends, nil
}

func (s *AnalyticsService) BalanceHistory(ctx context.Context, userID, accountID string, from, to *time.Time) ([]store.SnapshotRow, error) {
	rows, err := s.snapshots.ListForUser(ctx, userID, accountID, from, to)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []store.SnapshotRow{}
	}
	return rows, nil
}

// Snapshot records the current balance of each of the user's accounts under
// the given date, defaulting to today when the caller supplies none. Running
// it twice for the same date overwrites rather than duplicates, so scheduled
// and backfilled invocations are safe to repeat.
func (s *AnalyticsService) Snapshot(ctx context.Context, userID string, date *time.Time) ([]models.BalanceSnapshot, error) {
	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	asOf := truncateToDay(s.now())
	if date != nil {
		asOf = truncateToDay(*date)
	}
	snapshots := make([]models.BalanceSnapshot, 0, len(accounts))
	for _, account := range accounts {
		snapshot, err := s.snapshots.Upsert(ctx, uuid.NewString(), account.ID, asOf, account.Balance)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}
