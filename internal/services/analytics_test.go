package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/store"
)

func fixedClock(value string) func() time.Time {
	return func() time.Time { return day(value) }
}

func TestSummaryTotalsAndTagBreakdown(t *testing.T) {
	foodTag := models.Tag{ID: "tag-food", Name: "food"}
	rentTag := models.Tag{ID: "tag-rent", Name: "rent"}
	transactions := stubTransactionStore{
		listFn: func(ctx context.Context, filter store.TransactionFilter) ([]models.Transaction, error) {
			return []models.Transaction{
				{ID: "t1", Type: models.TransactionIncome, Amount: dec("2000")},
				{ID: "t2", Type: models.TransactionExpense, Amount: dec("65")},
				{ID: "t3", Type: models.TransactionExpense, Amount: dec("75")},
				{ID: "t4", Type: models.TransactionExpense, Amount: dec("900")},
				{ID: "t5", Type: models.TransactionTransfer, Amount: dec("500"), TargetAccountID: ptr("dst")},
			}, nil
		},
	}
	tags := stubTagStore{
		forTransactionsFn: func(ctx context.Context, transactionIDs []string) (map[string][]models.Tag, error) {
			return map[string][]models.Tag{
				"t2": {foodTag},
				"t3": {foodTag},
				"t4": {rentTag},
				"t5": {foodTag}, // must be ignored, transfers carry no spend
			}, nil
		},
	}
	svc := NewAnalyticsService(stubAccountStore{}, transactions, tags, stubSnapshotStore{})

	summary, err := svc.Summary(context.Background(), "user-1", nil, nil, "")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !summary.TotalIncome.Equal(dec("2000")) {
		t.Fatalf("income: %s", summary.TotalIncome)
	}
	if !summary.TotalExpense.Equal(dec("1040")) {
		t.Fatalf("expense: %s", summary.TotalExpense)
	}
	if !summary.TotalTransfer.Equal(dec("500")) {
		t.Fatalf("transfer: %s", summary.TotalTransfer)
	}
	if !summary.Balance.Equal(dec("960")) {
		t.Fatalf("balance: %s", summary.Balance)
	}
	if summary.TransactionCount != 5 {
		t.Fatalf("count: %d", summary.TransactionCount)
	}
	if len(summary.ByTag) != 2 {
		t.Fatalf("expected two tag entries, got %+v", summary.ByTag)
	}
	// Sorted by expense, largest first.
	if summary.ByTag[0].Tag.ID != "tag-rent" || !summary.ByTag[0].Expense.Equal(dec("900")) {
		t.Fatalf("first entry: %+v", summary.ByTag[0])
	}
	if summary.ByTag[1].Tag.ID != "tag-food" || !summary.ByTag[1].Expense.Equal(dec("140")) {
		t.Fatalf("second entry: %+v", summary.ByTag[1])
	}
}

func TestSummaryBalanceIgnoresAccountBalances(t *testing.T) {
	transactions := stubTransactionStore{
		listFn: func(ctx context.Context, filter store.TransactionFilter) ([]models.Transaction, error) {
			return []models.Transaction{
				{ID: "t1", Type: models.TransactionIncome, Amount: dec("100")},
				{ID: "t2", Type: models.TransactionExpense, Amount: dec("30")},
			}, nil
		},
	}
	accounts := stubAccountStore{
		listByUserFn: func(ctx context.Context, userID string) ([]models.Account, error) {
			t.Fatal("summary must not consult account balances")
			return nil, nil
		},
	}
	svc := NewAnalyticsService(accounts, transactions, stubTagStore{}, stubSnapshotStore{})

	summary, err := svc.Summary(context.Background(), "user-1", nil, nil, "")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	// Balance is income minus expense over the window, not account state.
	if !summary.Balance.Equal(dec("70")) {
		t.Fatalf("balance: %s", summary.Balance)
	}
}

func TestSummaryForwardsTypeFilter(t *testing.T) {
	var captured store.TransactionFilter
	transactions := stubTransactionStore{
		listFn: func(ctx context.Context, filter store.TransactionFilter) ([]models.Transaction, error) {
			captured = filter
			return []models.Transaction{
				{ID: "t1", Type: models.TransactionExpense, Amount: dec("30")},
			}, nil
		},
	}
	svc := NewAnalyticsService(stubAccountStore{}, transactions, stubTagStore{}, stubSnapshotStore{})

	summary, err := svc.Summary(context.Background(), "user-1", nil, nil, models.TransactionExpense)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if captured.Type != models.TransactionExpense {
		t.Fatalf("type filter not forwarded: %+v", captured)
	}
	if !summary.TotalExpense.Equal(dec("30")) || !summary.Balance.Equal(dec("-30")) {
		t.Fatalf("summary: %+v", summary)
	}
}

func TestSummaryEmptyWindow(t *testing.T) {
	svc := NewAnalyticsService(stubAccountStore{}, stubTransactionStore{}, stubTagStore{}, stubSnapshotStore{})
	summary, err := svc.Summary(context.Background(), "user-1", nil, nil, "")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TransactionCount != 0 || len(summary.ByTag) != 0 {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
	if !summary.Balance.IsZero() {
		t.Fatalf("balance should be zero, got %s", summary.Balance)
	}
}

func TestTrendsBucketsByMonthSparse(t *testing.T) {
	var window store.TransactionFilter
	transactions := stubTransactionStore{
		listFn: func(ctx context.Context, filter store.TransactionFilter) ([]models.Transaction, error) {
			window = filter
			return []models.Transaction{
				{ID: "t1", Type: models.TransactionIncome, Amount: dec("100"), Date: day("2024-04-10")},
				{ID: "t2", Type: models.TransactionExpense, Amount: dec("40"), Date: day("2024-04-20")},
				{ID: "t3", Type: models.TransactionExpense, Amount: dec("10"), Date: day("2024-06-01")},
				{ID: "t4", Type: models.TransactionTransfer, Amount: dec("999"), Date: day("2024-06-02")},
			}, nil
		},
	}
	svc := NewAnalyticsService(stubAccountStore{}, transactions, stubTagStore{}, stubSnapshotStore{})
	svc.now = fixedClock("2024-06-15")

	trends, err := svc.Trends(context.Background(), "user-1", 6)
	if err != nil {
		t.Fatalf("trends: %v", err)
	}
	// The window starts six calendar months back from today.
	if window.From == nil || !window.From.Equal(day("2023-12-15")) {
		t.Fatalf("expected window start 2023-12-15, got %v", window.From)
	}
	// May has no activity and produces no bucket.
	if len(trends) != 2 {
		t.Fatalf("expected 2 buckets, got %+v", trends)
	}
	if trends[0].Month != "2024-04" || !trends[0].Income.Equal(dec("100")) || !trends[0].Expense.Equal(dec("40")) {
		t.Fatalf("april bucket: %+v", trends[0])
	}
	if !trends[0].Balance.Equal(dec("60")) {
		t.Fatalf("april balance: %s", trends[0].Balance)
	}
	if trends[1].Month != "2024-06" || !trends[1].Expense.Equal(dec("10")) {
		t.Fatalf("june bucket: %+v", trends[1])
	}
	if !trends[1].Balance.Equal(dec("-10")) {
		t.Fatalf("june balance: %s", trends[1].Balance)
	}
}

func TestTrendsDefaultsToTwelveMonths(t *testing.T) {
	var window store.TransactionFilter
	transactions := stubTransactionStore{
		listFn: func(ctx context.Context, filter store.TransactionFilter) ([]models.Transaction, error) {
			window = filter
			return nil, nil
		},
	}
	svc := NewAnalyticsService(stubAccountStore{}, transactions, stubTagStore{}, stubSnapshotStore{})
	svc.now = fixedClock("2024-06-15")

	if _, err := svc.Trends(context.Background(), "user-1", 0); err != nil {
		t.Fatalf("trends: %v", err)
	}
	if window.From == nil || !window.From.Equal(day("2023-06-15")) {
		t.Fatalf("expected window start 2023-06-15, got %v", window.From)
	}
}

func TestSnapshotCoversAllAccounts(t *testing.T) {
	accounts := stubAccountStore{
		listByUserFn: func(ctx context.Context, userID string) ([]models.Account, error) {
			return []models.Account{
				{ID: "a1", Balance: dec("10")},
				{ID: "a2", Balance: dec("20.5")},
			}, nil
		},
	}
	type upsertCall struct {
		accountID string
		date      time.Time
		balance   decimal.Decimal
	}
	var calls []upsertCall
	snapshots := stubSnapshotStore{
		upsertFn: func(ctx context.Context, id, accountID string, date time.Time, balance decimal.Decimal) (models.BalanceSnapshot, error) {
			calls = append(calls, upsertCall{accountID, date, balance})
			return models.BalanceSnapshot{ID: id, AccountID: accountID, Date: date, Balance: balance}, nil
		},
	}
	svc := NewAnalyticsService(accounts, stubTransactionStore{}, stubTagStore{}, snapshots)
	svc.now = fixedClock("2024-06-15")

	result, err := svc.Snapshot(context.Background(), "user-1", nil)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(result) != 2 || len(calls) != 2 {
		t.Fatalf("expected a snapshot per account, got %d/%d", len(result), len(calls))
	}
	for _, call := range calls {
		if !call.date.Equal(day("2024-06-15")) {
			t.Fatalf("snapshot dated today, got %s", call.date)
		}
	}
	if !calls[1].balance.Equal(dec("20.5")) {
		t.Fatalf("balance copied from account, got %s", calls[1].balance)
	}
}

func TestSnapshotHonoursSuppliedDate(t *testing.T) {
	accounts := stubAccountStore{
		listByUserFn: func(ctx context.Context, userID string) ([]models.Account, error) {
			return []models.Account{{ID: "a1", Balance: dec("10")}}, nil
		},
	}
	var gotDate time.Time
	snapshots := stubSnapshotStore{
		upsertFn: func(ctx context.Context, id, accountID string, date time.Time, balance decimal.Decimal) (models.BalanceSnapshot, error) {
			gotDate = date
			return models.BalanceSnapshot{ID: id, AccountID: accountID, Date: date, Balance: balance}, nil
		},
	}
	svc := NewAnalyticsService(accounts, stubTransactionStore{}, stubTagStore{}, snapshots)
	svc.now = fixedClock("2024-06-15")

	backfill := day("2024-06-01")
	if _, err := svc.Snapshot(context.Background(), "user-1", &backfill); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !gotDate.Equal(backfill) {
		t.Fatalf("expected snapshot dated 2024-06-01, got %s", gotDate)
	}
}

func TestBalanceHistoryPassesFilters(t *testing.T) {
	var gotUser, gotAccount string
	snapshots := stubSnapshotStore{
		listFn: func(ctx context.Context, userID, accountID string, from, to *time.Time) ([]store.SnapshotRow, error) {
			gotUser, gotAccount = userID, accountID
			return nil, nil
		},
	}
	svc := NewAnalyticsService(stubAccountStore{}, stubTransactionStore{}, stubTagStore{}, snapshots)

	rows, err := svc.BalanceHistory(context.Background(), "user-1", "a1", nil, nil)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if gotUser != "user-1" || gotAccount != "a1" {
		t.Fatalf("filters not passed through: %s/%s", gotUser, gotAccount)
	}
	if rows == nil {
		t.Fatalf("empty history must be a non-nil slice")
	}
}
