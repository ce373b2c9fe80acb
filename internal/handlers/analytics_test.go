package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/services"
)

func TestAnalyticsSummaryForwardsTypeFilter(t *testing.T) {
	var gotType string
	h := newTestHandler(testDeps{
		analytics: stubAnalyticsService{
			summaryFn: func(ctx context.Context, userID string, from, to *time.Time, txType string) (services.Summary, error) {
				gotType = txType
				return services.Summary{}, nil
			},
		},
	})
	rr := doRequest(t, h, http.MethodGet, "/analytics/summary?type=expense", nil, "user-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotType != "expense" {
		t.Fatalf("type filter not forwarded, got %q", gotType)
	}
}

func TestAnalyticsTrendsDefaultsToTwelveMonths(t *testing.T) {
	var gotMonths int
	h := newTestHandler(testDeps{
		analytics: stubAnalyticsService{
			trendsFn: func(ctx context.Context, userID string, months int) ([]services.TrendPoint, error) {
				gotMonths = months
				return nil, nil
			},
		},
	})
	rr := doRequest(t, h, http.MethodGet, "/analytics/trends", nil, "user-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotMonths != 12 {
		t.Fatalf("expected 12 months by default, got %d", gotMonths)
	}
}

func TestTakeSnapshotForwardsDate(t *testing.T) {
	var gotDate *time.Time
	h := newTestHandler(testDeps{
		analytics: stubAnalyticsService{
			snapshotFn: func(ctx context.Context, userID string, date *time.Time) ([]models.BalanceSnapshot, error) {
				gotDate = date
				return []models.BalanceSnapshot{}, nil
			},
		},
	})
	rr := doRequest(t, h, http.MethodPost, "/analytics/snapshot?date=2024-06-01", nil, "user-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotDate == nil || gotDate.Format("2006-01-02") != "2024-06-01" {
		t.Fatalf("expected snapshot date 2024-06-01, got %v", gotDate)
	}
}

func TestTakeSnapshotWithoutDate(t *testing.T) {
	var called bool
	var gotDate *time.Time
	h := newTestHandler(testDeps{
		analytics: stubAnalyticsService{
			snapshotFn: func(ctx context.Context, userID string, date *time.Time) ([]models.BalanceSnapshot, error) {
				called = true
				gotDate = date
				return []models.BalanceSnapshot{}, nil
			},
		},
	})
	rr := doRequest(t, h, http.MethodPost, "/analytics/snapshot", nil, "user-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !called || gotDate != nil {
		t.Fatalf("expected nil date when none supplied, called=%v date=%v", called, gotDate)
	}
}

func TestTakeSnapshotRejectsBadDate(t *testing.T) {
	h := newTestHandler(testDeps{})
	rr := doRequest(t, h, http.MethodPost, "/analytics/snapshot?date=June", nil, "user-1")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
