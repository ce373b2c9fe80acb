package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
)

func TestAdvance(t *testing.T) {
	cases := []struct {
		name      string
		date      string
		frequency string
		want      string
	}{
		{"daily", "2024-03-01", models.FrequencyDaily, "2024-03-02"},
		{"daily across month end", "2024-02-29", models.FrequencyDaily, "2024-03-01"},
		{"weekly", "2024-03-01", models.FrequencyWeekly, "2024-03-08"},
		{"weekly across month end", "2024-03-28", models.FrequencyWeekly, "2024-04-04"},
		{"monthly plain", "2024-04-15", models.FrequencyMonthly, "2024-05-15"},
		{"monthly clamps to leap february", "2024-01-31", models.FrequencyMonthly, "2024-02-29"},
		{"monthly clamps to short february", "2023-01-31", models.FrequencyMonthly, "2023-02-28"},
		{"monthly clamps 31st to 30-day month", "2024-03-31", models.FrequencyMonthly, "2024-04-30"},
		{"monthly across year end", "2024-12-15", models.FrequencyMonthly, "2025-01-15"},
		{"yearly plain", "2023-06-10", models.FrequencyYearly, "2024-06-10"},
		{"yearly from leap day", "2024-02-29", models.FrequencyYearly, "2025-02-28"},
		{"yearly keeps feb 28", "2023-02-28", models.FrequencyYearly, "2024-02-28"},
		{"unknown falls back to monthly", "2024-01-31", "fortnightly", "2024-02-29"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Advance(day(tc.date), tc.frequency)
			if !got.Equal(day(tc.want)) {
				t.Fatalf("Advance(%s, %s) = %s, want %s",
					tc.date, tc.frequency, got.Format("2006-01-02"), tc.want)
			}
		})
	}
}

func TestAdvancePreservesClock(t *testing.T) {
	date := time.Date(2024, 1, 31, 9, 30, 0, 0, time.UTC)
	got := Advance(date, models.FrequencyMonthly)
	want := time.Date(2024, 2, 29, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %s, want %s", got, want)
	}
}
