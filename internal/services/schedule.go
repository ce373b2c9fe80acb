package services

import (
	"time"

	"fintrack/internal/models"
)

// Advance returns the next occurrence after date for the given frequency.
// Month and year steps clamp to the last valid day of the target month
// instead of rolling over (Jan 31 + 1 month = Feb 29 in a leap year, Feb 28
// otherwise). Unknown frequencies fall back to monthly.
func Advance(date time.Time, frequency string) time.Time {
	switch frequency {
	case models.FrequencyDaily:
		return date.AddDate(0, 0, 1)
	case models.FrequencyWeekly:
		return date.AddDate(0, 0, 7)
	case models.FrequencyYearly:
		return clampedAdd(date, 1, 0)
	case models.FrequencyMonthly:
		return clampedAdd(date, 0, 1)
	default:
		return clampedAdd(date, 0, 1)
	}
}

func clampedAdd(date time.Time, years, months int) time.Time {
	year := date.Year() + years
	month := int(date.Month()) + months
	for month > 12 {
		month -= 12
		year++
	}
	day := date.Day()
	if last := daysIn(year, time.Month(month)); day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day,
		date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
}

// daysIn relies on time.Date normalizing day 0 of the following month to the
// last day of this one.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
