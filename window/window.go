package window

import (
	"fmt"
	"time"
)

const (
	kRollingDays = 30
	kLayout      = "2006-01-02 15:04:05"
)

func compute(now time.Time, mode Mode) Window {
	now = now.UTC()
	if mode == PreviousMonth {
		return previousMonth(now)
	}
	return Window{
		From: now.AddDate(0, 0, -kRollingDays),
		Till: now,
	}
}

func previousMonth(now time.Time) Window {
	year, month := now.Year(), now.Month()-1
	if month < time.January {
		month = time.December
		year--
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	till := time.Date(
		year, month, daysIn(year, month), 23, 59, 59, 0, time.UTC)
	return Window{From: from, Till: till}
}

// day 0 of the following month is the last day of month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (w Window) string() string {
	return fmt.Sprintf(
		"Period: %s UTC to %s UTC",
		w.From.UTC().Format(kLayout),
		w.Till.UTC().Format(kLayout))
}
