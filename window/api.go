// Package window computes the UTC reporting period applied to every trend
// query of a run.
package window

import (
	"time"
)

// Mode selects how the reporting period is computed.
type Mode int

const (
	// Last30Days covers the 30 days ending now.
	Last30Days Mode = iota
	// PreviousMonth covers the previous full calendar month.
	PreviousMonth
)

var (
	kModesByName = map[string]Mode{
		"last30Days":    Last30Days,
		"previousMonth": PreviousMonth,
	}
)

// ByName returns the mode with given name or Last30Days, false if no mode
// matches given name.
func ByName(name string) (Mode, bool) {
	result, ok := kModesByName[name]
	return result, ok
}

func (m Mode) String() string {
	switch m {
	case Last30Days:
		return "last30Days"
	case PreviousMonth:
		return "previousMonth"
	default:
		return ""
	}
}

// Window represents a reporting period in UTC. From always comes before Till.
// Window instances are immutable.
type Window struct {
	From time.Time
	Till time.Time
}

// Compute returns the reporting period for mode relative to now.
// In PreviousMonth mode, Till is the last second of the month.
func Compute(now time.Time, mode Mode) Window {
	return compute(now, mode)
}

// FromUnix returns From in seconds since Jan 1, 1970.
func (w Window) FromUnix() int64 {
	return w.From.Unix()
}

// TillUnix returns Till in seconds since Jan 1, 1970.
func (w Window) TillUnix() int64 {
	return w.Till.Unix()
}

// String returns the period banner printed at the top of each report.
func (w Window) String() string {
	return w.string()
}
