package advisor

import (
	"math"
	"time"
)

// Period tokens accepted by the insights endpoint. Anything else falls
// back to an unbounded window.
const (
	PeriodLast30Days = "last_30d"
	PeriodLast90Days = "last_90d"
	PeriodYearToDate = "ytd"
)

// fallbackDays normalizes per-day metrics when the window has no lower
// bound. It is used for division only, never for filtering.
const fallbackDays = 90

// Window is the resolved date range for flow metrics. A nil From means
// every transaction passes the filter.
type Window struct {
	From *time.Time
	To   time.Time
	Days int
}

// Contains reports whether ts falls inside the window, bounds inclusive.
func (w Window) Contains(ts time.Time) bool {
	if w.From != nil && ts.Before(*w.From) {
		return false
	}
	return !ts.After(w.To)
}

// ResolvePeriod maps a period token to a concrete date window ending at
// now. Pure function of the token and the clock.
func ResolvePeriod(token string, now time.Time) Window {
	switch token {
	case PeriodLast30Days:
		from := now.AddDate(0, 0, -30)
		return Window{From: &from, To: now, Days: 30}
	case PeriodLast90Days:
		from := now.AddDate(0, 0, -90)
		return Window{From: &from, To: now, Days: 90}
	case PeriodYearToDate:
		from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		days := int(math.Ceil(now.Sub(from).Hours() / 24))
		if days < 1 {
			days = 1
		}
		return Window{From: &from, To: now, Days: days}
	default:
		return Window{To: now, Days: fallbackDays}
	}
}
