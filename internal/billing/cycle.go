// Package billing implements subscription billing-cycle date math and the
// billing status state machine. Like the ledger engine it is pure: status
// is evaluated from the active flag and dates at query time, with no
// persisted transition history.
package billing

import (
	"errors"
	"fmt"
	"time"
)

// Unit is a billing cycle's recurrence unit.
type Unit string

const (
	Weekly     Unit = "weekly"
	Monthly    Unit = "monthly"
	Yearly     Unit = "yearly"
	CustomDays Unit = "custom"
)

var (
	ErrInvalidCustomDays = errors.New("custom cycle length must be at least one day")
	ErrUnknownUnit       = errors.New("unknown billing cycle unit")
)

// Cycle is a validated billing interval. Construct via NewCycle; the zero
// value is not usable.
type Cycle struct {
	unit Unit
	days int
}

// NewCycle validates and builds a billing cycle. days is only meaningful
// for CustomDays and must be positive there; a zero or negative length
// would make repeated advancement loop forever, so it is rejected here
// rather than tolerated downstream.
func NewCycle(unit Unit, days int) (Cycle, error) {
	switch unit {
	case Weekly, Monthly, Yearly:
		return Cycle{unit: unit}, nil
	case CustomDays:
		if days < 1 {
			return Cycle{}, fmt.Errorf("%w: got %d", ErrInvalidCustomDays, days)
		}
		return Cycle{unit: unit, days: days}, nil
	default:
		return Cycle{}, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
}

// Unit returns the cycle's recurrence unit.
func (c Cycle) Unit() Unit { return c.unit }

// Days returns the custom interval length, zero for calendar units.
func (c Cycle) Days() int { return c.days }

// Next advances a billing date by exactly one cycle. Month and year
// advancement is calendar-aware: the day of month is clamped to the last
// day of shorter target months (Jan 31 + 1 month = Feb 28/29) instead of
// letting normalization spill into the following month. Weekly and custom
// cycles are plain day arithmetic.
func (c Cycle) Next(from time.Time) time.Time {
	switch c.unit {
	case Weekly:
		return from.AddDate(0, 0, 7)
	case Monthly:
		return addMonthsClamped(from, 1)
	case Yearly:
		return addMonthsClamped(from, 12)
	case CustomDays:
		return from.AddDate(0, 0, c.days)
	}
	return from
}

// AdvanceUntilAfter advances start one cycle at a time until the result
// is strictly after now. A start already in the future is advanced zero
// times. Termination is guaranteed because NewCycle rejects non-positive
// custom lengths.
func (c Cycle) AdvanceUntilAfter(start, now time.Time) time.Time {
	next := start
	for !next.After(now) {
		next = c.Next(next)
	}
	return next
}

// addMonthsClamped adds calendar months, clamping the day of month to the
// target month's length.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	// Normalize to the first of the target month, then clamp the day.
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
