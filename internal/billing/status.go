package billing

import "time"

// Status is a subscription's billing state, derived purely from the
// active flag and the next billing date at evaluation time.
type Status string

const (
	StatusPaused   Status = "paused"
	StatusOverdue  Status = "overdue"
	StatusDue      Status = "due"
	StatusUpcoming Status = "upcoming"
)

// DefaultDueWindow is how far ahead of the billing date a subscription is
// reported as due. Two days covers "same day or next day".
const DefaultDueWindow = 48 * time.Hour

// EvaluateStatus classifies a subscription:
//
//	paused   — not active, regardless of dates
//	overdue  — billing date already passed
//	due      — billing date within the due window
//	upcoming — everything else
//
// A non-positive dueWindow falls back to DefaultDueWindow.
func EvaluateStatus(isActive bool, nextBilling, now time.Time, dueWindow time.Duration) Status {
	if !isActive {
		return StatusPaused
	}
	if dueWindow <= 0 {
		dueWindow = DefaultDueWindow
	}
	switch {
	case nextBilling.Before(now):
		return StatusOverdue
	case !nextBilling.After(now.Add(dueWindow)):
		return StatusDue
	default:
		return StatusUpcoming
	}
}
