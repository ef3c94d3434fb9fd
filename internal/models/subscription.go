package models

import "github.com/swisscoin/swisscoin/internal/billing"

// Subscription is a recurring bill, optionally shared among a set of
// people who each owe an equal share of every billing period.
type Subscription struct {
	// ID is the unique identifier for the subscription (UUID format).
	ID string

	// Name is the display name (e.g. "Netflix", "Gym").
	Name string

	// Amount is the per-period bill amount.
	Amount float64

	// CycleUnit and CycleDays describe the billing interval. CycleDays
	// is only meaningful for the custom unit.
	CycleUnit billing.Unit
	CycleDays int

	// NextBillingDate is the Unix timestamp of the next expected bill.
	NextBillingDate int64

	// IsActive is false while the subscription is paused.
	IsActive bool

	// Archived hides the subscription from active views without
	// destroying its payment history.
	Archived bool

	// MemberIDs is the set of people sharing the bill. Empty means the
	// owner pays alone and there is no shared balance to track.
	MemberIDs []string

	// CreatedAt is the Unix timestamp when the subscription was created.
	CreatedAt int64
}

// Cycle builds the validated billing cycle for this subscription.
func (s *Subscription) Cycle() (billing.Cycle, error) {
	return billing.NewCycle(s.CycleUnit, s.CycleDays)
}

// SubscriptionPayment records that a subscription's bill was paid by one
// person for a specific billing period. Owned by the subscription.
type SubscriptionPayment struct {
	ID             string
	SubscriptionID string

	// PaidByID is who fronted the bill for this period.
	PaidByID string

	// Amount is what was paid, normally the subscription amount.
	Amount float64

	// PeriodDate is the Unix timestamp of the billing period covered.
	PeriodDate int64

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64
}

// SubscriptionSettlement is like Settlement but scoped to one
// subscription's shared balance. Owned by the subscription.
type SubscriptionSettlement struct {
	ID             string
	SubscriptionID string
	FromPersonID   string
	ToPersonID     string
	Amount         float64
	Note           string

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64
}
