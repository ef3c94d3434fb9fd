package models

// Settlement records that one person paid another to reduce an
// outstanding net balance. It is independent of any single expense and
// reduces the system-wide balance between the two people.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// FromPersonID is who paid (debtor settling up).
	FromPersonID string

	// ToPersonID is who received payment (creditor being paid).
	ToPersonID string

	// Amount is the payment amount. The service layer caps it at the
	// outstanding balance at save time.
	Amount float64

	// Date is the Unix timestamp of the payment.
	Date int64

	// Note is an optional description.
	Note string

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64
}
