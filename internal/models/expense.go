package models

import "github.com/swisscoin/swisscoin/internal/ledger"

// Expense is a single shared expense event.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Description is the human-readable label (e.g. "Dinner", "Ski trip gas").
	Description string

	// Amount is the total expense amount.
	Amount float64

	// Date is the Unix timestamp of when the expense occurred.
	Date int64

	// Method records how the splits were computed at creation time.
	// Splits hold the frozen result; the method is display metadata.
	Method ledger.SplitMethod

	// PayerID is the legacy single-payer field, set when the expense has
	// exactly one payer recorded the old way. Empty when Payers is used.
	PayerID string

	// Payers is the multi-payer contribution set. Contributions must sum
	// to Amount within the ledger epsilon.
	Payers []ExpensePayer

	// Splits is the frozen per-participant share set. Owned by the
	// expense and deleted with it.
	Splits []ExpenseSplit

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// ExpenseSplit is one participant's owed share of an expense.
type ExpenseSplit struct {
	ID        string
	ExpenseID string

	// PersonID is the owing person. May reference a since-deleted
	// person, in which case balance computations count it as zero.
	PersonID string

	// Amount is the frozen owed amount.
	Amount float64
}

// ExpensePayer is one contributor's paid amount for a multi-payer expense.
type ExpensePayer struct {
	ID        string
	ExpenseID string
	PersonID  string
	Amount    float64
}
