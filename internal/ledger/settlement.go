package ledger

import "errors"

var (
	ErrNothingOutstanding      = errors.New("no outstanding balance to settle")
	ErrInvalidSettlementAmount = errors.New("settlement amount must be positive")
)

// SettlementPlan is the capped, direction-resolved settlement to persist.
type SettlementPlan struct {
	FromPersonID string
	ToPersonID   string

	// Amount is the requested amount clamped to the outstanding
	// balance; it never exceeds what is actually owed.
	Amount float64

	// Outstanding is the absolute balance at plan time, for surfacing
	// a warning when the request was clamped.
	Outstanding float64
}

// PlanSettlement recomputes the live balance between the viewpoint person
// and the member from the given snapshot, then returns the settlement to
// record: the amount is capped at the outstanding balance, and the
// from/to direction follows the sign of the balance at plan time.
// Callers must pass the current snapshot here rather than reuse a balance
// computed earlier in the flow — the direction and cap depend on state at
// save time, not at render time.
func PlanSettlement(viewpoint, memberID string, requested float64, txs []Transaction, settlements []Settlement) (SettlementPlan, error) {
	if requested <= 0 {
		return SettlementPlan{}, ErrInvalidSettlementAmount
	}

	balance := BalanceWith(viewpoint, memberID, txs, settlements)
	outstanding := abs(balance)
	// A single outstanding cent is still settleable; only balances
	// strictly below Epsilon count as settled.
	if outstanding < Epsilon {
		return SettlementPlan{}, ErrNothingOutstanding
	}

	amount := requested
	if amount > outstanding {
		amount = outstanding
	}

	plan := SettlementPlan{Amount: amount, Outstanding: outstanding}
	if balance > 0 {
		// Member owes the viewpoint person; the member is settling up.
		plan.FromPersonID = memberID
		plan.ToPersonID = viewpoint
	} else {
		plan.FromPersonID = viewpoint
		plan.ToPersonID = memberID
	}
	return plan, nil
}
