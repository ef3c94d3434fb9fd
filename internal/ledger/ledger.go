// Package ledger implements the balance engine for Swiss Coin.
//
// All functions are pure: they operate on in-memory snapshots of expense
// transactions, settlements and subscription payments handed in by the
// caller, and return signed balances and owed-amount lists. Positive
// amounts always mean "they owe the viewpoint person"; negative means the
// viewpoint person owes them.
//
// Person references are plain string IDs. An empty or unknown ID
// contributes zero to every computation — the engine never errors on
// partially-loaded records, since its results feed display code directly.
package ledger

import "math"

// Epsilon is the currency tolerance below which a balance is treated as
// settled. It is the single tolerance constant for the whole engine; call
// sites must not introduce their own.
const Epsilon = 0.01

// SplitMethod identifies how a transaction's splits were computed at
// creation time. Split amounts are frozen when the transaction is
// recorded; the method is retained for display only and is never used to
// re-derive amounts on read.
type SplitMethod string

const (
	SplitEqual      SplitMethod = "equal"
	SplitAmount     SplitMethod = "amount"
	SplitPercentage SplitMethod = "percentage"
	SplitShares     SplitMethod = "shares"
	SplitAdjustment SplitMethod = "adjustment"
)

// Split is one participant's owed share of a transaction.
type Split struct {
	PersonID string
	Amount   float64
}

// Payer is one contributor's paid amount toward a transaction.
type Payer struct {
	PersonID string
	Amount   float64
}

// Transaction is the engine's view of a single expense event. It carries
// the minimal fields balance computation needs; storage-level metadata
// (description, dates, creator) stays out of the engine.
type Transaction struct {
	ID     string
	Amount float64

	// PayerID is the legacy single-payer field. It is only consulted
	// when Payers is empty, in which case that person is treated as
	// having paid the full amount.
	PayerID string

	// Payers is the multi-payer contribution set. When non-empty it
	// takes precedence over PayerID.
	Payers []Payer

	Splits []Split
}

// Settlement records that one person paid another to reduce their
// outstanding net balance. It is independent of any single transaction.
type Settlement struct {
	FromPersonID string
	ToPersonID   string
	Amount       float64
}

// EffectivePayers resolves a transaction's contributor list: the
// multi-payer set when present, otherwise the legacy single payer for
// the full amount, otherwise nil.
func EffectivePayers(tx Transaction) []Payer {
	if len(tx.Payers) > 0 {
		return tx.Payers
	}
	if tx.PayerID != "" {
		return []Payer{{PersonID: tx.PayerID, Amount: tx.Amount}}
	}
	return nil
}

// Reconciliation describes how a transaction's stored splits and payer
// contributions compare against its total amount.
type Reconciliation struct {
	SplitTotal float64
	PaidTotal  float64

	// Settled is true when both splits and payer contributions sum to
	// the transaction amount within Epsilon. An unsettled transaction
	// is surfaced as a display state, never an error.
	Settled bool
}

// Reconcile checks a transaction's split and payer sums against its
// total. A transaction with no payers at all is never settled.
func Reconcile(tx Transaction) Reconciliation {
	var rec Reconciliation
	for _, s := range tx.Splits {
		rec.SplitTotal += s.Amount
	}
	for _, p := range EffectivePayers(tx) {
		rec.PaidTotal += p.Amount
	}
	rec.Settled = rec.PaidTotal > 0 &&
		math.Abs(rec.SplitTotal-tx.Amount) <= Epsilon &&
		math.Abs(rec.PaidTotal-tx.Amount) <= Epsilon
	return rec
}

// paidBy sums the amount the given person contributed to a transaction.
func paidBy(tx Transaction, personID string) float64 {
	if personID == "" {
		return 0
	}
	var total float64
	for _, p := range EffectivePayers(tx) {
		if p.PersonID == personID {
			total += p.Amount
		}
	}
	return total
}

// shareOf sums the given person's owed splits in a transaction.
func shareOf(tx Transaction, personID string) float64 {
	if personID == "" {
		return 0
	}
	var total float64
	for _, s := range tx.Splits {
		if s.PersonID == personID {
			total += s.Amount
		}
	}
	return total
}

// totalPaid sums all payer contributions of a transaction.
func totalPaid(tx Transaction) float64 {
	var total float64
	for _, p := range EffectivePayers(tx) {
		total += p.Amount
	}
	return total
}
