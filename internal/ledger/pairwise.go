package ledger

// PairwiseBalance computes the net amount personB owes personA across the
// given transactions. A negative result means personA owes personB.
//
// Per transaction, each payer is treated as funding every participant's
// share in proportion to their contribution: the part of B's share funded
// by A counts toward what B owes A, and symmetrically the part of A's
// share funded by B counts against it. Shares owed by or payments made by
// third parties never enter this figure — that separation from net group
// balances is deliberate.
//
// Settlements are not netted here; see MemberBalances for the
// settlement-adjusted aggregate.
func PairwiseBalance(personA, personB string, txs []Transaction) float64 {
	if personA == "" || personB == "" || personA == personB {
		return 0
	}

	var balance float64
	for _, tx := range txs {
		total := totalPaid(tx)
		if total <= 0 {
			// Nobody recorded as paying; nothing is attributable.
			continue
		}

		aPaid := paidBy(tx, personA)
		bPaid := paidBy(tx, personB)
		aShare := shareOf(tx, personA)
		bShare := shareOf(tx, personB)

		balance += bShare * (aPaid / total)
		balance -= aShare * (bPaid / total)
	}
	return balance
}
