package ledger

import "sort"

// MemberBalance is the balance of one counterparty as seen from the
// viewpoint person.
type MemberBalance struct {
	PersonID string
	Name     string

	// Balance is positive when this member owes the viewpoint person,
	// negative when the viewpoint person owes them.
	Balance float64

	// TotalPaid is what this member has paid in total across the given
	// transactions and settlements, for display.
	TotalPaid float64
}

// DebtEdge is a suggested repayment from one person to another.
type DebtEdge struct {
	FromPersonID string
	ToPersonID   string
	Amount       float64
}

// MemberBalances computes, for the viewpoint person, a settlement-netted
// balance against every other person appearing in the given transactions
// or settlements. The names map (person ID to display name) is used for
// the Name field and for deterministic tie-breaking; missing entries are
// tolerated.
//
// For each member m:
//
//	balance(m) = sum over transactions of
//	               m's share funded by viewpoint
//	             - viewpoint's share funded by m
//	           - payments m made to viewpoint
//	           + payments viewpoint made to m
//
// so that recording a settlement moves the balance toward zero.
func MemberBalances(viewpoint string, txs []Transaction, settlements []Settlement, names map[string]string) []MemberBalance {
	if viewpoint == "" {
		return nil
	}

	balances := make(map[string]*MemberBalance)
	member := func(id string) *MemberBalance {
		if id == "" || id == viewpoint {
			return nil
		}
		mb, ok := balances[id]
		if !ok {
			mb = &MemberBalance{PersonID: id, Name: names[id]}
			balances[id] = mb
		}
		return mb
	}

	for _, tx := range txs {
		total := totalPaid(tx)
		if total <= 0 {
			continue
		}
		userPaid := paidBy(tx, viewpoint)
		userShare := shareOf(tx, viewpoint)

		// Every payer and every split owner is a member of this ledger,
		// even when their balance against the viewpoint nets to zero.
		for _, p := range EffectivePayers(tx) {
			mb := member(p.PersonID)
			if mb == nil {
				continue
			}
			mb.TotalPaid += p.Amount
			mb.Balance -= userShare * (p.Amount / total)
		}
		for _, s := range tx.Splits {
			mb := member(s.PersonID)
			if mb == nil {
				continue
			}
			mb.Balance += s.Amount * (userPaid / total)
		}
	}

	for _, s := range settlements {
		if s.FromPersonID == viewpoint {
			if mb := member(s.ToPersonID); mb != nil {
				mb.Balance += s.Amount
			}
		} else if s.ToPersonID == viewpoint {
			if mb := member(s.FromPersonID); mb != nil {
				mb.Balance -= s.Amount
				mb.TotalPaid += s.Amount
			}
		}
	}

	result := make([]MemberBalance, 0, len(balances))
	for _, mb := range balances {
		result = append(result, *mb)
	}
	sortMembers(result)
	return result
}

// BalanceWith returns the settlement-netted balance between the viewpoint
// person and a single member. Positive means the member owes the
// viewpoint person.
func BalanceWith(viewpoint, memberID string, txs []Transaction, settlements []Settlement) float64 {
	for _, mb := range MemberBalances(viewpoint, txs, settlements, nil) {
		if mb.PersonID == memberID {
			return mb.Balance
		}
	}
	return 0
}

// MembersWhoOweYou filters member balances down to people owing the
// viewpoint person at least Epsilon, sorted by descending amount, ties
// by name. A single outstanding cent still counts as owed; only balances
// strictly below a cent are settled.
func MembersWhoOweYou(viewpoint string, txs []Transaction, settlements []Settlement, names map[string]string) []MemberBalance {
	var owing []MemberBalance
	for _, mb := range MemberBalances(viewpoint, txs, settlements, names) {
		if mb.Balance >= Epsilon {
			owing = append(owing, mb)
		}
	}
	sortMembers(owing)
	return owing
}

// MembersYouOwe filters member balances down to people the viewpoint
// person owes at least Epsilon, sorted by descending owed amount, ties
// by name.
func MembersYouOwe(viewpoint string, txs []Transaction, settlements []Settlement, names map[string]string) []MemberBalance {
	var owed []MemberBalance
	for _, mb := range MemberBalances(viewpoint, txs, settlements, names) {
		if mb.Balance <= -Epsilon {
			owed = append(owed, mb)
		}
	}
	sortMembers(owed)
	return owed
}

// sortMembers orders by descending absolute balance, ties by name, then
// by person ID so output is fully deterministic.
func sortMembers(members []MemberBalance) {
	sort.Slice(members, func(i, j int) bool {
		ai, aj := abs(members[i].Balance), abs(members[j].Balance)
		if ai != aj {
			return ai > aj
		}
		if members[i].Name != members[j].Name {
			return members[i].Name < members[j].Name
		}
		return members[i].PersonID < members[j].PersonID
	})
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// SimplifyDebts reduces a set of member balances to a minimal list of
// repayments using greedy matching of largest debtors against largest
// creditors. Balances strictly below Epsilon are ignored.
func SimplifyDebts(members []MemberBalance) []DebtEdge {
	var debtors, creditors []MemberBalance
	for _, mb := range members {
		switch {
		case mb.Balance <= -Epsilon:
			debtors = append(debtors, mb)
		case mb.Balance >= Epsilon:
			creditors = append(creditors, mb)
		}
	}
	sort.Slice(debtors, func(i, j int) bool { return debtors[i].Balance < debtors[j].Balance })
	sort.Slice(creditors, func(i, j int) bool { return creditors[i].Balance > creditors[j].Balance })

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		owes := -debtors[i].Balance
		owed := creditors[j].Balance

		amount := owes
		if owed < amount {
			amount = owed
		}
		if amount >= Epsilon {
			edges = append(edges, DebtEdge{
				FromPersonID: debtors[i].PersonID,
				ToPersonID:   creditors[j].PersonID,
				Amount:       amount,
			})
		}

		debtors[i].Balance += amount
		creditors[j].Balance -= amount
		if -debtors[i].Balance < Epsilon {
			i++
		}
		if creditors[j].Balance < Epsilon {
			j++
		}
	}
	return edges
}
