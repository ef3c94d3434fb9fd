// Package service implements the application services that sit between
// the HTTP handlers and storage, feeding stored records through the
// ledger engine.
package service

import (
	"github.com/swisscoin/swisscoin/internal/ledger"
	"github.com/swisscoin/swisscoin/internal/models"
)

// toLedgerTransactions projects stored expenses into the engine's
// transaction view.
func toLedgerTransactions(expenses []*models.Expense) []ledger.Transaction {
	txs := make([]ledger.Transaction, 0, len(expenses))
	for _, e := range expenses {
		tx := ledger.Transaction{
			ID:      e.ID,
			Amount:  e.Amount,
			PayerID: e.PayerID,
		}
		for _, p := range e.Payers {
			tx.Payers = append(tx.Payers, ledger.Payer{PersonID: p.PersonID, Amount: p.Amount})
		}
		for _, s := range e.Splits {
			tx.Splits = append(tx.Splits, ledger.Split{PersonID: s.PersonID, Amount: s.Amount})
		}
		txs = append(txs, tx)
	}
	return txs
}

// toLedgerSettlements projects stored settlements into the engine view.
func toLedgerSettlements(settlements []*models.Settlement) []ledger.Settlement {
	out := make([]ledger.Settlement, 0, len(settlements))
	for _, s := range settlements {
		out = append(out, ledger.Settlement{
			FromPersonID: s.FromPersonID,
			ToPersonID:   s.ToPersonID,
			Amount:       s.Amount,
		})
	}
	return out
}

// nameMap builds the person ID to display name lookup used for sorting
// and display.
func nameMap(persons []*models.Person) map[string]string {
	names := make(map[string]string, len(persons))
	for _, p := range persons {
		names[p.ID] = p.Name
	}
	return names
}
