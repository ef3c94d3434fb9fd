package service

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/swisscoin/swisscoin/internal/ledger"
	"github.com/swisscoin/swisscoin/internal/models"
	"github.com/swisscoin/swisscoin/internal/storage"
	"github.com/swisscoin/swisscoin/internal/storage/sqlite"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createPerson(t *testing.T, store storage.Store, name string) string {
	t.Helper()
	person := &models.Person{Name: name}
	if err := store.CreatePerson(context.Background(), person); err != nil {
		t.Fatalf("failed to create person %s: %v", name, err)
	}
	return person.ID
}

func TestRecordExpenseAndBalances(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createPerson(t, store, "Alice")
	bob := createPerson(t, store, "Bob")
	carol := createPerson(t, store, "Carol")

	svc := NewExpenseService(store, nil)

	expense, err := svc.RecordExpense(ctx, ExpenseInput{
		Description: "Ski trip",
		Amount:      90.0,
		Method:      ledger.SplitEqual,
		PayerID:     alice,
		Participants: []ledger.Participant{
			{PersonID: alice}, {PersonID: bob}, {PersonID: carol},
		},
	})
	if err != nil {
		t.Fatalf("RecordExpense failed: %v", err)
	}
	if len(expense.Splits) != 3 {
		t.Fatalf("got %d splits, want 3", len(expense.Splits))
	}

	summary, err := svc.MemberBalances(ctx, alice)
	if err != nil {
		t.Fatalf("MemberBalances failed: %v", err)
	}
	if len(summary.Members) != 2 {
		t.Fatalf("got %d members, want 2", len(summary.Members))
	}
	for _, mb := range summary.Members {
		if math.Abs(mb.Balance-30.0) > 0.01 {
			t.Errorf("%s balance = %v, want 30.00", mb.Name, mb.Balance)
		}
	}
	if len(summary.OweYou) != 2 || len(summary.YouOwe) != 0 {
		t.Errorf("owe_you = %d, you_owe = %d; want 2, 0", len(summary.OweYou), len(summary.YouOwe))
	}
	if len(summary.Suggested) != 2 {
		t.Errorf("got %d suggested repayments, want 2", len(summary.Suggested))
	}

	// From bob's side the same expense is a debt.
	pairwise, err := svc.PairwiseBalance(ctx, alice, bob)
	if err != nil {
		t.Fatalf("PairwiseBalance failed: %v", err)
	}
	if math.Abs(pairwise-30.0) > 0.01 {
		t.Errorf("pairwise balance = %v, want 30.00", pairwise)
	}
}

func TestRecordExpenseValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	svc := NewExpenseService(store, nil)

	_, err := svc.RecordExpense(ctx, ExpenseInput{
		Description:  "no payer",
		Amount:       10.0,
		Method:       ledger.SplitEqual,
		Participants: []ledger.Participant{{PersonID: "a"}},
	})
	if !errors.Is(err, ErrNoPayer) {
		t.Errorf("missing payer error = %v, want ErrNoPayer", err)
	}

	_, err = svc.RecordExpense(ctx, ExpenseInput{
		Description: "bad payer sum",
		Amount:      100.0,
		Method:      ledger.SplitEqual,
		Payers: []ledger.Payer{
			{PersonID: "a", Amount: 50.0},
		},
		Participants: []ledger.Participant{{PersonID: "a"}, {PersonID: "b"}},
	})
	if !errors.Is(err, ledger.ErrPayerMismatch) {
		t.Errorf("payer mismatch error = %v, want ErrPayerMismatch", err)
	}

	_, err = svc.RecordExpense(ctx, ExpenseInput{
		Description: "bad percentages",
		Amount:      100.0,
		Method:      ledger.SplitPercentage,
		PayerID:     "a",
		Participants: []ledger.Participant{
			{PersonID: "a", Percent: 70},
			{PersonID: "b", Percent: 20},
		},
	})
	if !errors.Is(err, ledger.ErrPercentMismatch) {
		t.Errorf("percent mismatch error = %v, want ErrPercentMismatch", err)
	}
}

func TestGetExpenseReconciliation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	svc := NewExpenseService(store, nil)

	expense, err := svc.RecordExpense(ctx, ExpenseInput{
		Description:  "Lunch",
		Amount:       24.0,
		Method:       ledger.SplitEqual,
		PayerID:      "alice",
		Participants: []ledger.Participant{{PersonID: "alice"}, {PersonID: "bob"}},
	})
	if err != nil {
		t.Fatalf("RecordExpense failed: %v", err)
	}

	got, rec, err := svc.GetExpense(ctx, expense.ID)
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	if got.ID != expense.ID {
		t.Errorf("expense ID = %q, want %q", got.ID, expense.ID)
	}
	if !rec.Settled {
		t.Errorf("reconciliation = %+v, want settled", rec)
	}
	if math.Abs(rec.SplitTotal-24.0) > 0.01 || math.Abs(rec.PaidTotal-24.0) > 0.01 {
		t.Errorf("reconciliation totals = %v/%v, want 24.00/24.00", rec.SplitTotal, rec.PaidTotal)
	}
}

func TestRecordSettlementCapsAndNets(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createPerson(t, store, "Alice")
	bob := createPerson(t, store, "Bob")

	expenses := NewExpenseService(store, nil)
	settlements := NewSettlementService(store, expenses, nil)

	if _, err := expenses.RecordExpense(ctx, ExpenseInput{
		Description:  "Rent",
		Amount:       100.0,
		Method:       ledger.SplitEqual,
		PayerID:      alice,
		Participants: []ledger.Participant{{PersonID: alice}, {PersonID: bob}},
	}); err != nil {
		t.Fatalf("RecordExpense failed: %v", err)
	}

	// Bob owes 50; a request for 75 is recorded as 50.
	settlement, err := settlements.RecordSettlement(ctx, alice, bob, 75.0, "")
	if err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}
	if math.Abs(settlement.Amount-50.0) > 0.01 {
		t.Errorf("settlement amount = %v, want capped 50.00", settlement.Amount)
	}
	if settlement.FromPersonID != bob || settlement.ToPersonID != alice {
		t.Errorf("direction = %s -> %s, want bob -> alice", settlement.FromPersonID, settlement.ToPersonID)
	}

	// Balance is now settled; a second attempt has nothing to record.
	if _, err := settlements.RecordSettlement(ctx, alice, bob, 10.0, ""); !errors.Is(err, ledger.ErrNothingOutstanding) {
		t.Errorf("second settlement error = %v, want ErrNothingOutstanding", err)
	}

	summary, err := expenses.MemberBalances(ctx, alice)
	if err != nil {
		t.Fatalf("MemberBalances failed: %v", err)
	}
	for _, mb := range summary.Members {
		if math.Abs(mb.Balance) > ledger.Epsilon {
			t.Errorf("%s balance after settling = %v, want ~0", mb.Name, mb.Balance)
		}
	}
}
