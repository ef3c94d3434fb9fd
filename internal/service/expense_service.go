package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/swisscoin/swisscoin/internal/ledger"
	"github.com/swisscoin/swisscoin/internal/metrics"
	"github.com/swisscoin/swisscoin/internal/models"
	"github.com/swisscoin/swisscoin/internal/storage"
)

var ErrNoPayer = errors.New("expense needs a payer or payer contributions")

// ExpenseService records expenses and answers balance queries.
type ExpenseService struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// NewExpenseService creates an ExpenseService. metrics may be nil (tests).
func NewExpenseService(store storage.Store, m *metrics.Metrics) *ExpenseService {
	return &ExpenseService{store: store, metrics: m}
}

// ExpenseInput is the request to record a new expense. Exactly one of
// PayerID (single payer, pays the full amount) or Payers (multi-payer
// contributions summing to Amount) must be provided.
type ExpenseInput struct {
	Description  string
	Amount       float64
	Date         int64
	Method       ledger.SplitMethod
	Participants []ledger.Participant
	PayerID      string
	Payers       []ledger.Payer
}

// RecordExpense validates the input, computes the frozen splits for the
// chosen method, and persists the expense. The stored split amounts are
// final: later edits to participants or method metadata never rewrite
// them.
func (s *ExpenseService) RecordExpense(ctx context.Context, input ExpenseInput) (*models.Expense, error) {
	if input.PayerID == "" && len(input.Payers) == 0 {
		return nil, ErrNoPayer
	}
	if len(input.Payers) > 0 {
		if err := ledger.ValidatePayers(input.Amount, input.Payers); err != nil {
			slog.Error("RecordExpense payer validation failed", "error", err)
			return nil, err
		}
	}

	splits, err := ledger.ComputeSplits(input.Method, input.Amount, input.Participants)
	if err != nil {
		slog.Error("RecordExpense split computation failed", "method", input.Method, "error", err)
		return nil, err
	}

	expense := &models.Expense{
		Description: input.Description,
		Amount:      input.Amount,
		Date:        input.Date,
		Method:      input.Method,
		PayerID:     input.PayerID,
	}
	for _, sp := range splits {
		expense.Splits = append(expense.Splits, models.ExpenseSplit{PersonID: sp.PersonID, Amount: sp.Amount})
	}
	for _, p := range input.Payers {
		expense.Payers = append(expense.Payers, models.ExpensePayer{PersonID: p.PersonID, Amount: p.Amount})
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("RecordExpense failed", "error", err)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ExpensesRecorded.Inc()
	}

	slog.Info("expense recorded",
		"expense_id", expense.ID,
		"amount", expense.Amount,
		"method", expense.Method,
		"splits", len(expense.Splits),
		"payers", len(expense.Payers),
	)
	return expense, nil
}

// GetExpense retrieves one expense with its reconciliation state.
func (s *ExpenseService) GetExpense(ctx context.Context, expenseID string) (*models.Expense, ledger.Reconciliation, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, ledger.Reconciliation{}, err
	}
	rec := ledger.Reconcile(toLedgerTransactions([]*models.Expense{expense})[0])
	return expense, rec, nil
}

// ListExpenses retrieves all expenses, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	return s.store.ListExpenses(ctx)
}

// DeleteExpense removes an expense and its splits and payers.
func (s *ExpenseService) DeleteExpense(ctx context.Context, expenseID string) error {
	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return err
	}
	slog.Info("expense deleted", "expense_id", expenseID)
	return nil
}

// BalanceSummary is the balance view for one viewpoint person.
type BalanceSummary struct {
	ViewpointID string
	Members     []ledger.MemberBalance
	OweYou      []ledger.MemberBalance
	YouOwe      []ledger.MemberBalance
	Suggested   []ledger.DebtEdge
}

// MemberBalances computes settlement-netted balances for the viewpoint
// person against everyone they share expenses with.
func (s *ExpenseService) MemberBalances(ctx context.Context, viewpoint string) (*BalanceSummary, error) {
	txs, settlements, names, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.BalanceQueries.Inc()
	}

	members := ledger.MemberBalances(viewpoint, txs, settlements, names)
	summary := &BalanceSummary{
		ViewpointID: viewpoint,
		Members:     members,
		OweYou:      ledger.MembersWhoOweYou(viewpoint, txs, settlements, names),
		YouOwe:      ledger.MembersYouOwe(viewpoint, txs, settlements, names),
		Suggested:   ledger.SimplifyDebts(append([]ledger.MemberBalance(nil), members...)),
	}

	slog.Debug("member balances computed",
		"viewpoint", viewpoint,
		"members", len(summary.Members),
		"owe_you", len(summary.OweYou),
		"you_owe", len(summary.YouOwe),
	)
	return summary, nil
}

// PairwiseBalance computes the transaction-only net amount personB owes
// personA (settlements excluded, per the pairwise contract).
func (s *ExpenseService) PairwiseBalance(ctx context.Context, personA, personB string) (float64, error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load expenses: %w", err)
	}
	if s.metrics != nil {
		s.metrics.BalanceQueries.Inc()
	}
	return ledger.PairwiseBalance(personA, personB, toLedgerTransactions(expenses)), nil
}

// snapshot loads the full ledger state for balance computations. Balances
// are always recomputed from a fresh read; nothing is cached, so there is
// no staleness window between a write and the next balance.
func (s *ExpenseService) snapshot(ctx context.Context) ([]ledger.Transaction, []ledger.Settlement, map[string]string, error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	settlements, err := s.store.ListSettlements(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load settlements: %w", err)
	}
	persons, err := s.store.ListPersons(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load persons: %w", err)
	}
	return toLedgerTransactions(expenses), toLedgerSettlements(settlements), nameMap(persons), nil
}
