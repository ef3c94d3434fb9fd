package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/swisscoin/swisscoin/internal/models"
)

// CreateExpense persists an expense with its splits and payers in one
// transaction. IDs and CreatedAt are generated when unset.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Date == 0 {
		expense.Date = expense.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var payerID any
	if expense.PayerID != "" {
		payerID = expense.PayerID
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, description, amount, date, method, payer_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Description, expense.Amount, expense.Date,
		string(expense.Method), payerID, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i := range expense.Splits {
		split := &expense.Splits[i]
		if split.ID == "" {
			split.ID = uuid.New().String()
		}
		split.ExpenseID = expense.ID
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (id, expense_id, person_id, amount) VALUES (?, ?, ?, ?)",
			split.ID, split.ExpenseID, split.PersonID, split.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	for i := range expense.Payers {
		payer := &expense.Payers[i]
		if payer.ID == "" {
			payer.ID = uuid.New().String()
		}
		payer.ExpenseID = expense.ID
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_payers (id, expense_id, person_id, amount) VALUES (?, ?, ?, ?)",
			payer.ID, payer.ExpenseID, payer.PersonID, payer.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID, including splits and payers.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var payerID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, description, amount, date, method, payer_id, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.Description, &expense.Amount, &expense.Date,
		&expense.Method, &payerID, &expense.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense not found: %s", expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	if payerID.Valid {
		expense.PayerID = payerID.String
	}

	if err := s.loadExpenseDetails(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpenses retrieves all expenses with their splits and payers,
// newest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, amount, date, method, payer_id, created_at
		 FROM expenses ORDER BY date DESC, created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var payerID sql.NullString
		if err := rows.Scan(&expense.ID, &expense.Description, &expense.Amount, &expense.Date,
			&expense.Method, &payerID, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if payerID.Valid {
			expense.PayerID = payerID.String
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if err := s.loadExpenseDetails(ctx, expense); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

// DeleteExpense removes an expense; splits and payers cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("expense not found: %s", expenseID)
	}
	return nil
}

func (s *SQLiteStore) loadExpenseDetails(ctx context.Context, expense *models.Expense) error {
	splitRows, err := s.db.QueryContext(ctx,
		"SELECT id, expense_id, person_id, amount FROM expense_splits WHERE expense_id = ? ORDER BY person_id",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var split models.ExpenseSplit
		if err := splitRows.Scan(&split.ID, &split.ExpenseID, &split.PersonID, &split.Amount); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		expense.Splits = append(expense.Splits, split)
	}
	if err := splitRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}

	payerRows, err := s.db.QueryContext(ctx,
		"SELECT id, expense_id, person_id, amount FROM expense_payers WHERE expense_id = ? ORDER BY person_id",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get payers: %w", err)
	}
	defer payerRows.Close()

	for payerRows.Next() {
		var payer models.ExpensePayer
		if err := payerRows.Scan(&payer.ID, &payer.ExpenseID, &payer.PersonID, &payer.Amount); err != nil {
			return fmt.Errorf("failed to scan payer: %w", err)
		}
		expense.Payers = append(expense.Payers, payer)
	}
	if err := payerRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate payers: %w", err)
	}
	return nil
}
