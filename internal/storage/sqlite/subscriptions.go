package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/swisscoin/swisscoin/internal/billing"
	"github.com/swisscoin/swisscoin/internal/models"
)

// CreateSubscription persists a subscription and its member set.
func (s *SQLiteStore) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	if sub.CreatedAt == 0 {
		sub.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO subscriptions (id, name, amount, cycle_unit, cycle_days, next_billing_date, is_active, archived, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Name, sub.Amount, string(sub.CycleUnit), sub.CycleDays,
		sub.NextBillingDate, boolToInt(sub.IsActive), boolToInt(sub.Archived), sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert subscription: %w", err)
	}

	for _, personID := range sub.MemberIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO subscription_members (subscription_id, person_id) VALUES (?, ?)",
			sub.ID, personID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert subscription member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetSubscription retrieves a subscription by ID, including its members.
func (s *SQLiteStore) GetSubscription(ctx context.Context, subID string) (*models.Subscription, error) {
	sub := &models.Subscription{}
	var isActive, archived int
	var cycleUnit string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, amount, cycle_unit, cycle_days, next_billing_date, is_active, archived, created_at
		 FROM subscriptions WHERE id = ?`,
		subID,
	).Scan(&sub.ID, &sub.Name, &sub.Amount, &cycleUnit, &sub.CycleDays,
		&sub.NextBillingDate, &isActive, &archived, &sub.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("subscription not found: %s", subID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	sub.CycleUnit = unitFromString(cycleUnit)
	sub.IsActive = isActive != 0
	sub.Archived = archived != 0

	if err := s.loadSubscriptionMembers(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ListSubscriptions retrieves subscriptions sorted by name. Archived ones
// are excluded unless requested.
func (s *SQLiteStore) ListSubscriptions(ctx context.Context, includeArchived bool) ([]*models.Subscription, error) {
	query := `SELECT id, name, amount, cycle_unit, cycle_days, next_billing_date, is_active, archived, created_at
	          FROM subscriptions`
	if !includeArchived {
		query += " WHERE archived = 0"
	}
	query += " ORDER BY name"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*models.Subscription
	for rows.Next() {
		sub := &models.Subscription{}
		var isActive, archived int
		var cycleUnit string
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Amount, &cycleUnit, &sub.CycleDays,
			&sub.NextBillingDate, &isActive, &archived, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		sub.CycleUnit = unitFromString(cycleUnit)
		sub.IsActive = isActive != 0
		sub.Archived = archived != 0
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscriptions: %w", err)
	}

	for _, sub := range subs {
		if err := s.loadSubscriptionMembers(ctx, sub); err != nil {
			return nil, err
		}
	}
	return subs, nil
}

// UpdateSubscription rewrites a subscription's mutable fields and member set.
func (s *SQLiteStore) UpdateSubscription(ctx context.Context, sub *models.Subscription) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE subscriptions
		 SET name = ?, amount = ?, cycle_unit = ?, cycle_days = ?, next_billing_date = ?, is_active = ?, archived = ?
		 WHERE id = ?`,
		sub.Name, sub.Amount, string(sub.CycleUnit), sub.CycleDays,
		sub.NextBillingDate, boolToInt(sub.IsActive), boolToInt(sub.Archived), sub.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("subscription not found: %s", sub.ID)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM subscription_members WHERE subscription_id = ?", sub.ID,
	); err != nil {
		return fmt.Errorf("failed to clear subscription members: %w", err)
	}
	for _, personID := range sub.MemberIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO subscription_members (subscription_id, person_id) VALUES (?, ?)",
			sub.ID, personID,
		); err != nil {
			return fmt.Errorf("failed to insert subscription member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteSubscription removes a subscription; members, payments and
// subscription settlements cascade.
func (s *SQLiteStore) DeleteSubscription(ctx context.Context, subID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM subscriptions WHERE id = ?", subID)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("subscription not found: %s", subID)
	}
	return nil
}

// CreateSubscriptionPayment records a paid billing period.
func (s *SQLiteStore) CreateSubscriptionPayment(ctx context.Context, payment *models.SubscriptionPayment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscription_payments (id, subscription_id, paid_by_id, amount, period_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.SubscriptionID, payment.PaidByID,
		payment.Amount, payment.PeriodDate, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert subscription payment: %w", err)
	}
	return nil
}

// ListSubscriptionPayments retrieves all payments for a subscription,
// newest period first.
func (s *SQLiteStore) ListSubscriptionPayments(ctx context.Context, subID string) ([]*models.SubscriptionPayment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, subscription_id, paid_by_id, amount, period_date, created_at
		 FROM subscription_payments WHERE subscription_id = ? ORDER BY period_date DESC`,
		subID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscription payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.SubscriptionPayment
	for rows.Next() {
		payment := &models.SubscriptionPayment{}
		if err := rows.Scan(&payment.ID, &payment.SubscriptionID, &payment.PaidByID,
			&payment.Amount, &payment.PeriodDate, &payment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscription payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscription payments: %w", err)
	}
	return payments, nil
}

// CreateSubscriptionSettlement records a settlement scoped to one
// subscription's shared balance.
func (s *SQLiteStore) CreateSubscriptionSettlement(ctx context.Context, settlement *models.SubscriptionSettlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	var note any
	if settlement.Note != "" {
		note = settlement.Note
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscription_settlements (id, subscription_id, from_person_id, to_person_id, amount, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.SubscriptionID, settlement.FromPersonID,
		settlement.ToPersonID, settlement.Amount, note, settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert subscription settlement: %w", err)
	}
	return nil
}

// ListSubscriptionSettlements retrieves all settlements for a
// subscription, newest first.
func (s *SQLiteStore) ListSubscriptionSettlements(ctx context.Context, subID string) ([]*models.SubscriptionSettlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, subscription_id, from_person_id, to_person_id, amount, note, created_at
		 FROM subscription_settlements WHERE subscription_id = ? ORDER BY created_at DESC`,
		subID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscription settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.SubscriptionSettlement
	for rows.Next() {
		settlement := &models.SubscriptionSettlement{}
		var note sql.NullString
		if err := rows.Scan(&settlement.ID, &settlement.SubscriptionID, &settlement.FromPersonID,
			&settlement.ToPersonID, &settlement.Amount, &note, &settlement.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscription settlement: %w", err)
		}
		if note.Valid {
			settlement.Note = note.String
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscription settlements: %w", err)
	}
	return settlements, nil
}

func (s *SQLiteStore) loadSubscriptionMembers(ctx context.Context, sub *models.Subscription) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT person_id FROM subscription_members WHERE subscription_id = ? ORDER BY person_id",
		sub.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get subscription members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var personID string
		if err := rows.Scan(&personID); err != nil {
			return fmt.Errorf("failed to scan subscription member: %w", err)
		}
		sub.MemberIDs = append(sub.MemberIDs, personID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate subscription members: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func unitFromString(s string) billing.Unit {
	return billing.Unit(s)
}
