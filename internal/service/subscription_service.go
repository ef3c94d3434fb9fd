package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/swisscoin/swisscoin/internal/billing"
	"github.com/swisscoin/swisscoin/internal/ledger"
	"github.com/swisscoin/swisscoin/internal/metrics"
	"github.com/swisscoin/swisscoin/internal/models"
	"github.com/swisscoin/swisscoin/internal/storage"
)

var ErrInvalidPayer = errors.New("payment payer is required")

// SubscriptionService manages recurring bills: billing date advancement,
// status evaluation, shared-balance tracking and subscription-scoped
// settlements.
type SubscriptionService struct {
	store     storage.Store
	metrics   *metrics.Metrics
	dueWindow time.Duration

	// now is replaceable in tests.
	now func() time.Time
}

// NewSubscriptionService creates a SubscriptionService. metrics may be
// nil; a non-positive dueWindow falls back to the billing default.
func NewSubscriptionService(store storage.Store, m *metrics.Metrics, dueWindow time.Duration) *SubscriptionService {
	return &SubscriptionService{
		store:     store,
		metrics:   m,
		dueWindow: dueWindow,
		now:       time.Now,
	}
}

// SubscriptionInput is the request to create a subscription.
type SubscriptionInput struct {
	Name      string
	Amount    float64
	CycleUnit billing.Unit
	CycleDays int

	// StartDate is the first billing date. When it lies in the past the
	// next billing date is advanced cycle by cycle until it is strictly
	// in the future.
	StartDate int64

	MemberIDs []string
}

// CreateSubscription validates the billing cycle and persists the
// subscription with its initial next-billing-date resolved to the future.
func (s *SubscriptionService) CreateSubscription(ctx context.Context, input SubscriptionInput) (*models.Subscription, error) {
	if input.Amount <= 0 {
		return nil, ledger.ErrInvalidAmount
	}
	cycle, err := billing.NewCycle(input.CycleUnit, input.CycleDays)
	if err != nil {
		slog.Error("CreateSubscription invalid cycle", "unit", input.CycleUnit, "days", input.CycleDays, "error", err)
		return nil, err
	}

	start := time.Unix(input.StartDate, 0)
	now := s.now()
	next := start
	if !next.After(now) {
		next = cycle.AdvanceUntilAfter(start, now)
	}

	sub := &models.Subscription{
		Name:            input.Name,
		Amount:          input.Amount,
		CycleUnit:       input.CycleUnit,
		CycleDays:       input.CycleDays,
		NextBillingDate: next.Unix(),
		IsActive:        true,
		MemberIDs:       input.MemberIDs,
	}
	if err := s.store.CreateSubscription(ctx, sub); err != nil {
		slog.Error("CreateSubscription failed", "error", err)
		return nil, err
	}

	slog.Info("subscription created",
		"subscription_id", sub.ID,
		"name", sub.Name,
		"cycle", sub.CycleUnit,
		"next_billing", next.Format(time.RFC3339),
		"members", len(sub.MemberIDs),
	)
	return sub, nil
}

// SubscriptionView is a subscription with its evaluated billing status.
type SubscriptionView struct {
	*models.Subscription
	Status billing.Status
}

// ListSubscriptions returns subscriptions with their billing status
// evaluated against the current time.
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, includeArchived bool) ([]SubscriptionView, error) {
	subs, err := s.store.ListSubscriptions(ctx, includeArchived)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]SubscriptionView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, SubscriptionView{
			Subscription: sub,
			Status:       billing.EvaluateStatus(sub.IsActive, time.Unix(sub.NextBillingDate, 0), now, s.dueWindow),
		})
	}
	return views, nil
}

// GetSubscription returns one subscription with its evaluated status.
func (s *SubscriptionService) GetSubscription(ctx context.Context, subID string) (*SubscriptionView, error) {
	sub, err := s.store.GetSubscription(ctx, subID)
	if err != nil {
		return nil, err
	}
	return &SubscriptionView{
		Subscription: sub,
		Status:       billing.EvaluateStatus(sub.IsActive, time.Unix(sub.NextBillingDate, 0), s.now(), s.dueWindow),
	}, nil
}

// SetActive pauses or resumes a subscription.
func (s *SubscriptionService) SetActive(ctx context.Context, subID string, active bool) (*models.Subscription, error) {
	sub, err := s.store.GetSubscription(ctx, subID)
	if err != nil {
		return nil, err
	}
	sub.IsActive = active
	if err := s.store.UpdateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	slog.Info("subscription active flag updated", "subscription_id", subID, "active", active)
	return sub, nil
}

// Archive hides a subscription from active views, keeping its history.
func (s *SubscriptionService) Archive(ctx context.Context, subID string) (*models.Subscription, error) {
	sub, err := s.store.GetSubscription(ctx, subID)
	if err != nil {
		return nil, err
	}
	sub.Archived = true
	sub.IsActive = false
	if err := s.store.UpdateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	slog.Info("subscription archived", "subscription_id", subID)
	return sub, nil
}

// RecordPayment records that the current billing period was paid and
// advances the next billing date by exactly one cycle.
func (s *SubscriptionService) RecordPayment(ctx context.Context, subID, paidByID string, amount float64) (*models.SubscriptionPayment, error) {
	if paidByID == "" {
		return nil, ErrInvalidPayer
	}
	sub, err := s.store.GetSubscription(ctx, subID)
	if err != nil {
		return nil, err
	}
	cycle, err := sub.Cycle()
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		amount = sub.Amount
	}

	payment := &models.SubscriptionPayment{
		SubscriptionID: sub.ID,
		PaidByID:       paidByID,
		Amount:         amount,
		PeriodDate:     sub.NextBillingDate,
	}
	if err := s.store.CreateSubscriptionPayment(ctx, payment); err != nil {
		slog.Error("RecordPayment failed", "subscription_id", subID, "error", err)
		return nil, err
	}

	sub.NextBillingDate = cycle.Next(time.Unix(sub.NextBillingDate, 0)).Unix()
	if err := s.store.UpdateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.PaymentsRecorded.Inc()
	}

	slog.Info("subscription payment recorded",
		"subscription_id", sub.ID,
		"paid_by", paidByID,
		"amount", amount,
		"next_billing", time.Unix(sub.NextBillingDate, 0).Format(time.RFC3339),
	)
	return payment, nil
}

// Balances computes the shared balance of one subscription from the
// viewpoint person. Each recorded payment is projected as an equal-split
// transaction among the subscription members with the payer fronting the
// full amount, then fed through the same engine as ordinary expenses,
// with subscription-scoped settlements netted in.
func (s *SubscriptionService) Balances(ctx context.Context, subID, viewpoint string) ([]ledger.MemberBalance, error) {
	txs, settlements, err := s.sharedLedger(ctx, subID)
	if err != nil {
		return nil, err
	}
	persons, err := s.store.ListPersons(ctx)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.BalanceQueries.Inc()
	}
	return ledger.MemberBalances(viewpoint, txs, settlements, nameMap(persons)), nil
}

// RecordSettlement settles part of a subscription's shared balance,
// with the same live recompute, cap and direction rules as ordinary
// settlements but scoped to this subscription's ledger.
func (s *SubscriptionService) RecordSettlement(ctx context.Context, subID, viewpoint, memberID string, requested float64, note string) (*models.SubscriptionSettlement, error) {
	txs, settlements, err := s.sharedLedger(ctx, subID)
	if err != nil {
		return nil, err
	}

	plan, err := ledger.PlanSettlement(viewpoint, memberID, requested, txs, settlements)
	if err != nil {
		slog.Warn("subscription settlement rejected",
			"subscription_id", subID,
			"viewpoint", viewpoint,
			"member", memberID,
			"error", err,
		)
		return nil, err
	}

	settlement := &models.SubscriptionSettlement{
		SubscriptionID: subID,
		FromPersonID:   plan.FromPersonID,
		ToPersonID:     plan.ToPersonID,
		Amount:         plan.Amount,
		Note:           note,
	}
	if err := s.store.CreateSubscriptionSettlement(ctx, settlement); err != nil {
		slog.Error("subscription settlement failed", "subscription_id", subID, "error", err)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.SettlementsRecorded.Inc()
		if plan.Amount < requested {
			s.metrics.SettlementsCapped.Inc()
		}
	}

	slog.Info("subscription settlement recorded",
		"subscription_id", subID,
		"settlement_id", settlement.ID,
		"from", settlement.FromPersonID,
		"to", settlement.ToPersonID,
		"amount", settlement.Amount,
	)
	return settlement, nil
}

// sharedLedger projects a subscription's payments and settlements into
// engine views.
func (s *SubscriptionService) sharedLedger(ctx context.Context, subID string) ([]ledger.Transaction, []ledger.Settlement, error) {
	sub, err := s.store.GetSubscription(ctx, subID)
	if err != nil {
		return nil, nil, err
	}
	payments, err := s.store.ListSubscriptionPayments(ctx, subID)
	if err != nil {
		return nil, nil, err
	}
	subSettlements, err := s.store.ListSubscriptionSettlements(ctx, subID)
	if err != nil {
		return nil, nil, err
	}

	var txs []ledger.Transaction
	if len(sub.MemberIDs) > 0 {
		participants := make([]ledger.Participant, len(sub.MemberIDs))
		for i, id := range sub.MemberIDs {
			participants[i] = ledger.Participant{PersonID: id}
		}
		for _, payment := range payments {
			splits, err := ledger.ComputeSplits(ledger.SplitEqual, payment.Amount, participants)
			if err != nil {
				// Zero or negative amount on a historical row; skip it
				// rather than fail the whole balance view.
				slog.Warn("skipping unsplittable payment", "payment_id", payment.ID, "error", err)
				continue
			}
			txs = append(txs, ledger.Transaction{
				ID:      payment.ID,
				Amount:  payment.Amount,
				PayerID: payment.PaidByID,
				Splits:  splits,
			})
		}
	}

	settlements := make([]ledger.Settlement, 0, len(subSettlements))
	for _, st := range subSettlements {
		settlements = append(settlements, ledger.Settlement{
			FromPersonID: st.FromPersonID,
			ToPersonID:   st.ToPersonID,
			Amount:       st.Amount,
		})
	}
	return txs, settlements, nil
}
