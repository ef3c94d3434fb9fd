package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/swisscoin/swisscoin/internal/billing"
	"github.com/swisscoin/swisscoin/internal/ledger"
)

func newSubscriptionService(t *testing.T, now time.Time) *SubscriptionService {
	t.Helper()
	svc := NewSubscriptionService(newTestStore(t), nil, 0)
	svc.now = func() time.Time { return now }
	return svc
}

func TestCreateSubscriptionAdvancesPastStart(t *testing.T) {
	now := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	svc := newSubscriptionService(t, now)
	ctx := context.Background()

	sub, err := svc.CreateSubscription(ctx, SubscriptionInput{
		Name:      "Netflix",
		Amount:    15.99,
		CycleUnit: billing.Monthly,
		StartDate: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC).Unix(),
	})
	if err != nil {
		t.Fatalf("CreateSubscription failed: %v", err)
	}

	want := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC).Unix()
	if sub.NextBillingDate != want {
		t.Errorf("next billing = %v, want %v",
			time.Unix(sub.NextBillingDate, 0).UTC(), time.Unix(want, 0).UTC())
	}
	if !sub.IsActive {
		t.Error("new subscription should be active")
	}
}

func TestCreateSubscriptionKeepsFutureStart(t *testing.T) {
	now := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	svc := newSubscriptionService(t, now)

	start := time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC)
	sub, err := svc.CreateSubscription(context.Background(), SubscriptionInput{
		Name:      "Gym",
		Amount:    30.0,
		CycleUnit: billing.Monthly,
		StartDate: start.Unix(),
	})
	if err != nil {
		t.Fatalf("CreateSubscription failed: %v", err)
	}
	if sub.NextBillingDate != start.Unix() {
		t.Errorf("next billing = %v, want untouched start %v",
			time.Unix(sub.NextBillingDate, 0).UTC(), start)
	}
}

func TestCreateSubscriptionValidation(t *testing.T) {
	now := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	svc := newSubscriptionService(t, now)
	ctx := context.Background()

	_, err := svc.CreateSubscription(ctx, SubscriptionInput{
		Name:      "free",
		Amount:    0,
		CycleUnit: billing.Monthly,
		StartDate: now.Unix(),
	})
	if !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Errorf("zero amount error = %v, want ErrInvalidAmount", err)
	}

	_, err = svc.CreateSubscription(ctx, SubscriptionInput{
		Name:      "bad cycle",
		Amount:    9.99,
		CycleUnit: billing.CustomDays,
		CycleDays: 0,
		StartDate: now.Unix(),
	})
	if !errors.Is(err, billing.ErrInvalidCustomDays) {
		t.Errorf("bad cycle error = %v, want ErrInvalidCustomDays", err)
	}
}

func TestRecordPaymentAdvancesOneCycle(t *testing.T) {
	now := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	svc := newSubscriptionService(t, now)
	ctx := context.Background()

	sub, err := svc.CreateSubscription(ctx, SubscriptionInput{
		Name:      "Spotify",
		Amount:    10.0,
		CycleUnit: billing.Monthly,
		StartDate: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC).Unix(),
	})
	if err != nil {
		t.Fatalf("CreateSubscription failed: %v", err)
	}

	payment, err := svc.RecordPayment(ctx, sub.ID, "alice", 0)
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	// Amount defaults to the subscription amount; the payment covers the
	// period that was due.
	if payment.Amount != 10.0 {
		t.Errorf("payment amount = %v, want 10.00", payment.Amount)
	}
	if payment.PeriodDate != sub.NextBillingDate {
		t.Errorf("period = %d, want %d", payment.PeriodDate, sub.NextBillingDate)
	}

	view, err := svc.GetSubscription(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetSubscription failed: %v", err)
	}
	want := time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC).Unix()
	if view.NextBillingDate != want {
		t.Errorf("next billing after payment = %v, want %v",
			time.Unix(view.NextBillingDate, 0).UTC(), time.Unix(want, 0).UTC())
	}

	if _, err := svc.RecordPayment(ctx, sub.ID, "", 0); !errors.Is(err, ErrInvalidPayer) {
		t.Errorf("missing payer error = %v, want ErrInvalidPayer", err)
	}
}

func TestSubscriptionStatus(t *testing.T) {
	now := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	svc := newSubscriptionService(t, now)
	ctx := context.Background()

	sub, err := svc.CreateSubscription(ctx, SubscriptionInput{
		Name:      "iCloud",
		Amount:    2.99,
		CycleUnit: billing.Monthly,
		StartDate: time.Date(2024, time.July, 5, 0, 0, 0, 0, time.UTC).Unix(),
	})
	if err != nil {
		t.Fatalf("CreateSubscription failed: %v", err)
	}

	view, err := svc.GetSubscription(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetSubscription failed: %v", err)
	}
	if view.Status != billing.StatusUpcoming {
		t.Errorf("status = %q, want upcoming", view.Status)
	}

	if _, err := svc.SetActive(ctx, sub.ID, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	view, err = svc.GetSubscription(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetSubscription failed: %v", err)
	}
	if view.Status != billing.StatusPaused {
		t.Errorf("status after pause = %q, want paused", view.Status)
	}

	archived, err := svc.Archive(ctx, sub.ID)
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if !archived.Archived || archived.IsActive {
		t.Errorf("archived subscription = %+v", archived)
	}
	views, err := svc.ListSubscriptions(ctx, false)
	if err != nil {
		t.Fatalf("ListSubscriptions failed: %v", err)
	}
	if len(views) != 0 {
		t.Errorf("got %d visible subscriptions after archive, want 0", len(views))
	}
}

func TestSubscriptionSharedBalances(t *testing.T) {
	now := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	svc := newSubscriptionService(t, now)
	ctx := context.Background()

	sub, err := svc.CreateSubscription(ctx, SubscriptionInput{
		Name:      "YouTube Premium",
		Amount:    30.0,
		CycleUnit: billing.Monthly,
		StartDate: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC).Unix(),
		MemberIDs: []string{"alice", "bob", "carol"},
	})
	if err != nil {
		t.Fatalf("CreateSubscription failed: %v", err)
	}

	// Alice fronts two billing periods.
	for range 2 {
		if _, err := svc.RecordPayment(ctx, sub.ID, "alice", 0); err != nil {
			t.Fatalf("RecordPayment failed: %v", err)
		}
	}

	balances, err := svc.Balances(ctx, sub.ID, "alice")
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	if len(balances) != 2 {
		t.Fatalf("got %d members, want 2", len(balances))
	}
	// Each of bob and carol owes 10 per period.
	for _, mb := range balances {
		if math.Abs(mb.Balance-20.0) > 0.01 {
			t.Errorf("%s balance = %v, want 20.00", mb.PersonID, mb.Balance)
		}
	}

	// An over-settlement is capped at bob's outstanding 20.
	settlement, err := svc.RecordSettlement(ctx, sub.ID, "alice", "bob", 50.0, "")
	if err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}
	if math.Abs(settlement.Amount-20.0) > 0.01 {
		t.Errorf("settlement amount = %v, want capped 20.00", settlement.Amount)
	}
	if settlement.FromPersonID != "bob" || settlement.ToPersonID != "alice" {
		t.Errorf("direction = %s -> %s, want bob -> alice", settlement.FromPersonID, settlement.ToPersonID)
	}

	balances, err = svc.Balances(ctx, sub.ID, "alice")
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	for _, mb := range balances {
		want := 20.0
		if mb.PersonID == "bob" {
			want = 0
		}
		if math.Abs(mb.Balance-want) > ledger.Epsilon {
			t.Errorf("%s balance after settling = %v, want %v", mb.PersonID, mb.Balance, want)
		}
	}
}
