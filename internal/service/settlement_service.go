package service

import (
	"context"
	"log/slog"

	"github.com/swisscoin/swisscoin/internal/ledger"
	"github.com/swisscoin/swisscoin/internal/metrics"
	"github.com/swisscoin/swisscoin/internal/models"
	"github.com/swisscoin/swisscoin/internal/storage"
)

// SettlementService records settlements between people, enforcing the
// outstanding-balance cap.
type SettlementService struct {
	store    storage.Store
	expenses *ExpenseService
	metrics  *metrics.Metrics
}

// NewSettlementService creates a SettlementService. metrics may be nil.
func NewSettlementService(store storage.Store, expenses *ExpenseService, m *metrics.Metrics) *SettlementService {
	return &SettlementService{store: store, expenses: expenses, metrics: m}
}

// RecordSettlement settles part or all of the balance between the
// viewpoint person and a member. The balance is recomputed from storage
// here, at save time: the recorded amount is capped at the outstanding
// balance and the from/to direction follows the live sign, so a balance
// shown earlier in the flow can never produce an over-settlement or a
// reversed direction.
func (s *SettlementService) RecordSettlement(ctx context.Context, viewpoint, memberID string, requested float64, note string) (*models.Settlement, error) {
	txs, settlements, _, err := s.expenses.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	plan, err := ledger.PlanSettlement(viewpoint, memberID, requested, txs, settlements)
	if err != nil {
		slog.Warn("RecordSettlement rejected",
			"viewpoint", viewpoint,
			"member", memberID,
			"requested", requested,
			"error", err,
		)
		return nil, err
	}

	settlement := &models.Settlement{
		FromPersonID: plan.FromPersonID,
		ToPersonID:   plan.ToPersonID,
		Amount:       plan.Amount,
		Note:         note,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("RecordSettlement failed", "error", err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SettlementsRecorded.Inc()
		if plan.Amount < requested {
			s.metrics.SettlementsCapped.Inc()
		}
	}

	slog.Info("settlement recorded",
		"settlement_id", settlement.ID,
		"from", settlement.FromPersonID,
		"to", settlement.ToPersonID,
		"amount", settlement.Amount,
		"requested", requested,
		"outstanding", plan.Outstanding,
	)
	return settlement, nil
}

// ListSettlements retrieves all settlements, newest first.
func (s *SettlementService) ListSettlements(ctx context.Context) ([]*models.Settlement, error) {
	return s.store.ListSettlements(ctx)
}

// DeleteSettlement removes a settlement by ID.
func (s *SettlementService) DeleteSettlement(ctx context.Context, settlementID string) error {
	if err := s.store.DeleteSettlement(ctx, settlementID); err != nil {
		return err
	}
	slog.Info("settlement deleted", "settlement_id", settlementID)
	return nil
}
