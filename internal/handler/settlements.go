package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swisscoin/swisscoin/internal/models"
	"github.com/swisscoin/swisscoin/internal/service"
)

func createSettlementHandler(settlements *service.SettlementService) http.HandlerFunc {
	type request struct {
		MemberID string  `json:"member_id"`
		Amount   float64 `json:"amount"`
		Note     string  `json:"note,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.MemberID == "" {
			writeError(w, http.StatusBadRequest, "member_id is required")
			return
		}
		vp, err := viewpoint(r)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		settlement, err := settlements.RecordSettlement(r.Context(), vp, req.MemberID, req.Amount, req.Note)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, settlement)
	}
}

func listSettlementsHandler(settlements *service.SettlementService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := settlements.ListSettlements(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list settlements")
			return
		}
		if list == nil {
			list = []*models.Settlement{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func deleteSettlementHandler(settlements *service.SettlementService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := settlements.DeleteSettlement(r.Context(), chi.URLParam(r, "settlementID")); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
