package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swisscoin/swisscoin/internal/billing"
	"github.com/swisscoin/swisscoin/internal/service"
)

func createSubscriptionHandler(subs *service.SubscriptionService) http.HandlerFunc {
	type request struct {
		Name      string   `json:"name"`
		Amount    float64  `json:"amount"`
		CycleUnit string   `json:"cycle_unit"`
		CycleDays int      `json:"cycle_days,omitempty"`
		StartDate int64    `json:"start_date"`
		MemberIDs []string `json:"member_ids,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		sub, err := subs.CreateSubscription(r.Context(), service.SubscriptionInput{
			Name:      req.Name,
			Amount:    req.Amount,
			CycleUnit: billing.Unit(req.CycleUnit),
			CycleDays: req.CycleDays,
			StartDate: req.StartDate,
			MemberIDs: req.MemberIDs,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sub)
	}
}

func listSubscriptionsHandler(subs *service.SubscriptionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeArchived := r.URL.Query().Get("include_archived") == "true"
		views, err := subs.ListSubscriptions(r.Context(), includeArchived)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list subscriptions")
			return
		}
		if views == nil {
			views = []service.SubscriptionView{}
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func getSubscriptionHandler(subs *service.SubscriptionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := subs.GetSubscription(r.Context(), chi.URLParam(r, "subID"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func pauseSubscriptionHandler(subs *service.SubscriptionService) http.HandlerFunc {
	return setActiveHandler(subs, false)
}

func resumeSubscriptionHandler(subs *service.SubscriptionService) http.HandlerFunc {
	return setActiveHandler(subs, true)
}

func setActiveHandler(subs *service.SubscriptionService, active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, err := subs.SetActive(r.Context(), chi.URLParam(r, "subID"), active)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, sub)
	}
}

func archiveSubscriptionHandler(subs *service.SubscriptionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, err := subs.Archive(r.Context(), chi.URLParam(r, "subID"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, sub)
	}
}

func createPaymentHandler(subs *service.SubscriptionService) http.HandlerFunc {
	type request struct {
		PaidByID string  `json:"paid_by_id"`
		Amount   float64 `json:"amount,omitempty"` // defaults to the subscription amount
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeJSON(w, r, &req) {
			return
		}
		payment, err := subs.RecordPayment(r.Context(), chi.URLParam(r, "subID"), req.PaidByID, req.Amount)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, payment)
	}
}

func subscriptionBalancesHandler(subs *service.SubscriptionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vp, err := viewpoint(r)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		balances, err := subs.Balances(r.Context(), chi.URLParam(r, "subID"), vp)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to compute subscription balances")
			return
		}
		writeJSON(w, http.StatusOK, balances)
	}
}

func createSubSettlementHandler(subs *service.SubscriptionService) http.HandlerFunc {
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
		settlement, err := subs.RecordSettlement(r.Context(), chi.URLParam(r, "subID"), vp, req.MemberID, req.Amount, req.Note)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, settlement)
	}
}
