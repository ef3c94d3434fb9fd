package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swisscoin/swisscoin/internal/ledger"
	"github.com/swisscoin/swisscoin/internal/models"
	"github.com/swisscoin/swisscoin/internal/service"
)

type participantRequest struct {
	PersonID   string  `json:"person_id"`
	Amount     float64 `json:"amount,omitempty"`
	Percent    float64 `json:"percent,omitempty"`
	Shares     float64 `json:"shares,omitempty"`
	Adjustment float64 `json:"adjustment,omitempty"`
}

type payerRequest struct {
	PersonID string  `json:"person_id"`
	Amount   float64 `json:"amount"`
}

func createExpenseHandler(expenses *service.ExpenseService) http.HandlerFunc {
	type request struct {
		Description  string               `json:"description"`
		Amount       float64              `json:"amount"`
		Date         int64                `json:"date,omitempty"`
		Method       string               `json:"method"`
		PayerID      string               `json:"payer_id,omitempty"`
		Payers       []payerRequest       `json:"payers,omitempty"`
		Participants []participantRequest `json:"participants"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeJSON(w, r, &req) {
			return
		}

		input := service.ExpenseInput{
			Description: req.Description,
			Amount:      req.Amount,
			Date:        req.Date,
			Method:      ledger.SplitMethod(req.Method),
			PayerID:     req.PayerID,
		}
		for _, p := range req.Participants {
			input.Participants = append(input.Participants, ledger.Participant{
				PersonID:   p.PersonID,
				Amount:     p.Amount,
				Percent:    p.Percent,
				Shares:     p.Shares,
				Adjustment: p.Adjustment,
			})
		}
		for _, p := range req.Payers {
			input.Payers = append(input.Payers, ledger.Payer{PersonID: p.PersonID, Amount: p.Amount})
		}

		expense, err := expenses.RecordExpense(r.Context(), input)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, expense)
	}
}

func listExpensesHandler(expenses *service.ExpenseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := expenses.ListExpenses(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list expenses")
			return
		}
		if list == nil {
			list = []*models.Expense{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func getExpenseHandler(expenses *service.ExpenseService) http.HandlerFunc {
	type response struct {
		Expense *models.Expense `json:"expense"`
		// Settled is false when splits or payer contributions do not
		// reconcile against the total; surfaced for display, never an
		// error.
		Settled    bool    `json:"settled"`
		SplitTotal float64 `json:"split_total"`
		PaidTotal  float64 `json:"paid_total"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		expense, rec, err := expenses.GetExpense(r.Context(), chi.URLParam(r, "expenseID"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, response{
			Expense:    expense,
			Settled:    rec.Settled,
			SplitTotal: rec.SplitTotal,
			PaidTotal:  rec.PaidTotal,
		})
	}
}

func deleteExpenseHandler(expenses *service.ExpenseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := expenses.DeleteExpense(r.Context(), chi.URLParam(r, "expenseID")); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func balancesHandler(expenses *service.ExpenseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vp, err := viewpoint(r)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		summary, err := expenses.MemberBalances(r.Context(), vp)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to compute balances")
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func pairwiseHandler(expenses *service.ExpenseService) http.HandlerFunc {
	type response struct {
		PersonA string  `json:"person_a"`
		PersonB string  `json:"person_b"`
		Balance float64 `json:"balance"` // net amount B owes A
	}
	return func(w http.ResponseWriter, r *http.Request) {
		a := r.URL.Query().Get("a")
		b := r.URL.Query().Get("b")
		if a == "" || b == "" {
			writeError(w, http.StatusBadRequest, "query params a and b are required")
			return
		}
		balance, err := expenses.PairwiseBalance(r.Context(), a, b)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to compute pairwise balance")
			return
		}
		writeJSON(w, http.StatusOK, response{PersonA: a, PersonB: b, Balance: balance})
	}
}
