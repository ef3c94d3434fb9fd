// Package handler exposes the application services over a JSON REST API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/swisscoin/swisscoin/internal/auth"
	"github.com/swisscoin/swisscoin/internal/billing"
	"github.com/swisscoin/swisscoin/internal/ledger"
	"github.com/swisscoin/swisscoin/internal/middleware"
	"github.com/swisscoin/swisscoin/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeServiceError maps known domain errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrNoParticipants),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrSplitMismatch),
		errors.Is(err, ledger.ErrPercentMismatch),
		errors.Is(err, ledger.ErrNoShares),
		errors.Is(err, ledger.ErrNegativeSplit),
		errors.Is(err, ledger.ErrUnknownMethod),
		errors.Is(err, ledger.ErrPayerMismatch),
		errors.Is(err, ledger.ErrDuplicatePartner),
		errors.Is(err, ledger.ErrInvalidSettlementAmount),
		errors.Is(err, billing.ErrInvalidCustomDays),
		errors.Is(err, billing.ErrUnknownUnit),
		errors.Is(err, service.ErrNoPayer),
		errors.Is(err, service.ErrInvalidPayer),
		errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrNothingOutstanding),
		errors.Is(err, auth.ErrEmailExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// viewpoint resolves the balance viewpoint for a request: an explicit
// ?viewpoint=<person-id> query param when present, otherwise the person
// carried in the session token. Balance functions take the viewpoint as
// a parameter all the way down, so any person can be used as the
// vantage point.
func viewpoint(r *http.Request) (string, error) {
	if v := r.URL.Query().Get("viewpoint"); v != "" {
		return v, nil
	}
	if personID := middleware.GetPersonID(r.Context()); personID != "" {
		return personID, nil
	}
	return "", auth.ErrMissingToken
}
