package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/swisscoin/swisscoin/internal/auth"
	"github.com/swisscoin/swisscoin/internal/middleware"
	"github.com/swisscoin/swisscoin/internal/service"
	"github.com/swisscoin/swisscoin/internal/storage"
)

// Services bundles everything the router needs.
type Services struct {
	Expenses      *service.ExpenseService
	Settlements   *service.SettlementService
	Subscriptions *service.SubscriptionService
	Auth          *service.AuthService

	Store      storage.Store
	JWTManager *auth.JWTManager
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(s Services) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Heartbeat("/ping"))
	r.Use(middleware.RequestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", registerHandler(s.Auth))
		r.Post("/auth/login", loginHandler(s.Auth))

		// Everything else requires a valid token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(s.JWTManager))

			r.Get("/auth/me", currentUserHandler(s.Store))

			r.Post("/persons", createPersonHandler(s.Store))
			r.Get("/persons", listPersonsHandler(s.Store))
			r.Delete("/persons/{personID}", deletePersonHandler(s.Store))

			r.Post("/expenses", createExpenseHandler(s.Expenses))
			r.Get("/expenses", listExpensesHandler(s.Expenses))
			r.Get("/expenses/{expenseID}", getExpenseHandler(s.Expenses))
			r.Delete("/expenses/{expenseID}", deleteExpenseHandler(s.Expenses))

			r.Get("/balances", balancesHandler(s.Expenses))
			r.Get("/balances/pairwise", pairwiseHandler(s.Expenses))

			r.Post("/settlements", createSettlementHandler(s.Settlements))
			r.Get("/settlements", listSettlementsHandler(s.Settlements))
			r.Delete("/settlements/{settlementID}", deleteSettlementHandler(s.Settlements))

			r.Post("/subscriptions", createSubscriptionHandler(s.Subscriptions))
			r.Get("/subscriptions", listSubscriptionsHandler(s.Subscriptions))
			r.Get("/subscriptions/{subID}", getSubscriptionHandler(s.Subscriptions))
			r.Post("/subscriptions/{subID}/pause", pauseSubscriptionHandler(s.Subscriptions))
			r.Post("/subscriptions/{subID}/resume", resumeSubscriptionHandler(s.Subscriptions))
			r.Post("/subscriptions/{subID}/archive", archiveSubscriptionHandler(s.Subscriptions))
			r.Post("/subscriptions/{subID}/payments", createPaymentHandler(s.Subscriptions))
			r.Get("/subscriptions/{subID}/balances", subscriptionBalancesHandler(s.Subscriptions))
			r.Post("/subscriptions/{subID}/settlements", createSubSettlementHandler(s.Subscriptions))
		})
	})

	return r
}
