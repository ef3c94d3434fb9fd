// Package metrics registers the Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ExpensesRecorded    prometheus.Counter
	SettlementsRecorded prometheus.Counter
	SettlementsCapped   prometheus.Counter
	BalanceQueries      prometheus.Counter
	PaymentsRecorded    prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ExpensesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "swisscoin_expenses_recorded_total",
			Help: "Total number of expenses recorded",
		}),
		SettlementsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "swisscoin_settlements_recorded_total",
			Help: "Total number of settlements recorded",
		}),
		SettlementsCapped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "swisscoin_settlements_capped_total",
			Help: "Settlements whose requested amount exceeded the outstanding balance and was clamped",
		}),
		BalanceQueries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "swisscoin_balance_queries_total",
			Help: "Total number of balance computations served",
		}),
		PaymentsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "swisscoin_subscription_payments_recorded_total",
			Help: "Total number of subscription payments recorded",
		}),
	}
}
