package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for CashLedger.
type Metrics struct {
	// --- Core processing ---
	EventsProcessed *prometheus.CounterVec
	EventsFailed    *prometheus.CounterVec
	EventDuration   *prometheus.HistogramVec

	// --- Reconciliation ---
	AccountsReconciled prometheus.Counter
	BalanceChanges     prometheus.Counter
	PositionChanges    prometheus.Counter

	// --- History ---
	TradesRecorded       *prometheus.CounterVec
	LiquidationsRecorded prometheus.Counter
	SettlementsRecorded  prometheus.Counter

	// --- Ingestion ---
	EventsReceived    *prometheus.CounterVec
	EventsRedelivered *prometheus.CounterVec
	ParseErrors       *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	durationBuckets := []float64{
		0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005,
		0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0,
	}

	return &Metrics{
		EventsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cashledger_events_processed_total",
			Help: "Events fully reconciled",
		}, []string{"event_type"}),

		EventsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cashledger_events_failed_total",
			Help: "Events whose processing aborted",
		}, []string{"event_type"}),

		EventDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cashledger_event_duration_seconds",
			Help:    "Time to fully process one event",
			Buckets: durationBuckets,
		}, []string{"event_type"}),

		AccountsReconciled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashledger_accounts_reconciled_total",
			Help: "Account reconciliation passes",
		}),

		BalanceChanges: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashledger_balance_changes_total",
			Help: "Balance deltas detected during reconciliation",
		}),

		PositionChanges: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashledger_position_changes_total",
			Help: "Position diffs detected during reconciliation",
		}),

		TradesRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cashledger_trades_recorded_total",
			Help: "Trade records written",
		}, []string{"position_type"}),

		LiquidationsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashledger_liquidations_recorded_total",
			Help: "Liquidation records written",
		}),

		SettlementsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashledger_settlements_recorded_total",
			Help: "Settlement records written",
		}),

		EventsReceived: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cashledger_events_received_total",
			Help: "Raw events received from the stream",
		}, []string{"subject"}),

		EventsRedelivered: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cashledger_events_redelivered_total",
			Help: "Events negatively acknowledged for redelivery",
		}, []string{"subject"}),

		ParseErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cashledger_parse_errors_total",
			Help: "Malformed event payloads",
		}, []string{"subject"}),
	}
}
