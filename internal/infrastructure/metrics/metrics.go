package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Account metrics
	AccountsCreated   prometheus.Counter
	AccountOperations *prometheus.CounterVec

	// Transfer metrics
	TransfersCompleted prometheus.Counter
	TransferAmount     prometheus.Histogram

	// Concurrency metrics
	ConflictRetries    *prometheus.CounterVec
	ConflictsExhausted *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBConnections prometheus.Gauge
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return newWithRegisterer(prometheus.DefaultRegisterer)
}

// NewForTesting registers the metrics on a private registry so tests can
// create as many instances as they like.
func NewForTesting() *Metrics {
	return newWithRegisterer(prometheus.NewRegistry())
}

func newWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "zkybank_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zkybank_account_operations_total",
				Help: "Total account operations by type",
			},
			[]string{"operation"},
		),

		TransfersCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "zkybank_transfers_completed_total",
			Help: "Total number of completed transfers",
		}),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "zkybank_transfer_amount_cents",
			Help:    "Transfer amounts in minor units",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
		}),

		ConflictRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zkybank_conflict_retries_total",
				Help: "Total concurrency-conflict retries by operation",
			},
			[]string{"operation"},
		),
		ConflictsExhausted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zkybank_conflicts_exhausted_total",
				Help: "Total operations that failed after exhausting conflict retries",
			},
			[]string{"operation"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zkybank_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "zkybank_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		DBConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "zkybank_db_connections",
			Help: "Current number of database connections",
		}),
	}
}
