package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Bookkeeping metrics
	ChartsCreated       prometheus.Counter
	AccountsCreated     prometheus.Counter
	AccountOperations   *prometheus.CounterVec
	TransactionsPosted  prometheus.Counter
	TransactionsDeleted prometheus.Counter
	TransactionErrors   *prometheus.CounterVec
	EntryValue          prometheus.Histogram

	// Report metrics
	ReportsServed  *prometheus.CounterVec
	ReportDuration *prometheus.HistogramVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ChartsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobooks_charts_created_total",
			Help: "Total number of charts of accounts created",
		}),
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobooks_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_account_operations_total",
				Help: "Total number of account operations by type",
			},
			[]string{"operation"},
		),
		TransactionsPosted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobooks_transactions_posted_total",
			Help: "Total number of ledger transactions posted",
		}),
		TransactionsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobooks_transactions_deleted_total",
			Help: "Total number of ledger transactions deleted",
		}),
		TransactionErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_transaction_errors_total",
				Help: "Total number of rejected transactions by reason",
			},
			[]string{"reason"},
		),
		EntryValue: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gobooks_entry_value",
			Help:    "Posted entry values",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		ReportsServed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_reports_served_total",
				Help: "Total number of reports served by kind",
			},
			[]string{"kind"},
		),
		ReportDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobooks_report_duration_seconds",
				Help:    "Duration of report derivation by kind",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobooks_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		CacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_cache_hits_total",
				Help: "Total number of cache hits by key kind",
			},
			[]string{"kind"},
		),
		CacheMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_cache_misses_total",
				Help: "Total number of cache misses by key kind",
			},
			[]string{"kind"},
		),
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_rate_limit_hits_total",
				Help: "Total number of rate limited requests",
			},
			[]string{"path"},
		),
	}
}
