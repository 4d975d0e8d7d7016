package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	VouchersPosted   *prometheus.CounterVec
	VouchersReversed prometheus.Counter
	PostingDuration  prometheus.Histogram
	PostingErrors    *prometheus.CounterVec

	// Billing metrics
	BillsDrafted    prometheus.Counter
	BillsConfirmed  prometheus.Counter
	BillsCancelled  prometheus.Counter
	BillAmount      prometheus.Histogram
	ReceiptsCreated prometheus.Counter

	// Batch billing metrics
	BatchRuns        prometheus.Counter
	BatchLotsBilled  prometheus.Counter
	BatchLotsSkipped prometheus.Counter
	BatchErrors      prometheus.Counter
	BatchDuration    prometheus.Histogram

	// Rent computation metrics
	RentQuotes      prometheus.Counter
	RentQuoteErrors *prometheus.CounterVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Ledger metrics
		VouchersPosted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coldledger_vouchers_posted_total",
				Help: "Total number of vouchers posted by type",
			},
			[]string{"type"},
		),
		VouchersReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coldledger_vouchers_reversed_total",
			Help: "Total number of vouchers reversed",
		}),
		PostingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "coldledger_posting_duration_seconds",
			Help:    "Duration of voucher posting operations",
			Buckets: prometheus.DefBuckets,
		}),
		PostingErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coldledger_posting_errors_total",
				Help: "Total number of posting errors by type",
			},
			[]string{"error_type"},
		),

		// Billing metrics
		BillsDrafted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coldledger_bills_drafted_total",
			Help: "Total number of bills drafted",
		}),
		BillsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coldledger_bills_confirmed_total",
			Help: "Total number of bills confirmed to the ledger",
		}),
		BillsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coldledger_bills_cancelled_total",
			Help: "Total number of bills cancelled",
		}),
		BillAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "coldledger_bill_amount",
			Help:    "Grand totals of confirmed bills",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000},
		}),
		ReceiptsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coldledger_receipts_created_total",
			Help: "Total number of receipts created",
		}),

		// Batch billing metrics
		BatchRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coldledger_batch_runs_total",
			Help: "Total number of batch billing runs",
		}),
		BatchLotsBilled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coldledger_batch_lots_billed_total",
			Help: "Total lots billed by batch runs",
		}),
		BatchLotsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coldledger_batch_lots_skipped_total",
			Help: "Total lots skipped by batch runs as already billed",
		}),
		BatchErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coldledger_batch_errors_total",
			Help: "Total per-lot errors during batch runs",
		}),
		BatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "coldledger_batch_duration_seconds",
			Help:    "Duration of batch billing runs",
			Buckets: []float64{.1, .5, 1, 5, 15, 60, 300},
		}),

		// Rent computation metrics
		RentQuotes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coldledger_rent_quotes_total",
			Help: "Total number of rent quotes computed",
		}),
		RentQuoteErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coldledger_rent_quote_errors_total",
				Help: "Total rent quote errors by type",
			},
			[]string{"error_type"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coldledger_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coldledger_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "coldledger_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coldledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coldledger_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coldledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),
	}
}
