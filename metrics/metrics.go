package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webinar_http_requests_total",
			Help: "Total HTTP requests processed by route, method, and status code",
		},
		[]string{"route", "method", "status_code"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webinar_http_request_duration_seconds",
			Help:    "HTTP request latency distribution in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"route", "method"},
	)

	// Business
	QRScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webinar_qr_scans_total",
			Help: "QR code resolutions by result",
		},
		[]string{"result"},
	)
	CommissionRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webinar_commission_runs_total",
			Help: "Commission report computations by rate table",
		},
		[]string{"table"},
	)
	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webinar_emails_sent_total",
			Help: "Transactional emails by result",
		},
		[]string{"result"},
	)
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webinar_uploads_total",
			Help: "Uploaded files by kind",
		},
		[]string{"kind"},
	)

	// Cache
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webinar_cache_hits_total",
			Help: "Cache hits by cache name",
		},
		[]string{"cache"},
	)
	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webinar_cache_misses_total",
			Help: "Cache misses by cache name",
		},
		[]string{"cache"},
	)
)
