package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Gym backend metrics
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_backend_requests_total",
			Help: "Total number of requests sent to the gym backend",
		},
		[]string{"resource", "status"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gym_backend_request_duration_seconds",
			Help:    "Duration of gym backend requests, retries included",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"resource"},
	)

	ListingTruncations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_backend_listing_truncations_total",
			Help: "Paged listings cut short at the configured page bound",
		},
		[]string{"resource"},
	)

	// Dashboard metrics
	DashboardSourceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_source_failures_total",
			Help: "Dashboard feeds that failed and were rendered as missing",
		},
		[]string{"source"},
	)

	// Cache metrics
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payload_cache_lookups_total",
			Help: "Payload cache lookups by resource and result",
		},
		[]string{"resource", "result"}, // hit, miss
	)

	// OCR metrics
	OCRExtractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ocr_extractions_total",
			Help: "Body composition extractions by input kind and outcome",
		},
		[]string{"input", "outcome"}, // text/image, ok/recognition_failed
	)

	OCRConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ocr_extraction_confidence",
			Help:    "Confidence of body composition extractions",
			Buckets: prometheus.LinearBuckets(0, 1.0/9, 10),
		},
	)

	// Authentication metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of token validations",
		},
		[]string{"status"}, // success, missing, invalid, expired
	)
)
