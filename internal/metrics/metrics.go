package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes
const (
	OutcomeSuccess       = "success"
	OutcomeNoData        = "no_data"
	OutcomeMalformed     = "malformed"
	OutcomeUnexpected    = "unexpected_shape"
	OutcomeProviderError = "provider_error"
	OutcomeNoCredential  = "missing_credential"
)

// Generative call operations
const (
	OperationRegionalNews = "regional_news"
	OperationScript       = "script"
)

var (
	// HTTP request metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Business metrics
	NewsFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_fetch_total",
			Help: "Total number of regional news fetches by outcome",
		},
		[]string{"region", "outcome"},
	)

	NewsItemsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_items_generated_total",
			Help: "Total number of normalized news items produced",
		},
		[]string{"region"},
	)

	NewsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_drafts_published_total",
			Help: "Total number of post drafts published to Telegram",
		},
		[]string{"region", "status"},
	)

	// Generative model calls, including the wait for grounding
	AIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "Duration of generative model calls in seconds",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 90, 120},
		},
		[]string{"operation"},
	)
)
