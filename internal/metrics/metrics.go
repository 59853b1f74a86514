package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Bot Metrics
var (
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCommandsTotal,
			Help: HelpTextCommandsTotal,
		},
		[]string{LabelPlatform, LabelCommand},
	)

	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSearchesTotal,
			Help: HelpTextSearchesTotal,
		},
		[]string{LabelPlatform, LabelMode, LabelOutcome},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameSearchDuration,
			Help:    HelpTextSearchDuration,
			Buckets: SearchLatencyBuckets,
		},
		[]string{LabelMode},
	)

	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameSearchResults,
			Help:    HelpTextSearchResults,
			Buckets: SearchResultBuckets,
		},
	)

	SearchesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameSearchesInFlight,
			Help: HelpTextSearchesInFlight,
		},
	)

	DeliveryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDeliveryFailures,
			Help: HelpTextDeliveryFailures,
		},
		[]string{LabelPlatform},
	)

	HandlerPanics = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHandlerPanics,
			Help: HelpTextHandlerPanics,
		},
		[]string{LabelPlatform},
	)
)

// Mode returns the mode label for a search
func Mode(similar bool) string {
	if similar {
		return ModeSimilar
	}
	return ModeExact
}
