package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "watson_http_requests_total"
	MetricNameHTTPRequestDuration  = "watson_http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "watson_http_requests_in_flight"
)

// Bot metric names
const (
	MetricNameCommandsTotal    = "watson_commands_total"
	MetricNameSearchesTotal    = "watson_searches_total"
	MetricNameSearchDuration   = "watson_search_duration_seconds"
	MetricNameSearchResults    = "watson_search_results"
	MetricNameSearchesInFlight = "watson_searches_in_flight"
	MetricNameDeliveryFailures = "watson_delivery_failures_total"
	MetricNameHandlerPanics    = "watson_handler_panics_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Bot metric help text
const (
	HelpTextCommandsTotal    = "Total number of chat commands received"
	HelpTextSearchesTotal    = "Total number of username searches by outcome"
	HelpTextSearchDuration   = "Wall-clock duration of search tool runs in seconds"
	HelpTextSearchResults    = "Number of accounts found per successful search"
	HelpTextSearchesInFlight = "Current number of running search tool processes"
	HelpTextDeliveryFailures = "Total number of chat messages that failed to send"
	HelpTextHandlerPanics    = "Total number of recovered command handler panics"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelPlatform = "platform"
	LabelCommand  = "command"
	LabelMode     = "mode"
	LabelOutcome  = "outcome"
)

// ============================================================================
// Label Values
// ============================================================================

// Search outcomes
const (
	OutcomeFound     = "found"
	OutcomeNoResults = "no_results"
	OutcomeFailed    = "failed"
	OutcomeTimedOut  = "timed_out"
	OutcomeInvalid   = "invalid"
)

// Search modes
const (
	ModeExact   = "exact"
	ModeSimilar = "similar"
)

// Bucket layouts
var (
	HTTPLatencyBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1}
	SearchLatencyBuckets = []float64{1, 5, 15, 30, 60, 120, 180, 300}
	SearchResultBuckets  = []float64{0, 1, 5, 10, 25, 50, 100, 200, 400}
)
