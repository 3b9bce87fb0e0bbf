package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Ledger metric names
const (
	MetricNameBetsCreated           = "lunabet_bets_created_total"
	MetricNameWagersPlaced          = "lunabet_wagers_placed_total"
	MetricNamePointsWagered         = "lunabet_points_wagered_total"
	MetricNameBetsResolved          = "lunabet_bets_resolved_total"
	MetricNamePointsPaidOut         = "lunabet_points_paid_out_total"
	MetricNamePointsForfeited       = "lunabet_points_forfeited_total"
	MetricNamePayoutFailures        = "lunabet_payout_failures_total"
	MetricNameSettlementsReconciled = "lunabet_settlements_reconciled_total"
	MetricNameUnsettledBets         = "lunabet_unsettled_bets"
	MetricNameBalanceAdjustments    = "lunabet_balance_adjustments_total"
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

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Ledger metric help text
const (
	HelpTextBetsCreated           = "Total number of bets opened"
	HelpTextWagersPlaced          = "Total number of committed wagers"
	HelpTextPointsWagered         = "Total points staked on bets"
	HelpTextBetsResolved          = "Total number of bets resolved with payouts applied"
	HelpTextPointsPaidOut         = "Total points credited to winners"
	HelpTextPointsForfeited       = "Total points retained by rounding or by bets nobody won"
	HelpTextPayoutFailures        = "Bets resolved whose payout batch failed to apply"
	HelpTextSettlementsReconciled = "Payout batches applied by reconciliation"
	HelpTextUnsettledBets         = "Resolved bets currently waiting for their payouts"
	HelpTextBalanceAdjustments    = "Total number of admin balance adjustments"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
	LabelOption = "option"
	LabelKind   = "kind"
)

// PathUnmatched labels requests that matched no route
const PathUnmatched = "unmatched"

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgPayloadDecodeFailed = "Failed to decode event payload for metrics"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
)
