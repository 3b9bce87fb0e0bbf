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

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Ledger Metrics
var (
	BetsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBetsCreated,
			Help: HelpTextBetsCreated,
		},
	)

	WagersPlaced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameWagersPlaced,
			Help: HelpTextWagersPlaced,
		},
		[]string{LabelOption},
	)

	PointsWagered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePointsWagered,
			Help: HelpTextPointsWagered,
		},
	)

	BetsResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBetsResolved,
			Help: HelpTextBetsResolved,
		},
	)

	PointsPaidOut = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePointsPaidOut,
			Help: HelpTextPointsPaidOut,
		},
	)

	PointsForfeited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePointsForfeited,
			Help: HelpTextPointsForfeited,
		},
	)

	PayoutFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePayoutFailures,
			Help: HelpTextPayoutFailures,
		},
	)

	SettlementsReconciled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSettlementsReconciled,
			Help: HelpTextSettlementsReconciled,
		},
	)

	UnsettledBets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameUnsettledBets,
			Help: HelpTextUnsettledBets,
		},
	)

	BalanceAdjustments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBalanceAdjustments,
			Help: HelpTextBalanceAdjustments,
		},
		[]string{LabelKind},
	)
)
