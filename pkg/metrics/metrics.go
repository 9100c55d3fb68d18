package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/formvalidator/pkg/validator"
)

// Config configures the Prometheus collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "formvalidator").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for event duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "formvalidator",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors. It implements validator.Observer and is
// safe for concurrent use by many validators.
type Metrics struct {
	validations    *prometheus.CounterVec
	submits        *prometheus.CounterVec
	submitFailures prometheus.Histogram
	eventsTotal    *prometheus.CounterVec
	eventDuration  *prometheus.HistogramVec
	patchesSent    prometheus.Counter
	activeSessions prometheus.Gauge
	wsErrors       *prometheus.CounterVec
}

var _ validator.Observer = (*Metrics)(nil)

// New creates and registers the collectors.
//
// Metrics collected:
//   - formvalidator_validations_total: field validations by selector and result
//   - formvalidator_submits_total: submit attempts by result (accepted, blocked)
//   - formvalidator_submit_failed_fields: failed fields per blocked submit
//   - formvalidator_events_total: live events by type and status
//   - formvalidator_event_duration_seconds: live event processing duration
//   - formvalidator_patches_sent_total: patches sent to live clients
//   - formvalidator_active_sessions: open live sessions
//   - formvalidator_websocket_errors_total: WebSocket errors by type
//
// Registering twice on the same registry panics, as with promauto.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.DefaultRegisterer
	}
	if len(config.Buckets) == 0 {
		config.Buckets = prometheus.DefBuckets
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		validations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "validations_total",
			Help:        "Total number of field validations",
			ConstLabels: config.ConstLabels,
		}, []string{"selector", "result"}),

		submits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "submits_total",
			Help:        "Total number of submit attempts",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		submitFailures: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "submit_failed_fields",
			Help:        "Number of failed fields per blocked submit",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 3, 5, 8, 13},
		}),

		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_total",
			Help:        "Total number of live events processed",
			ConstLabels: config.ConstLabels,
		}, []string{"type", "status"}),

		eventDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "event_duration_seconds",
			Help:        "Live event processing duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"type"}),

		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_sent_total",
			Help:        "Total number of patches sent to live clients",
			ConstLabels: config.ConstLabels,
		}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of open live sessions",
			ConstLabels: config.ConstLabels,
		}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total WebSocket errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

func result(ok bool) string {
	if ok {
		return "pass"
	}
	return "fail"
}

// FieldValidated implements validator.Observer.
func (m *Metrics) FieldValidated(selector string, ok bool) {
	m.validations.WithLabelValues(selector, result(ok)).Inc()
}

// SubmitFinished implements validator.Observer.
func (m *Metrics) SubmitFinished(res validator.Result) {
	switch res.State {
	case validator.StateBlocked:
		m.submits.WithLabelValues("blocked").Inc()
		m.submitFailures.Observe(float64(len(res.Failures)))
	case validator.StateCollecting:
		m.submits.WithLabelValues("accepted").Inc()
	}
}

// RecordEvent records one processed live event.
func (m *Metrics) RecordEvent(eventType string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.eventsTotal.WithLabelValues(eventType, status).Inc()
	m.eventDuration.WithLabelValues(eventType).Observe(d.Seconds())
}

// RecordPatches records the number of patches sent.
func (m *Metrics) RecordPatches(count int) {
	m.patchesSent.Add(float64(count))
}

// SessionOpened records a new live session.
func (m *Metrics) SessionOpened() {
	m.activeSessions.Inc()
}

// SessionClosed records the end of a live session.
func (m *Metrics) SessionClosed() {
	m.activeSessions.Dec()
}

// RecordWebSocketError records a WebSocket error.
func (m *Metrics) RecordWebSocketError(errorType string) {
	m.wsErrors.WithLabelValues(errorType).Inc()
}
