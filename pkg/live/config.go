package live

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/formvalidator/pkg/metrics"
	"github.com/vango-dev/formvalidator/pkg/validator"
)

const (
	// WebSocketPath is the route of the event endpoint.
	WebSocketPath = "/_live/ws"

	// HealthPath is the route of the health check.
	HealthPath = "/healthz"

	// MetricsPath is the route of the Prometheus endpoint.
	MetricsPath = "/metrics"

	defaultTracerName = "formvalidator"
)

// Config configures a live Server.
type Config struct {
	// Page is the HTML page holding the form.
	Page []byte

	// Validator describes the form and its rules. Each session gets its own
	// validator built from it. When OnSubmit is nil, accepted submissions
	// are answered with a native-submit message. OnSubmit is shared by all
	// sessions; the server serializes its calls.
	Validator validator.Config

	// Metrics receives validation, event and session metrics. Optional.
	Metrics *metrics.Metrics

	// Gatherer is served on /metrics when set.
	Gatherer prometheus.Gatherer

	// ReadTimeout is the maximum time to wait for a client event.
	// Default: 60s
	ReadTimeout time.Duration

	// HeartbeatInterval is the time between WebSocket pings. It is kept
	// below ReadTimeout.
	// Default: 25s
	HeartbeatInterval time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10s
	WriteTimeout time.Duration

	// MaxMessageSize is the maximum size of a client event in bytes.
	// Default: 64KB
	MaxMessageSize int64

	// CheckOrigin validates the Origin header of WebSocket upgrades.
	// Default: same origin only.
	CheckOrigin func(r *http.Request) bool

	// TracerName is the OpenTelemetry tracer name (default: "formvalidator").
	TracerName string

	// Logger is the structured logger. Default: slog.Default()
	Logger *slog.Logger
}

func (c *Config) applyDefaults() {
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 60 * time.Second
	}
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = 25 * time.Second
	}
	if c.HeartbeatInterval >= c.ReadTimeout {
		c.HeartbeatInterval = c.ReadTimeout / 2
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = 64 * 1024
	}
	if c.TracerName == "" {
		c.TracerName = defaultTracerName
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
