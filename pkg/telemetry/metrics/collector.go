package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config contains configuration for the metrics collector.
type Config struct {
	// Namespace is the metric name prefix. Default: "complie".
	Namespace string

	// Subsystem groups the export metrics. Default: "export".
	Subsystem string
}

// DefaultConfig returns the default metrics configuration.
func DefaultConfig() *Config {
	return &Config{
		Namespace: "complie",
		Subsystem: "export",
	}
}

// Collector tracks export-run metrics on a private registry.
type Collector struct {
	registry *prometheus.Registry

	runsTotal    *prometheus.CounterVec
	runDuration  *prometheus.HistogramVec
	rowsTotal    *prometheus.CounterVec
	runsInFlight prometheus.Gauge
}

// NewCollector creates and registers the export metrics.
func NewCollector(cfg *Config) *Collector {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_total",
				Help:      "Total number of export runs by format and status",
			},
			[]string{"format", "status"},
		),

		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "run_duration_seconds",
				Help:      "Duration of export runs in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"format"},
		),

		rowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rows_total",
				Help:      "Total number of rows exported by format",
			},
			[]string{"format"},
		),

		runsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_in_flight",
				Help:      "Number of export runs currently executing",
			},
		),
	}

	c.registry.MustRegister(
		c.runsTotal,
		c.runDuration,
		c.rowsTotal,
		c.runsInFlight,
	)

	return c
}

// RunStarted records the start of an export run.
func (c *Collector) RunStarted() {
	c.runsInFlight.Inc()
}

// RunCompleted records a finished run. Status is "success" or "failure".
func (c *Collector) RunCompleted(format, status string, duration time.Duration, rows int) {
	c.runsInFlight.Dec()
	c.runsTotal.WithLabelValues(format, status).Inc()
	c.runDuration.WithLabelValues(format).Observe(duration.Seconds())
	if rows > 0 {
		c.rowsTotal.WithLabelValues(format).Add(float64(rows))
	}
}

// Handler returns an HTTP handler for the Prometheus metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// Registry exposes the underlying registry for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
