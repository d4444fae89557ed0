package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// risk engine.
type Metrics struct {
	WeatherFetches  *prometheus.CounterVec // labels: outcome={success,error,fallback}
	RefreshDuration prometheus.Histogram
	RefreshSkips    prometheus.Counter

	NotificationsGenerated *prometheus.CounterVec // labels: type={critical,warning,info,high-risk-alert}
	AlertsPublished        prometheus.Counter

	// Audit trail metrics.
	AuditRecords     *prometheus.CounterVec // labels: kind={flood,disregard}
	AuditWriteErrors prometheus.Counter

	StoreErrors *prometheus.CounterVec // labels: op

	MonitoredAreas   prometheus.Gauge
	SimulationActive prometheus.Gauge
}

// NewMetrics creates and registers all engine metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		WeatherFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kalaw_flood",
			Name:      "weather_fetches_total",
			Help:      "Weather provider fetches by outcome.",
		}, []string{"outcome"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kalaw_flood",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete weather refresh and notification rebuild.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		RefreshSkips: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kalaw_flood",
			Name:      "refresh_skips_total",
			Help:      "Refresh cycles skipped because a previous cycle was still running.",
		}),
		NotificationsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kalaw_flood",
			Name:      "notifications_generated_total",
			Help:      "Notifications emitted per rebuild, by type.",
		}, []string{"type"}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kalaw_flood",
			Name:      "alerts_published_total",
			Help:      "High-risk alerts published to the alert topic.",
		}),
		AuditRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kalaw_flood",
			Name:      "audit_records_total",
			Help:      "Audit records written, by kind.",
		}, []string{"kind"}),
		AuditWriteErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kalaw_flood",
			Name:      "audit_write_errors_total",
			Help:      "Audit record writes that failed.",
		}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kalaw_flood",
			Name:      "store_errors_total",
			Help:      "Persistence operation failures, by operation.",
		}, []string{"op"}),
		MonitoredAreas: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kalaw_flood",
			Name:      "monitored_areas",
			Help:      "Current number of monitored areas.",
		}),
		SimulationActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kalaw_flood",
			Name:      "simulation_active",
			Help:      "1 when a weather simulation is active, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.WeatherFetches,
		m.RefreshDuration,
		m.RefreshSkips,
		m.NotificationsGenerated,
		m.AlertsPublished,
		m.AuditRecords,
		m.AuditWriteErrors,
		m.StoreErrors,
		m.MonitoredAreas,
		m.SimulationActive,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		WeatherFetches:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "kalaw_flood", Name: "weather_fetches_total"}, []string{"outcome"}),
		RefreshDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "kalaw_flood", Name: "refresh_duration_seconds"}),
		RefreshSkips:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: "kalaw_flood", Name: "refresh_skips_total"}),
		NotificationsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "kalaw_flood", Name: "notifications_generated_total"}, []string{"type"}),
		AlertsPublished:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "kalaw_flood", Name: "alerts_published_total"}),
		AuditRecords:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "kalaw_flood", Name: "audit_records_total"}, []string{"kind"}),
		AuditWriteErrors:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "kalaw_flood", Name: "audit_write_errors_total"}),
		StoreErrors:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "kalaw_flood", Name: "store_errors_total"}, []string{"op"}),
		MonitoredAreas:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "kalaw_flood", Name: "monitored_areas"}),
		SimulationActive:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "kalaw_flood", Name: "simulation_active"}),
	}
}
