package commands

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"gitlab.com/gitlab-org/expand-archive/common"
)

// extractionMetrics describes a single run. They are written once, in the
// Prometheus text format, for node_exporter's textfile collector.
type extractionMetrics struct {
	registry *prometheus.Registry

	entriesTotal    prometheus.Gauge
	entriesSelected prometheus.Gauge
	archiveSize     prometheus.Gauge
	duration        prometheus.Gauge
	lastRunSuccess  prometheus.Gauge

	started time.Time
}

func newExtractionMetrics() *extractionMetrics {
	m := &extractionMetrics{
		registry: prometheus.NewRegistry(),
		entriesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "expand_archive_entries_total",
			Help: "Number of entries in the archive",
		}),
		entriesSelected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "expand_archive_entries_selected",
			Help: "Number of entries selected for extraction",
		}),
		archiveSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "expand_archive_size_bytes",
			Help: "Size of the archive in bytes",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "expand_archive_duration_seconds",
			Help: "Duration of the last run in seconds",
		}),
		lastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "expand_archive_last_run_success",
			Help: "Whether the last run succeeded (1) or failed (0)",
		}),
		started: time.Now(),
	}

	m.registry.MustRegister(
		m.entriesTotal,
		m.entriesSelected,
		m.archiveSize,
		m.duration,
		m.lastRunSuccess,
		common.AppVersion.NewMetricsCollector(),
	)

	return m
}

func (m *extractionMetrics) finish(err error) {
	m.duration.Set(time.Since(m.started).Seconds())
	if err == nil {
		m.lastRunSuccess.Set(1)
	} else {
		m.lastRunSuccess.Set(0)
	}
}

func (m *extractionMetrics) write(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
