// Package metrics exposes prune run metrics in the Prometheus format.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pbm_pruner"

// Result labels.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultSkipped = "skipped"
)

// Snapshot states reported by the snapshots gauge.
const (
	StateTotal    = "total"
	StateKept     = "kept"
	StateDelete   = "delete"
	StateOrphaned = "orphaned"
)

// Collector holds every metric of the pruner. A nil *Collector is valid and
// records nothing.
type Collector struct {
	registry *prometheus.Registry

	snapshots   *prometheus.GaugeVec
	deletions   *prometheus.CounterVec
	runs        *prometheus.CounterVec
	runDuration prometheus.Histogram
	lastRun     prometheus.Gauge
	pitrCutoff  prometheus.Gauge
}

// NewCollector registers the pruner metrics on registry, creating a fresh
// registry when nil.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		snapshots: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshots",
			Help:      "Snapshots seen by the last prune run, by retention state.",
		}, []string{"state"}),
		deletions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deletions_total",
			Help:      "Snapshot and PITR deletions attempted, by result.",
		}, []string{"result"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Prune runs, by result.",
		}, []string{"result"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of prune runs.",
			Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 300, 900},
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last prune run finished.",
		}),
		pitrCutoff: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pitr_cutoff_timestamp_seconds",
			Help:      "Unix time before which PITR chunks are eligible for deletion.",
		}),
	}

	registry.MustRegister(c.snapshots, c.deletions, c.runs, c.runDuration, c.lastRun, c.pitrCutoff)
	return c
}

// Registry returns the registry the collector is registered on.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// SetSnapshots records the retention partition of the last run.
func (c *Collector) SetSnapshots(total, kept, deleted, orphaned int) {
	if c == nil {
		return
	}
	c.snapshots.WithLabelValues(StateTotal).Set(float64(total))
	c.snapshots.WithLabelValues(StateKept).Set(float64(kept))
	c.snapshots.WithLabelValues(StateDelete).Set(float64(deleted))
	c.snapshots.WithLabelValues(StateOrphaned).Set(float64(orphaned))
}

func (c *Collector) RecordDeletion(result string) {
	if c == nil {
		return
	}
	c.deletions.WithLabelValues(result).Inc()
}

// ObserveRun records a finished run.
func (c *Collector) ObserveRun(result string, d time.Duration, finished time.Time) {
	if c == nil {
		return
	}
	c.runs.WithLabelValues(result).Inc()
	c.runDuration.Observe(d.Seconds())
	c.lastRun.Set(float64(finished.Unix()))
}

func (c *Collector) SetPITRCutoff(t time.Time) {
	if c == nil || t.IsZero() {
		return
	}
	c.pitrCutoff.Set(float64(t.Unix()))
}

// Handler serves the registry for scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
