// Package metrics counts what a reconciliation run did and writes the
// counts in the Prometheus text format for a node_exporter textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cleared-dev/reconcile/internal/diag"
	"github.com/cleared-dev/reconcile/internal/model"
)

// Recorder bundles run metrics on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	StatementsTotal  *prometheus.CounterVec
	EntriesTotal     *prometheus.CounterVec
	DiagnosticsTotal *prometheus.CounterVec
	TrialBalanceDiff prometheus.Gauge
	RunDuration      prometheus.Histogram
}

// New constructs and registers metrics.
func New() *Recorder {
	m := &Recorder{
		registry: prometheus.NewRegistry(),
		StatementsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconcile_statements_total",
				Help: "Statement transactions by matcher status",
			},
			[]string{"status"},
		),
		EntriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconcile_entries_total",
				Help: "Generated journal entries by status",
			},
			[]string{"status"},
		),
		DiagnosticsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconcile_diagnostics_total",
				Help: "Diagnostics recorded during the run by level",
			},
			[]string{"level"},
		),
		TrialBalanceDiff: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "reconcile_trial_balance_difference",
			Help: "Total debits minus total credits in the trial balance",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "reconcile_run_duration_seconds",
			Help:    "Reconciliation run duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(
		m.StatementsTotal,
		m.EntriesTotal,
		m.DiagnosticsTotal,
		m.TrialBalanceDiff,
		m.RunDuration,
	)
	return m
}

// Registry exposes the private registry.
func (m *Recorder) Registry() *prometheus.Registry {
	return m.registry
}

// Record counts a diagnostic. Recorder is a diag.Sink.
func (m *Recorder) Record(e diag.Event) {
	m.DiagnosticsTotal.WithLabelValues(string(e.Level)).Inc()
}

// ObserveMatch counts one statement by matcher status.
func (m *Recorder) ObserveMatch(status model.MatchStatus) {
	m.StatementsTotal.WithLabelValues(string(status)).Inc()
}

// ObserveEntries counts generated entries by status.
func (m *Recorder) ObserveEntries(entries []model.JournalEntry) {
	for _, e := range entries {
		m.EntriesTotal.WithLabelValues(string(e.Status)).Inc()
	}
}

// ObserveDuration records how long the run took.
func (m *Recorder) ObserveDuration(d time.Duration) {
	m.RunDuration.Observe(d.Seconds())
}

// SetTrialBalanceDifference records debits minus credits.
func (m *Recorder) SetTrialBalanceDifference(diff float64) {
	m.TrialBalanceDiff.Set(diff)
}

// WriteTextfile writes all metrics to path, creating parent directories.
func (m *Recorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
