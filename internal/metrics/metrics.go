// Package metrics collects pipeline counters with Prometheus.
//
// A batch run is short-lived, so the collector is registered on its own
// registry and written out once at the end (see WriteTextfile) rather than
// served over HTTP. All methods are safe on a nil *Collector, which disables
// collection.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector provides pipeline metrics collection
type Collector struct {
	Registry *prometheus.Registry

	// Fetch Metrics
	FetchDuration    *prometheus.HistogramVec
	FetchErrorsTotal *prometheus.CounterVec

	// Cleaning Metrics
	FilesProcessedTotal *prometheus.CounterVec
	FilesSkippedTotal   *prometheus.CounterVec
	RowsReadTotal       prometheus.Counter
	RowsDroppedTotal    *prometheus.CounterVec
	RowsKeptTotal       *prometheus.CounterVec

	// Validation Metrics
	InvalidValuesTotal *prometheus.CounterVec
	SchemaDriftTotal   *prometheus.CounterVec

	// Split Metrics
	SplitRows *prometheus.GaugeVec
}

// NewCollector creates a collector on a fresh registry.
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		Registry: reg,

		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Duration of remote fetches in seconds by operation",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"operation"}, // "list", "file"
		),

		FetchErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_errors_total",
				Help:      "Total number of failed remote fetches by operation",
			},
			[]string{"operation"},
		),

		FilesProcessedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_processed_total",
				Help:      "Total number of summary files cleaned by array",
			},
			[]string{"array_rd"},
		),

		FilesSkippedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_skipped_total",
				Help:      "Total number of summary files skipped by reason",
			},
			[]string{"reason"}, // "unknown_cruise", "fetch", "format"
		),

		RowsReadTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_read_total",
				Help:      "Total number of raw sample rows read",
			},
		),

		RowsDroppedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_dropped_total",
				Help:      "Total number of sample rows dropped by reason",
			},
			[]string{"reason"}, // "empty", "cruise", "time"
		),

		RowsKeptTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_kept_total",
				Help:      "Total number of clean sample rows by array",
			},
			[]string{"array_rd"},
		),

		InvalidValuesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invalid_values_total",
				Help:      "Total number of non-numeric values replaced with missing by column",
			},
			[]string{"column"},
		),

		SchemaDriftTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "schema_drift_total",
				Help:      "Total number of schema drift warnings by kind",
			},
			[]string{"kind"}, // "unnamed_column", "missing_column", "missing_station", "invalid_time"
		),

		SplitRows: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "split_rows",
				Help:      "Rows in the most recent consolidated output by table",
			},
			[]string{"table"}, // "profile", "discrete"
		),
	}
}

// Timer provides timing functionality for operations
type Timer struct {
	start    time.Time
	observer prometheus.Observer
}

// NewTimer starts timing a fetch operation.
func (c *Collector) NewTimer(operation string) *Timer {
	t := &Timer{start: time.Now()}
	if c != nil {
		t.observer = c.FetchDuration.WithLabelValues(operation)
	}
	return t
}

// ObserveDuration records the elapsed time since timer creation
func (t *Timer) ObserveDuration() time.Duration {
	duration := time.Since(t.start)
	if t.observer != nil {
		t.observer.Observe(duration.Seconds())
	}
	return duration
}

// RecordFetchError increments the fetch error counter
func (c *Collector) RecordFetchError(operation string) {
	if c == nil {
		return
	}
	c.FetchErrorsTotal.WithLabelValues(operation).Inc()
}

// RecordFileProcessed counts a cleaned file and its kept rows.
func (c *Collector) RecordFileProcessed(arrayRD string, rows int) {
	if c == nil {
		return
	}
	c.FilesProcessedTotal.WithLabelValues(arrayRD).Inc()
	c.RowsKeptTotal.WithLabelValues(arrayRD).Add(float64(rows))
}

// RecordFileSkipped counts a file left out of the batch.
func (c *Collector) RecordFileSkipped(reason string) {
	if c == nil {
		return
	}
	c.FilesSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordRowsRead adds raw rows read.
func (c *Collector) RecordRowsRead(n int) {
	if c == nil {
		return
	}
	c.RowsReadTotal.Add(float64(n))
}

// RecordRowsDropped adds dropped rows for a reason.
func (c *Collector) RecordRowsDropped(reason string, n int) {
	if c == nil || n == 0 {
		return
	}
	c.RowsDroppedTotal.WithLabelValues(reason).Add(float64(n))
}

// RecordInvalidValues adds replaced values for a column.
func (c *Collector) RecordInvalidValues(column string, n int) {
	if c == nil || n == 0 {
		return
	}
	c.InvalidValuesTotal.WithLabelValues(column).Add(float64(n))
}

// RecordSchemaDrift counts one drift warning.
func (c *Collector) RecordSchemaDrift(kind string) {
	if c == nil {
		return
	}
	c.SchemaDriftTotal.WithLabelValues(kind).Inc()
}

// SetSplitRows records the size of a consolidated output table.
func (c *Collector) SetSplitRows(table string, rows int) {
	if c == nil {
		return
	}
	c.SplitRows.WithLabelValues(table).Set(float64(rows))
}

// WriteTextfile writes all metrics in the Prometheus text format, for pickup
// by a node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, c.Registry)
}
