package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics records latency and failures of row store operations.
type StoreMetrics struct {
	duration *prometheus.HistogramVec
	failure  *prometheus.CounterVec
	rows     *prometheus.GaugeVec
}

// NewStoreMetrics registers the row store metrics on the provided registerer.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rowstore_operation_duration_seconds",
		Help:    "Duration of row store operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"table", "op"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rowstore_operation_failures_total",
		Help: "Failed row store operations.",
	}, []string{"table", "op"})
	rows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rowstore_rows_fetched",
		Help: "Rows returned by the most recent fetch of a table.",
	}, []string{"table"})
	reg.MustRegister(duration, failure, rows)
	return &StoreMetrics{
		duration: duration,
		failure:  failure,
		rows:     rows,
	}
}

// ObserveDuration records the duration of one operation against a table.
func (s *StoreMetrics) ObserveDuration(table, op string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(table), normalizeLabel(op)).Observe(duration.Seconds())
}

// IncFailure increments the failure counter for an operation against a table.
func (s *StoreMetrics) IncFailure(table, op string) {
	if s == nil || s.failure == nil {
		return
	}
	s.failure.WithLabelValues(normalizeLabel(table), normalizeLabel(op)).Inc()
}

// SetRows records how many rows a fetch returned.
func (s *StoreMetrics) SetRows(table string, n int) {
	if s == nil || s.rows == nil {
		return
	}
	s.rows.WithLabelValues(normalizeLabel(table)).Set(float64(n))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
