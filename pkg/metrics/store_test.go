package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStoreMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStoreMetrics(reg)

	m.ObserveDuration("items", "fetch", 150*time.Millisecond)
	m.IncFailure("items", "fetch")
	m.IncFailure("items", "fetch")
	m.SetRows("items", 42)

	if got := testutil.ToFloat64(m.failure.WithLabelValues("items", "fetch")); got != 2 {
		t.Fatalf("expected 2 failures, got %v", got)
	}
	if got := testutil.ToFloat64(m.rows.WithLabelValues("items")); got != 42 {
		t.Fatalf("expected 42 rows, got %v", got)
	}
	if got := testutil.CollectAndCount(m.duration); got != 1 {
		t.Fatalf("expected one histogram series, got %d", got)
	}
}

func TestStoreMetricsNilSafe(t *testing.T) {
	var m *StoreMetrics
	m.ObserveDuration("items", "fetch", time.Second)
	m.IncFailure("items", "fetch")
	m.SetRows("items", 1)

	empty := NewStoreMetrics(nil)
	empty.IncFailure("", "")
}

func TestNormalizeLabel(t *testing.T) {
	if normalizeLabel("") != "unknown" {
		t.Fatalf("empty label should map to unknown")
	}
	if normalizeLabel("quotes") != "quotes" {
		t.Fatalf("label should be preserved")
	}
}
