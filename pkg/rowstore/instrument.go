package rowstore

import (
	"context"
	"time"

	"github.com/angelmondragon/rfqdesk/pkg/metrics"
)

type instrumented struct {
	next    Store
	metrics *metrics.StoreMetrics
}

// Instrument wraps a store so every call is timed and failures are counted.
func Instrument(next Store, m *metrics.StoreMetrics) Store {
	if m == nil {
		return next
	}
	return &instrumented{next: next, metrics: m}
}

func (i *instrumented) observe(table, op string, start time.Time, err error) {
	i.metrics.ObserveDuration(table, op, time.Since(start))
	if err != nil {
		i.metrics.IncFailure(table, op)
	}
}

func (i *instrumented) FetchAll(ctx context.Context, table string) ([]Row, error) {
	start := time.Now()
	rows, err := i.next.FetchAll(ctx, table)
	i.observe(table, "fetch", start, err)
	if err == nil {
		i.metrics.SetRows(table, len(rows))
	}
	return rows, err
}

func (i *instrumented) Append(ctx context.Context, table string, record Record) error {
	start := time.Now()
	err := i.next.Append(ctx, table, record)
	i.observe(table, "append", start, err)
	return err
}

func (i *instrumented) UpdateAt(ctx context.Context, table string, index int, record Record) error {
	start := time.Now()
	err := i.next.UpdateAt(ctx, table, index, record)
	i.observe(table, "update", start, err)
	return err
}

// Ping forwards to the wrapped store when it supports readiness checks.
func (i *instrumented) Ping(ctx context.Context) error {
	if p, ok := i.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
