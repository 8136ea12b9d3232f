package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics set is built without a meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Metric attribute keys
const (
	AttrEntity    = attribute.Key("entity")
	AttrOperation = attribute.Key("operation")
)

// SyncMetrics counts reconciled records and failures per batch. A nil
// *SyncMetrics records nothing.
type SyncMetrics struct {
	records  metric.Int64Counter
	failures metric.Int64Counter
	duration metric.Float64Histogram
}

// NewSyncMetrics registers the reconciliation instruments on meter.
func NewSyncMetrics(meter metric.Meter) (*SyncMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	records, err := meter.Int64Counter("sync_records_total",
		metric.WithDescription("Records submitted to a reconciliation batch"),
		metric.WithUnit("{records}"))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("sync_record_failures_total",
		metric.WithDescription("Failure entries reported by reconciliation batches"),
		metric.WithUnit("{failures}"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("sync_batch_duration_seconds",
		metric.WithDescription("Wall time of a reconciliation batch"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.25, 1, 5, 15, 60, 300))
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{records: records, failures: failures, duration: duration}, nil
}

// RecordBatch records one finished batch of entity ("product", "price")
// handled by operation ("store", "update").
func (m *SyncMetrics) RecordBatch(ctx context.Context, entity, operation string, records, failed int, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(AttrEntity.String(entity), AttrOperation.String(operation))
	m.records.Add(ctx, int64(records), attrs)
	m.failures.Add(ctx, int64(failed), attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}
