package catalog

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/squizz-sync/backend/internal/infrastructure/telemetry"
)

// Batch messages reported in the envelope.
const (
	MessageProductsStored  = "successfully stored products"
	MessageProductsUpdated = "successfully updated products"
	MessagePricesStored    = "successfully stored product prices"
	MessagePricesUpdated   = "successfully updated product prices"
)

// failure formats a failure entry for the batch envelope.
func failure(keyProductID, text string) string {
	return keyProductID + " error: " + text
}

// forEachRecord calls fn once per record index and returns the failures in
// input order. With workers > 1 records are processed concurrently; each
// record writes only its own slot so no locking is needed.
func forEachRecord(ctx context.Context, n, workers int, fn func(ctx context.Context, i int) []string) []string {
	slots := make([][]string, n)

	if workers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			slots[i] = fn(ctx, i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(workers)
		for i := 0; i < n; i++ {
			g.Go(func() error {
				slots[i] = fn(ctx, i)
				return nil
			})
		}
		_ = g.Wait()
	}

	failed := []string{}
	for _, entries := range slots {
		failed = append(failed, entries...)
	}
	return failed
}

// contain runs fn and turns a panic into a failure entry for keyProductID.
func contain(keyProductID string, fn func() []string) (failed []string) {
	defer func() {
		if r := recover(); r != nil {
			failed = []string{failure(keyProductID, fmt.Sprintf("unexpected error: %v", r))}
		}
	}()
	return fn()
}

// observeBatch opens a span for one batch. The returned func ends it and
// records the batch in metrics.
func observeBatch(ctx context.Context, metrics *telemetry.SyncMetrics, entity, operation string, records int) (context.Context, func(failed int)) {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, entity+"_reconciler", operation, telemetry.SpanAttrRecords, records)
	return ctx, func(failed int) {
		telemetry.SetAttributes(span, telemetry.SpanAttrFailed, failed)
		span.End()
		metrics.RecordBatch(ctx, entity, operation, records, failed, time.Since(start))
	}
}
