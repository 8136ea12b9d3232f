package catalog

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/squizz-sync/backend/internal/domain/catalog"
	"github.com/squizz-sync/backend/internal/domain/shared"
	"github.com/squizz-sync/backend/internal/infrastructure/logger"
	"github.com/squizz-sync/backend/internal/infrastructure/persistence"
	"github.com/squizz-sync/backend/internal/infrastructure/telemetry"
)

// ReconcilerConfig holds the settings shared by the product and price
// reconcilers.
type ReconcilerConfig struct {
	// SupplierOrgID is stamped on every stored product.
	SupplierOrgID string
	// Workers bounds how many records are reconciled at once. Values below 2
	// process records one after another.
	Workers int
	// Metrics receives per-batch counters. Nil disables them.
	Metrics *telemetry.SyncMetrics
}

// ProductReconciler stores and updates product batches coming from the
// platform feed. Every record gets its own unit of work, so one bad record
// never blocks the rest of the batch.
type ProductReconciler struct {
	store  persistence.Store
	cfg    ReconcilerConfig
	logger *zap.Logger
}

// NewProductReconciler creates a new ProductReconciler
func NewProductReconciler(store persistence.Store, cfg ReconcilerConfig, logger *zap.Logger) *ProductReconciler {
	return &ProductReconciler{store: store, cfg: cfg, logger: logger}
}

// StoreProducts inserts every product. Failed records are listed in the
// result; the batch itself always reports success.
func (r *ProductReconciler) StoreProducts(ctx context.Context, products []catalog.Product) shared.BatchResult {
	ctx, done := observeBatch(ctx, r.cfg.Metrics, "product", "store", len(products))
	log := logger.Enrich(ctx, r.logger)

	failed := forEachRecord(ctx, len(products), r.cfg.Workers, func(ctx context.Context, i int) []string {
		p := products[i]
		return contain(p.KeyProductID, func() []string {
			if err := r.insert(ctx, p); err != nil {
				log.Error("Failed to store product", zap.String("key_product_id", p.KeyProductID), zap.Error(err))
				return []string{failure(p.KeyProductID, err.Error())}
			}
			return nil
		})
	})

	log.Info("Completed store products",
		zap.Int("records", len(products)),
		zap.Int("failed", len(failed)),
	)
	done(len(failed))
	return shared.NewBatchResult(MessageProductsStored, failed)
}

// UpdateProducts overwrites products that already exist and inserts the rest.
// A product whose lookup fails is still inserted, after its lookup failure is
// recorded.
func (r *ProductReconciler) UpdateProducts(ctx context.Context, products []catalog.Product) shared.BatchResult {
	ctx, done := observeBatch(ctx, r.cfg.Metrics, "product", "update", len(products))
	log := logger.Enrich(ctx, r.logger)

	var updated, notUpdated, inserted atomic.Int64

	failed := forEachRecord(ctx, len(products), r.cfg.Workers, func(ctx context.Context, i int) []string {
		p := products[i]
		return contain(p.KeyProductID, func() []string {
			if err := p.Validate(); err != nil {
				notUpdated.Add(1)
				return []string{failure(p.KeyProductID, err.Error())}
			}

			var failed []string

			res, err := r.store.Execute(ctx, selectProductIDSQL, []any{p.KeyProductID}, false)
			if err != nil {
				notUpdated.Add(1)
				log.Warn("Product lookup failed, falling back to insert",
					zap.String("key_product_id", p.KeyProductID), zap.Error(err))
				failed = append(failed, failure(p.KeyProductID, "product lookup failed: "+err.Error()))
			} else if _, found := res.First(); found {
				err := r.store.UnitOfWork(ctx, func(tx persistence.Executor) error {
					_, err := tx.Execute(ctx, updateProductSQL, productUpdateValues(p, r.supplierOrgID(p)), true)
					return err
				})
				if err != nil {
					notUpdated.Add(1)
					log.Error("Failed to update product", zap.String("key_product_id", p.KeyProductID), zap.Error(err))
					return []string{failure(p.KeyProductID, "error occurred while updating: "+err.Error())}
				}
				updated.Add(1)
				return nil
			}

			if err := r.insert(ctx, p); err != nil {
				log.Error("Failed to store product", zap.String("key_product_id", p.KeyProductID), zap.Error(err))
				return append(failed, failure(p.KeyProductID, err.Error()))
			}
			inserted.Add(1)
			return failed
		})
	})

	log.Info("Completed update products",
		zap.Int("records", len(products)),
		zap.Int64("updated", updated.Load()),
		zap.Int64("not_updated", notUpdated.Load()),
		zap.Int64("inserted", inserted.Load()),
		zap.Int("failed", len(failed)),
	)
	done(len(failed))
	return shared.NewBatchResult(MessageProductsUpdated, failed)
}

func (r *ProductReconciler) insert(ctx context.Context, p catalog.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return r.store.UnitOfWork(ctx, func(tx persistence.Executor) error {
		_, err := tx.Execute(ctx, insertProductSQL, productValues(p, r.supplierOrgID(p)), true)
		return err
	})
}

// supplierOrgID prefers the configured supplier over whatever the feed sent.
func (r *ProductReconciler) supplierOrgID(p catalog.Product) string {
	if r.cfg.SupplierOrgID != "" {
		return r.cfg.SupplierOrgID
	}
	return p.SupplierOrganizationID
}
