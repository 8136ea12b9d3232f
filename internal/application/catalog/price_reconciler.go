package catalog

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/squizz-sync/backend/internal/domain/catalog"
	"github.com/squizz-sync/backend/internal/domain/shared"
	"github.com/squizz-sync/backend/internal/infrastructure/logger"
	"github.com/squizz-sync/backend/internal/infrastructure/persistence"
)

// ErrProductNotExist is reported for prices whose product has not been stored.
var ErrProductNotExist = errors.New("product does not exist")

// ErrPriceUnresolved is reported when the matched price row cannot be
// addressed for the update.
var ErrPriceUnresolved = errors.New("stored price could not be resolved")

// PriceReconciler stores and updates price batches. A price is only written
// when its product is already present; the product's internal id is recorded
// as the link.
type PriceReconciler struct {
	store  persistence.Store
	cfg    ReconcilerConfig
	logger *zap.Logger
}

// NewPriceReconciler creates a new PriceReconciler
func NewPriceReconciler(store persistence.Store, cfg ReconcilerConfig, logger *zap.Logger) *PriceReconciler {
	return &PriceReconciler{store: store, cfg: cfg, logger: logger}
}

// StorePrices inserts every price whose product exists.
func (r *PriceReconciler) StorePrices(ctx context.Context, prices []catalog.Price) shared.BatchResult {
	ctx, done := observeBatch(ctx, r.cfg.Metrics, "price", "store", len(prices))
	log := logger.Enrich(ctx, r.logger)

	failed := forEachRecord(ctx, len(prices), r.cfg.Workers, func(ctx context.Context, i int) []string {
		p := prices[i]
		return contain(p.KeyProductID, func() []string {
			return r.storeOne(ctx, log, p)
		})
	})

	log.Info("Completed store prices",
		zap.Int("records", len(prices)),
		zap.Int("failed", len(failed)),
	)
	done(len(failed))
	return shared.NewBatchResult(MessagePricesStored, failed)
}

// UpdatePrices overwrites the price stored for the same product and reference
// and inserts prices that have no match yet.
func (r *PriceReconciler) UpdatePrices(ctx context.Context, prices []catalog.Price) shared.BatchResult {
	ctx, done := observeBatch(ctx, r.cfg.Metrics, "price", "update", len(prices))
	log := logger.Enrich(ctx, r.logger)

	failed := forEachRecord(ctx, len(prices), r.cfg.Workers, func(ctx context.Context, i int) []string {
		p := prices[i]
		return contain(p.KeyProductID, func() []string {
			return r.updateOne(ctx, log, p)
		})
	})

	log.Info("Completed update prices",
		zap.Int("records", len(prices)),
		zap.Int("failed", len(failed)),
	)
	done(len(failed))
	return shared.NewBatchResult(MessagePricesUpdated, failed)
}

func (r *PriceReconciler) storeOne(ctx context.Context, log *zap.Logger, p catalog.Price) []string {
	if err := p.Validate(); err != nil {
		return []string{failure(p.KeyProductID, err.Error())}
	}

	res, err := r.store.Execute(ctx, selectProductIDSQL, []any{p.KeyProductID}, false)
	if err != nil {
		log.Error("Product lookup failed while storing price", zap.String("key_product_id", p.KeyProductID), zap.Error(err))
		return []string{failure(p.KeyProductID, "product lookup failed: "+err.Error())}
	}
	row, found := res.First()
	if !found {
		return []string{failure(p.KeyProductID, ErrProductNotExist.Error())}
	}
	productID, ok := row.Int64("id")
	if !ok {
		return []string{failure(p.KeyProductID, ErrProductNotExist.Error())}
	}

	err = r.store.UnitOfWork(ctx, func(tx persistence.Executor) error {
		_, err := tx.Execute(ctx, insertPriceSQL, []any{
			p.KeyProductID,
			p.KeySellUnitID,
			p.Price,
			p.ReferenceID,
			p.ReferenceType,
			productID,
		}, true)
		return err
	})
	if err != nil {
		log.Error("Failed to store price", zap.String("key_product_id", p.KeyProductID), zap.Error(err))
		return []string{failure(p.KeyProductID, err.Error())}
	}
	return nil
}

func (r *PriceReconciler) updateOne(ctx context.Context, log *zap.Logger, p catalog.Price) []string {
	if err := p.Validate(); err != nil {
		return []string{failure(p.KeyProductID, err.Error())}
	}

	res, err := r.store.Execute(ctx, selectPriceSQL, []any{p.KeyProductID, p.ReferenceID, p.ReferenceType}, false)
	if err != nil {
		log.Error("Price lookup failed", zap.String("key_product_id", p.KeyProductID), zap.Error(err))
		return []string{failure(p.KeyProductID, "failed to update price: "+err.Error())}
	}
	row, found := res.First()
	if !found {
		return r.storeOne(ctx, log, p)
	}
	priceID, ok := row.Int64("id")
	if !ok {
		log.Error("Price lookup returned an unusable id", zap.String("key_product_id", p.KeyProductID), zap.Any("id", row["id"]))
		return []string{failure(p.KeyProductID, "failed to update price: "+ErrPriceUnresolved.Error())}
	}

	err = r.store.UnitOfWork(ctx, func(tx persistence.Executor) error {
		res, err := tx.Execute(ctx, updatePriceSQL, []any{
			p.KeySellUnitID,
			p.Price,
			p.ReferenceID,
			p.ReferenceType,
			priceID,
		}, true)
		if err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return ErrPriceUnresolved
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to update price", zap.String("key_product_id", p.KeyProductID), zap.Error(err))
		return []string{failure(p.KeyProductID, "failed to update price: "+err.Error())}
	}
	return nil
}
