package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/squizz-sync/backend/internal/domain/catalog"
	"github.com/squizz-sync/backend/internal/domain/shared"
	"github.com/squizz-sync/backend/internal/infrastructure/logger"
)

// CatalogFeed supplies the supplier's current catalog from the platform.
type CatalogFeed interface {
	FetchProducts(ctx context.Context) ([]catalog.Product, error)
	FetchPrices(ctx context.Context) ([]catalog.Price, error)
}

// SyncReport is the outcome of a full catalog sync.
type SyncReport struct {
	Products shared.BatchResult `json:"products"`
	Prices   shared.BatchResult `json:"prices"`
}

// SyncService pulls the catalog from the platform and reconciles it into the
// local store. Products are always reconciled before prices so every price
// can find its product.
type SyncService struct {
	feed     CatalogFeed
	products *ProductReconciler
	prices   *PriceReconciler
	logger   *zap.Logger
}

// NewSyncService creates a new SyncService
func NewSyncService(feed CatalogFeed, products *ProductReconciler, prices *PriceReconciler, logger *zap.Logger) *SyncService {
	return &SyncService{
		feed:     feed,
		products: products,
		prices:   prices,
		logger:   logger,
	}
}

// SyncCatalog runs an update reconciliation of products and then prices.
// An error is returned only when a feed cannot be fetched.
func (s *SyncService) SyncCatalog(ctx context.Context) (*SyncReport, error) {
	log := logger.Enrich(ctx, s.logger)

	products, err := s.feed.FetchProducts(ctx)
	if err != nil {
		log.Error("Failed to fetch product feed", zap.Error(err))
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	report := &SyncReport{Products: s.products.UpdateProducts(ctx, products)}

	prices, err := s.feed.FetchPrices(ctx)
	if err != nil {
		log.Error("Failed to fetch price feed", zap.Error(err))
		return nil, fmt.Errorf("fetch prices: %w", err)
	}
	report.Prices = s.prices.UpdatePrices(ctx, prices)

	log.Info("Catalog sync finished",
		zap.Int("products", len(products)),
		zap.Int("product_failures", len(report.Products.Data.Failed)),
		zap.Int("prices", len(prices)),
		zap.Int("price_failures", len(report.Prices.Data.Failed)),
	)
	return report, nil
}
