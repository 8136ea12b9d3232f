package handler

import (
	"context"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appcatalog "github.com/squizz-sync/backend/internal/application/catalog"
	"github.com/squizz-sync/backend/internal/domain/catalog"
	"github.com/squizz-sync/backend/internal/domain/shared"
	"github.com/squizz-sync/backend/internal/infrastructure/csvimport"
	"github.com/squizz-sync/backend/internal/infrastructure/logger"
)

// Reconciliation modes accepted by the sync endpoints.
const (
	ModeStore  = "store"
	ModeUpdate = "update"
)

// csvContentType selects the CSV decoder on the batch endpoints
const csvContentType = "text/csv"

// ProductBatchReconciler reconciles product batches.
type ProductBatchReconciler interface {
	StoreProducts(ctx context.Context, products []catalog.Product) shared.BatchResult
	UpdateProducts(ctx context.Context, products []catalog.Product) shared.BatchResult
}

// PriceBatchReconciler reconciles price batches.
type PriceBatchReconciler interface {
	StorePrices(ctx context.Context, prices []catalog.Price) shared.BatchResult
	UpdatePrices(ctx context.Context, prices []catalog.Price) shared.BatchResult
}

// CatalogSyncer pulls the full catalog from the platform.
type CatalogSyncer interface {
	SyncCatalog(ctx context.Context) (*appcatalog.SyncReport, error)
}

// SyncHandler exposes the reconcilers. Batch endpoints answer 200 with the
// batch envelope even when records failed; the failures are in data.failed.
type SyncHandler struct {
	BaseHandler
	products ProductBatchReconciler
	prices   PriceBatchReconciler
	syncer   CatalogSyncer
}

// NewSyncHandler creates a new SyncHandler. syncer may be nil when no
// platform credentials are configured.
func NewSyncHandler(products ProductBatchReconciler, prices PriceBatchReconciler, syncer CatalogSyncer) *SyncHandler {
	return &SyncHandler{products: products, prices: prices, syncer: syncer}
}

// SyncProducts reconciles a JSON array of products, or a CSV body with one
// product per row when sent as text/csv.
//
//	POST /sync/products?mode=store|update
func (h *SyncHandler) SyncProducts(c *gin.Context) {
	mode, ok := h.mode(c)
	if !ok {
		return
	}

	var products []catalog.Product
	var err error
	if c.ContentType() == csvContentType {
		products, err = decodeCSV(c, csvimport.DecodeProducts)
	} else {
		err = c.ShouldBindJSON(&products)
	}
	if err != nil {
		h.BadRequest(c, "Invalid product batch: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	var result shared.BatchResult
	if mode == ModeStore {
		result = h.products.StoreProducts(ctx, products)
	} else {
		result = h.products.UpdateProducts(ctx, products)
	}
	h.respondBatch(c, "products", mode, len(products), result)
}

// SyncPrices reconciles a JSON or CSV batch of prices.
//
//	POST /sync/prices?mode=store|update
func (h *SyncHandler) SyncPrices(c *gin.Context) {
	mode, ok := h.mode(c)
	if !ok {
		return
	}

	var prices []catalog.Price
	var err error
	if c.ContentType() == csvContentType {
		prices, err = decodeCSV(c, csvimport.DecodePrices)
	} else {
		err = c.ShouldBindJSON(&prices)
	}
	if err != nil {
		h.BadRequest(c, "Invalid price batch: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	var result shared.BatchResult
	if mode == ModeStore {
		result = h.prices.StorePrices(ctx, prices)
	} else {
		result = h.prices.UpdatePrices(ctx, prices)
	}
	h.respondBatch(c, "prices", mode, len(prices), result)
}

// SyncCatalog runs a full product then price sync from the platform feed.
func (h *SyncHandler) SyncCatalog(c *gin.Context) {
	if h.syncer == nil {
		h.ServiceUnavailable(c, "Platform feed is not configured")
		return
	}

	report, err := h.syncer.SyncCatalog(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// decodeCSV honours the charset parameter of the Content-Type header.
func decodeCSV[T any](c *gin.Context, decode func(io.Reader, ...csvimport.Option) ([]T, error)) ([]T, error) {
	var charset string
	if _, params, err := mime.ParseMediaType(c.GetHeader("Content-Type")); err == nil {
		charset = params["charset"]
	}
	body, err := csvimport.Transcode(c.Request.Body, charset)
	if err != nil {
		return nil, err
	}
	return decode(body)
}

// mode reads ?mode=, defaulting to update. Anything else is a 400.
func (h *SyncHandler) mode(c *gin.Context) (string, bool) {
	switch mode := c.DefaultQuery("mode", ModeUpdate); mode {
	case ModeStore, ModeUpdate:
		return mode, true
	default:
		h.BadRequest(c, "mode must be one of: store, update")
		return "", false
	}
}

func (h *SyncHandler) respondBatch(c *gin.Context, entity, mode string, records int, result shared.BatchResult) {
	logger.GetGinLogger(c).Info("Batch reconciled",
		zap.String("entity", entity),
		zap.String("mode", mode),
		zap.Int("records", records),
		zap.Int("failed", len(result.Data.Failed)),
	)
	c.JSON(http.StatusOK, result)
}
