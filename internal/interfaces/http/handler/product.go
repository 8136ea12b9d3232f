package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/squizz-sync/backend/internal/domain/catalog"
)

// ProductFinder answers the read-only catalog lookups.
type ProductFinder interface {
	FindByBarcode(ctx context.Context, barcode string) (*catalog.ProductPrice, error)
	FindByProductCode(ctx context.Context, productCode string) (*catalog.ProductPrice, error)
	FindByKeyProductID(ctx context.Context, keyProductID string) (*catalog.Product, error)
	ListPrices(ctx context.Context, keyProductID string) ([]catalog.Price, error)
}

// ProductHandler serves product and price lookups.
type ProductHandler struct {
	BaseHandler
	finder ProductFinder
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(finder ProductFinder) *ProductHandler {
	return &ProductHandler{finder: finder}
}

// GetByBarcode returns the product carrying :barcode with its price.
func (h *ProductHandler) GetByBarcode(c *gin.Context) {
	product, err := h.finder.FindByBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// GetByProductCode returns the product with :code and its price.
func (h *ProductHandler) GetByProductCode(c *gin.Context) {
	product, err := h.finder.FindByProductCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// GetByKeyProductID returns the stored product for a platform product id.
func (h *ProductHandler) GetByKeyProductID(c *gin.Context) {
	product, err := h.finder.FindByKeyProductID(c.Request.Context(), c.Param("keyProductID"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// ListPrices returns every price stored for a product. An unknown product
// yields an empty list.
func (h *ProductHandler) ListPrices(c *gin.Context) {
	prices, err := h.finder.ListPrices(c.Request.Context(), c.Param("keyProductID"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if prices == nil {
		prices = []catalog.Price{}
	}
	h.Success(c, prices)
}
