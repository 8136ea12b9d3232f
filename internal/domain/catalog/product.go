package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/squizz-sync/backend/internal/domain/shared"
)

// Product is a catalog item as published by the supplier organization on the
// platform. KeyProductID is the platform's identifier and never changes once a
// product is stored; ID is assigned by the local store.
type Product struct {
	ID                     int64           `json:"id,omitempty"`
	KeyProductID           string          `json:"keyProductID"`
	Barcode                string          `json:"barcode"`
	BarcodeInner           string          `json:"barcodeInner"`
	Description1           string          `json:"description1"`
	Description2           string          `json:"description2"`
	Description3           string          `json:"description3"`
	Description4           string          `json:"description4"`
	InternalID             string          `json:"internalID"`
	Brand                  string          `json:"brand"`
	Height                 decimal.Decimal `json:"height"`
	Depth                  decimal.Decimal `json:"depth"`
	Width                  decimal.Decimal `json:"width"`
	Weight                 decimal.Decimal `json:"weight"`
	Volume                 decimal.Decimal `json:"volume"`
	ProductCondition       string          `json:"productCondition"`
	IsPriceTaxInclusive    Flag            `json:"isPriceTaxInclusive"`
	IsKitted               Flag            `json:"isKitted"`
	KeyTaxcodeID           string          `json:"keyTaxcodeID"`
	StockQuantity          decimal.Decimal `json:"stockQuantity"`
	Name                   string          `json:"name"`
	KitProductsSetPrice    decimal.Decimal `json:"kitProductsSetPrice"`
	ProductCode            string          `json:"productCode"`
	ProductSearchCode      string          `json:"productSearchCode"`
	StockLowQuantity       decimal.Decimal `json:"stockLowQuantity"`
	AverageCost            decimal.Decimal `json:"averageCost"`
	Drop                   string          `json:"drop"`
	PackQuantity           decimal.Decimal `json:"packQuantity"`
	KeySellUnitID          string          `json:"keySellUnitID"`
	SupplierOrganizationID string          `json:"supplierOrganizationID,omitempty"`
}

// Validate checks the fields a product needs before it can be stored.
func (p Product) Validate() error {
	if strings.TrimSpace(p.KeyProductID) == "" {
		return shared.NewDomainError("INVALID_PRODUCT", "keyProductID cannot be empty")
	}
	return nil
}

// ProductPrice is a product joined with one of its prices, as returned by the
// barcode and product code lookups.
type ProductPrice struct {
	ProductID    int64           `json:"id"`
	Barcode      string          `json:"barcode"`
	ProductName  string          `json:"productName"`
	ProductCode  string          `json:"productCode"`
	KeyProductID string          `json:"keyProductID"`
	Price        decimal.Decimal `json:"price"`
}
