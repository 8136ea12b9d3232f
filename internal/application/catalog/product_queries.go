package catalog

import (
	"context"
	"fmt"

	"github.com/squizz-sync/backend/internal/domain/catalog"
	"github.com/squizz-sync/backend/internal/domain/shared"
	"github.com/squizz-sync/backend/internal/infrastructure/persistence"
)

// ProductQueries answers read-only product lookups.
type ProductQueries struct {
	db persistence.Executor
}

// NewProductQueries creates a new ProductQueries
func NewProductQueries(db persistence.Executor) *ProductQueries {
	return &ProductQueries{db: db}
}

// FindByBarcode returns the product with the given barcode and its first price.
func (q *ProductQueries) FindByBarcode(ctx context.Context, barcode string) (*catalog.ProductPrice, error) {
	return q.findProductPrice(ctx, "products.barcode", barcode)
}

// FindByProductCode returns the product with the given product code and its
// first price.
func (q *ProductQueries) FindByProductCode(ctx context.Context, productCode string) (*catalog.ProductPrice, error) {
	return q.findProductPrice(ctx, "products.product_code", productCode)
}

func (q *ProductQueries) findProductPrice(ctx context.Context, column, value string) (*catalog.ProductPrice, error) {
	query := productPriceSQL + " WHERE " + column + " = ? ORDER BY products.id, prices.id LIMIT 1"
	res, err := q.db.Execute(ctx, query, []any{value}, false)
	if err != nil {
		return nil, fmt.Errorf("find product by %s: %w", column, err)
	}
	row, found := res.First()
	if !found {
		return nil, shared.ErrNotFound
	}

	id, _ := row.Int64("id")
	return &catalog.ProductPrice{
		ProductID:    id,
		Barcode:      row.String("barcode"),
		ProductName:  row.String("product_name"),
		ProductCode:  row.String("product_code"),
		KeyProductID: row.String("key_product_id"),
		Price:        row.Decimal("price"),
	}, nil
}

// FindByKeyProductID returns the stored product for a platform product id.
func (q *ProductQueries) FindByKeyProductID(ctx context.Context, keyProductID string) (*catalog.Product, error) {
	res, err := q.db.Execute(ctx, selectProductSQL, []any{keyProductID}, false)
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", keyProductID, err)
	}
	row, found := res.First()
	if !found {
		return nil, shared.ErrNotFound
	}

	id, _ := row.Int64("id")
	return &catalog.Product{
		ID:                     id,
		KeyProductID:           row.String("key_product_id"),
		Barcode:                row.String("barcode"),
		BarcodeInner:           row.String("barcode_inner"),
		Description1:           row.String("description1"),
		Description2:           row.String("description2"),
		Description3:           row.String("description3"),
		Description4:           row.String("description4"),
		InternalID:             row.String("internal_id"),
		Brand:                  row.String("brand"),
		Height:                 row.Decimal("height"),
		Depth:                  row.Decimal("depth"),
		Width:                  row.Decimal("width"),
		Weight:                 row.Decimal("weight"),
		Volume:                 row.Decimal("volume"),
		ProductCondition:       row.String("product_condition"),
		IsPriceTaxInclusive:    catalog.Flag(row.Bool("is_price_tax_inclusive")),
		IsKitted:               catalog.Flag(row.Bool("is_kitted")),
		KeyTaxcodeID:           row.String("key_taxcode_id"),
		StockQuantity:          row.Decimal("stock_quantity"),
		Name:                   row.String("product_name"),
		KitProductsSetPrice:    row.Decimal("kit_products_set_price"),
		ProductCode:            row.String("product_code"),
		ProductSearchCode:      row.String("product_search_code"),
		StockLowQuantity:       row.Decimal("stock_low_quantity"),
		AverageCost:            row.Decimal("average_cost"),
		Drop:                   row.String("product_drop"),
		PackQuantity:           row.Decimal("pack_quantity"),
		SupplierOrganizationID: row.String("supplier_organization_id"),
		KeySellUnitID:          row.String("key_sell_unit_id"),
	}, nil
}

// ListPrices returns every price stored for a platform product id.
func (q *ProductQueries) ListPrices(ctx context.Context, keyProductID string) ([]catalog.Price, error) {
	res, err := q.db.Execute(ctx,
		"SELECT id, key_product_id, key_sell_unit_id, price, reference_id, reference_type, product_id FROM prices WHERE key_product_id = ? ORDER BY id",
		[]any{keyProductID}, false)
	if err != nil {
		return nil, fmt.Errorf("list prices for %s: %w", keyProductID, err)
	}

	prices := make([]catalog.Price, 0, len(res.Rows))
	for _, row := range res.Rows {
		id, _ := row.Int64("id")
		productID, _ := row.Int64("product_id")
		prices = append(prices, catalog.Price{
			ID:            id,
			KeyProductID:  row.String("key_product_id"),
			KeySellUnitID: row.String("key_sell_unit_id"),
			Price:         row.Decimal("price"),
			ReferenceID:   row.String("reference_id"),
			ReferenceType: row.String("reference_type"),
			ProductID:     productID,
		})
	}
	return prices, nil
}
