package catalog

import (
	"strings"

	"github.com/squizz-sync/backend/internal/domain/catalog"
)

// productColumns lists the writable product columns in bind order. id is
// assigned by the store and never written.
var productColumns = []string{
	"key_product_id",
	"barcode",
	"barcode_inner",
	"description1",
	"description2",
	"description3",
	"description4",
	"internal_id",
	"brand",
	"height",
	"depth",
	"width",
	"weight",
	"volume",
	"product_condition",
	"is_price_tax_inclusive",
	"is_kitted",
	"key_taxcode_id",
	"stock_quantity",
	"product_name",
	"kit_products_set_price",
	"product_code",
	"product_search_code",
	"stock_low_quantity",
	"average_cost",
	"product_drop",
	"pack_quantity",
	"supplier_organization_id",
	"key_sell_unit_id",
}

var (
	insertProductSQL = "INSERT INTO products (" + strings.Join(productColumns, ", ") + ") VALUES (" + placeholders(len(productColumns)) + ")"

	// key_product_id is the first column and doubles as the match key, so the
	// SET list starts after it.
	updateProductSQL = "UPDATE products SET " + strings.Join(productColumns[1:], " = ?, ") + " = ? WHERE key_product_id = ?"

	selectProductSQL = "SELECT id, " + strings.Join(productColumns, ", ") + " FROM products WHERE key_product_id = ?"
)

const (
	selectProductIDSQL = "SELECT id FROM products WHERE key_product_id = ?"

	insertPriceSQL = "INSERT INTO prices (key_product_id, key_sell_unit_id, price, reference_id, reference_type, product_id) VALUES (?, ?, ?, ?, ?, ?)"

	selectPriceSQL = "SELECT id FROM prices WHERE key_product_id = ? AND reference_id = ? AND reference_type = ?"

	updatePriceSQL = "UPDATE prices SET key_sell_unit_id = ?, price = ?, reference_id = ?, reference_type = ? WHERE id = ?"

	productPriceSQL = `SELECT products.id, products.barcode, products.product_name, products.product_code, products.key_product_id, prices.price
FROM products
LEFT JOIN prices ON prices.product_id = products.id`
)

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// productValues returns p's column values in productColumns order.
func productValues(p catalog.Product, supplierOrgID string) []any {
	return []any{
		p.KeyProductID,
		p.Barcode,
		p.BarcodeInner,
		p.Description1,
		p.Description2,
		p.Description3,
		p.Description4,
		p.InternalID,
		p.Brand,
		p.Height,
		p.Depth,
		p.Width,
		p.Weight,
		p.Volume,
		p.ProductCondition,
		bool(p.IsPriceTaxInclusive),
		bool(p.IsKitted),
		p.KeyTaxcodeID,
		p.StockQuantity,
		p.Name,
		p.KitProductsSetPrice,
		p.ProductCode,
		p.ProductSearchCode,
		p.StockLowQuantity,
		p.AverageCost,
		p.Drop,
		p.PackQuantity,
		supplierOrgID,
		p.KeySellUnitID,
	}
}

// productUpdateValues binds updateProductSQL: every column but the key, then
// the key for the WHERE clause.
func productUpdateValues(p catalog.Product, supplierOrgID string) []any {
	values := productValues(p, supplierOrgID)
	return append(values[1:], p.KeyProductID)
}
