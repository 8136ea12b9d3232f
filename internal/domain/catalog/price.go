package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/squizz-sync/backend/internal/domain/shared"
)

// Price is a sell price for a product. A product may carry several prices, one
// per (ReferenceID, ReferenceType) pair, e.g. per customer account or price level.
type Price struct {
	ID            int64           `json:"id,omitempty"`
	KeyProductID  string          `json:"keyProductID"`
	KeySellUnitID string          `json:"keySellUnitID"`
	Price         decimal.Decimal `json:"price"`
	ReferenceID   string          `json:"referenceID"`
	ReferenceType string          `json:"referenceType"`
	ProductID     int64           `json:"productId,omitempty"`
}

// Validate checks the fields a price needs before it can be stored.
func (p Price) Validate() error {
	if strings.TrimSpace(p.KeyProductID) == "" {
		return shared.NewDomainError("INVALID_PRICE", "keyProductID cannot be empty")
	}
	if p.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "price cannot be negative")
	}
	return nil
}
