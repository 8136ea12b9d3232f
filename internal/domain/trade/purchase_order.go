package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/squizz-sync/backend/internal/domain/shared"
)

// BillStatus tracks whether a purchase order has been invoiced by the supplier.
type BillStatus string

const (
	BillStatusUnbilled BillStatus = "UNBILLED"
	BillStatusBilled   BillStatus = "BILLED"
)

// LineTypeProduct marks an order line that references a catalog product.
const LineTypeProduct = "PRODUCT"

// Address is a delivery or billing block of a purchase order.
type Address struct {
	OrgName     string `json:"orgName,omitempty"`
	Contact     string `json:"contact,omitempty"`
	Email       string `json:"email,omitempty"`
	Address1    string `json:"address1,omitempty"`
	Address2    string `json:"address2,omitempty"`
	Address3    string `json:"address3,omitempty"`
	RegionName  string `json:"regionName,omitempty"`
	CountryName string `json:"countryName,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
}

// OrderLine is a single product line of a purchase order.
type OrderLine struct {
	LineType        string          `json:"lineType"`
	KeyProductID    string          `json:"keyProductID" binding:"required"`
	ProductCode     string          `json:"productCode"`
	ProductName     string          `json:"productName"`
	KeySellUnitID   string          `json:"keySellUnitID"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	PriceTotalExTax decimal.Decimal `json:"priceTotalExTax"`
}

// PurchaseOrder is an order placed by the buyer organization with the
// supplier organization on the platform.
type PurchaseOrder struct {
	KeyPurchaseOrderID   string      `json:"keyPurchaseOrderID"`
	OrganizationID       string      `json:"organizationId"`
	SupplierOrgID        string      `json:"supplierOrgId"`
	KeySupplierAccountID string      `json:"keySupplierAccountID,omitempty"`
	CreatedDate          time.Time   `json:"createdDate"`
	Instructions         string      `json:"instructions,omitempty"`
	Delivery             Address     `json:"delivery"`
	Billing              Address     `json:"billing"`
	IsDropship           bool        `json:"isDropship"`
	Lines                []OrderLine `json:"lines"`
	SessionKey           string      `json:"-"`
	BillStatus           BillStatus  `json:"billStatus"`
}

// NewPurchaseOrder assembles an order for the session's organization. Lines
// without a type default to product lines and missing totals are derived from
// quantity and unit price.
func NewPurchaseOrder(keyPurchaseOrderID, sessionKey, organizationID, supplierOrgID string, lines []OrderLine, now time.Time) (*PurchaseOrder, error) {
	if strings.TrimSpace(sessionKey) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER", "session key cannot be empty")
	}
	if strings.TrimSpace(supplierOrgID) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER", "supplier organization is not configured")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_ORDER", "order must contain at least one line")
	}

	normalized := make([]OrderLine, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line.KeyProductID) == "" {
			return nil, shared.NewDomainError("INVALID_ORDER", fmt.Sprintf("line %d: keyProductID cannot be empty", i+1))
		}
		if !line.Quantity.IsPositive() {
			return nil, shared.NewDomainError("INVALID_ORDER", fmt.Sprintf("line %d: quantity must be positive", i+1))
		}
		if line.LineType == "" {
			line.LineType = LineTypeProduct
		}
		if line.PriceTotalExTax.IsZero() {
			line.PriceTotalExTax = line.UnitPrice.Mul(line.Quantity)
		}
		normalized[i] = line
	}

	return &PurchaseOrder{
		KeyPurchaseOrderID: keyPurchaseOrderID,
		OrganizationID:     organizationID,
		SupplierOrgID:      supplierOrgID,
		CreatedDate:        now,
		Lines:              normalized,
		SessionKey:         sessionKey,
		BillStatus:         BillStatusUnbilled,
	}, nil
}

// TotalExTax sums the line totals.
func (o *PurchaseOrder) TotalExTax() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.PriceTotalExTax)
	}
	return total
}

// Submission is the platform's answer to a submitted purchase order.
type Submission struct {
	Result             string `json:"result"`
	ResultCode         string `json:"resultCode"`
	KeyPurchaseOrderID string `json:"keyPurchaseOrderID"`
	Message            string `json:"message,omitempty"`
}

// OrderSummary is one entry of an organization's order history.
type OrderSummary struct {
	KeyPurchaseOrderID string          `json:"keyPurchaseOrderID"`
	SupplierOrgID      string          `json:"supplierOrgId"`
	CreatedDate        time.Time       `json:"createdDate"`
	TotalExTax         decimal.Decimal `json:"totalExTax"`
	BillStatus         BillStatus      `json:"billStatus"`
}
