package ecommerce

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Platform result values.
const (
	squizzResultSuccess       = "SUCCESS"
	squizzResultCodeNoSession = "SERVER_ERROR_SESSION_INVALID"
)

// Electronic supplier document (ESD) data types.
const (
	squizzDataTypeProducts      = 3
	squizzDataTypeProductPrices = 37
	squizzDataTypePurchaseOrder = 17
)

// ESD result status returned with document payloads.
const squizzESDStatusSuccess = 1

type squizzSessionRequest struct {
	OrgID          string `json:"org_id"`
	APIOrgKey      string `json:"api_org_key"`
	APIOrgPassword string `json:"api_org_pw"`
}

type squizzSessionResponse struct {
	Result     string `json:"result"`
	ResultCode string `json:"result_code"`
	SessionID  string `json:"session_id"`
}

// squizzDocument is the envelope around every ESD payload.
type squizzDocument struct {
	ResultStatus int             `json:"resultStatus"`
	Message      string          `json:"message"`
	DataTypeID   int             `json:"dataTypeID"`
	DataRecords  json.RawMessage `json:"dataRecords"`
}

type squizzPurchaseOrderDocument struct {
	DataTypeID  int                         `json:"dataTypeID"`
	DataRecords []squizzPurchaseOrderRecord `json:"dataRecords"`
}

type squizzPurchaseOrderRecord struct {
	KeyPurchaseOrderID   string                    `json:"keyPurchaseOrderID"`
	SupplierOrgID        string                    `json:"supplierOrgID"`
	KeySupplierAccountID string                    `json:"keySupplierAccountID,omitempty"`
	CreatedDate          int64                     `json:"createdDate"`
	Instructions         string                    `json:"instructions,omitempty"`
	DeliveryOrgName      string                    `json:"deliveryOrgName,omitempty"`
	DeliveryContact      string                    `json:"deliveryContact,omitempty"`
	DeliveryEmail        string                    `json:"deliveryEmail,omitempty"`
	DeliveryAddress1     string                    `json:"deliveryAddress1,omitempty"`
	DeliveryAddress2     string                    `json:"deliveryAddress2,omitempty"`
	DeliveryAddress3     string                    `json:"deliveryAddress3,omitempty"`
	DeliveryRegionName   string                    `json:"deliveryRegionName,omitempty"`
	DeliveryCountryName  string                    `json:"deliveryCountryName,omitempty"`
	DeliveryPostcode     string                    `json:"deliveryPostcode,omitempty"`
	BillingContact       string                    `json:"billingContact,omitempty"`
	BillingOrgName       string                    `json:"billingOrgName,omitempty"`
	BillingEmail         string                    `json:"billingEmail,omitempty"`
	BillingAddress1      string                    `json:"billingAddress1,omitempty"`
	BillingAddress2      string                    `json:"billingAddress2,omitempty"`
	BillingAddress3      string                    `json:"billingAddress3,omitempty"`
	BillingRegionName    string                    `json:"billingRegionName,omitempty"`
	BillingCountryName   string                    `json:"billingCountryName,omitempty"`
	BillingPostcode      string                    `json:"billingPostcode,omitempty"`
	IsDropship           string                    `json:"isDropship"`
	Lines                []squizzPurchaseOrderLine `json:"lines"`
}

type squizzPurchaseOrderLine struct {
	LineType        string          `json:"lineType"`
	KeyProductID    string          `json:"keyProductID"`
	ProductCode     string          `json:"productCode,omitempty"`
	ProductName     string          `json:"productName,omitempty"`
	KeySellUnitID   string          `json:"keySellUnitID,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	PriceExTax      decimal.Decimal `json:"priceExTax"`
	PriceTotalExTax decimal.Decimal `json:"priceTotalExTax"`
}

type squizzSubmitResponse struct {
	Result             string `json:"result"`
	ResultCode         string `json:"result_code"`
	KeyPurchaseOrderID string `json:"keyPurchaseOrderID"`
	Message            string `json:"message"`
}

type squizzOrderHistoryRecord struct {
	KeyPurchaseOrderID string          `json:"keyPurchaseOrderID"`
	SupplierOrgID      string          `json:"supplierOrgID"`
	CreatedDate        int64           `json:"createdDate"`
	TotalPriceExTax    decimal.Decimal `json:"totalPriceExTax"`
	BillStatus         string          `json:"billStatus"`
}
