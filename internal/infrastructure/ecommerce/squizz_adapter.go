package ecommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/squizz-sync/backend/internal/domain/catalog"
	"github.com/squizz-sync/backend/internal/domain/trade"
	"github.com/squizz-sync/backend/internal/infrastructure/logger"
)

// maxResponseSize is the maximum allowed response size from the platform API (32MB)
const maxResponseSize = 32 * 1024 * 1024

// Platform errors
var (
	ErrPlatformUnavailable   = errors.New("squizz: platform unavailable")
	ErrPlatformRequestFailed = errors.New("squizz: request failed")
	ErrPlatformRejected      = errors.New("squizz: request rejected")
	ErrSessionExpired        = errors.New("squizz: session expired")
)

// SquizzAdapter talks to the platform's REST API. It opens sessions, pulls the
// supplier's product and price documents and forwards purchase orders.
// Outbound calls share one rate limiter.
type SquizzAdapter struct {
	config     *SquizzConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger

	// feedSession is reused across feed requests until the platform rejects it
	feedSession string
	mu          sync.Mutex
}

// NewSquizzAdapter creates a new platform adapter with the given configuration
func NewSquizzAdapter(config *SquizzConfig, logger *zap.Logger) (*SquizzAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &SquizzAdapter{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    newLimiter(config.RequestsPerSecond),
		logger:     logger,
	}, nil
}

// CreateSession opens a new API session for our organization.
func (a *SquizzAdapter) CreateSession(ctx context.Context) (string, error) {
	body, err := a.doRequest(ctx, http.MethodPost, "/session/create", nil, squizzSessionRequest{
		OrgID:          a.config.OrgID,
		APIOrgKey:      a.config.OrgKey,
		APIOrgPassword: a.config.OrgPassword,
	})
	if err != nil {
		return "", err
	}

	var resp squizzSessionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("squizz: failed to parse session response: %w", err)
	}
	if resp.Result != squizzResultSuccess || resp.SessionID == "" {
		return "", fmt.Errorf("%w: %s", ErrPlatformRejected, resp.ResultCode)
	}
	return resp.SessionID, nil
}

// FetchProducts retrieves the supplier's product document.
func (a *SquizzAdapter) FetchProducts(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := a.retrieveDocument(ctx, squizzDataTypeProducts, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FetchPrices retrieves the supplier's product price document.
func (a *SquizzAdapter) FetchPrices(ctx context.Context) ([]catalog.Price, error) {
	var prices []catalog.Price
	if err := a.retrieveDocument(ctx, squizzDataTypeProductPrices, &prices); err != nil {
		return nil, err
	}
	return prices, nil
}

// SubmitPurchaseOrder sends order to the supplier using the buyer's session.
func (a *SquizzAdapter) SubmitPurchaseOrder(ctx context.Context, order *trade.PurchaseOrder) (*trade.Submission, error) {
	doc := squizzPurchaseOrderDocument{
		DataTypeID:  squizzDataTypePurchaseOrder,
		DataRecords: []squizzPurchaseOrderRecord{toSquizzPurchaseOrder(order)},
	}
	query := url.Values{"supplier_org_id": {order.SupplierOrgID}}

	body, err := a.doRequest(ctx, http.MethodPost, "/org/procure_purchase_order_from_supplier/"+url.PathEscape(order.SessionKey), query, doc)
	if err != nil {
		return nil, err
	}

	var resp squizzSubmitResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("squizz: failed to parse purchase order response: %w", err)
	}
	if resp.Result != squizzResultSuccess {
		return nil, fmt.Errorf("%w: %s %s", ErrPlatformRejected, resp.ResultCode, resp.Message)
	}

	keyPurchaseOrderID := resp.KeyPurchaseOrderID
	if keyPurchaseOrderID == "" {
		keyPurchaseOrderID = order.KeyPurchaseOrderID
	}
	return &trade.Submission{
		Result:             resp.Result,
		ResultCode:         resp.ResultCode,
		KeyPurchaseOrderID: keyPurchaseOrderID,
		Message:            resp.Message,
	}, nil
}

// OrderHistory lists purchase orders placed with the supplier under the
// given session.
func (a *SquizzAdapter) OrderHistory(ctx context.Context, sessionKey string) ([]trade.OrderSummary, error) {
	query := url.Values{"supplier_org_id": {a.config.SupplierOrgID}}
	body, err := a.doRequest(ctx, http.MethodGet, "/org/retrieve_purchase_orders/"+url.PathEscape(sessionKey), query, nil)
	if err != nil {
		return nil, err
	}

	var records []squizzOrderHistoryRecord
	if err := decodeDocument(body, &records); err != nil {
		return nil, err
	}

	history := make([]trade.OrderSummary, 0, len(records))
	for _, r := range records {
		history = append(history, trade.OrderSummary{
			KeyPurchaseOrderID: r.KeyPurchaseOrderID,
			SupplierOrgID:      r.SupplierOrgID,
			CreatedDate:        time.UnixMilli(r.CreatedDate).UTC(),
			TotalExTax:         r.TotalPriceExTax,
			BillStatus:         trade.BillStatus(r.BillStatus),
		})
	}
	return history, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// retrieveDocument downloads an ESD document of dataType into out. The feed
// session is opened on first use and reopened once if the platform reports it
// expired.
func (a *SquizzAdapter) retrieveDocument(ctx context.Context, dataType int, out any) error {
	for attempt := 0; ; attempt++ {
		session, err := a.session(ctx)
		if err != nil {
			return err
		}

		query := url.Values{
			"supplier_org_id": {a.config.SupplierOrgID},
			"data_type_id":    {strconv.Itoa(dataType)},
		}
		body, err := a.doRequest(ctx, http.MethodGet, "/org/retrieve_esd/"+url.PathEscape(session), query, nil)
		if errors.Is(err, ErrSessionExpired) && attempt == 0 {
			logger.Enrich(ctx, a.logger).Info("Platform session expired, reopening")
			a.resetSession(session)
			continue
		}
		if err != nil {
			return err
		}
		return decodeDocument(body, out)
	}
}

func (a *SquizzAdapter) session(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.feedSession != "" {
		return a.feedSession, nil
	}
	session, err := a.CreateSession(ctx)
	if err != nil {
		return "", err
	}
	a.feedSession = session
	return session, nil
}

func (a *SquizzAdapter) resetSession(stale string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.feedSession == stale {
		a.feedSession = ""
	}
}

// newLimiter allows rps requests per second with a burst of the same size.
// A non-positive rps disables limiting.
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

func decodeDocument(body []byte, out any) error {
	var doc squizzDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("squizz: failed to parse document: %w", err)
	}
	if doc.ResultStatus != squizzESDStatusSuccess {
		return fmt.Errorf("%w: %s", ErrPlatformRejected, doc.Message)
	}
	if len(doc.DataRecords) == 0 || string(doc.DataRecords) == "null" {
		return nil
	}
	if err := json.Unmarshal(doc.DataRecords, out); err != nil {
		return fmt.Errorf("squizz: failed to parse data records: %w", err)
	}
	return nil
}

// doRequest performs a rate limited HTTP request against the platform API.
func (a *SquizzAdapter) doRequest(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("squizz: rate limiter: %w", err)
	}

	endpoint := a.config.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("squizz: failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("squizz: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("squizz: failed to read response: %w", err)
	}

	logger.Enrich(ctx, a.logger).Debug("Platform request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode == http.StatusUnauthorized || sessionRejected(body) {
		return nil, ErrSessionExpired
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrPlatformRequestFailed, resp.StatusCode)
	}
	return body, nil
}

func sessionRejected(body []byte) bool {
	var probe struct {
		ResultCode string `json:"result_code"`
	}
	return json.Unmarshal(body, &probe) == nil && probe.ResultCode == squizzResultCodeNoSession
}

func toSquizzPurchaseOrder(o *trade.PurchaseOrder) squizzPurchaseOrderRecord {
	lines := make([]squizzPurchaseOrderLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, squizzPurchaseOrderLine{
			LineType:        l.LineType,
			KeyProductID:    l.KeyProductID,
			ProductCode:     l.ProductCode,
			ProductName:     l.ProductName,
			KeySellUnitID:   l.KeySellUnitID,
			Quantity:        l.Quantity,
			PriceExTax:      l.UnitPrice,
			PriceTotalExTax: l.PriceTotalExTax,
		})
	}

	dropship := "N"
	if o.IsDropship {
		dropship = "Y"
	}

	return squizzPurchaseOrderRecord{
		KeyPurchaseOrderID:   o.KeyPurchaseOrderID,
		SupplierOrgID:        o.SupplierOrgID,
		KeySupplierAccountID: o.KeySupplierAccountID,
		CreatedDate:          o.CreatedDate.UnixMilli(),
		Instructions:         o.Instructions,
		DeliveryOrgName:      o.Delivery.OrgName,
		DeliveryContact:      o.Delivery.Contact,
		DeliveryEmail:        o.Delivery.Email,
		DeliveryAddress1:     o.Delivery.Address1,
		DeliveryAddress2:     o.Delivery.Address2,
		DeliveryAddress3:     o.Delivery.Address3,
		DeliveryRegionName:   o.Delivery.RegionName,
		DeliveryCountryName:  o.Delivery.CountryName,
		DeliveryPostcode:     o.Delivery.Postcode,
		BillingContact:       o.Billing.Contact,
		BillingOrgName:       o.Billing.OrgName,
		BillingEmail:         o.Billing.Email,
		BillingAddress1:      o.Billing.Address1,
		BillingAddress2:      o.Billing.Address2,
		BillingAddress3:      o.Billing.Address3,
		BillingRegionName:    o.Billing.RegionName,
		BillingCountryName:   o.Billing.CountryName,
		BillingPostcode:      o.Billing.Postcode,
		IsDropship:           dropship,
		Lines:                lines,
	}
}
