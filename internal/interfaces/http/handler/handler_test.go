package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appcatalog "github.com/squizz-sync/backend/internal/application/catalog"
	"github.com/squizz-sync/backend/internal/application/identity"
	"github.com/squizz-sync/backend/internal/application/trade"
	"github.com/squizz-sync/backend/internal/domain/catalog"
	"github.com/squizz-sync/backend/internal/domain/shared"
	domaintrade "github.com/squizz-sync/backend/internal/domain/trade"
	"github.com/squizz-sync/backend/internal/infrastructure/persistence"
	"github.com/squizz-sync/backend/internal/infrastructure/scheduler"
	"github.com/squizz-sync/backend/internal/interfaces/http/dto"
	"github.com/squizz-sync/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func doJSON(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// ---- base ----

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"invalid credentials", shared.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrCodeInvalidCredentials, "Invalid username or password"},
		{"wrapped upstream", fmt.Errorf("%w: timeout", shared.ErrUpstream), http.StatusBadGateway, dto.ErrCodeUpstream, "Platform request failed"},
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound, "Resource not found"},
		{"validation", shared.NewDomainError("INVALID_ORDER", "order must contain at least one line"), http.StatusBadRequest, dto.ErrCodeInvalidInput, "order must contain at least one line"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			engine := gin.New()
			engine.Use(middleware.RequestID())
			engine.GET("/", func(c *gin.Context) { h.HandleError(c, tt.err) })

			w := doJSON(engine, http.MethodGet, "/", "")

			assert.Equal(t, tt.status, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
			assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), resp.Error.RequestID)
		})
	}
}

// ---- auth ----

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Login(ctx context.Context, input identity.LoginInput) (*identity.LoginResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.LoginResult), args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, sessionKey string) error {
	return m.Called(ctx, sessionKey).Error(0)
}

func (m *mockAuthService) Register(ctx context.Context, input identity.RegisterInput) error {
	return m.Called(ctx, input).Error(0)
}

func newAuthEngine(svc AuthService) *gin.Engine {
	h := NewAuthHandler(svc)
	engine := gin.New()
	engine.POST("/auth/login", h.Login)
	engine.POST("/auth/logout", h.Logout)
	engine.POST("/auth/register", h.Register)
	return engine
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(mockAuthService)
		svc.On("Login", mock.Anything, identity.LoginInput{Username: "alice", Password: "pw"}).
			Return(&identity.LoginResult{SessionKey: "S1", OrganizationID: "ORG1"}, nil)

		w := doJSON(newAuthEngine(svc), http.MethodPost, "/auth/login", `{"username":"alice","password":"pw"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "S1", data["sessionKey"])
		assert.Equal(t, "ORG1", data["organizationId"])
		svc.AssertExpectations(t)
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc := new(mockAuthService)
		svc.On("Login", mock.Anything, mock.Anything).Return(nil, shared.ErrInvalidCredentials)

		w := doJSON(newAuthEngine(svc), http.MethodPost, "/auth/login", `{"username":"alice","password":"nope"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotContains(t, w.Body.String(), "nope")
	})

	t.Run("missing password", func(t *testing.T) {
		svc := new(mockAuthService)

		w := doJSON(newAuthEngine(svc), http.MethodPost, "/auth/login", `{"username":"alice"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeInvalidInput, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "password", resp.Error.Details[0].Field)
		assert.Equal(t, "This field is required", resp.Error.Details[0].Message)
		svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := new(mockAuthService)

		w := doJSON(newAuthEngine(svc), http.MethodPost, "/auth/login", `{"username":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, decodeResponse(t, w).Error.Code)
	})
}

func TestAuthHandler_LogoutAndRegister(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Logout", mock.Anything, "S1").Return(nil)
	svc.On("Register", mock.Anything, identity.RegisterInput{Username: "bob", Password: "secret", OrganizationID: "ORG1"}).Return(nil)
	svc.On("Register", mock.Anything, identity.RegisterInput{Username: "dup", Password: "secret", OrganizationID: "ORG1"}).Return(shared.ErrAlreadyExists)
	engine := newAuthEngine(svc)

	assert.Equal(t, http.StatusOK, doJSON(engine, http.MethodPost, "/auth/logout", `{"sessionKey":"S1"}`).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(engine, http.MethodPost, "/auth/logout", `{}`).Code)
	assert.Equal(t, http.StatusCreated, doJSON(engine, http.MethodPost, "/auth/register", `{"username":"bob","password":"secret","organizationId":"ORG1"}`).Code)
	assert.Equal(t, http.StatusConflict, doJSON(engine, http.MethodPost, "/auth/register", `{"username":"dup","password":"secret","organizationId":"ORG1"}`).Code)
	svc.AssertExpectations(t)
}

// ---- sync ----

type mockProductReconciler struct {
	mock.Mock
}

func (m *mockProductReconciler) StoreProducts(ctx context.Context, products []catalog.Product) shared.BatchResult {
	return m.Called(ctx, products).Get(0).(shared.BatchResult)
}

func (m *mockProductReconciler) UpdateProducts(ctx context.Context, products []catalog.Product) shared.BatchResult {
	return m.Called(ctx, products).Get(0).(shared.BatchResult)
}

type mockPriceReconciler struct {
	mock.Mock
}

func (m *mockPriceReconciler) StorePrices(ctx context.Context, prices []catalog.Price) shared.BatchResult {
	return m.Called(ctx, prices).Get(0).(shared.BatchResult)
}

func (m *mockPriceReconciler) UpdatePrices(ctx context.Context, prices []catalog.Price) shared.BatchResult {
	return m.Called(ctx, prices).Get(0).(shared.BatchResult)
}

type mockSyncer struct {
	mock.Mock
}

func (m *mockSyncer) SyncCatalog(ctx context.Context) (*appcatalog.SyncReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcatalog.SyncReport), args.Error(1)
}

func newSyncEngine(h *SyncHandler) *gin.Engine {
	engine := gin.New()
	engine.POST("/sync/products", h.SyncProducts)
	engine.POST("/sync/prices", h.SyncPrices)
	engine.POST("/sync/catalog", h.SyncCatalog)
	return engine
}

func TestSyncHandler_SyncProducts(t *testing.T) {
	products := new(mockProductReconciler)
	products.On("StoreProducts", mock.Anything, mock.MatchedBy(func(p []catalog.Product) bool {
		return len(p) == 2 && p[0].KeyProductID == "P1" && p[1].KeyProductID == "P1"
	})).Return(shared.NewBatchResult("successfully stored products", []string{"P1 error: duplicate key"}))
	products.On("UpdateProducts", mock.Anything, mock.Anything).Return(shared.NewBatchResult("successfully updated products", nil))

	engine := newSyncEngine(NewSyncHandler(products, new(mockPriceReconciler), nil))

	t.Run("store reports partial failure with 200", func(t *testing.T) {
		w := doJSON(engine, http.MethodPost, "/sync/products?mode=store", `[{"keyProductID":"P1"},{"keyProductID":"P1"}]`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"success","message":"successfully stored products","data":{"failed":["P1 error: duplicate key"]}}`, w.Body.String())
	})

	t.Run("update is the default mode", func(t *testing.T) {
		w := doJSON(engine, http.MethodPost, "/sync/products", `[{"keyProductID":"P2"}]`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"success","message":"successfully updated products","data":{"failed":[]}}`, w.Body.String())
	})

	t.Run("invalid mode", func(t *testing.T) {
		w := doJSON(engine, http.MethodPost, "/sync/products?mode=merge", `[]`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := doJSON(engine, http.MethodPost, "/sync/products?mode=store", `{"keyProductID":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	products.AssertNumberOfCalls(t, "StoreProducts", 1)
	products.AssertNumberOfCalls(t, "UpdateProducts", 1)
}

func TestSyncHandler_SyncPrices(t *testing.T) {
	prices := new(mockPriceReconciler)
	prices.On("StorePrices", mock.Anything, mock.MatchedBy(func(p []catalog.Price) bool {
		return len(p) == 1 && p[0].KeyProductID == "MISSING" && p[0].Price.Equal(decimal.RequireFromString("9.99"))
	})).Return(shared.NewBatchResult("successfully stored product prices", []string{"MISSING error: product does not exist"}))

	engine := newSyncEngine(NewSyncHandler(new(mockProductReconciler), prices, nil))

	w := doJSON(engine, http.MethodPost, "/sync/prices?mode=store", `[{"keyProductID":"MISSING","price":"9.99","referenceID":"R","referenceType":"T"}]`)

	assert.Equal(t, http.StatusOK, w.Code)
	var result shared.BatchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, []string{"MISSING error: product does not exist"}, result.Data.Failed)
	prices.AssertExpectations(t)
}

func postCSV(engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "text/csv; charset=utf-8")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestSyncHandler_CSVBatches(t *testing.T) {
	products := new(mockProductReconciler)
	products.On("UpdateProducts", mock.Anything, mock.MatchedBy(func(p []catalog.Product) bool {
		return len(p) == 2 && p[0].KeyProductID == "P1" && p[1].Name == "Gadget"
	})).Return(shared.NewBatchResult("successfully updated products", nil))

	prices := new(mockPriceReconciler)
	prices.On("UpdatePrices", mock.Anything, mock.MatchedBy(func(p []catalog.Price) bool {
		return len(p) == 1 && p[0].Price.Equal(decimal.RequireFromString("4.20"))
	})).Return(shared.NewBatchResult("successfully updated product prices", nil))

	engine := newSyncEngine(NewSyncHandler(products, prices, nil))

	w := postCSV(engine, "/sync/products", "keyProductID,name\nP1,Widget\nP2,Gadget\n")
	assert.Equal(t, http.StatusOK, w.Code)

	w = postCSV(engine, "/sync/prices", "keyProductID,price,referenceID,referenceType\nP1,4.20,R1,LIST\n")
	assert.Equal(t, http.StatusOK, w.Code)

	w = postCSV(engine, "/sync/prices", "keyProductID\nP1\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing required columns")

	products.AssertExpectations(t)
	prices.AssertExpectations(t)
}

func TestSyncHandler_SyncCatalog(t *testing.T) {
	t.Run("no feed configured", func(t *testing.T) {
		engine := newSyncEngine(NewSyncHandler(new(mockProductReconciler), new(mockPriceReconciler), nil))

		w := doJSON(engine, http.MethodPost, "/sync/catalog", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("report", func(t *testing.T) {
		syncer := new(mockSyncer)
		syncer.On("SyncCatalog", mock.Anything).Return(&appcatalog.SyncReport{
			Products: shared.NewBatchResult("successfully updated products", nil),
			Prices:   shared.NewBatchResult("successfully updated product prices", nil),
		}, nil)
		engine := newSyncEngine(NewSyncHandler(new(mockProductReconciler), new(mockPriceReconciler), syncer))

		w := doJSON(engine, http.MethodPost, "/sync/catalog", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "successfully updated product prices")
	})

	t.Run("feed failure", func(t *testing.T) {
		syncer := new(mockSyncer)
		syncer.On("SyncCatalog", mock.Anything).Return(nil, fmt.Errorf("fetch products: %w", shared.ErrUpstream))
		engine := newSyncEngine(NewSyncHandler(new(mockProductReconciler), new(mockPriceReconciler), syncer))

		w := doJSON(engine, http.MethodPost, "/sync/catalog", "")
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

// ---- products ----

type mockProductFinder struct {
	mock.Mock
}

func (m *mockProductFinder) FindByBarcode(ctx context.Context, barcode string) (*catalog.ProductPrice, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductPrice), args.Error(1)
}

func (m *mockProductFinder) FindByProductCode(ctx context.Context, productCode string) (*catalog.ProductPrice, error) {
	args := m.Called(ctx, productCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductPrice), args.Error(1)
}

func (m *mockProductFinder) FindByKeyProductID(ctx context.Context, keyProductID string) (*catalog.Product, error) {
	args := m.Called(ctx, keyProductID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockProductFinder) ListPrices(ctx context.Context, keyProductID string) ([]catalog.Price, error) {
	args := m.Called(ctx, keyProductID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Price), args.Error(1)
}

func TestProductHandler(t *testing.T) {
	finder := new(mockProductFinder)
	finder.On("FindByBarcode", mock.Anything, "9300000000001").
		Return(&catalog.ProductPrice{ProductID: 1, Barcode: "9300000000001", KeyProductID: "P1", Price: decimal.RequireFromString("12.50")}, nil)
	finder.On("FindByProductCode", mock.Anything, "NOPE").Return(nil, shared.ErrNotFound)
	finder.On("FindByKeyProductID", mock.Anything, "P1").Return(&catalog.Product{ID: 1, KeyProductID: "P1", Name: "Widget"}, nil)
	finder.On("ListPrices", mock.Anything, "P9").Return(nil, nil)

	h := NewProductHandler(finder)
	engine := gin.New()
	engine.GET("/lookup/barcode/:barcode", h.GetByBarcode)
	engine.GET("/lookup/code/:code", h.GetByProductCode)
	engine.GET("/products/:keyProductID", h.GetByKeyProductID)
	engine.GET("/products/:keyProductID/prices", h.ListPrices)

	w := doJSON(engine, http.MethodGet, "/lookup/barcode/9300000000001", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"price":"12.5"`)

	assert.Equal(t, http.StatusNotFound, doJSON(engine, http.MethodGet, "/lookup/code/NOPE", "").Code)

	w = doJSON(engine, http.MethodGet, "/products/P1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"keyProductID":"P1"`)

	w = doJSON(engine, http.MethodGet, "/products/P9/prices", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())

	finder.AssertExpectations(t)
}

// ---- orders ----

type mockOrderService struct {
	mock.Mock
}

func (m *mockOrderService) SubmitOrder(ctx context.Context, input trade.SubmitOrderInput) (*domaintrade.Submission, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domaintrade.Submission), args.Error(1)
}

func (m *mockOrderService) GetOrderHistory(ctx context.Context, sessionKey string) ([]domaintrade.OrderSummary, error) {
	args := m.Called(ctx, sessionKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domaintrade.OrderSummary), args.Error(1)
}

func newOrderEngine(svc OrderService) *gin.Engine {
	h := NewOrderHandler(svc)
	engine := gin.New()
	engine.POST("/api/purchase", h.SubmitPurchase)
	engine.GET("/api/history", h.History)
	engine.POST("/api/history", h.History)
	return engine
}

func TestOrderHandler_SubmitPurchase(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(mockOrderService)
		svc.On("SubmitOrder", mock.Anything, mock.MatchedBy(func(in trade.SubmitOrderInput) bool {
			return in.SessionKey == "S1" && len(in.Lines) == 1 && in.Lines[0].KeyProductID == "P1" &&
				in.Lines[0].Quantity.Equal(decimal.NewFromInt(2))
		})).Return(&domaintrade.Submission{Result: "SUCCESS", KeyPurchaseOrderID: "PO-1"}, nil)

		w := doJSON(newOrderEngine(svc), http.MethodPost, "/api/purchase", `{"sessionKey":"S1","lines":[{"keyProductID":"P1","quantity":"2","unitPrice":"1.50"}]}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"result":"SUCCESS","resultCode":"","keyPurchaseOrderID":"PO-1"}`, w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("no lines", func(t *testing.T) {
		svc := new(mockOrderService)
		w := doJSON(newOrderEngine(svc), http.MethodPost, "/api/purchase", `{"sessionKey":"S1","lines":[]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		details := decodeResponse(t, w).Error.Details
		require.Len(t, details, 1)
		assert.Equal(t, "lines", details[0].Field)
		svc.AssertNotCalled(t, "SubmitOrder", mock.Anything, mock.Anything)
	})

	t.Run("unknown session", func(t *testing.T) {
		svc := new(mockOrderService)
		svc.On("SubmitOrder", mock.Anything, mock.Anything).Return(nil, shared.ErrSessionInvalid)

		w := doJSON(newOrderEngine(svc), http.MethodPost, "/api/purchase", `{"sessionKey":"GONE","lines":[{"keyProductID":"P1","quantity":"1"}]}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOrderHandler_History(t *testing.T) {
	svc := new(mockOrderService)
	svc.On("GetOrderHistory", mock.Anything, "S1").Return([]domaintrade.OrderSummary{
		{KeyPurchaseOrderID: "PO-1", BillStatus: domaintrade.BillStatusBilled, TotalExTax: decimal.NewFromInt(4)},
	}, nil)
	svc.On("GetOrderHistory", mock.Anything, "S2").Return(nil, nil)
	engine := newOrderEngine(svc)

	w := doJSON(engine, http.MethodGet, "/api/history?session_id=S1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"billStatus":"BILLED"`)

	w = doJSON(engine, http.MethodPost, "/api/history?session_id=S2", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	assert.Equal(t, http.StatusBadRequest, doJSON(engine, http.MethodGet, "/api/history", "").Code)
}

// ---- health ----

type stubDatabase struct {
	pingErr error
}

func (s stubDatabase) Ping(context.Context) error { return s.pingErr }

func (s stubDatabase) Stats() (persistence.ConnectionStats, error) {
	return persistence.ConnectionStats{MaxOpenConnections: 10, OpenConnections: 2}, nil
}

func TestHealthHandler(t *testing.T) {
	for _, tt := range []struct {
		name   string
		db     stubDatabase
		status int
		body   string
	}{
		{"healthy", stubDatabase{}, http.StatusOK, `"max_open_connections":10`},
		{"database down", stubDatabase{pingErr: errors.New("refused")}, http.StatusServiceUnavailable, `"unhealthy"`},
	} {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.GET("/health", NewHealthHandler(tt.db).Health)

			w := doJSON(engine, http.MethodGet, "/health", "")
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

// ---- sync jobs ----

type stubScheduler struct {
	err     error
	history []scheduler.CatalogSyncJob
}

func (s *stubScheduler) Trigger(trigger string) (*scheduler.CatalogSyncJob, error) {
	if s.err != nil {
		return nil, s.err
	}
	return scheduler.NewCatalogSyncJob(trigger, 0), nil
}

func (s *stubScheduler) History() []scheduler.CatalogSyncJob { return s.history }

func newSyncJobEngine(h *SyncJobHandler) *gin.Engine {
	engine := gin.New()
	engine.GET("/sync/jobs", h.List)
	engine.POST("/sync/jobs", h.Trigger)
	return engine
}

func TestSyncJobHandler(t *testing.T) {
	t.Run("disabled scheduler answers 503", func(t *testing.T) {
		engine := newSyncJobEngine(NewSyncJobHandler(nil))
		assert.Equal(t, http.StatusServiceUnavailable, doJSON(engine, http.MethodGet, "/sync/jobs", "").Code)
		assert.Equal(t, http.StatusServiceUnavailable, doJSON(engine, http.MethodPost, "/sync/jobs", "").Code)
	})

	t.Run("trigger queues a manual job", func(t *testing.T) {
		engine := newSyncJobEngine(NewSyncJobHandler(&stubScheduler{}))
		w := doJSON(engine, http.MethodPost, "/sync/jobs", "")
		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Contains(t, w.Body.String(), `"trigger":"manual"`)
	})

	t.Run("queued job conflicts", func(t *testing.T) {
		engine := newSyncJobEngine(NewSyncJobHandler(&stubScheduler{err: scheduler.ErrJobQueueFull}))
		w := doJSON(engine, http.MethodPost, "/sync/jobs", "")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeAlreadyExists, decodeResponse(t, w).Error.Code)
	})

	t.Run("list returns history", func(t *testing.T) {
		job := scheduler.NewCatalogSyncJob(scheduler.TriggerInterval, 0)
		job.Status = scheduler.CatalogSyncJobStatusPartial
		engine := newSyncJobEngine(NewSyncJobHandler(&stubScheduler{history: []scheduler.CatalogSyncJob{*job}}))
		w := doJSON(engine, http.MethodGet, "/sync/jobs", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"PARTIAL"`)
	})
}
