package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/squizz-sync/backend/internal/interfaces/http/handler"
)

// Handlers bundles the HTTP handlers mounted by Mount.
type Handlers struct {
	Auth     *handler.AuthHandler
	Sync     *handler.SyncHandler
	SyncJobs *handler.SyncJobHandler
	Products *handler.ProductHandler
	Orders   *handler.OrderHandler
	Health   *handler.HealthHandler
}

// Mount wires every route of the service onto engine. sessionAuth guards the
// catalog routes; auth, purchase and history carry their session in the body
// or query and check it themselves.
//
//	/api/v1/auth/{login,logout,register}
//	/api/v1/sync/{products,prices,catalog,jobs}   (session)
//	/api/v1/products/:keyProductID[/prices]       (session)
//	/api/v1/lookup/{barcode/:barcode,code/:code}  (session)
//	/api/purchase, /api/history, /health
func Mount(engine *gin.Engine, h Handlers, sessionAuth gin.HandlerFunc) *Router {
	auth := NewDomainGroup("auth", "/auth").
		POST("/login", h.Auth.Login).
		POST("/logout", h.Auth.Logout).
		POST("/register", h.Auth.Register)

	sync := NewDomainGroup("sync", "/sync").
		Use(sessionAuth).
		POST("/products", h.Sync.SyncProducts).
		POST("/prices", h.Sync.SyncPrices).
		POST("/catalog", h.Sync.SyncCatalog).
		GET("/jobs", h.SyncJobs.List).
		POST("/jobs", h.SyncJobs.Trigger)

	products := NewDomainGroup("products", "/products").
		Use(sessionAuth).
		GET("/:keyProductID", h.Products.GetByKeyProductID).
		GET("/:keyProductID/prices", h.Products.ListPrices)

	lookup := NewDomainGroup("lookup", "/lookup").
		Use(sessionAuth).
		GET("/barcode/:barcode", h.Products.GetByBarcode).
		GET("/code/:code", h.Products.GetByProductCode)

	orders := NewDomainGroup("orders", "/api").
		POST("/purchase", h.Orders.SubmitPurchase).
		Match([]string{http.MethodGet, http.MethodPost}, "/history", h.Orders.History)

	health := NewDomainGroup("health", "").
		GET("/health", h.Health.Health)

	r := NewRouter(engine, WithAPIVersion("v1")).
		Register(auth).
		Register(sync).
		Register(products).
		Register(lookup).
		RegisterRoot(orders).
		RegisterRoot(health)
	r.Setup()
	return r
}
