// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"bookstock/internal/domain/catalogs/item"
	"bookstock/internal/domain/catalogs/student"
	"bookstock/internal/domain/documents/distribution"
	"bookstock/internal/domain/documents/purchase"
	"bookstock/internal/domain/registers/stock"
	"bookstock/internal/domain/setup"
	"bookstock/internal/domain/stockreport"
	"bookstock/internal/infrastructure/http/v1/handlers"
	"bookstock/internal/infrastructure/http/v1/middleware"
	"bookstock/internal/infrastructure/storage/postgres"
	"bookstock/pkg/logger"
)

// RouterConfig holds the wired services the router exposes.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	// JWTValidator guards /api/v1 when set; nil leaves the API open
	// (single-operator desk deployments).
	JWTValidator middleware.JWTValidator

	Items         *item.Service
	Students      *student.Service
	Setup         *setup.Service
	Purchases     *purchase.Service
	Distributions *distribution.Service
	Stock         *stock.Service
	Reports       *stockreport.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	api := router.Group("/api/v1")
	if cfg.JWTValidator != nil {
		api.Use(middleware.Auth(cfg.JWTValidator))
	}

	base := handlers.NewBaseHandler()

	registerCatalogRoutes(api, base, cfg)
	registerSetupRoutes(api, base, cfg)
	registerDocumentRoutes(api, base, cfg)
	registerRegisterRoutes(api, base, cfg)
	registerReportRoutes(api, base, cfg)

	return router
}

func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")

	itemHandler := handlers.NewItemHandler(base, cfg.Items)
	items := catalogs.Group("/items")
	{
		items.POST("", itemHandler.Create)
		items.GET("", itemHandler.List)
		items.GET("/:id", itemHandler.GetByID)
		items.PUT("/:id", itemHandler.Update)
		items.PATCH("/:id/deletion-mark", itemHandler.SetDeletionMark)
	}

	studentHandler := handlers.NewStudentHandler(base, cfg.Students)
	students := catalogs.Group("/students")
	{
		students.POST("", studentHandler.Create)
		students.GET("", studentHandler.List)
		students.GET("/by-admission-no", studentHandler.GetByAdmissionNo)
		students.GET("/:id", studentHandler.GetByID)
		students.PUT("/:id", studentHandler.Update)
		students.PATCH("/:id/deletion-mark", studentHandler.SetDeletionMark)
	}
}

func registerSetupRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	setupHandler := handlers.NewSetupHandler(base, cfg.Setup)

	group := rg.Group("/setup")
	{
		group.PUT("", setupHandler.Save)
		group.GET("", setupHandler.ListStandards)
		group.GET("/:standard", setupHandler.ListByStandard)
		group.DELETE("/:standard", setupHandler.Delete)
	}
}

func registerDocumentRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	documents := rg.Group("/document")

	purchaseHandler := handlers.NewPurchaseHandler(base, cfg.Purchases)
	purchases := documents.Group("/purchases")
	{
		purchases.POST("", purchaseHandler.Create)
		purchases.GET("", purchaseHandler.List)
		purchases.GET("/:id", purchaseHandler.GetByID)
		purchases.PUT("/:id", purchaseHandler.Update)
		purchases.DELETE("/:id", purchaseHandler.Delete)
		purchases.POST("/:id/post", purchaseHandler.Post)
		purchases.POST("/:id/unpost", purchaseHandler.Unpost)
	}

	billHandler := handlers.NewDistributionHandler(base, cfg.Distributions)
	bills := documents.Group("/bills")
	{
		bills.GET("/prepare-visit", billHandler.PrepareVisit)
		bills.POST("", billHandler.Save)
		bills.GET("", billHandler.List)
		bills.GET("/history", billHandler.History)
		bills.GET("/:id", billHandler.GetByID)
	}
}

func registerRegisterRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	stockHandler := handlers.NewStockHandler(base, cfg.Stock)

	group := rg.Group("/register/stock")
	{
		group.GET("/balances", stockHandler.Balances)
		group.GET("/balances/:id", stockHandler.Balance)
		group.POST("/recalculate", stockHandler.Recalculate)
	}
}

func registerReportRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	reportsHandler := handlers.NewReportsHandler(base, cfg.Reports, cfg.Distributions)

	group := rg.Group("/reports")
	{
		group.GET("/stock", reportsHandler.StockReport)
		group.GET("/stock/export", reportsHandler.ExportStockReport)
		group.GET("/pending/export", reportsHandler.ExportPending)
	}
}
