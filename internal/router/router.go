package router

import (
	"costbook/internal/config"
	"costbook/internal/handler"
	"costbook/internal/middleware"
	"costbook/internal/repository"
	"costbook/internal/service"
	"costbook/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns the configured Gin engine plus
// the pricing service and sweeper, which main hands to the worker pool
// and the background sweep.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, service.PricingService, *service.PricingSweeper) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())

	// ── Repositories ─────────────────────────────────────────────────────────
	partRepo := repository.NewPartRepository(db)
	breakRepo := repository.NewPriceBreakRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	stockRepo := repository.NewStockRepository(db)
	pricingRepo := repository.NewPricingRepository(db)
	rateRepo := repository.NewRateRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// Worker dispatcher, injected into every service that enqueues
	// recompute jobs.
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	settingsSvc := service.NewSettingsService(settingRepo, cfg)
	pricingSvc := service.NewPricingService(partRepo, pricingRepo, breakRepo, purchaseRepo, stockRepo, rateRepo, settingsSvc, dispatcher)
	sweeper := service.NewPricingSweeper(pricingRepo, settingsSvc, dispatcher)

	partSvc := service.NewPartService(partRepo, dispatcher)
	supplierSvc := service.NewSupplierService(breakRepo, dispatcher)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, dispatcher)
	stockSvc := service.NewStockService(stockRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	pricingH := handler.NewPricingHandler(pricingSvc)
	settingsH := handler.NewSettingsHandler(settingsSvc, rateRepo, sweeper)
	catalogH := handler.NewCatalogHandler(partSvc, supplierSvc, purchaseSvc, stockSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		v1.GET("/parts/:id/pricing", pricingH.GetPricing)
		v1.POST("/parts/:id/pricing/refresh", pricingH.Refresh)
		v1.PUT("/parts/:id/pricing/override", pricingH.SetOverride)

		v1.POST("/parts", catalogH.CreatePart)
		v1.DELETE("/parts/:id", catalogH.DeletePart)
		v1.POST("/bom-items", catalogH.CreateBomItem)
		v1.DELETE("/bom-items/:id", catalogH.DeleteBomItem)

		v1.POST("/companies", catalogH.CreateCompany)
		v1.POST("/supplier-parts", catalogH.CreateSupplierPart)
		v1.DELETE("/supplier-parts/:id", catalogH.DeleteSupplierPart)
		v1.POST("/price-breaks/internal", catalogH.CreateInternalBreak)
		v1.DELETE("/price-breaks/internal/:id", catalogH.DeleteInternalBreak)
		v1.POST("/price-breaks/supplier", catalogH.CreateSupplierBreak)
		v1.DELETE("/price-breaks/supplier/:id", catalogH.DeleteSupplierBreak)

		v1.POST("/stock-items", catalogH.CreateStockItem)
		v1.DELETE("/stock-items/:id", catalogH.DeleteStockItem)

		v1.POST("/purchase-orders", catalogH.CreatePurchaseOrder)
		v1.POST("/purchase-orders/:id/complete", catalogH.CompletePurchaseOrder)
		v1.POST("/order-lines", catalogH.CreateOrderLine)
		v1.POST("/order-lines/:id/receive", catalogH.ReceiveOrderLine)

		v1.GET("/settings/pricing", settingsH.GetSettings)
		v1.PUT("/settings/pricing", settingsH.UpdateSettings)
		v1.GET("/exchange-rates", settingsH.GetRates)
		v1.PUT("/exchange-rates", settingsH.ReplaceRates)
		v1.POST("/exchange-rates", settingsH.UpsertRate)
		v1.POST("/pricing/sweep", settingsH.RunSweep)
	}

	return r, pricingSvc, sweeper
}
