package router

import (
	"time"

	"barpos/internal/config"
	"barpos/internal/handler"
	"barpos/internal/infra"
	"barpos/internal/middleware"
	"barpos/internal/repository"
	"barpos/internal/service"
	"barpos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) *gin.Engine {
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
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	productRepo := repository.NewProductRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	barrelRepo := repository.NewBarrelRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	ticketRepo := repository.NewTicketRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	categorySvc := service.NewCategoryService(categoryRepo)
	unitSvc := service.NewUnitService(unitRepo)
	barrelSvc := service.NewBarrelService(barrelRepo)
	productSvc := service.NewProductService(productRepo, inventoryRepo, barrelRepo, categoryRepo, unitRepo)
	inventorySvc := service.NewInventoryService(inventoryRepo, productRepo)
	saleSvc := service.NewSaleService(saleRepo, productRepo, inventoryRepo, barrelRepo, ticketRepo, dispatcher)
	ticketSvc := service.NewTicketService(ticketRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	unitsH := handler.NewUnitsHandler(unitSvc)
	productsH := handler.NewProductsHandler(productSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	barrelsH := handler.NewBarrelsHandler(barrelSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	ticketsH := handler.NewTicketsHandler(ticketSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Barcode price check — no auth required, used by the shelf scanner
	r.GET("/v1/products/barcode/:barcode", productsH.GetByBarcode)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cashier, manager, admin — declared per-endpoint
		v1.POST("/sales", middleware.RequireRole("cashier", "manager", "admin"), salesH.ProcessSale)
		v1.GET("/sales", middleware.RequireRole("cashier", "manager", "admin"), salesH.ListSales)
		v1.GET("/sales/:id", middleware.RequireRole("cashier", "manager", "admin"), salesH.GetSale)

		// Tickets — redemption is the tap station's endpoint, any staff can scan
		tickets := v1.Group("/tickets", middleware.RequireRole("cashier", "manager", "admin"))
		{
			tickets.POST("/redeem", ticketsH.Redeem)
			tickets.GET("/sale/:sale_id", ticketsH.ListBySale)
			tickets.GET("/barrel/:barrel_id/pending", ticketsH.ListPendingByBarrel)
		}

		// Products — all staff can read (catalog sync), admin writes
		v1.GET("/products", middleware.RequireRole("cashier", "manager", "admin"), productsH.List)
		v1.GET("/products/:id", middleware.RequireRole("cashier", "manager", "admin"), productsH.GetByID)
		prods := v1.Group("/products", middleware.RequireRole("admin"))
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Deactivate)
			prods.PATCH("/:id/reactivate", productsH.Reactivate)
		}

		// Inventory — managers and admins adjust stock
		inv := v1.Group("/inventory", middleware.RequireRole("manager", "admin"))
		{
			inv.GET("", inventoryH.List)
			inv.PUT("/:product_id", inventoryH.SetQuantity)
			inv.GET("/alerts", inventoryH.Alerts)
		}

		// Barrels — reads for all staff, lifecycle writes for manager/admin
		v1.GET("/barrels", middleware.RequireRole("cashier", "manager", "admin"), barrelsH.List)
		v1.GET("/barrels/:id", middleware.RequireRole("cashier", "manager", "admin"), barrelsH.Get)
		v1.GET("/barrels/:id/movements", middleware.RequireRole("manager", "admin"), barrelsH.ListMovements)
		barrels := v1.Group("/barrels", middleware.RequireRole("manager", "admin"))
		{
			barrels.POST("", barrelsH.Create)
			barrels.PATCH("/:id/status", barrelsH.UpdateStatus)
			barrels.PATCH("/:id/volume", barrelsH.AdjustVolume)
		}

		// Categories — admin can write, all authenticated can read
		v1.GET("/categories", middleware.RequireRole("cashier", "manager", "admin"), categoriesH.List)
		categories := v1.Group("/categories", middleware.RequireRole("admin"))
		{
			categories.POST("", categoriesH.Create)
			categories.PUT("/:id", categoriesH.Update)
			categories.DELETE("/:id", categoriesH.Deactivate)
		}

		// Measure units — admin only writes
		v1.GET("/units", middleware.RequireRole("cashier", "manager", "admin"), unitsH.List)
		units := v1.Group("/units", middleware.RequireRole("admin"))
		{
			units.POST("", unitsH.Create)
			units.DELETE("/:id", unitsH.Delete)
		}

		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
