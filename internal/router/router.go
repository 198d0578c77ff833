// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/omarqassem/shopfront-backend/internal/config"
	"github.com/omarqassem/shopfront-backend/internal/database"
	"github.com/omarqassem/shopfront-backend/internal/handlers"
	"github.com/omarqassem/shopfront-backend/internal/middleware"
	"github.com/omarqassem/shopfront-backend/internal/services"
	"github.com/omarqassem/shopfront-backend/internal/utils"
)

const cartTTL = 30 * 24 * time.Hour

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Cart storage: redis when reachable, in-process otherwise.
	var cartStorage services.CartStorage
	if redisClient, err := database.NewRedisClient(cfg.Redis); err != nil {
		logrus.WithError(err).Warn("Redis unavailable, using in-memory cart storage")
		cartStorage = services.NewMemoryCartStorage()
	} else {
		cartStorage = services.NewRedisCartStorage(redisClient, cartTTL)
	}

	// Initialize services
	catalogService := services.NewCatalogService(db, time.Duration(cfg.Catalog.RetryInterval)*time.Second)
	cartService := services.NewCartService(cartStorage)
	inventoryService := services.NewInventoryService(db, cfg.Inventory.GuardedDecrement)
	notificationService := services.NewNotificationService(cfg)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Warn("S3 storage unavailable, image uploads disabled")
	}
	checkoutService := services.NewCheckoutService(db, catalogService, cartService, inventoryService, notificationService)
	orderService := services.NewOrderService(db, catalogService)
	authService := services.NewAuthService(db, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	adminHandler := handlers.NewAdminHandler(orderService, storageService, catalogService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Warm the catalog before serving; a failed load schedules its own
	// retry and the storefront serves the empty snapshot meanwhile.
	if err := catalogService.Load(); err != nil {
		logrus.WithError(err).Warn("Initial catalog load failed, retry scheduled")
	}

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(allowedOrigins(cfg)))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		snap := catalogService.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"status":            "healthy",
			"catalog_loaded_at": snap.LoadedAt,
			"catalog_products":  len(snap.Products),
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Storefront catalog routes
		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/featured", productHandler.GetFeaturedProducts)
			products.GET("/:id", productHandler.GetProduct)
		}

		// Cart routes, all scoped to the X-Cart-ID session
		cart := v1.Group("/cart")
		cart.Use(middleware.CartSession())
		{
			cart.GET("", cartHandler.GetCart)
			cart.DELETE("", cartHandler.ClearCart)
			cart.POST("/items", cartHandler.AddItem)
			cart.PUT("/items/:productId", cartHandler.UpdateItem)
			cart.DELETE("/items/:productId", cartHandler.RemoveItem)
		}

		// Checkout and order lookup
		checkout := v1.Group("")
		checkout.Use(middleware.CartSession())
		{
			checkout.POST("/checkout", middleware.CheckoutRateLimit(), checkoutHandler.Checkout)
		}
		v1.GET("/orders/:id", checkoutHandler.GetOrder)

		// Admin console routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired())
		admin.Use(middleware.AdminRequired())
		admin.Use(middleware.AuditLogMiddleware(db))
		{
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)
			admin.POST("/products/upload-images", adminHandler.UploadProductImages)

			admin.GET("/orders", adminHandler.GetOrders)
			admin.GET("/orders/pending", adminHandler.GetPendingOrders)
			admin.GET("/orders/completed", adminHandler.GetCompletedOrders)
			admin.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)
			admin.DELETE("/orders/:id", adminHandler.DeleteOrder)

			admin.GET("/dashboard/stats", adminHandler.GetDashboardStats)
			admin.POST("/catalog/refresh", adminHandler.RefreshCatalog)
		}
	}

	return r
}

func allowedOrigins(cfg *config.Config) []string {
	if cfg.Frontend.BaseURL == "" {
		return nil
	}
	return []string{cfg.Frontend.BaseURL}
}
