package routes

import (
	"shopcatalog/internal/adapter/http/handler"
	"shopcatalog/internal/core/telemetry"
	. "shopcatalog/pkg/auth"
	"shopcatalog/pkg/config"
	"shopcatalog/pkg/middlewares"

	"github.com/gin-gonic/gin"
)

type HandlersConfig struct {
	AuthHandler     *handler.AuthHandler
	ProductHandler  *handler.ProductHandler
	CategoryHandler *handler.CategoryHandler
	OrderHandler    *handler.OrderHandler
}

func SetupRouter(handlers HandlersConfig, metrics *telemetry.AppMetrics, logger *config.AppLogger) *gin.Engine {
	return SetupRouterWithConfig(handlers, metrics, logger, config.GetDefaultConfig())
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics *telemetry.AppMetrics, logger *config.AppLogger, cfg *config.AppConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	middlewares.SetupGinMiddlewareWithConfig(router, "shopcatalog", metrics, logger, cfg)

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	if handlers.AuthHandler != nil {
		setupPublicRoutes(router, handlers.AuthHandler)
	}

	setupProtectedRoutes(router, handlers)
	setupAdminRoutes(router, handlers)

	return router
}

func setupPublicRoutes(router *gin.Engine, authHandler *handler.AuthHandler) {
	public := router.Group("/")
	{
		public.POST("/signup", authHandler.RegisterByEmailAndPassword)
		public.POST("/auth", authHandler.AuthByEmailAndPassword)
	}
}

func setupProtectedRoutes(router *gin.Engine, handlers HandlersConfig) {
	protected := router.Group("/")
	protected.Use(GinJwtMiddleware())
	{
		if handlers.ProductHandler != nil {
			protected.GET("/products", handlers.ProductHandler.ListProducts)
			protected.GET("/products/:id", handlers.ProductHandler.GetProduct)
		}

		if handlers.CategoryHandler != nil {
			protected.GET("/categories", handlers.CategoryHandler.ListCategories)
			protected.GET("/categories/:id", handlers.CategoryHandler.GetCategory)
		}

		if handlers.OrderHandler != nil {
			protected.GET("/orders", handlers.OrderHandler.ListOrders)
			protected.GET("/orders/:id", handlers.OrderHandler.GetOrder)
			protected.POST("/orders", handlers.OrderHandler.CreateOrder)
			protected.DELETE("/orders/:id", handlers.OrderHandler.DeleteOrder)
		}
	}
}

// Catalog mutations, restores and order status changes are admin only.
func setupAdminRoutes(router *gin.Engine, handlers HandlersConfig) {
	admin := router.Group("/")
	admin.Use(GinJwtMiddleware())
	admin.Use(GinAdminMiddleware())
	{
		if handlers.ProductHandler != nil {
			admin.POST("/products", handlers.ProductHandler.CreateProduct)
			admin.PUT("/products/:id", handlers.ProductHandler.UpdateProduct)
			admin.DELETE("/products/:id", handlers.ProductHandler.DeleteProduct)
			admin.POST("/products/:id/restore", handlers.ProductHandler.RestoreProduct)
		}

		if handlers.CategoryHandler != nil {
			admin.POST("/categories", handlers.CategoryHandler.CreateCategory)
			admin.PUT("/categories/:id", handlers.CategoryHandler.UpdateCategory)
			admin.DELETE("/categories/:id", handlers.CategoryHandler.DeleteCategory)
			admin.POST("/categories/:id/restore", handlers.CategoryHandler.RestoreCategory)
		}

		if handlers.OrderHandler != nil {
			admin.PUT("/orders/:id", handlers.OrderHandler.UpdateOrder)
			admin.POST("/orders/:id/restore", handlers.OrderHandler.RestoreOrder)
		}
	}
}

// SetupRouterForTests skips the observability middleware so handler tests
// do not need a metrics registry or a logger.
func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(gin.Recovery())

	if handlers.AuthHandler != nil {
		setupPublicRoutes(router, handlers.AuthHandler)
	}

	setupProtectedRoutes(router, handlers)
	setupAdminRoutes(router, handlers)

	return router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
