package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"designhub-backend/internal/app"
	"designhub-backend/internal/handlers"
	"designhub-backend/internal/middleware"
)

// NewRouter registers every route on a new gin engine.
func NewRouter(a *app.App) *gin.Engine {
	cfg := a.Config

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	portfolioHandler := handlers.NewPortfolioHandler(a.Portfolio)
	ordersHandler := handlers.NewOrdersHandler(a.Orders, a.Engine)
	authHandler := handlers.NewAuthHandler(a.Verifier, a.Tokens, a.Cache)
	eventsHandler := handlers.NewEventsHandler(a.Hub)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", handlers.HealthHandler(a.Remote))

	api := router.Group("/api/v1")

	// Public
	api.GET("/categories", handlers.ListCategories)
	api.GET("/projects", portfolioHandler.ListProjects)
	api.GET("/projects/:project_id", portfolioHandler.GetProject)
	limiter := middleware.NewIPRateLimiter(cfg.OrderRateLimit, cfg.OrderRateBurst)
	api.POST("/orders", middleware.RateLimit(limiter), ordersHandler.SubmitOrder)
	api.POST("/admin/login", authHandler.Login)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(a.Tokens, a.Cache))

	admin.POST("/logout", authHandler.Logout)
	admin.GET("/session", authHandler.Session)

	admin.POST("/projects", portfolioHandler.CreateProject)
	admin.PUT("/projects/:project_id", portfolioHandler.UpdateProject)
	admin.DELETE("/projects/:project_id", portfolioHandler.DeleteProject)

	admin.GET("/orders", ordersHandler.ListOrders)
	admin.POST("/orders/sync", ordersHandler.SyncOrders)
	admin.GET("/orders/export", ordersHandler.ExportOrders)
	admin.PATCH("/orders/:order_id/status", ordersHandler.UpdateOrderStatus)
	admin.DELETE("/orders/:order_id", ordersHandler.DeleteOrder)

	admin.GET("/stats", ordersHandler.GetStats)
	admin.GET("/events", eventsHandler.Stream)

	return router
}
