// internal/router/router.go
package router

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/yahiawalid23/HEPTA/internal/bootstrap"
	"github.com/yahiawalid23/HEPTA/internal/handlers"
	"github.com/yahiawalid23/HEPTA/internal/metrics"
	"github.com/yahiawalid23/HEPTA/internal/middleware"
)

func Initialize(app *bootstrap.App) *gin.Engine {
	cfg := app.Config

	// Initialize handlers
	maxUpload := int64(cfg.Server.MaxUploadMB) << 20
	productHandler := handlers.NewProductHandler(app.Catalog, app.Images, maxUpload)
	orderHandler := handlers.NewOrderHandler(app.Ordering)
	fileHandler := handlers.NewFileHandler(app.Catalog, app.Ordering)
	authHandler := handlers.NewAuthHandler(app.Auth, cfg.Admin.CookieName, cfg.IsProduction())

	// Initialize Gin router
	r := gin.New()
	r.MaxMultipartMemory = maxUpload

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(app.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.Frontend.AllowedOrigins))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":         "healthy",
			"remote_storage": cfg.RemoteStorageEnabled(),
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Images written to the local disk store are served from here.
	if app.Disk != nil {
		r.Static("/storage", filepath.Clean(app.Disk.Root()))
	}

	limit := func(h gin.HandlerFunc) gin.HandlerFunc {
		if !cfg.Server.RateLimit {
			return func(c *gin.Context) { c.Next() }
		}
		return h
	}

	api := r.Group("/api")
	api.Use(limit(middleware.GeneralRateLimit()))
	{
		api.GET("/products", productHandler.GetProducts)
		api.GET("/products/:id/images", productHandler.GetProductImages)
		api.GET("/categories", productHandler.GetCategories)
		api.POST("/orders", limit(middleware.CheckoutRateLimit()), orderHandler.PlaceOrder)

		auth := api.Group("/auth")
		{
			auth.POST("/login", limit(middleware.AuthRateLimit()), authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AdminRequired(app.Auth, cfg.Admin.CookieName))
		if app.Audit != nil {
			admin.Use(middleware.AuditLogMiddleware(app.Audit, app.Logger))
		}
		{
			admin.GET("/session", authHandler.Session)

			admin.GET("/orders", orderHandler.ListOrders)
			admin.PUT("/orders/:id/status", orderHandler.UpdateStatus)
			admin.POST("/orders/reset", orderHandler.ResetOrders)

			admin.POST("/products/upload", limit(middleware.UploadRateLimit()), productHandler.UploadProducts)
			admin.POST("/products/:id/images", limit(middleware.UploadRateLimit()), productHandler.UploadProductImages)
			admin.DELETE("/products/:id/images/:name", productHandler.DeleteProductImage)

			admin.GET("/files/:type", fileHandler.Download)

			if app.Audit != nil {
				adminHandler := handlers.NewAdminHandler(app.Audit)
				admin.GET("/audit", adminHandler.GetAuditLogs)
			}
		}
	}

	return r
}
