// internal/router/router.go
package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vendora/vendora-backend/internal/blobstore"
	"github.com/vendora/vendora-backend/internal/config"
	"github.com/vendora/vendora-backend/internal/handlers"
	"github.com/vendora/vendora-backend/internal/middleware"
	"github.com/vendora/vendora-backend/internal/services"
	"github.com/vendora/vendora-backend/internal/utils"
)

func Initialize(ctx context.Context, store blobstore.Store, cfg *config.Config) *gin.Engine {
	// Set JWT secret before any token is minted or checked
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize services
	notificationService := services.NewNotificationService(store)
	authService := services.NewAuthService(ctx, store, cfg)
	catalogService := services.NewCatalogService(ctx, store, notificationService)
	cartService := services.NewCartService(store, catalogService)
	orderService := services.NewOrderService(store, cartService, notificationService)
	adminService := services.NewAdminService(authService, catalogService, orderService, notificationService)
	mediaService, _ := services.NewMediaService(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(catalogService, authService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	adminHandler := handlers.NewAdminHandler(adminService, catalogService, orderService, notificationService)
	mediaHandler := handlers.NewMediaHandler(mediaService)

	// Initialize Gin router
	r := gin.New()
	limits := middleware.NewRateLimits(cfg.RateLimit)

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(limits.General)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(limits.Auth)
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/otp/send", middleware.AuthRequired(), authHandler.SendOTP)
			auth.POST("/otp/verify", middleware.AuthRequired(), authHandler.VerifyOTP)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
			auth.PUT("/me", middleware.AuthRequired(), authHandler.UpdateProfile)
		}

		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), productHandler.List)
			products.GET("/mine", middleware.AuthRequired(), productHandler.MyProducts)
			products.GET("/:id", middleware.OptionalAuth(), productHandler.Get)

			// Seller routes
			protected := products.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", productHandler.Submit)
				protected.PUT("/:id", productHandler.Update)
				protected.DELETE("/:id", productHandler.Delete)
			}
		}

		// Cart routes
		cart := v1.Group("/cart")
		cart.Use(middleware.AuthRequired())
		{
			cart.GET("", cartHandler.Get)
			cart.DELETE("", cartHandler.Clear)
			cart.POST("/items", cartHandler.AddItem)
			cart.PUT("/items/:productId", cartHandler.UpdateQuantity)
			cart.DELETE("/items/:productId", cartHandler.RemoveItem)
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("", orderHandler.Checkout)
			orders.GET("", orderHandler.List)
			orders.GET("/:id", orderHandler.Get)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired())
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.DELETE("/:id", notificationHandler.Delete)
			notifications.DELETE("", notificationHandler.ClearAll)
		}

		// Media upload
		media := v1.Group("/media")
		media.Use(middleware.AuthRequired())
		{
			media.POST("/upload", limits.Upload, mediaHandler.Upload)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.Dashboard)

			adminProducts := admin.Group("/products")
			{
				adminProducts.GET("/pending", adminHandler.PendingProducts)
				adminProducts.PUT("/:id/approve", adminHandler.ApproveProduct)
				adminProducts.PUT("/:id/reject", adminHandler.RejectProduct)
			}

			adminUsers := admin.Group("/users")
			{
				adminUsers.GET("", adminHandler.Users)
				adminUsers.PUT("/:id/suspend", adminHandler.SuspendUser)
				adminUsers.PUT("/:id/reactivate", adminHandler.ReactivateUser)
			}

			adminOrders := admin.Group("/orders")
			{
				adminOrders.PUT("/:id/status", adminHandler.UpdateOrderStatus)
			}

			adminNotifications := admin.Group("/notifications")
			{
				adminNotifications.GET("", adminHandler.Notifications)
				adminNotifications.PUT("/:id/read", adminHandler.MarkNotificationRead)
			}
		}
	}

	// Static file serving for local uploads
	if cfg.Environment == "development" {
		r.Static("/uploads", cfg.Upload.LocalDir)
	}

	return r
}
