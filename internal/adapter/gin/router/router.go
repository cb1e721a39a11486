package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"integrador-service/api"
	"integrador-service/internal/adapter/gin/handler"
	"integrador-service/internal/adapter/gin/middleware"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "integrador-service"

const healthTimeout = 2 * time.Second

// Pinger reports whether a backing store answers.
type Pinger func(ctx context.Context) error

// Config groups the collaborators the router needs.
type Config struct {
	UserHandler    *handler.UserHandler
	IntakeHandler  *handler.IntakeHandler
	RateLimiter    *middleware.RateLimiter // nil disables rate limiting
	Health         Pinger                  // nil reports healthy unconditionally
	SwaggerEnabled bool
	Logger         *zap.Logger
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(cfg Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(cfg.Logger))
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(cfg.RateLimiter.Middleware())

	router.GET("/health", health(cfg.Health, cfg.Logger))

	if cfg.SwaggerEnabled {
		router.GET("/openapi.json", func(c *gin.Context) {
			c.Data(http.StatusOK, "application/json; charset=utf-8", api.OpenAPI)
		})
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/openapi.json"))))
	}

	// API v1 routes
	v1 := router.Group("/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("/register", cfg.UserHandler.Register)
			users.POST("/login", cfg.UserHandler.Login)
			users.GET("", cfg.UserHandler.ListUsers)
			users.GET("/:id", cfg.UserHandler.GetUser)
			users.PUT("/:id", cfg.UserHandler.UpdateUser)
			users.DELETE("/:id", cfg.UserHandler.DeleteUser)
		}

		roles := v1.Group("/roles")
		{
			roles.GET("", cfg.UserHandler.ListRoles)
			roles.POST("", cfg.UserHandler.CreateRole)
		}

		clients := v1.Group("/clients")
		{
			clients.POST("", cfg.IntakeHandler.CreateClient)
			clients.GET("", cfg.IntakeHandler.ListClients)
			clients.GET("/:id", cfg.IntakeHandler.GetClient)
			clients.PUT("/:id", cfg.IntakeHandler.UpdateClient)
			clients.DELETE("/:id", cfg.IntakeHandler.DeleteClient)
			clients.GET("/:id/requests", cfg.IntakeHandler.ListClientRequests)
		}

		requests := v1.Group("/requests")
		{
			requests.POST("", cfg.IntakeHandler.CreateServiceRequest)
			requests.GET("/:id", cfg.IntakeHandler.GetServiceRequest)
			requests.PATCH("/:id/status", cfg.IntakeHandler.UpdateServiceRequestStatus)
			requests.POST("/:id/quote", cfg.IntakeHandler.CreateQuote)
			requests.GET("/:id/quote", cfg.IntakeHandler.GetQuote)
		}
	}

	return router
}

func health(ping Pinger, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()

			if err := ping(ctx); err != nil {
				log.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": ServiceName,
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": ServiceName,
		})
	}
}
