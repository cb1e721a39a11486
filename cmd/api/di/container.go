package di

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"integrador-service/cmd/api/infrastructure"
	"integrador-service/internal/adapter/cache"
	"integrador-service/internal/adapter/db/postgres"
	ginhandler "integrador-service/internal/adapter/gin/handler"
	"integrador-service/internal/adapter/gin/middleware"
	"integrador-service/internal/adapter/gin/router"
	"integrador-service/internal/adapter/repository/cached"
	"integrador-service/internal/config"
	"integrador-service/internal/usecase/intake"
	"integrador-service/internal/usecase/user"
	redisclient "integrador-service/pkg/redis"
	"integrador-service/pkg/security"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	DB            *gorm.DB
	RedisClient   *redisclient.Client // nil when Redis is disabled
	UserUC        user.Usecase
	IntakeUC      intake.Usecase
	RateLimiter   *middleware.RateLimiter
	UserHandler   *ginhandler.UserHandler
	IntakeHandler *ginhandler.IntakeHandler
	Router        *gin.Engine
}

// NewContainer creates and initializes all application dependencies.
// The database is verified and synchronized before the router is built.
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Initialize database
	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := infrastructure.PrepareDatabase(ctx, db, cfg, l); err != nil {
		_ = infrastructure.CloseDatabase(db)
		return nil, fmt.Errorf("failed to prepare database: %w", err)
	}

	// Initialize Redis client
	rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
	if err != nil {
		_ = infrastructure.CloseDatabase(db)
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	// Initialize repositories
	var userRepo user.Repository = postgres.NewUserRepoPG(db, l)
	var rateLimiter *middleware.RateLimiter
	if rdb != nil {
		userCache := cache.NewRedisUserCache(
			rdb.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		userRepo = cached.NewUserRepository(userRepo, userCache, l)

		if cfg.RateLimit.Enabled {
			rateLimiter = middleware.NewRateLimiter(
				rdb.Client,
				middleware.RateLimiterConfig{
					RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
					BurstCapacity:     cfg.RateLimit.BurstCapacity,
				},
				l,
			)
		}
	}

	// Initialize use cases
	userUC := user.New(userRepo, postgres.NewRoleRepoPG(db, l), security.NewBcryptHasher(security.DefaultBcryptCost), l)
	intakeUC := intake.New(
		postgres.NewClientRepoPG(db, l),
		postgres.NewServiceRequestRepoPG(db, l),
		postgres.NewQuoteRepoPG(db, l),
		l,
	)

	// Initialize Gin handlers and router
	userHandler := ginhandler.NewUserHandler(userUC, l)
	intakeHandler := ginhandler.NewIntakeHandler(intakeUC, l)

	gin.SetMode(gin.ReleaseMode)
	r := router.SetupRouter(router.Config{
		UserHandler:    userHandler,
		IntakeHandler:  intakeHandler,
		RateLimiter:    rateLimiter,
		Health:         healthCheck(db, rdb),
		SwaggerEnabled: cfg.App.SwaggerEnabled,
		Logger:         l,
	})

	return &Container{
		Config:        cfg,
		Logger:        l,
		DB:            db,
		RedisClient:   rdb,
		UserUC:        userUC,
		IntakeUC:      intakeUC,
		RateLimiter:   rateLimiter,
		UserHandler:   userHandler,
		IntakeHandler: intakeHandler,
		Router:        r,
	}, nil
}

// healthCheck pings the database and, when Redis is enabled, Redis too.
func healthCheck(db *gorm.DB, rdb *redisclient.Client) router.Pinger {
	return func(ctx context.Context) error {
		if err := postgres.Ping(ctx, db); err != nil {
			return fmt.Errorf("database: %w", err)
		}
		if rdb != nil {
			return rdb.Ping(ctx)
		}
		return nil
	}
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
