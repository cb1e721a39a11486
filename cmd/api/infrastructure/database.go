package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"integrador-service/internal/adapter/db/postgres"
	"integrador-service/internal/config"
	"integrador-service/pkg/logger"
)

const prepareTimeout = 30 * time.Second

// NewDatabase creates a new database connection with GORM configuration.
// No connection is attempted here; PrepareDatabase verifies it.
func NewDatabase(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	// Configure GORM logger
	gormLogger := logger.NewGormLogger(l, cfg.Logger.SlowQuerySeconds, cfg.Logger.Level)

	dialector, err := dialectorFor(&cfg.DB)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:               gormLogger,
		TranslateError:       true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Get underlying sql.DB for connection pool configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DB.ConnMaxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DB.ConnMaxIdleTime) * time.Second)

	l.Info("database pool configured",
		zap.String("driver", cfg.DB.Driver),
		zap.Int("max_open_conns", cfg.DB.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.DB.MaxIdleConns),
		zap.Int("conn_max_lifetime_seconds", cfg.DB.ConnMaxLifetime),
		zap.Int("conn_max_idle_time_seconds", cfg.DB.ConnMaxIdleTime),
	)

	return db, nil
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return pgdriver.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// PrepareDatabase verifies the connection and, when enabled, synchronizes
// the schema. With DB_FAIL_FAST off a failure is logged together with the
// expected connection parameters and nil is returned.
func PrepareDatabase(ctx context.Context, db *gorm.DB, cfg *config.Config, l *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, prepareTimeout)
	defer cancel()

	err := prepare(ctx, db, cfg.DB.AutoMigrate)
	if err == nil {
		l.Info("database ready",
			zap.String("dsn", cfg.DB.Redacted()),
			zap.Bool("auto_migrate", cfg.DB.AutoMigrate),
		)
		return nil
	}

	fields := []zap.Field{
		zap.Error(err),
		zap.String("driver", cfg.DB.Driver),
		zap.String("host", cfg.DB.Host),
		zap.String("port", cfg.DB.Port),
		zap.String("database", cfg.DB.Name),
		zap.String("user", cfg.DB.User),
	}
	if cfg.DB.FailFast {
		l.Error("database preparation failed", fields...)
		return err
	}

	l.Error("database preparation failed, continuing without a verified database", fields...)
	return nil
}

func prepare(ctx context.Context, db *gorm.DB, migrate bool) error {
	if err := postgres.Ping(ctx, db); err != nil {
		return err
	}
	if !migrate {
		return nil
	}
	return postgres.AutoMigrate(ctx, db)
}

// CloseDatabase closes the database connection
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
