package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// AutoMigrate synchronizes the live schema with the declared models.
// GORM only adds tables, columns, indexes and constraints; it never drops.
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to synchronize schema: %w", err)
	}
	return nil
}

// Ping verifies that the database answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}
