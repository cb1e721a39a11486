// Command migrate verifies the database connection and synchronizes the
// schema, for deployments that run with DB_AUTO_MIGRATE=false.
package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"integrador-service/cmd/api/app"
	"integrador-service/cmd/api/infrastructure"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
}

func run() error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	// Migration is the whole point here.
	cfg.DB.AutoMigrate = true
	cfg.DB.FailFast = true

	l, err := app.InitLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return err
	}
	defer func() { _ = infrastructure.CloseDatabase(db) }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	start := time.Now()
	if err := infrastructure.PrepareDatabase(ctx, db, cfg, l); err != nil {
		return err
	}

	l.Info("schema synchronized", zap.Duration("took", time.Since(start)))
	return nil
}
