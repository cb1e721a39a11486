package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"

	"integrador-service/internal/config"
)

// Server struct holds all server dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	Gin    *http.Server
}

// New creates a new server instance around the given router
func New(cfg *config.Config, l *zap.Logger, router http.Handler) *Server {
	return &Server{
		Config: cfg,
		Logger: l,
		Gin:    SetupGinServer(router, ":"+cfg.App.HTTPPort, l),
	}
}

// Start listens on the configured port and serves until Shutdown.
func (s *Server) Start() error {
	lc := net.ListenConfig{}
	lis, err := lc.Listen(context.Background(), "tcp", s.Gin.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.Logger.Info("HTTP server running", zap.String("address", lis.Addr().String()))
	if s.Config.App.SwaggerEnabled {
		s.Logger.Info("Swagger UI available", zap.String("path", "/swagger/index.html"))
	}

	if err := s.Gin.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Gin.Shutdown(ctx)
}
