// Package server assembles the admin HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apihttp "github.com/Volubles/gridmenu/internal/api/http"
	"github.com/Volubles/gridmenu/internal/api/middleware"
	"github.com/Volubles/gridmenu/internal/config"
	"github.com/Volubles/gridmenu/internal/engine/session"
	"github.com/Volubles/gridmenu/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Version is reported by the root and health endpoints.
const Version = "0.1.0"

// Server wraps the admin HTTP server and its dependencies.
type Server struct {
	router *gin.Engine
	http   *http.Server
	log    *logging.Logger
}

// New builds the admin server over a session registry. A nil gatherer
// skips the metrics endpoint.
func New(cfg *config.Config, registry *session.Registry, gatherer prometheus.Gatherer, log *logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log.Named("http")))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit))
	}

	handlers := apihttp.NewHandlers(registry, Version)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/stats", handlers.Stats)
	router.GET("/sessions", handlers.ListSessions)
	router.GET("/sessions/:owner", handlers.GetSession)
	router.DELETE("/sessions/:owner", handlers.RemoveSession)

	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	return &Server{
		router: router,
		http: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log.Named("server"),
	}
}

// Router exposes the underlying gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves until the context is cancelled, then drains in-flight
// requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("admin server listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("admin server stopped")
	return nil
}
