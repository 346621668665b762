package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/clinical-ui-manifest/internal/cache"
	"github.com/clinical-ui-manifest/internal/domain"
	"github.com/clinical-ui-manifest/internal/logging"
	"github.com/clinical-ui-manifest/internal/manifest"
	"github.com/clinical-ui-manifest/internal/middleware"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Server represents the HTTP server
type Server struct {
	configManager domain.ConfigManager
	generator     *manifest.Generator
	parser        *domain.SummaryParser
	logger        *logrus.Logger
	metrics       *metrics
	schemaCache   *cache.SchemaCache
	limiter       *rate.Limiter
	router        *gin.Engine
	server        *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(configManager domain.ConfigManager, generator *manifest.Generator, logger *logrus.Logger) (*Server, error) {
	if generator == nil {
		return nil, errors.New("manifest generator is required")
	}
	if logger == nil {
		logger = logging.Discard()
	}
	cfg := configManager.GetConfig()

	// Set Gin mode based on log level
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	schemaCache, err := cache.NewSchemaCache(cfg.Cache.SchemaCacheSize)
	if err != nil {
		return nil, err
	}

	server := &Server{
		configManager: configManager,
		generator:     generator,
		parser:        domain.NewSummaryParser(int(cfg.Server.MaxBodyBytes)),
		logger:        logger,
		metrics:       newMetrics(),
		schemaCache:   schemaCache,
		router:        gin.New(),
	}
	if cfg.RateLimit.Enabled {
		server.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
	}

	// Add middleware
	server.router.Use(middleware.Recovery(logger))
	server.router.Use(middleware.RequestID())
	server.router.Use(middleware.Logger(logger))
	server.router.Use(server.metrics.middleware())
	server.router.Use(middleware.SecurityHeaders())
	server.router.Use(middleware.CORS())

	// Setup routes
	server.setupRoutes()

	return server, nil
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// Graceful shutdown
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	cfg := s.configManager.GetConfig()

	// Health check endpoint
	s.router.GET("/health", s.handleHealth)

	if cfg.Metrics.Enabled {
		s.router.GET(cfg.Metrics.Path, gin.WrapH(s.metrics.handler()))
	}

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	v1.Use(middleware.RateLimit(s.limiter, s.metrics.rateLimited.Inc))
	v1.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	{
		v1.POST("/manifest", s.handleGenerateManifest)
		v1.POST("/manifest/validate", s.handleValidateManifest)
		v1.GET("/components", s.handleListComponents)
		v1.GET("/components/schema", s.handleComponentSchema)
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"timestamp":  time.Now().UTC(),
		"version":    Version,
		"components": s.generator.Registry().Len(),
	})
}
