package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/FrameLink/backend/internal/api/middleware"
	gwhttp "github.com/GriffinCanCode/FrameLink/backend/internal/http"
	"github.com/GriffinCanCode/FrameLink/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/FrameLink/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/FrameLink/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/FrameLink/backend/internal/messaging"
	"github.com/GriffinCanCode/FrameLink/backend/internal/transport/webhook"
	"github.com/GriffinCanCode/FrameLink/backend/internal/ws"
)

// Server wires the messaging core, websocket hub, and HTTP surface together.
type Server struct {
	router    *gin.Engine
	http      *http.Server
	hub       *ws.Hub
	messenger *messaging.Messenger
	logger    *logging.Logger
	metrics   *monitoring.Metrics
	config    *config.Config
}

// New builds a fully wired server from configuration.
func New(cfg *config.Config) (*Server, error) {
	// Initialize logger
	var logger *logging.Logger
	var err error
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger, err = logging.New(logging.Config{
			Level:       cfg.Logging.Level,
			Development: false,
			OutputPaths: []string{"stdout"},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	logger.Info("Initializing gateway",
		zap.String("origin", cfg.Messaging.Origin),
		zap.String("port", cfg.Server.Port),
	)

	// Initialize metrics first so every component can record
	metrics := monitoring.NewMetrics()

	// Messaging core: hub is the transport fabric, messenger routes over it
	hub := ws.NewHub(cfg.Messaging.Origin).
		WithLogger(logger).
		WithMetrics(metrics)

	messenger := messaging.New(hub).
		WithLogger(logger).
		WithMetrics(metrics)

	// Departed websocket frames must leave every proxy route
	hub.OnFrameGone(messenger.DropFrame)

	// Listen on the default namespace out of the box
	messenger.Listen("")

	if cfg.Messaging.RoutesFile != "" {
		if err := applyRoutes(cfg.Messaging.RoutesFile, messenger, logger); err != nil {
			return nil, fmt.Errorf("failed to apply routes file: %w", err)
		}
	}

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	// Create handlers
	handlers := gwhttp.NewHandlers(messenger, hub, metrics)
	wsHandler := ws.NewHandler(hub, messenger)

	// Register routes
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/stats", handlers.Stats)

	// Origin filter
	router.POST("/origins", handlers.AddOrigin)
	router.DELETE("/origins/:origin", handlers.RemoveOrigin)

	// Namespace registry
	router.POST("/namespaces", handlers.Listen)
	router.DELETE("/namespaces/:namespace", handlers.StopListening)

	// Proxy routes
	router.POST("/proxies", handlers.AddProxy)
	router.DELETE("/proxies", handlers.RemoveProxy)

	// WebSocket frames
	router.GET("/connect", wsHandler.HandleConnection)

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))
	router.GET("/metrics/json", func(c *gin.Context) {
		c.JSON(http.StatusOK, metrics.Snapshot())
	})

	logger.Info("Server initialized successfully")

	return &Server{
		router:    router,
		hub:       hub,
		messenger: messenger,
		logger:    logger,
		metrics:   metrics,
		config:    cfg,
	}, nil
}

// applyRoutes seeds the messenger from a declarative routes file.
func applyRoutes(path string, messenger *messaging.Messenger, logger *logging.Logger) error {
	routes, err := config.LoadRoutes(path)
	if err != nil {
		return err
	}

	for _, origin := range routes.TrustedOrigins {
		messenger.AddOrigin(origin)
	}
	for _, namespace := range routes.Namespaces {
		messenger.Listen(namespace)
	}
	for _, route := range routes.Proxies {
		for _, rawURL := range route.Webhooks {
			frame, err := webhook.New(rawURL, webhook.DefaultConfig())
			if err != nil {
				return fmt.Errorf("invalid webhook %q: %w", rawURL, err)
			}
			if err := messenger.Proxy(route.Namespace, frame); err != nil {
				return err
			}
		}
	}

	logger.Info("Routes applied",
		zap.String("file", path),
		zap.Int("origins", len(routes.TrustedOrigins)),
		zap.Int("namespaces", len(routes.Namespaces)),
		zap.Int("proxies", len(routes.Proxies)),
	)
	return nil
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))

	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains HTTP connections, then closes websocket frames.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP shutdown failed", zap.Error(err))
			return err
		}
	}

	s.messenger.StopListening("")
	s.hub.Close()

	s.logger.Info("Server shut down")
	if err := s.logger.Sync(); err != nil {
		// stdout sync fails on some platforms, not actionable
		_ = err
	}
	return nil
}
