package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/confine/internal/api/http"
	"github.com/GriffinCanCode/confine/internal/api/middleware"
	"github.com/GriffinCanCode/confine/internal/infrastructure/config"
	"github.com/GriffinCanCode/confine/internal/infrastructure/logging"
	"github.com/GriffinCanCode/confine/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/confine/internal/providers/filesystem"
	"github.com/GriffinCanCode/confine/internal/service"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router     *gin.Engine
	handler    http.Handler
	httpServer *http.Server
	registry   *service.Registry
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return newServer(cfg, logger)
}

// NewServerWithLogger creates a server that logs through logger.
func NewServerWithLogger(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	return newServer(cfg, logger)
}

func newServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	logger.Info("Initializing confine server",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.Strings("allowed_roots", cfg.Filesystem.AllowedRoots),
	)

	// Dedicated registry keeps /metrics free of global state
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(reg)

	fsProvider := filesystem.NewProvider(&filesystem.FilesystemOps{
		Logger:       logger.Component("filesystem"),
		Metrics:      metrics,
		AllowedRoots: cfg.Filesystem.AllowedRoots,
		MountBases:   cfg.Filesystem.MountBases,
	})

	serviceRegistry := service.NewRegistry(metrics)
	if err := registerProviders(serviceRegistry, logger, fsProvider); err != nil {
		return nil, err
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger.Component("http")))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig().WithOrigins(cfg.CORS.AllowOrigins)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		rl.Metrics = metrics
		router.Use(middleware.RateLimit(rl))

		if cfg.RateLimit.GlobalRequestsPerSecond > 0 {
			logger.Info("Global rate limit enabled",
				zap.Int("rps", cfg.RateLimit.GlobalRequestsPerSecond),
				zap.Int("burst", cfg.RateLimit.GlobalBurst),
			)
			global := rl
			global.RequestsPerSecond = cfg.RateLimit.GlobalRequestsPerSecond
			global.Burst = cfg.RateLimit.GlobalBurst
			if global.Burst <= 0 {
				global.Burst = global.RequestsPerSecond
			}
			router.Use(middleware.GlobalRateLimit(global))
		}
	}

	handlers := apihttp.NewHandlers(serviceRegistry, fsProvider, metrics, logger.Component("api"))
	apihttp.RegisterRoutes(router, handlers)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	handler := gzhttp.GzipHandler(router)
	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)

	logger.Info("Server initialized successfully")

	return &Server{
		router:  router,
		handler: handler,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		registry: serviceRegistry,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

func registerProviders(registry *service.Registry, logger *logging.Logger, providers ...service.Provider) error {
	for _, p := range providers {
		def := p.Definition()
		if err := registry.Register(p); err != nil {
			return fmt.Errorf("failed to register %s provider: %w", def.ID, err)
		}
		logger.Info("Registered service", zap.String("service", def.ID), zap.Int("tools", len(def.Tools)))
	}
	return nil
}

// Handler returns the root handler, compression included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Run serves until Shutdown is called. It returns nil after a clean
// shutdown.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	err := s.httpServer.Shutdown(ctx)
	_ = s.logger.Sync()
	return err
}
