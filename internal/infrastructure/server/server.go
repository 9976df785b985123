package server

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/BizAdmin/backend/internal/domain/kvstore"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/domain/menu"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/http"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/middleware"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/shared/paths"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/ws"
)

// Responses smaller than this are sent uncompressed
const gzipMinSize = 512

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	handler nethttp.Handler
	http    *nethttp.Server
	manager *workspace.Manager
	breaker *resilience.Breaker
	tracer  *tracing.Tracer
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logger.Info("Initializing BizAdmin workspace server",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("storage", cfg.Storage.Backend),
		zap.Int("max_tabs", cfg.Tabs.Max),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()
	tracer := tracing.New("workspace", logger.Component("tracing"))

	store, breaker, err := newStore(cfg.Storage, logger.Component("storage"))
	if err != nil {
		tracer.Close()
		return nil, err
	}

	catalog := menu.Default()
	if cfg.Menu.File != "" {
		catalog, err = menu.LoadFile(cfg.Menu.File)
		if err != nil {
			tracer.Close()
			return nil, fmt.Errorf("failed to load menu: %w", err)
		}
		logger.Info("Loaded menu", zap.String("file", cfg.Menu.File), zap.Int("routes", catalog.Routes()))
	}

	ignore, err := paths.NewMatcher(cfg.Tabs.IgnoreRoutes)
	if err != nil {
		tracer.Close()
		return nil, fmt.Errorf("invalid TABS_IGNORE_ROUTES: %w", err)
	}

	manager := workspace.NewManager(store, workspace.Config{
		MaxTabs:      cfg.Tabs.Max,
		DefaultRoute: cfg.Tabs.DefaultRoute,
		Catalog:      catalog,
		Ignore:       ignore,
		Observer:     metrics,
	}, logger.Component("workspace"))

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger.Component("access")))
	router.Use(tracing.HTTPMiddleware(tracer))
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

	// Register routes
	handlers := http.NewHandlers(manager, catalog, metrics,
		http.WithBreaker(breaker),
		http.WithLogger(logger.Component("http")),
	)
	http.RegisterRoutes(router, handlers)

	wsHandler := ws.NewHandler(manager, metrics, logger.Component("ws"))
	router.GET("/workspaces/:ws/stream", wsHandler.HandleConnection)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	handler, err := compress(router)
	if err != nil {
		tracer.Close()
		return nil, err
	}

	logger.Info("Server initialized successfully")

	return &Server{
		router:  router,
		handler: handler,
		http: &nethttp.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		manager: manager,
		breaker: breaker,
		tracer:  tracer,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

func newLogger(cfg config.LogConfig) (*logging.Logger, error) {
	logCfg := logging.DefaultConfig()
	if cfg.Development {
		logCfg = logging.DevelopmentConfig()
	}
	if cfg.Level != "" {
		logCfg.Level = cfg.Level
	}
	return logging.New(logCfg)
}

// newStore opens the configured backend behind a write circuit breaker
func newStore(cfg config.StorageConfig, logger *zap.Logger) (*kvstore.Store, *resilience.Breaker, error) {
	var backend kvstore.Backend
	switch cfg.Backend {
	case config.BackendMemory:
		backend = kvstore.NewMemoryBackend()
		logger.Warn("Using in-memory storage; tabs will not survive a restart")
	default:
		fb, err := kvstore.NewFileBackend(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open storage: %w", err)
		}
		backend = fb
		logger.Info("Using file storage", zap.String("path", fb.Root()))
	}

	breaker := resilience.New("storage", resilience.Settings{
		FailureThreshold: cfg.BreakerThreshold,
		CoolDown:         cfg.BreakerCooldown,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return kvstore.New(backend, cfg.Namespace, kvstore.WithBreaker(breaker)), breaker, nil
}

// compress gzips responses except WebSocket upgrades, which need the raw connection
func compress(router *gin.Engine) (nethttp.Handler, error) {
	wrap, err := gzhttp.NewWrapper(gzhttp.MinSize(gzipMinSize))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip wrapper: %w", err)
	}
	gz := wrap(router)
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			router.ServeHTTP(w, r)
			return
		}
		gz.ServeHTTP(w, r)
	}), nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() nethttp.Handler {
	return s.handler
}

// Manager returns the workspace manager
func (s *Server) Manager() *workspace.Manager {
	return s.manager
}

// Run starts the HTTP server and blocks until it stops
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones, then
// releases workspaces and flushes spans and logs.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	var err error
	if shutdownErr := s.http.Shutdown(ctx); shutdownErr != nil {
		s.logger.Error("HTTP shutdown failed", zap.Error(shutdownErr))
		err = fmt.Errorf("failed to shut down http server: %w", shutdownErr)
	}

	s.manager.Close()
	s.tracer.Close()

	// Sync logger before exit
	_ = s.logger.Sync()
	return err
}
