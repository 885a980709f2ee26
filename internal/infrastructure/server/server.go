package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	handlers "github.com/GriffinCanCode/WebDesk/backend/internal/api/http"
	"github.com/GriffinCanCode/WebDesk/backend/internal/api/middleware"
	"github.com/GriffinCanCode/WebDesk/backend/internal/api/ws"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/registry"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/session"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/settings"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/shell"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/window"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/kv"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/WebDesk/backend/internal/providers/browser"
	"github.com/GriffinCanCode/WebDesk/backend/internal/providers/files"
	"github.com/GriffinCanCode/WebDesk/backend/internal/providers/notes"
	"github.com/GriffinCanCode/WebDesk/backend/internal/providers/notifications"
	"github.com/GriffinCanCode/WebDesk/backend/internal/providers/terminal"
	"github.com/GriffinCanCode/WebDesk/backend/internal/service"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
)

// restoreTimeout bounds the startup read of persisted state
const restoreTimeout = 5 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	config   *config.Config
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	tracer   *tracing.Tracer
	store    kv.Store
	adapter  *session.Adapter
	windows  *window.Manager
	settings *settings.Store
	services *service.Registry
	hub      *ws.Hub

	windowFlusher   *session.Flusher[types.WindowState]
	settingsFlusher *session.Flusher[types.Settings]
	unsubscribe     []func()
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Initializing WebDesk server",
		zap.String("addr", cfg.Addr()),
		zap.String("store", cfg.Store.Driver),
	)

	metrics := monitoring.NewMetrics()

	apps, err := loadApps(cfg.Desktop.AppsFile)
	if err != nil {
		return nil, err
	}

	store, err := kv.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	tracer := tracing.New(logger.Component("tracing"))
	storeLog := logger.Component("session")
	breaker := resilience.New("store", resilience.Settings{
		OnStateChange: func(name string, from, to resilience.State) {
			storeLog.Warn("Store circuit changed state",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})
	adapter := session.NewAdapter(store, breaker, storeLog).WithMetrics(metrics)

	wm := window.NewManager(apps, window.Config{
		ViewportWidth:  cfg.Desktop.ViewportWidth,
		ViewportHeight: cfg.Desktop.ViewportHeight,
	}).WithMetrics(metrics)
	surface := shell.NewSurface(wm, apps, shell.Config{TaskbarHeight: cfg.Desktop.TaskbarHeight})
	prefs := settings.NewStore()

	restore(adapter, wm, prefs, logger)

	services := service.NewRegistry().WithMetrics(metrics)
	registerProviders(services, adapter, logger)

	s := &Server{
		config:   cfg,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		store:    store,
		adapter:  adapter,
		windows:  wm,
		settings: prefs,
		services: services,
	}

	s.hub = ws.NewHub(func() interface{} {
		return gin.H{
			"desktop":  surface.View(),
			"settings": prefs.Get(),
			"palette":  prefs.Palette(),
		}
	}, logger.Component("ws")).WithMetrics(metrics)

	debounce := cfg.Store.FlushInterval.Std()
	s.windowFlusher = session.NewFlusher("windows", adapter.Save, storeLog, debounce)
	s.settingsFlusher = session.NewFlusher("settings", adapter.SaveSettings, storeLog, debounce)
	s.subscribe()

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.Server.AllowOrigins...)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		limit := middleware.DefaultRateLimitConfig()
		limit.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		limit.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(limit))
	}

	h := handlers.NewHandlers(handlers.Deps{
		Windows:  wm,
		Surface:  surface,
		Apps:     apps,
		Settings: prefs,
		Services: services,
		Adapter:  adapter,
		Metrics:  metrics,
		Logger:   logger.Component("http"),
	})
	h.Register(router)

	router.GET("/stream", s.hub.Handle)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	s.router = router
	logger.Info("Server initialized successfully",
		zap.Int("apps", len(apps.List())),
		zap.Int("windows", len(wm.State().Windows)),
	)
	return s, nil
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves HTTP and writes state changes in the background until ctx is
// done, then shuts the listener down.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.windowFlusher.Run(ctx)
	go s.settingsFlusher.Run(ctx)

	srv := &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout.Std())
	defer stop()

	// Hijacked WebSocket connections are not tracked by Shutdown
	s.hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("HTTP shutdown incomplete", zap.Error(err))
	}
	return nil
}

// Close writes any pending state and releases the store
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	for _, unsubscribe := range s.unsubscribe {
		unsubscribe()
	}
	s.hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout.Std())
	defer cancel()

	var result *multierror.Error
	if err := session.FlushAll(ctx, s.windowFlusher, s.settingsFlusher); err != nil {
		s.logger.Error("Failed to write state on shutdown", zap.Error(err))
		result = multierror.Append(result, err)
	}
	s.tracer.Close()
	if err := s.store.Close(); err != nil {
		s.logger.Error("Failed to close store", zap.Error(err))
		result = multierror.Append(result, err)
	}

	_ = s.logger.Sync()
	return result.ErrorOrNil()
}

// subscribe connects state changes to persistence, the event stream, and
// per-window provider cleanup
func (s *Server) subscribe() {
	s.unsubscribe = append(s.unsubscribe,
		s.windows.Subscribe(func(ev window.Event) {
			s.windowFlusher.EnqueueSeq(ev.Seq, ev.State)
			if ev.Op == window.OpClose {
				s.services.Release(ev.WindowID)
			}
			s.hub.Broadcast(types.WSMessage{Type: ws.TypeWindow, Data: ev})
		}),
		s.settings.Subscribe(func(ev settings.Event) {
			s.settingsFlusher.EnqueueSeq(ev.Seq, ev.Settings)
			s.hub.Broadcast(types.WSMessage{Type: ws.TypeSettings, Data: ev})
		}),
	)
}

func loadApps(path string) (*registry.Registry, error) {
	if path == "" {
		return registry.Default(), nil
	}
	apps, err := registry.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load apps file: %w", err)
	}
	return apps, nil
}

// restore hydrates the window manager and settings from the store. Missing or
// corrupt snapshots leave the defaults in place.
func restore(adapter *session.Adapter, wm *window.Manager, prefs *settings.Store, logger *logging.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), restoreTimeout)
	defer cancel()

	restored := wm.Hydrate(adapter.Load(ctx))
	if saved, ok := adapter.LoadSettings(ctx); ok {
		prefs.Hydrate(saved)
	}
	logger.Info("Restored desktop state", zap.Int("windows", restored))
}

func registerProviders(services *service.Registry, adapter *session.Adapter, logger *logging.Logger) {
	providers := []service.Provider{
		files.NewProvider(),
		notes.NewProvider(adapter, logger.Component("notes")),
		terminal.NewProvider(),
		browser.NewProvider(),
		notifications.NewProvider(),
	}

	for _, p := range providers {
		if err := services.Register(p); err != nil {
			logger.Warn("Failed to register service provider",
				zap.String("service", p.Definition().ID), zap.Error(err))
		}
	}
}
