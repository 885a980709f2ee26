package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/registry"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/session"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/settings"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/shell"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/window"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebDesk/backend/internal/service"
)

// Version is reported by the status endpoints
const Version = "1.0.0"

// Deps are the components served over HTTP
type Deps struct {
	Windows  *window.Manager
	Surface  *shell.Surface
	Apps     *registry.Registry
	Settings *settings.Store
	Services *service.Registry
	Adapter  *session.Adapter
	Metrics  *monitoring.Metrics
	Logger   *zap.Logger
}

// Handlers contains all HTTP handlers
type Handlers struct {
	windows  *window.Manager
	surface  *shell.Surface
	apps     *registry.Registry
	settings *settings.Store
	services *service.Registry
	adapter  *session.Adapter
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(deps Deps) *Handlers {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		windows:  deps.Windows,
		surface:  deps.Surface,
		apps:     deps.Apps,
		settings: deps.Settings,
		services: deps.Services,
		adapter:  deps.Adapter,
		metrics:  deps.Metrics,
		logger:   logger,
	}
}

// Register mounts every route except the event stream and Prometheus endpoint
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/apps", h.ListApps)
	r.GET("/desktop", h.Desktop)

	windows := r.Group("/windows")
	windows.GET("", h.ListWindows)
	windows.POST("", h.OpenWindow)
	windows.GET("/:id", h.GetWindow)
	windows.DELETE("/:id", h.CloseWindow)
	windows.POST("/:id/focus", h.FocusWindow)
	windows.POST("/:id/minimize", h.MinimizeWindow)
	windows.POST("/:id/maximize", h.MaximizeWindow)
	windows.POST("/:id/restore", h.RestoreWindow)
	windows.POST("/:id/toggle-maximize", h.ToggleMaximize)
	windows.PUT("/:id/position", h.MoveWindow)
	windows.PUT("/:id/size", h.ResizeWindow)
	windows.POST("/:id/drag", h.DragWindow)

	r.POST("/taskbar/:app_id/click", h.ClickTaskbar)

	r.GET("/settings", h.GetSettings)
	r.PUT("/settings", h.UpdateSettings)
	r.PUT("/settings/theme", h.SetTheme)
	r.POST("/settings/theme/toggle", h.ToggleTheme)
	r.PUT("/settings/wallpaper", h.SetWallpaper)
	r.PUT("/settings/accent", h.SetAccent)
	r.GET("/quick-settings", h.GetQuickSettings)
	r.POST("/quick-settings/wifi/toggle", h.ToggleWiFi)
	r.POST("/quick-settings/bluetooth/toggle", h.ToggleBluetooth)
	r.PUT("/quick-settings/brightness", h.SetBrightness)
	r.PUT("/quick-settings/volume", h.SetVolume)
	r.POST("/session/login", h.Login)
	r.POST("/session/logout", h.Logout)

	r.GET("/services", h.ListServices)
	r.POST("/services/execute", h.ExecuteService)

	r.GET("/state/export", h.ExportState)
	r.POST("/state/import", h.ImportState)

	r.POST("/logs", h.StreamLogs)
	r.GET("/metrics/json", h.MetricsJSON)
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "WebDesk",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"window_manager":   h.windows.Stats(),
		"service_registry": h.services.Stats(),
		"logged_in":        h.settings.Get().IsLoggedIn,
	})
}

// ListApps lists the registered application kinds
func (h *Handlers) ListApps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"apps":   h.apps.List(),
		"pinned": h.apps.Pinned(),
	})
}

// Desktop returns the full render model of the desktop
func (h *Handlers) Desktop(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"desktop":  h.surface.View(),
		"settings": h.settings.Get(),
		"palette":  h.settings.Palette(),
	})
}

// MetricsJSON returns a summary of the Prometheus counters
func (h *Handlers) MetricsJSON(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metrics disabled"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"backend": h.metrics.Snapshot(),
		"windows": h.windows.Stats(),
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
