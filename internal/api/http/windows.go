package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/window"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/utils"
)

// DragRequest carries a relative move
type DragRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// ListWindows returns the window manager state
func (h *Handlers) ListWindows(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state": h.windows.State(),
		"stats": h.windows.Stats(),
	})
}

// GetWindow returns one window
func (h *Handlers) GetWindow(c *gin.Context) {
	id, ok := windowID(c)
	if !ok {
		return
	}

	win, found := h.windows.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "window not found", "window_id": id})
		return
	}
	c.JSON(http.StatusOK, gin.H{"window": win, "frame": h.surface.Frame(win)})
}

// OpenWindow opens an app, or focuses the existing instance of a singleton
func (h *Handlers) OpenWindow(c *gin.Context) {
	var req types.OpenWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateID(string(req.AppID), "app_id", true); err != nil {
		badRequest(c, err)
		return
	}

	win, err := h.windows.Open(req.AppID)
	if errors.Is(err, window.ErrUnknownApp) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"window_id": win.ID,
		"window":    win,
	})
}

// CloseWindow closes a window
func (h *Handlers) CloseWindow(c *gin.Context) {
	h.lifecycle(c, h.windows.Close)
}

// FocusWindow brings a window to the front
func (h *Handlers) FocusWindow(c *gin.Context) {
	h.lifecycle(c, h.windows.Focus)
}

// MinimizeWindow hides a window
func (h *Handlers) MinimizeWindow(c *gin.Context) {
	h.lifecycle(c, h.windows.Minimize)
}

// MaximizeWindow maximizes a window
func (h *Handlers) MaximizeWindow(c *gin.Context) {
	h.lifecycle(c, h.windows.Maximize)
}

// RestoreWindow shows and focuses a window
func (h *Handlers) RestoreWindow(c *gin.Context) {
	h.lifecycle(c, h.windows.Restore)
}

// ToggleMaximize handles the maximize button in the title bar
func (h *Handlers) ToggleMaximize(c *gin.Context) {
	h.lifecycle(c, h.surface.ToggleMaximize)
}

// MoveWindow sets an absolute position
func (h *Handlers) MoveWindow(c *gin.Context) {
	id, ok := windowID(c)
	if !ok {
		return
	}
	var req types.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c, id, h.windows.Move(id, *req.X, *req.Y))
}

// ResizeWindow sets an absolute size, clamped to the shell limits
func (h *Handlers) ResizeWindow(c *gin.Context) {
	id, ok := windowID(c)
	if !ok {
		return
	}
	var req types.ResizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c, id, h.surface.ResizeTo(id, *req.Width, *req.Height))
}

// DragWindow moves a window by a delta
func (h *Handlers) DragWindow(c *gin.Context) {
	id, ok := windowID(c)
	if !ok {
		return
	}
	var req DragRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c, id, h.surface.Drag(id, types.GeometryDelta{DX: req.DX, DY: req.DY}))
}

// ClickTaskbar applies the taskbar button rule
func (h *Handlers) ClickTaskbar(c *gin.Context) {
	appID := c.Param("app_id")
	if err := utils.ValidateID(appID, "app_id", true); err != nil {
		badRequest(c, err)
		return
	}

	action, id, applied, err := h.surface.ClickTaskbar(types.AppID(appID))
	if errors.Is(err, window.ErrUnknownApp) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   applied,
		"action":    action,
		"window_id": id,
	})
}

func (h *Handlers) lifecycle(c *gin.Context, op func(string) bool) {
	id, ok := windowID(c)
	if !ok {
		return
	}
	h.respond(c, id, op(id))
}

// respond reports whether the operation applied. Missing windows are not an
// HTTP error.
func (h *Handlers) respond(c *gin.Context, id string, applied bool) {
	resp := gin.H{
		"success":   applied,
		"window_id": id,
	}
	if win, ok := h.windows.Get(id); ok {
		resp["window"] = win
	}
	c.JSON(http.StatusOK, resp)
}

func windowID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if err := utils.ValidateID(id, "window_id", true); err != nil {
		badRequest(c, err)
		return "", false
	}
	return id, true
}
