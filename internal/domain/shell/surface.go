package shell

import (
	"fmt"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/registry"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/window"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
)

const (
	DefaultTaskbarHeight = 48
	MinWindowWidth       = 300
	MinWindowHeight      = 200
)

// Config holds the shell layout parameters
type Config struct {
	TaskbarHeight float64
}

// Action reports what a taskbar click did
type Action string

const (
	ActionOpen    Action = "open"
	ActionRestore Action = "restore"
	ActionFocus   Action = "focus"
)

// TaskbarEntry is one app button on the taskbar
type TaskbarEntry struct {
	App       types.AppDescriptor `json:"app"`
	Open      bool                `json:"open"`
	Active    bool                `json:"active"`
	WindowIDs []string            `json:"window_ids"`
}

// WindowView is a window with its computed render frame
type WindowView struct {
	Window types.WindowInstance `json:"window"`
	Frame  types.Geometry       `json:"frame"`
	Active bool                 `json:"active"`
	Icon   string               `json:"icon"`
}

// DesktopView is the full render model of the desktop
type DesktopView struct {
	Windows      []WindowView          `json:"windows"`
	Taskbar      []TaskbarEntry        `json:"taskbar"`
	DesktopIcons []types.AppDescriptor `json:"desktop_icons"`
	StartMenu    []types.AppDescriptor `json:"start_menu"`
	Viewport     types.Geometry        `json:"viewport"`
}

// Surface forwards gestures to the window manager
type Surface struct {
	windows  *window.Manager
	registry *registry.Registry
	config   Config
}

// NewSurface creates a shell surface
func NewSurface(wm *window.Manager, reg *registry.Registry, cfg Config) *Surface {
	if cfg.TaskbarHeight <= 0 {
		cfg.TaskbarHeight = DefaultTaskbarHeight
	}
	return &Surface{windows: wm, registry: reg, config: cfg}
}

// Viewport returns the full desktop area
func (s *Surface) Viewport() types.Geometry {
	cfg := s.windows.Config()
	return types.Geometry{Width: cfg.ViewportWidth, Height: cfg.ViewportHeight}
}

// Frame returns where a window is drawn. Maximized windows fill the area
// above the taskbar; their stored geometry is not consulted.
func (s *Surface) Frame(win types.WindowInstance) types.Geometry {
	if !win.IsMaximized {
		return win.Geometry
	}
	vp := s.Viewport()
	return types.Geometry{
		Width:  vp.Width,
		Height: max(0, vp.Height-s.config.TaskbarHeight),
	}
}

// Drag moves a window by a pointer delta
func (s *Surface) Drag(windowID string, delta types.GeometryDelta) bool {
	win, ok := s.windows.Get(windowID)
	if !ok || win.IsMaximized {
		return false
	}
	return s.windows.Move(windowID, win.Geometry.X+delta.DX, max(0, win.Geometry.Y+delta.DY))
}

// ResizeBy grows or shrinks a window by a pointer delta, clamped
func (s *Surface) ResizeBy(windowID string, delta types.GeometryDelta) bool {
	win, ok := s.windows.Get(windowID)
	if !ok || win.IsMaximized {
		return false
	}
	return s.ResizeTo(windowID, win.Geometry.Width+delta.DWidth, win.Geometry.Height+delta.DHeight)
}

// ResizeTo sets a window size, clamped to the minimum window size and the
// viewport
func (s *Surface) ResizeTo(windowID string, width, height float64) bool {
	w, h := s.ClampSize(width, height)
	return s.windows.Resize(windowID, w, h)
}

// ClampSize applies the minimum window size and viewport bounds
func (s *Surface) ClampSize(width, height float64) (float64, float64) {
	vp := s.Viewport()
	return clamp(width, MinWindowWidth, vp.Width), clamp(height, MinWindowHeight, vp.Height)
}

// ToggleMaximize is the title bar maximize button
func (s *Surface) ToggleMaximize(windowID string) bool {
	win, ok := s.windows.Get(windowID)
	if !ok {
		return false
	}
	if win.IsMaximized {
		return s.windows.Restore(windowID)
	}
	return s.windows.Maximize(windowID)
}

// ClickTaskbar applies the taskbar button rule for an app: open a window if
// none exists; otherwise target the app's active window (or its first one)
// and restore it when hidden or already active, else focus it. applied is
// false when the target changed underneath the click and nothing happened.
func (s *Surface) ClickTaskbar(appID types.AppID) (action Action, windowID string, applied bool, err error) {
	if !s.registry.Has(appID) {
		return "", "", false, fmt.Errorf("%w: %s", window.ErrUnknownApp, appID)
	}
	return s.click(appID, s.windows.State())
}

// click resolves a taskbar click against a state snapshot taken beforehand
func (s *Surface) click(appID types.AppID, state types.WindowState) (Action, string, bool, error) {
	var target *types.WindowInstance
	for i := range state.Windows {
		w := &state.Windows[i]
		if w.AppID != appID {
			continue
		}
		if state.ActiveWindowID != nil && *state.ActiveWindowID == w.ID {
			target = w
			break
		}
		if target == nil {
			target = w
		}
	}

	if target == nil {
		win, err := s.windows.Open(appID)
		if err != nil {
			return "", "", false, err
		}
		return ActionOpen, win.ID, true, nil
	}

	isActive := state.ActiveWindowID != nil && *state.ActiveWindowID == target.ID
	if target.IsMinimized || !target.IsVisible || isActive {
		return ActionRestore, target.ID, s.windows.Restore(target.ID), nil
	}
	return ActionFocus, target.ID, s.windows.Focus(target.ID), nil
}

// Taskbar lists pinned apps and apps with open windows in registry order
func (s *Surface) Taskbar() []TaskbarEntry {
	return s.taskbar(s.windows.State())
}

func (s *Surface) taskbar(state types.WindowState) []TaskbarEntry {
	byApp := make(map[types.AppID][]string)
	activeApp := types.AppID("")
	for _, w := range state.Windows {
		byApp[w.AppID] = append(byApp[w.AppID], w.ID)
		if state.ActiveWindowID != nil && *state.ActiveWindowID == w.ID {
			activeApp = w.AppID
		}
	}

	var entries []TaskbarEntry
	for _, app := range s.registry.List() {
		ids := byApp[app.ID]
		if len(ids) == 0 && !app.Pinned {
			continue
		}
		entries = append(entries, TaskbarEntry{
			App:       app,
			Open:      len(ids) > 0,
			Active:    activeApp == app.ID,
			WindowIDs: ids,
		})
	}
	return entries
}

// DesktopIcons lists the apps shown on the desktop
func (s *Surface) DesktopIcons() []types.AppDescriptor {
	return s.registry.Launchable()
}

// StartMenu lists every app
func (s *Surface) StartMenu() []types.AppDescriptor {
	return s.registry.List()
}

// View builds the desktop render model from one consistent state snapshot
func (s *Surface) View() DesktopView {
	state := s.windows.State()

	views := make([]WindowView, 0, len(state.Windows))
	for _, w := range state.Windows {
		desc, _ := s.registry.Get(w.AppID)
		views = append(views, WindowView{
			Window: w,
			Frame:  s.Frame(w),
			Active: state.ActiveWindowID != nil && *state.ActiveWindowID == w.ID,
			Icon:   desc.Icon,
		})
	}

	return DesktopView{
		Windows:      views,
		Taskbar:      s.taskbar(state),
		DesktopIcons: s.DesktopIcons(),
		StartMenu:    s.StartMenu(),
		Viewport:     s.Viewport(),
	}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return min(max(v, lo), hi)
}
