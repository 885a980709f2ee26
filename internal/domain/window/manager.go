package window

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/registry"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/id"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/observer"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
)

// ErrUnknownApp is returned when opening an app id absent from the registry
var ErrUnknownApp = errors.New("unknown app")

const (
	DefaultViewportWidth  = 1920
	DefaultViewportHeight = 1080

	// JitterRange is the half-width of the random offset applied to new windows
	JitterRange = 25
)

// Config holds the manager layout parameters
type Config struct {
	ViewportWidth  float64
	ViewportHeight float64
}

// Manager owns the window collection and stacking state
type Manager struct {
	mu       sync.Mutex
	windows  []types.WindowInstance // Protected by mu, ascending ZIndex
	activeID *string                // Protected by mu
	highestZ int                    // Protected by mu
	seq      uint64                 // Protected by mu

	registry  *registry.Registry
	config    Config
	jitter    func() float64
	newID     func() string
	listeners observer.Set[Event]
	metrics   *monitoring.Metrics
}

// NewManager creates an empty window manager
func NewManager(reg *registry.Registry, cfg Config) *Manager {
	if cfg.ViewportWidth <= 0 {
		cfg.ViewportWidth = DefaultViewportWidth
	}
	if cfg.ViewportHeight <= 0 {
		cfg.ViewportHeight = DefaultViewportHeight
	}

	return &Manager{
		highestZ: types.ZIndexBase,
		registry: reg,
		config:   cfg,
		jitter: func() float64 {
			return rand.Float64()*2*JitterRange - JitterRange
		},
		newID: func() string { return id.NewWindowID().String() },
	}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// WithJitter replaces the placement jitter source.
// The function should return values in [-JitterRange, JitterRange).
func (m *Manager) WithJitter(jitter func() float64) *Manager {
	m.jitter = jitter
	return m
}

// Config returns the layout parameters in use
func (m *Manager) Config() Config {
	return m.config
}

// Subscribe registers a listener and returns its unsubscribe function
func (m *Manager) Subscribe(fn Listener) func() {
	return m.listeners.Add(fn)
}

// Open creates a window for appID and focuses it. For singleton apps an
// open and visible instance is focused instead; a minimized or hidden one
// does not count and a fresh window is created.
func (m *Manager) Open(appID types.AppID) (types.WindowInstance, error) {
	desc, ok := m.registry.Get(appID)
	if !ok {
		return types.WindowInstance{}, fmt.Errorf("%w: %s", ErrUnknownApp, appID)
	}

	m.mu.Lock()

	if desc.Singleton {
		if idx := m.findShown(appID); idx >= 0 {
			existingID := m.windows[idx].ID
			m.focusLocked(existingID)
			win := m.windows[m.indexOf(existingID)]
			ev := m.eventLocked(OpFocus, existingID)
			m.mu.Unlock()

			m.publish(ev)
			return win, nil
		}
	}

	win := types.WindowInstance{
		ID:        m.uniqueIDLocked(),
		AppID:     appID,
		Title:     desc.Name,
		Geometry:  m.placement(desc),
		IsVisible: true,
	}
	m.highestZ++
	win.ZIndex = m.highestZ
	m.windows = append(m.windows, win)
	active := win.ID
	m.activeID = &active
	ev := m.eventLocked(OpOpen, win.ID)
	m.mu.Unlock()

	m.publish(ev)
	return win, nil
}

// Close removes a window. The active pointer is cleared, never promoted.
func (m *Manager) Close(windowID string) bool {
	m.mu.Lock()
	idx := m.indexOf(windowID)
	if idx < 0 {
		m.mu.Unlock()
		return false
	}

	m.windows = append(m.windows[:idx], m.windows[idx+1:]...)
	if m.isActive(windowID) {
		m.activeID = nil
	}
	ev := m.eventLocked(OpClose, windowID)
	m.mu.Unlock()

	m.publish(ev)
	return true
}

// Minimize hides a window and clears it as active
func (m *Manager) Minimize(windowID string) bool {
	return m.apply(OpMinimize, windowID, func(w *types.WindowInstance) bool {
		w.IsMinimized = true
		w.IsVisible = false
		if m.isActive(windowID) {
			m.activeID = nil
		}
		return true
	})
}

// Maximize flags a window as maximized and focuses it. Stored geometry is kept.
func (m *Manager) Maximize(windowID string) bool {
	return m.apply(OpMaximize, windowID, func(w *types.WindowInstance) bool {
		w.IsMaximized = true
		w.IsMinimized = false
		w.IsVisible = true
		m.focusLocked(windowID)
		return true
	})
}

// Restore clears minimized and maximized flags and focuses the window
func (m *Manager) Restore(windowID string) bool {
	return m.apply(OpRestore, windowID, func(w *types.WindowInstance) bool {
		w.IsMinimized = false
		w.IsMaximized = false
		w.IsVisible = true
		m.focusLocked(windowID)
		return true
	})
}

// Focus brings a window to the top and makes it active.
// Minimized windows are left untouched.
func (m *Manager) Focus(windowID string) bool {
	return m.apply(OpFocus, windowID, func(w *types.WindowInstance) bool {
		if w.IsMinimized {
			return false
		}
		m.focusLocked(windowID)
		return true
	})
}

// Move sets a window position. Ignored while maximized.
func (m *Manager) Move(windowID string, x, y float64) bool {
	return m.apply(OpMove, windowID, func(w *types.WindowInstance) bool {
		if w.IsMaximized {
			return false
		}
		w.Geometry.X = x
		w.Geometry.Y = y
		return true
	})
}

// Resize sets a window size. Ignored while maximized. Callers clamp.
func (m *Manager) Resize(windowID string, width, height float64) bool {
	return m.apply(OpResize, windowID, func(w *types.WindowInstance) bool {
		if w.IsMaximized {
			return false
		}
		w.Geometry.Width = width
		w.Geometry.Height = height
		return true
	})
}

// Hydrate replaces the current state with a restored snapshot. Windows for
// unknown apps, duplicate ids and extra singleton instances are dropped and
// the remainder is sanitized. Returns the number of windows installed.
func (m *Manager) Hydrate(snapshot types.WindowState) int {
	clean := Sanitize(filterKnown(snapshot, m.registry.Get))

	m.mu.Lock()
	m.windows = clean.Windows
	m.activeID = nil
	m.highestZ = clean.HighestZIndex
	ev := m.eventLocked(OpHydrate, "")
	m.mu.Unlock()

	m.publish(ev)
	return len(clean.Windows)
}

// State returns a copy of the full manager state
func (m *Manager) State() types.WindowState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stateLocked()
}

// Get retrieves a window by id
func (m *Manager) Get(windowID string) (types.WindowInstance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(windowID)
	if idx < 0 {
		return types.WindowInstance{}, false
	}
	return m.windows[idx], true
}

// Active returns the active window, if any
func (m *Manager) Active() (types.WindowInstance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.activeID == nil {
		return types.WindowInstance{}, false
	}
	idx := m.indexOf(*m.activeID)
	if idx < 0 {
		return types.WindowInstance{}, false
	}
	return m.windows[idx], true
}

// Stats returns manager statistics
func (m *Manager) Stats() types.WindowStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := types.WindowStats{
		TotalWindows:  len(m.windows),
		HighestZIndex: m.highestZ,
	}
	for _, w := range m.windows {
		if w.IsVisible {
			stats.VisibleWindows++
		}
		if w.IsMinimized {
			stats.MinimizedWindows++
		}
		if w.IsMaximized {
			stats.MaximizedWindows++
		}
	}
	if m.activeID != nil {
		active := *m.activeID
		stats.ActiveWindowID = &active
	}
	return stats
}

// apply runs fn on the target window under the lock and publishes an event
// if fn reports the operation applied
func (m *Manager) apply(op Op, windowID string, fn func(w *types.WindowInstance) bool) bool {
	m.mu.Lock()
	idx := m.indexOf(windowID)
	if idx < 0 || !fn(&m.windows[idx]) {
		m.mu.Unlock()
		return false
	}
	ev := m.eventLocked(op, windowID)
	m.mu.Unlock()

	m.publish(ev)
	return true
}

// focusLocked raises the window to the top and re-sorts (must hold lock)
func (m *Manager) focusLocked(windowID string) {
	idx := m.indexOf(windowID)
	if idx < 0 {
		return
	}

	m.highestZ++
	m.windows[idx].ZIndex = m.highestZ
	m.windows[idx].IsVisible = true
	active := windowID
	m.activeID = &active

	sort.SliceStable(m.windows, func(i, j int) bool {
		return m.windows[i].ZIndex < m.windows[j].ZIndex
	})
}

func (m *Manager) placement(desc types.AppDescriptor) types.Geometry {
	x := (m.config.ViewportWidth-desc.DefaultWidth)/2 + m.jitter()
	y := (m.config.ViewportHeight-desc.DefaultHeight)/2 + m.jitter()
	return types.Geometry{
		X:      max(0, x),
		Y:      max(0, y),
		Width:  desc.DefaultWidth,
		Height: desc.DefaultHeight,
	}
}

func (m *Manager) uniqueIDLocked() string {
	for {
		candidate := m.newID()
		if m.indexOf(candidate) < 0 {
			return candidate
		}
	}
}

func (m *Manager) indexOf(windowID string) int {
	for i := range m.windows {
		if m.windows[i].ID == windowID {
			return i
		}
	}
	return -1
}

// findShown returns the topmost visible, non-minimized window of appID, or -1
func (m *Manager) findShown(appID types.AppID) int {
	for i := len(m.windows) - 1; i >= 0; i-- {
		w := &m.windows[i]
		if w.AppID == appID && w.IsVisible && !w.IsMinimized {
			return i
		}
	}
	return -1
}

func (m *Manager) isActive(windowID string) bool {
	return m.activeID != nil && *m.activeID == windowID
}

func (m *Manager) stateLocked() types.WindowState {
	return types.WindowState{
		Windows:        m.windows,
		ActiveWindowID: m.activeID,
		HighestZIndex:  m.highestZ,
	}.Clone()
}

func (m *Manager) eventLocked(op Op, windowID string) Event {
	m.seq++
	return Event{
		Seq:      m.seq,
		Op:       op,
		WindowID: windowID,
		State:    m.stateLocked(),
	}
}

func (m *Manager) publish(ev Event) {
	if m.metrics != nil {
		m.metrics.RecordWindowOp(string(ev.Op))
		m.metrics.SetWindowsOpen(len(ev.State.Windows))
	}
	m.listeners.Publish(ev)
}
