package types

// AppID identifies an application kind from the closed registry set
type AppID string

const (
	AppFileExplorer AppID = "file-explorer"
	AppSettings     AppID = "settings"
	AppNotes        AppID = "notes"
	AppTerminal     AppID = "terminal"
	AppBrowser      AppID = "browser"
)

// ZIndexBase is the floor of the window stacking range
const ZIndexBase = 100

// AppDescriptor describes an application kind. Registry-owned, never mutated.
type AppDescriptor struct {
	ID            AppID   `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name"`
	Icon          string  `json:"icon" yaml:"icon"`
	DefaultWidth  float64 `json:"default_width" yaml:"default_width"`
	DefaultHeight float64 `json:"default_height" yaml:"default_height"`
	Singleton     bool    `json:"singleton" yaml:"singleton"`
	Pinned        bool    `json:"pinned" yaml:"pinned"`
}

// Geometry is a window's top-left position and size in layout units
type Geometry struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// GeometryDelta is a relative change produced by a drag or resize gesture
type GeometryDelta struct {
	DX      float64 `json:"dx"`
	DY      float64 `json:"dy"`
	DWidth  float64 `json:"dwidth"`
	DHeight float64 `json:"dheight"`
}

// WindowInstance is one open occurrence of an application
type WindowInstance struct {
	ID          string   `json:"id"`
	AppID       AppID    `json:"appId"`
	Title       string   `json:"title"`
	Geometry    Geometry `json:"geometry"`
	IsMinimized bool     `json:"isMinimized"`
	IsMaximized bool     `json:"isMaximized"`
	IsVisible   bool     `json:"isVisible"`
	ZIndex      int      `json:"zIndex"`
}

// WindowState is the full window manager state. Windows are kept in
// ascending ZIndex order.
type WindowState struct {
	Windows        []WindowInstance `json:"openWindows"`
	ActiveWindowID *string          `json:"activeWindowId"`
	HighestZIndex  int              `json:"highestZIndex"`
}

// Clone returns a deep copy of the state
func (s WindowState) Clone() WindowState {
	out := WindowState{
		Windows:       make([]WindowInstance, len(s.Windows)),
		HighestZIndex: s.HighestZIndex,
	}
	copy(out.Windows, s.Windows)
	if s.ActiveWindowID != nil {
		active := *s.ActiveWindowID
		out.ActiveWindowID = &active
	}
	return out
}

// WindowStats contains window manager statistics
type WindowStats struct {
	TotalWindows     int     `json:"total_windows"`
	VisibleWindows   int     `json:"visible_windows"`
	MinimizedWindows int     `json:"minimized_windows"`
	MaximizedWindows int     `json:"maximized_windows"`
	ActiveWindowID   *string `json:"active_window_id,omitempty"`
	HighestZIndex    int     `json:"highest_z_index"`
}
