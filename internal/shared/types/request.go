package types

// OpenWindowRequest asks the window manager to open an app
type OpenWindowRequest struct {
	AppID AppID `json:"app_id" binding:"required"`
}

// MoveRequest carries an absolute window position
type MoveRequest struct {
	X *float64 `json:"x" binding:"required"`
	Y *float64 `json:"y" binding:"required"`
}

// ResizeRequest carries an absolute window size
type ResizeRequest struct {
	Width  *float64 `json:"width" binding:"required"`
	Height *float64 `json:"height" binding:"required"`
}

// ExecuteRequest represents a service execution request
type ExecuteRequest struct {
	ToolID     string                 `json:"tool_id" binding:"required"`
	Params     map[string]interface{} `json:"params"`
	InstanceID *string                `json:"instance_id,omitempty"`
}

// LoginRequest is submitted by the lock screen
type LoginRequest struct {
	Password string `json:"password"`
}

// ThemeRequest sets the shell theme
type ThemeRequest struct {
	Theme Theme `json:"theme" binding:"required"`
}

// WallpaperRequest sets the wallpaper
type WallpaperRequest struct {
	Wallpaper string `json:"wallpaper" binding:"required"`
}

// AccentRequest sets the accent color
type AccentRequest struct {
	Color string `json:"color" binding:"required"`
}

// LevelRequest sets a quick settings slider
type LevelRequest struct {
	Level *int `json:"level" binding:"required"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
