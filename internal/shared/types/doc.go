// Package types provides shared data structures for the WebDesk backend.
//
// Core Types:
//   - AppDescriptor: Registry entry for an application kind
//   - WindowInstance: One open window with geometry and lifecycle flags
//   - WindowState: Ordered window collection, active pointer, z counter
//   - Settings: Theme, wallpaper, accent color and login gate
//   - Service, Tool, Context, Result: Mock application service contracts
//
// Request Types:
//   - OpenWindowRequest, MoveRequest, ResizeRequest: Window gestures
//   - LoginRequest, ThemeRequest, WallpaperRequest, AccentRequest: Settings
//   - ExecuteRequest: Service tool execution
//   - WSMessage: WebSocket communication
//
// Example Usage:
//
//	win := types.WindowInstance{
//	    ID:        string(id.NewWindowID()),
//	    AppID:     types.AppNotes,
//	    Title:     "Notes",
//	    IsVisible: true,
//	}
package types
