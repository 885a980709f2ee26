// Package providers holds the mock applications that run inside desktop
// windows.
//
// Each subpackage implements service.Provider and keeps its state per window
// instance, keyed by the window id passed in the execution context:
//   - files: mock file explorer navigation and search
//   - notes: note editing backed by the persistence adapter
//   - terminal: the command interpreter
//   - browser: address bar normalization and history
//   - notifications: the notification panel (not tied to a window)
//
// Providers holding per-window state also implement service.Releaser so the
// registry can drop that state when the window closes.
package providers
