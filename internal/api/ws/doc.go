// Package ws streams desktop state changes to browsers over WebSocket.
//
// Every connected client receives a welcome message, a snapshot of the
// current desktop, and then every window manager and settings event as it
// happens. Slow clients whose send buffer fills up are disconnected.
//
// Message Types (Server → Client):
//   - system: connection established
//   - snapshot: full desktop view
//   - window: window manager event
//   - settings: settings change
//   - pong, error
//
// Message Types (Client → Server):
//   - ping: keep-alive
//   - snapshot: request a fresh snapshot
package ws
