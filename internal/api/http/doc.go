// Package http exposes the desktop over a JSON API.
//
// Window lifecycle and gestures, the taskbar rule, settings, mock app tool
// execution, and state export/import are each served by one gin handler.
// Validation failures are 400 with {"error": msg}; unknown apps are 404;
// operations on missing windows answer 200 with "success": false.
package http
