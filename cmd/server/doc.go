// Package main is the entry point for the WebDesk backend server.
//
// The server owns the desktop state of the browser shell: open windows and
// their stacking, the taskbar, appearance settings and the lock screen. The
// state is persisted to a key/value store and restored on start.
//
// Configuration:
//   - Defaults for development
//   - TOML file named by CONFIG_FILE
//   - Environment variables (12-factor)
//   - CLI flags (override everything)
//
// Usage:
//
//	# Durable state in a SQLite file
//	./server --port 8000 --store sqlite --store-path data/webdesk.db
//
//	# Development mode (colored logs, debug level, state kept in memory)
//	./server --dev --store memory
//
// Signals:
//   - SIGINT, SIGTERM: graceful shutdown, pending state is written first
package main
