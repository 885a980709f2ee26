// Package logging provides structured logging using uber/zap.
//
// Two modes are available:
//   - Production: JSON output for machine parsing
//   - Development: colored console output
//
// Components receive a plain *zap.Logger, usually a child obtained with
// Component so every line carries the component name.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Server starting", zap.String("port", "8000"))
//	wm := window.NewManager(reg, cfg)
//	flusher := session.NewFlusher("windows", write, logger.Component("session"), 0)
package logging
