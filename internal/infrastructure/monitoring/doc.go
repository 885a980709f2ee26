/*
Package monitoring provides Prometheus metrics for the backend.

Each Metrics value owns a private registry so that tests and multiple
servers in one process never collide on collector registration.

# Metrics

  - HTTP requests (count, latency, response size) labelled by route template
  - window manager operations and open window gauge
  - mock application tool calls
  - snapshot writes and loads
  - WebSocket connections and messages
  - uptime

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "terminal", "terminal.run")
	// ... perform operation ...
	timer.Stop("success")
*/
package monitoring
