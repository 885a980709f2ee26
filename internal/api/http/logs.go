package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MaxLogEntries bounds one log batch from the browser
const MaxLogEntries = 100

// UILogEntry represents a log entry from the desktop frontend
type UILogEntry struct {
	ID        string                 `json:"id"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context"`
	Timestamp string                 `json:"timestamp"`
}

// UILogStreamRequest represents a batch of logs from the frontend
type UILogStreamRequest struct {
	Source  string       `json:"source"`
	Entries []UILogEntry `json:"entries"`
}

// StreamLogs forwards frontend log entries into the server log
func (h *Handlers) StreamLogs(c *gin.Context) {
	var req UILogStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log request format"})
		return
	}
	if req.Source != "ui" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log source"})
		return
	}
	if len(req.Entries) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No log entries provided"})
		return
	}
	if len(req.Entries) > MaxLogEntries {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Too many log entries"})
		return
	}

	logger := h.logger.With(zap.String("source", "ui"))
	for _, entry := range req.Entries {
		logUIEntry(logger, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"entries_received": len(req.Entries),
		"timestamp":        time.Now().Unix(),
	})
}

func logUIEntry(logger *zap.Logger, entry UILogEntry) {
	fields := make([]zap.Field, 0, len(entry.Context)+2)
	fields = append(fields,
		zap.String("ui_log_id", entry.ID),
		zap.String("ui_timestamp", entry.Timestamp),
	)
	for key, value := range entry.Context {
		fields = append(fields, zap.Any(key, value))
	}

	switch entry.Level {
	case "error":
		logger.Error(entry.Message, fields...)
	case "warn":
		logger.Warn(entry.Message, fields...)
	case "debug", "verbose":
		logger.Debug(entry.Message, fields...)
	default:
		logger.Info(entry.Message, fields...)
	}
}
