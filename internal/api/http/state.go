package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/session"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/utils"
)

// ArchiveFilename is suggested to browsers downloading an export
const ArchiveFilename = "webdesk-state.json.gz"

// ExportState downloads every persisted snapshot as a gzip archive. The live
// window and settings state is written first so the archive is current.
func (h *Handlers) ExportState(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.adapter.Save(ctx, h.windows.State()); err != nil {
		h.logger.Warn("Failed to save window state before export", zap.Error(err))
	}
	if err := h.adapter.SaveSettings(ctx, h.settings.Get()); err != nil {
		h.logger.Warn("Failed to save settings before export", zap.Error(err))
	}

	c.Header("Content-Type", "application/gzip")
	c.Header("Content-Disposition", `attachment; filename="`+ArchiveFilename+`"`)
	c.Status(http.StatusOK)
	if err := h.adapter.Export(ctx, c.Writer); err != nil {
		h.logger.Error("State export failed", zap.Error(err))
		c.Error(err)
	}
}

// ImportState restores an archive and reloads the live state from it
func (h *Handlers) ImportState(c *gin.Context) {
	ctx := c.Request.Context()
	body := http.MaxBytesReader(c.Writer, c.Request.Body, utils.MaxArchiveSize)

	written, err := h.adapter.Import(ctx, body)
	if errors.Is(err, session.ErrInvalidArchive) {
		badRequest(c, err)
		return
	}
	if err != nil {
		h.logger.Error("State import incomplete",
			zap.Int("written", written),
			zap.String("trace_id", string(tracing.GetTraceID(ctx))),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "imported": written})
		return
	}

	restored := h.windows.Hydrate(h.adapter.Load(ctx))
	if s, ok := h.adapter.LoadSettings(ctx); ok {
		h.settings.Hydrate(s)
	}

	h.logger.Info("State imported", zap.Int("entries", written), zap.Int("windows", restored))
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"imported": written,
		"windows":  restored,
	})
}
