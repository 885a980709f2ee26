package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/WebDesk/backend/internal/service"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/utils"
)

// ListServices lists all available services
func (h *Handlers) ListServices(c *gin.Context) {
	var category *types.Category
	switch cat := types.Category(c.Query("category")); cat {
	case "":
	case types.CategoryApp, types.CategorySystem:
		category = &cat
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown category: %s", cat)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"services": h.services.List(category),
		"stats":    h.services.Stats(),
	})
}

// ExecuteService runs a mock app tool on behalf of a window
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateToolID(req.ToolID, "tool_id", true); err != nil {
		badRequest(c, err)
		return
	}

	if req.InstanceID != nil {
		if err := utils.ValidateID(*req.InstanceID, "instance_id", true); err != nil {
			badRequest(c, err)
			return
		}
		if msg := h.checkInstance(req.ToolID, *req.InstanceID); msg != "" {
			result, _ := service.Failure(msg)
			c.JSON(http.StatusOK, result)
			return
		}
	}

	result, err := h.services.Execute(c.Request.Context(), req.ToolID, req.Params, &types.Context{InstanceID: req.InstanceID})
	if err != nil {
		h.logger.Error("Service execution failed",
			zap.String("tool_id", req.ToolID),
			zap.String("trace_id", string(tracing.GetTraceID(c.Request.Context()))),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// checkInstance returns a failure message when the window is missing or
// belongs to a different app than the service
func (h *Handlers) checkInstance(toolID, instanceID string) string {
	win, ok := h.windows.Get(instanceID)
	if !ok {
		return fmt.Sprintf("window not found: %s", instanceID)
	}

	serviceID, _, _ := strings.Cut(toolID, ".")
	provider, ok := h.services.Get(serviceID)
	if !ok {
		return ""
	}
	if appID := provider.Definition().AppID; appID != "" && appID != win.AppID {
		return fmt.Sprintf("window %s is not a %s window", instanceID, appID)
	}
	return ""
}
