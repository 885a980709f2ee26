package service

import (
	"fmt"
	"strings"

	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
)

// Success creates a successful result
func Success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

// Failure creates a failed result. Tool failures are reported in the result,
// not as Go errors.
func Failure(message string) (*types.Result, error) {
	msg := message
	return &types.Result{Success: false, Error: &msg}, nil
}

// GetString extracts a string parameter
func GetString(params map[string]interface{}, key string, required bool) (string, error) {
	val, ok := params[key]
	if !ok || val == nil {
		if required {
			return "", fmt.Errorf("%s parameter required", key)
		}
		return "", nil
	}

	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return str, nil
}

// GetInt extracts an integer parameter. JSON numbers arrive as float64.
func GetInt(params map[string]interface{}, key string, fallback int) (int, error) {
	val, ok := params[key]
	if !ok || val == nil {
		return fallback, nil
	}

	switch v := val.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("%s must be a number", key)
	}
}

// InstanceID returns the originating window instance id
func InstanceID(appCtx *types.Context) (string, error) {
	if appCtx == nil || appCtx.InstanceID == nil || strings.TrimSpace(*appCtx.InstanceID) == "" {
		return "", fmt.Errorf("instance_id required")
	}
	return *appCtx.InstanceID, nil
}
