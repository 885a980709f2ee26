package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/GriffinCanCode/WebDesk/backend/internal/service"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/utils"
)

// Provider implements the browser app
type Provider struct {
	mu       sync.Mutex
	sessions map[string]*History
}

// NewProvider creates a new browser provider
func NewProvider() *Provider {
	return &Provider{sessions: make(map[string]*History)}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:           "browser",
		Name:         "Browser",
		Description:  "Address bar and history for the embedded browser frame",
		Category:     types.CategoryApp,
		AppID:        types.AppBrowser,
		Capabilities: []string{"navigate", "history"},
		Tools: []types.Tool{
			{
				ID:          "browser.navigate",
				Name:        "Navigate",
				Description: "Go to a URL, host name or search query",
				Parameters: []types.Parameter{
					{Name: "url", Type: "string", Description: "Address bar input", Required: true},
				},
				Returns: "page",
			},
			{ID: "browser.back", Name: "Back", Description: "Go to the previous page", Returns: "page"},
			{ID: "browser.forward", Name: "Forward", Description: "Go to the next page", Returns: "page"},
			{ID: "browser.current", Name: "Current Page", Description: "Return the page being shown", Returns: "page"},
		},
	}
}

// Execute routes to appropriate operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	instanceID, err := service.InstanceID(appCtx)
	if err != nil {
		return service.Failure(err.Error())
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	history, ok := p.sessions[instanceID]
	if !ok {
		history = NewHistory(HomeURL)
		p.sessions[instanceID] = history
	}

	switch toolID {
	case "browser.navigate":
		input, err := service.GetString(params, "url", true)
		if err != nil {
			return service.Failure(err.Error())
		}
		if strings.TrimSpace(input) == "" {
			return service.Failure("url parameter required")
		}
		target := Normalize(input)
		if err := utils.ValidateString(target, "url", 1, utils.MaxURLLength, true); err != nil {
			return service.Failure(err.Error())
		}
		history.Visit(target)
		return service.Success(page(history, true))
	case "browser.back":
		return service.Success(page(history, history.Back()))
	case "browser.forward":
		return service.Success(page(history, history.Forward()))
	case "browser.current":
		return service.Success(page(history, false))
	default:
		return service.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

// Release drops the window's history
func (p *Provider) Release(instanceID string) {
	p.mu.Lock()
	delete(p.sessions, instanceID)
	p.mu.Unlock()
}

func page(h *History, moved bool) map[string]interface{} {
	return map[string]interface{}{
		"url":         h.Current(),
		"moved":       moved,
		"can_back":    h.CanBack(),
		"can_forward": h.CanForward(),
	}
}
