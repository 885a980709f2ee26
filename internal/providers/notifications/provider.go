// Package notifications provides the notification center contents.
package notifications

import (
	"context"
	"fmt"
	"sync"

	"github.com/GriffinCanCode/WebDesk/backend/internal/service"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
)

// EmptyMessage is shown when no notifications remain
const EmptyMessage = "No new notifications"

// Notification is one entry in the notification center
type Notification struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Time    string `json:"time"`
}

// Defaults returns the system notifications shown at startup
func Defaults() []Notification {
	return []Notification{
		{ID: "1", Title: "System Update", Message: "Updates are available. Restart to apply.", Time: "Just now"},
		{ID: "2", Title: "New Message", Message: "You have 1 new message from John Doe.", Time: "5 min ago"},
		{ID: "3", Title: "Battery Low", Message: "Your battery is at 20%. Connect to power.", Time: "10 min ago"},
	}
}

// Provider implements the notification center
type Provider struct {
	mu    sync.Mutex
	items []Notification
}

// NewProvider creates a provider seeded with the default notifications
func NewProvider() *Provider {
	return &Provider{items: Defaults()}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:           "notifications",
		Name:         "Notifications",
		Description:  "System notifications shown in the notification center",
		Category:     types.CategorySystem,
		Capabilities: []string{"list", "dismiss"},
		Tools: []types.Tool{
			{ID: "notifications.list", Name: "List", Description: "List notifications", Returns: "notifications"},
			{
				ID:          "notifications.dismiss",
				Name:        "Dismiss",
				Description: "Dismiss one notification",
				Parameters: []types.Parameter{
					{Name: "id", Type: "string", Description: "Notification ID", Required: true},
				},
				Returns: "notifications",
			},
			{ID: "notifications.clear", Name: "Clear All", Description: "Dismiss every notification", Returns: "notifications"},
		},
	}
}

// Execute routes to appropriate operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch toolID {
	case "notifications.list":
		return service.Success(p.listLocked())
	case "notifications.dismiss":
		id, err := service.GetString(params, "id", true)
		if err != nil {
			return service.Failure(err.Error())
		}
		for i, n := range p.items {
			if n.ID == id {
				p.items = append(p.items[:i:i], p.items[i+1:]...)
				return service.Success(p.listLocked())
			}
		}
		return service.Failure(fmt.Sprintf("notification not found: %s", id))
	case "notifications.clear":
		p.items = nil
		return service.Success(p.listLocked())
	default:
		return service.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) listLocked() map[string]interface{} {
	items := make([]Notification, len(p.items))
	copy(items, p.items)

	data := map[string]interface{}{
		"notifications": items,
		"count":         len(items),
	}
	if len(items) == 0 {
		data["message"] = EmptyMessage
	}
	return data
}
