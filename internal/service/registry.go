package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
)

// Provider interface for service implementations
type Provider interface {
	Definition() types.Service
	Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error)
}

// Releaser is implemented by providers that keep per-window state
type Releaser interface {
	Release(instanceID string)
}

// Registry manages service lookup and execution
type Registry struct {
	services sync.Map
	metrics  *monitoring.Metrics
}

// NewRegistry creates a new service registry
func NewRegistry() *Registry {
	return &Registry{}
}

// WithMetrics attaches a metrics collector
func (r *Registry) WithMetrics(metrics *monitoring.Metrics) *Registry {
	r.metrics = metrics
	return r
}

// Register adds a service provider
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.ID == "" {
		return fmt.Errorf("service ID cannot be empty")
	}
	if strings.Contains(def.ID, ".") {
		return fmt.Errorf("service ID must not contain '.': %s", def.ID)
	}

	r.services.Store(def.ID, provider)
	return nil
}

// Unregister removes a service provider
func (r *Registry) Unregister(serviceID string) {
	r.services.Delete(serviceID)
}

// Get retrieves a service by ID
func (r *Registry) Get(serviceID string) (Provider, bool) {
	val, ok := r.services.Load(serviceID)
	if !ok {
		return nil, false
	}
	return val.(Provider), true
}

// List returns registered services sorted by ID
func (r *Registry) List(category *types.Category) []types.Service {
	services := make([]types.Service, 0)
	r.services.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		if category == nil || def.Category == *category {
			services = append(services, def)
		}
		return true
	})

	sort.Slice(services, func(i, j int) bool {
		return services[i].ID < services[j].ID
	})
	return services
}

// Execute runs a service tool. The service is the toolID prefix before the first dot.
func (r *Registry) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	serviceID, _, ok := strings.Cut(toolID, ".")
	if !ok || serviceID == "" {
		return Failure(fmt.Sprintf("invalid tool ID format: %s", toolID))
	}

	provider, ok := r.Get(serviceID)
	if !ok {
		return Failure(fmt.Sprintf("service not found: %s", serviceID))
	}

	if params == nil {
		params = map[string]interface{}{}
	}

	timer := monitoring.NewTimer(r.metrics, serviceID, toolID)
	result, err := provider.Execute(ctx, toolID, params, appCtx)
	status := "success"
	if err != nil || result == nil || !result.Success {
		status = "error"
	}
	timer.Stop(status)
	return result, err
}

// Release drops per-window state held by every provider
func (r *Registry) Release(instanceID string) {
	r.services.Range(func(_, value interface{}) bool {
		if rel, ok := value.(Releaser); ok {
			rel.Release(instanceID)
		}
		return true
	})
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]interface{} {
	var total, totalTools int
	categories := make(map[string]int)

	r.services.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		total++
		totalTools += len(def.Tools)
		categories[string(def.Category)]++
		return true
	})

	return map[string]interface{}{
		"total_services": total,
		"total_tools":    totalTools,
		"categories":     categories,
	}
}
