package files

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/GriffinCanCode/WebDesk/backend/internal/service"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
)

// View modes
const (
	ViewGrid = "grid"
	ViewList = "list"
)

// navigation is one explorer window's location and view mode
type navigation struct {
	path []*node
	view string
}

func (n *navigation) current() *node {
	return n.path[len(n.path)-1]
}

// Provider implements the file explorer app over a static mock tree
type Provider struct {
	root  *node
	mu    sync.Mutex
	state map[string]*navigation
}

// NewProvider creates a new file explorer provider
func NewProvider() *Provider {
	return &Provider{
		root:  mockTree(),
		state: make(map[string]*navigation),
	}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:           "files",
		Name:         "File Explorer",
		Description:  "Browse a mock file system",
		Category:     types.CategoryApp,
		AppID:        types.AppFileExplorer,
		Capabilities: []string{"browse", "search"},
		Tools: []types.Tool{
			{ID: "files.list", Name: "List Folder", Description: "List the current folder", Returns: "listing"},
			{
				ID:          "files.open",
				Name:        "Open Folder",
				Description: "Enter a subfolder of the current folder",
				Parameters: []types.Parameter{
					{Name: "name", Type: "string", Description: "Folder name", Required: true},
				},
				Returns: "listing",
			},
			{
				ID:          "files.breadcrumb",
				Name:        "Breadcrumb",
				Description: "Jump to an ancestor folder by breadcrumb index",
				Parameters: []types.Parameter{
					{Name: "index", Type: "number", Description: "Zero-based breadcrumb index", Required: true},
				},
				Returns: "listing",
			},
			{
				ID:          "files.sidebar",
				Name:        "Quick Access",
				Description: "Jump to a quick access folder",
				Parameters: []types.Parameter{
					{Name: "id", Type: "string", Description: "home, documents, downloads or desktop", Required: true},
				},
				Returns: "listing",
			},
			{
				ID:          "files.view",
				Name:        "View Mode",
				Description: "Toggle between grid and list view, or set one explicitly",
				Parameters: []types.Parameter{
					{Name: "mode", Type: "string", Description: "grid or list", Required: false},
				},
				Returns: "listing",
			},
			{
				ID:          "files.search",
				Name:        "Search",
				Description: "Match mock paths against a glob pattern (supports **)",
				Parameters: []types.Parameter{
					{Name: "pattern", Type: "string", Description: "Glob pattern relative to This PC", Required: true},
				},
				Returns: "entries",
			},
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

	nav := p.navigationLocked(instanceID)

	switch toolID {
	case "files.list":
		return service.Success(p.listing(nav))
	case "files.open":
		return p.open(nav, params)
	case "files.breadcrumb":
		return p.breadcrumb(nav, params)
	case "files.sidebar":
		return p.sidebar(nav, params)
	case "files.view":
		return p.view(nav, params)
	case "files.search":
		return p.search(params)
	default:
		return service.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

// Release drops the window's navigation state
func (p *Provider) Release(instanceID string) {
	p.mu.Lock()
	delete(p.state, instanceID)
	p.mu.Unlock()
}

// Windows returns the number of explorer windows with state
func (p *Provider) Windows() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.state)
}

func (p *Provider) navigationLocked(instanceID string) *navigation {
	nav, ok := p.state[instanceID]
	if !ok {
		nav = &navigation{path: []*node{p.root}, view: ViewGrid}
		p.state[instanceID] = nav
	}
	return nav
}

func (p *Provider) listing(nav *navigation) map[string]interface{} {
	names := make([]string, len(nav.path))
	for i, n := range nav.path {
		names[i] = n.name
	}
	entries := nav.current().entries()
	return map[string]interface{}{
		"path":     names,
		"location": strings.Join(names, " > "),
		"entries":  entries,
		"empty":    len(entries) == 0,
		"view":     nav.view,
		"sidebar":  Sidebar,
	}
}

func (p *Provider) open(nav *navigation, params map[string]interface{}) (*types.Result, error) {
	name, err := service.GetString(params, "name", true)
	if err != nil {
		return service.Failure(err.Error())
	}

	target, ok := nav.current().child(name)
	if !ok {
		return service.Failure(fmt.Sprintf("not found: %s", name))
	}
	if !target.folder {
		return service.Failure(fmt.Sprintf("not a folder: %s", name))
	}

	nav.path = append(nav.path, target)
	return service.Success(p.listing(nav))
}

func (p *Provider) breadcrumb(nav *navigation, params map[string]interface{}) (*types.Result, error) {
	if _, ok := params["index"]; !ok {
		return service.Failure("index parameter required")
	}
	index, err := service.GetInt(params, "index", 0)
	if err != nil {
		return service.Failure(err.Error())
	}
	if index < 0 || index >= len(nav.path) {
		return service.Failure(fmt.Sprintf("breadcrumb index out of range: %d", index))
	}

	nav.path = nav.path[:index+1]
	return service.Success(p.listing(nav))
}

func (p *Provider) sidebar(nav *navigation, params map[string]interface{}) (*types.Result, error) {
	id, err := service.GetString(params, "id", true)
	if err != nil {
		return service.Failure(err.Error())
	}

	for _, item := range Sidebar {
		if item.ID != id {
			continue
		}
		target, ok := p.root.child(item.Name)
		if !ok {
			return service.Failure(fmt.Sprintf("not found: %s", item.Name))
		}
		nav.path = []*node{p.root, target}
		return service.Success(p.listing(nav))
	}
	return service.Failure(fmt.Sprintf("unknown quick access item: %s", id))
}

func (p *Provider) view(nav *navigation, params map[string]interface{}) (*types.Result, error) {
	mode, err := service.GetString(params, "mode", false)
	if err != nil {
		return service.Failure(err.Error())
	}

	switch mode {
	case "":
		if nav.view == ViewGrid {
			nav.view = ViewList
		} else {
			nav.view = ViewGrid
		}
	case ViewGrid, ViewList:
		nav.view = mode
	default:
		return service.Failure(fmt.Sprintf("invalid view mode: %s", mode))
	}
	return service.Success(p.listing(nav))
}

func (p *Provider) search(params map[string]interface{}) (*types.Result, error) {
	pattern, err := service.GetString(params, "pattern", true)
	if err != nil {
		return service.Failure(err.Error())
	}
	if !doublestar.ValidatePattern(pattern) {
		return service.Failure(fmt.Sprintf("invalid pattern: %s", pattern))
	}

	matches := make([]Entry, 0)
	p.root.walk(func(n *node) {
		if ok, _ := doublestar.Match(pattern, n.path); ok {
			matches = append(matches, n.entry())
		}
	})

	return service.Success(map[string]interface{}{
		"pattern": pattern,
		"matches": matches,
		"count":   len(matches),
	})
}
