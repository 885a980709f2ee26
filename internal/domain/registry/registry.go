package registry

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
	"github.com/goccy/go-yaml"
)

//go:embed apps.yaml
var defaultManifest []byte

var (
	ErrEmptyManifest = errors.New("manifest declares no apps")
	ErrDuplicateApp  = errors.New("duplicate app id")
	ErrInvalidApp    = errors.New("invalid app descriptor")
)

type manifest struct {
	Apps []types.AppDescriptor `yaml:"apps"`
}

// Registry is an immutable, ordered set of application descriptors
type Registry struct {
	apps  []types.AppDescriptor
	index map[types.AppID]int
}

// New builds a registry from descriptors, validating each one
func New(apps []types.AppDescriptor) (*Registry, error) {
	if len(apps) == 0 {
		return nil, ErrEmptyManifest
	}

	r := &Registry{
		apps:  make([]types.AppDescriptor, 0, len(apps)),
		index: make(map[types.AppID]int, len(apps)),
	}
	for _, app := range apps {
		if app.ID == "" || app.Name == "" {
			return nil, fmt.Errorf("%w: id and name are required", ErrInvalidApp)
		}
		if app.DefaultWidth <= 0 || app.DefaultHeight <= 0 {
			return nil, fmt.Errorf("%w: %s has non-positive default size", ErrInvalidApp, app.ID)
		}
		if _, exists := r.index[app.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateApp, app.ID)
		}
		r.index[app.ID] = len(r.apps)
		r.apps = append(r.apps, app)
	}
	return r, nil
}

// Parse decodes a YAML manifest
func Parse(data []byte) (*Registry, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse app manifest: %w", err)
	}
	return New(m.Apps)
}

// LoadFile reads a manifest from disk
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read app manifest: %w", err)
	}
	return Parse(data)
}

// Default returns the registry built from the embedded manifest.
// Panics if the embedded manifest is malformed.
func Default() *Registry {
	r, err := Parse(defaultManifest)
	if err != nil {
		panic(fmt.Sprintf("embedded app manifest: %v", err))
	}
	return r
}

// Get returns the descriptor for an app id
func (r *Registry) Get(id types.AppID) (types.AppDescriptor, bool) {
	i, ok := r.index[id]
	if !ok {
		return types.AppDescriptor{}, false
	}
	return r.apps[i], true
}

// Has reports whether the id is registered
func (r *Registry) Has(id types.AppID) bool {
	_, ok := r.index[id]
	return ok
}

// Order returns the declaration position of an app, or -1
func (r *Registry) Order(id types.AppID) int {
	if i, ok := r.index[id]; ok {
		return i
	}
	return -1
}

// List returns all descriptors in declaration order
func (r *Registry) List() []types.AppDescriptor {
	out := make([]types.AppDescriptor, len(r.apps))
	copy(out, r.apps)
	return out
}

// Pinned returns the descriptors pinned to the taskbar
func (r *Registry) Pinned() []types.AppDescriptor {
	return r.filter(func(d types.AppDescriptor) bool { return d.Pinned })
}

// Launchable returns the descriptors shown as desktop icons
func (r *Registry) Launchable() []types.AppDescriptor {
	return r.filter(func(d types.AppDescriptor) bool { return !d.Singleton })
}

func (r *Registry) filter(keep func(types.AppDescriptor) bool) []types.AppDescriptor {
	var out []types.AppDescriptor
	for _, d := range r.apps {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}
