// Package registry resolves model names to descriptors from the static catalog
// and runtime custom registrations.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hyperjump/bekutoru/internal/models"
)

// ErrUnknownModel is returned when a name is in neither the catalog nor the
// custom registry.
var ErrUnknownModel = errors.New("unknown model")

// Registry looks up model descriptors. The zero value is not usable; use New.
type Registry struct {
	mu     sync.RWMutex
	custom map[string]*models.ModelDescriptor
}

// New returns a registry backed by the static catalog.
func New() *Registry {
	return &Registry{custom: make(map[string]*models.ModelDescriptor)}
}

// Resolve returns a copy of the descriptor for name, so caller mutations never
// reach the catalog or a registration. Custom registrations take precedence
// over the static catalog.
func (r *Registry) Resolve(name string) (*models.ModelDescriptor, error) {
	r.mu.RLock()
	d, ok := r.custom[name]
	r.mu.RUnlock()
	if !ok {
		d, ok = catalog[name]
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	cp := *d
	return &cp, nil
}

// Register adds a custom model descriptor. The descriptor is copied so later
// caller mutations cannot affect resolved models.
func (r *Registry) Register(d *models.ModelDescriptor) error {
	if d == nil || d.Name == "" {
		return errors.New("descriptor must have a name")
	}
	if d.ModelFile == "" {
		return fmt.Errorf("model %q: model file is required", d.Name)
	}
	if _, err := d.Quantization.Suffix(); err != nil {
		return fmt.Errorf("model %q: %w", d.Name, err)
	}
	cp := *d
	r.mu.Lock()
	r.custom[d.Name] = &cp
	r.mu.Unlock()
	return nil
}

// Names returns all known model names (catalog plus custom), without order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(catalog)+len(r.custom))
	for name := range catalog {
		if _, shadowed := r.custom[name]; !shadowed {
			names = append(names, name)
		}
	}
	for name := range r.custom {
		names = append(names, name)
	}
	return names
}
