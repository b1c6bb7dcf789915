package form

import (
	"fmt"
	"sort"
	"sync"
)

// Registry indexes services by form name. It is safe for concurrent use so a
// server can swap definitions while serving requests.
type Registry struct {
	mu       sync.RWMutex
	services map[string]*Service
}

// NewRegistry returns a registry holding services.
func NewRegistry(services ...*Service) (*Registry, error) {
	r := &Registry{services: make(map[string]*Service)}
	for _, svc := range services {
		if err := r.Register(svc); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds svc. Registering a second service under the same form name
// fails.
func (r *Registry) Register(svc *Service) error {
	if svc == nil {
		return fmt.Errorf("form: register nil service")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.services == nil {
		r.services = make(map[string]*Service)
	}
	name := svc.Name()
	if _, exists := r.services[name]; exists {
		return fmt.Errorf("form: service %q already registered", name)
	}
	r.services[name] = svc
	return nil
}

// MustRegister panics when Register fails.
func (r *Registry) MustRegister(svc *Service) {
	if err := r.Register(svc); err != nil {
		panic(err)
	}
}

// Replace swaps every registered service for services.
func (r *Registry) Replace(services ...*Service) error {
	next, err := NewRegistry(services...)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.services = next.services
	r.mu.Unlock()
	return nil
}

// Get returns the service registered under name.
func (r *Registry) Get(name string) (*Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	svc, ok := r.services[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownForm, name)
	}
	return svc, nil
}

// List returns the registered form names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.services))
	for name := range r.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
