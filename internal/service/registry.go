package service

import "github.com/ThomasCrouzet/stackctl/pkg/logging"

const registrySubsystem = "Registry"

// Provider is the service behind a capability and the container other
// services should connect to.
type Provider struct {
	Service   *Service
	Container string
}

// Registry owns every Service of a run and keeps the group and capability
// indexes in step with them.
type Registry struct {
	services  map[string]*Service
	order     []string
	byName    map[string]*Service
	groups    map[string][]*Service
	providers map[string]Provider
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		services:  make(map[string]*Service),
		byName:    make(map[string]*Service),
		groups:    make(map[string][]*Service),
		providers: make(map[string]Provider),
	}
}

// Register adds s. It returns false when a service with the same ID is
// already present, unless force is set, in which case s replaces it.
//
// A capability already provided by another service is taken over by s
// unless the current provider has a strictly higher Priority; on equal
// priority the later registration wins. Name lookups follow the same rule.
func (r *Registry) Register(s *Service, force bool) bool {
	if _, exists := r.services[s.ID]; exists {
		if !force {
			return false
		}
		r.services[s.ID] = s
		r.reindex()
		return true
	}

	r.services[s.ID] = s
	r.order = append(r.order, s.ID)
	r.index(s)
	return true
}

func (r *Registry) index(s *Service) {
	if cur, ok := r.byName[s.Name]; !ok || cur.Priority <= s.Priority {
		r.byName[s.Name] = s
	}

	r.groups[s.Group] = append(r.groups[s.Group], s)

	for _, c := range s.Provides() {
		if cur, ok := r.providers[c.Name]; ok && cur.Service != s {
			if cur.Service.Priority > s.Priority {
				logging.Debug(registrySubsystem, "capability %s stays with %s (priority %d > %d)", c.Name, cur.Service.Name, cur.Service.Priority, s.Priority)
				continue
			}
			logging.Debug(registrySubsystem, "capability %s moves from %s to %s", c.Name, cur.Service.Name, s.Name)
		}
		r.providers[c.Name] = Provider{Service: s, Container: c.Container}
	}
}

func (r *Registry) reindex() {
	r.byName = make(map[string]*Service)
	r.groups = make(map[string][]*Service)
	r.providers = make(map[string]Provider)
	for _, id := range r.order {
		r.index(r.services[id])
	}
}

// GetByName returns the service declared under name.
func (r *Registry) GetByName(name string) (*Service, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// GetByProvidedCapability returns the provider of capability and the
// container name to connect to ("" means the service's own name).
func (r *Registry) GetByProvidedCapability(capability string) (*Service, string, bool) {
	p, ok := r.providers[capability]
	if !ok {
		return nil, "", false
	}
	return p.Service, p.Container, true
}

// Capabilities returns the provider index as a copy.
func (r *Registry) Capabilities() map[string]Provider {
	out := make(map[string]Provider, len(r.providers))
	for k, v := range r.providers {
		out[k] = v
	}
	return out
}

// All returns every service in registration order.
func (r *Registry) All() []*Service {
	out := make([]*Service, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.services[id])
	}
	return out
}

// Enabled returns the services whose computed flag is on.
func (r *Registry) Enabled() []*Service {
	var out []*Service
	for _, s := range r.All() {
		if s.IsEnabled() {
			out = append(out, s)
		}
	}
	return out
}

// Groups returns the group names in display order.
func (r *Registry) Groups() []string {
	names := make([]string, 0, len(r.groups))
	for g := range r.groups {
		names = append(names, g)
	}
	return SortGroups(names)
}

// Group returns the services of one group in registration order.
func (r *Registry) Group(name string) []*Service {
	return append([]*Service(nil), r.groups[name]...)
}

// Ordered returns every service, grouped in display order.
func (r *Registry) Ordered() []*Service {
	var out []*Service
	for _, g := range r.Groups() {
		out = append(out, r.groups[g]...)
	}
	return out
}

// Len returns the number of services.
func (r *Registry) Len() int {
	return len(r.order)
}
