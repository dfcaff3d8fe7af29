package stack

import (
	"fmt"

	"github.com/ThomasCrouzet/stackctl/internal/config"
	"github.com/ThomasCrouzet/stackctl/internal/service"
)

// AllServices returns every loaded service in group order.
func (s *Stack) AllServices() []*service.Service {
	return s.registry.Ordered()
}

// EnabledServices returns the enabled services in group order, which is
// also the order they are started in.
func (s *Stack) EnabledServices() []*service.Service {
	var out []*service.Service
	for _, svc := range s.registry.Ordered() {
		if svc.IsEnabled() {
			out = append(out, svc)
		}
	}
	return out
}

// ServiceByName looks a service up by its name.
func (s *Stack) ServiceByName(name string) (*service.Service, bool) {
	return s.registry.GetByName(name)
}

// ServiceByCapability returns the provider of capability and the container
// to connect to.
func (s *Stack) ServiceByCapability(capability string) (*service.Service, string, bool) {
	return s.registry.GetByProvidedCapability(capability)
}

// Dependents returns the services depending on svc, never nil.
func (s *Stack) Dependents(svc *service.Service) []*service.Service {
	return s.graph.Dependents(svc)
}

// Providers returns the services svc depends on.
func (s *Stack) Providers(svc *service.Service) []*service.Service {
	return s.graph.Providers(svc)
}

// IsAutoEnabled reports whether svc runs only because a dependent needs it.
func (s *Stack) IsAutoEnabled(svc *service.Service) bool {
	return service.IsAutoEnabled(svc)
}

// UpdateEnabled sets the configured value of svc and re-resolves. It returns
// every service whose enabled state changed, svc's dependencies included.
// Call Save to persist.
func (s *Stack) UpdateEnabled(svc *service.Service, value config.Enablement) ([]*service.Service, error) {
	if !value.Valid() {
		return nil, fmt.Errorf("%s: invalid enabled value %q", svc.Name, value)
	}
	if err := svc.Configure(service.ConfigureOptions{Enabled: value}); err != nil {
		return nil, err
	}
	return service.Resolve(s.registry, s.graph), nil
}

// SetProfiles replaces the selected profiles of svc. An empty list clears
// them (or restores the service's default, if its behavior has one).
func (s *Stack) SetProfiles(svc *service.Service, profiles []string) error {
	return svc.Configure(service.ConfigureOptions{Profiles: profiles, SetProfiles: true})
}
