// Package service loads service descriptors and resolves which services of
// the stack are enabled.
package service

import (
	"context"
	"path/filepath"

	"github.com/ThomasCrouzet/stackctl/internal/config"
	"github.com/ThomasCrouzet/stackctl/internal/env"
)

// Project is the part of the run context a service may consult.
type Project interface {
	Name() string
	Root() string
	// Dir returns the absolute path for a directory role, or "".
	Dir(role string) string
}

// ProviderLookup resolves a capability to the service providing it.
type ProviderLookup interface {
	GetByProvidedCapability(capability string) (*Service, string, bool)
}

// Starter brings compose fragments up.
type Starter interface {
	Up(ctx context.Context, files, profiles []string, environ []string) error
}

// Service is one orchestratable component of the stack. Services are owned
// by the Registry; everything else holds plain pointers for lookups.
type Service struct {
	ID          string
	Name        string
	DisplayName string
	Description string
	Group       string
	Dir         string // absolute service directory
	ComposeFile string // absolute path of the compose fragment
	Priority    int
	Descriptor  *Descriptor
	Profiles    []string // selected profiles

	configured config.Enablement
	enabled    bool
	project    Project
	behavior   Behavior
}

// Options carries everything needed to construct a Service.
type Options struct {
	Dir      string
	Priority int
	Project  Project
	Settings *config.ServiceSettings
	Behavior Behavior
}

// New builds a Service from its descriptor. The configured enablement is
// taken from persisted settings, then the descriptor, then defaults to true.
func New(d *Descriptor, opts Options) *Service {
	s := &Service{
		ID:          opts.Dir,
		Name:        d.Name,
		DisplayName: d.DisplayName,
		Description: d.Description,
		Group:       d.Group,
		Dir:         opts.Dir,
		ComposeFile: filepath.Join(opts.Dir, d.Compose),
		Priority:    opts.Priority,
		Descriptor:  d,
		Profiles:    append([]string(nil), d.DefaultProfiles...),
		configured:  config.EnabledTrue,
		project:     opts.Project,
		behavior:    opts.Behavior,
	}
	if s.ID == "" {
		s.ID = d.Name
	}
	if filepath.IsAbs(d.Compose) {
		s.ComposeFile = d.Compose
	}
	if d.Enabled.Valid() {
		s.configured = d.Enabled
	}
	if opts.Settings != nil {
		if opts.Settings.Enabled.Valid() {
			s.configured = opts.Settings.Enabled
		}
		if len(opts.Settings.Profiles) > 0 {
			s.Profiles = append([]string(nil), opts.Settings.Profiles...)
		}
	}
	if s.behavior == nil {
		s.behavior = Base{}
	}
	return s
}

// Provides returns the capabilities this service fulfils.
func (s *Service) Provides() Capabilities { return s.Descriptor.Provides }

// DependsOn returns the capabilities this service needs.
func (s *Service) DependsOn() Dependencies { return s.Descriptor.DependsOn }

// AvailableProfiles returns the profiles the descriptor allows.
func (s *Service) AvailableProfiles() []string { return s.Descriptor.Profiles }

// Endpoints returns the host endpoints the service exposes.
func (s *Service) Endpoints() []Endpoint { return s.Descriptor.Endpoints }

// Repo returns the source repository, if any.
func (s *Service) Repo() *Repo { return s.Descriptor.Repo }

// Project returns the owning run context.
func (s *Service) Project() Project { return s.project }

// Configured returns the configured tri-state value.
func (s *Service) Configured() config.Enablement { return s.configured }

// SetConfigured changes the configured value. Call the resolver afterwards;
// the computed flag is not touched here.
func (s *Service) SetConfigured(e config.Enablement) { s.configured = e }

// Computed returns the resolved flag, ignoring behavior overrides.
func (s *Service) Computed() bool { return s.enabled }

// Custom reports whether a compiled-in behavior replaces the generic one.
func (s *Service) Custom() bool {
	_, generic := s.behavior.(Base)
	return !generic
}

// Settings returns what should be persisted for this service. An empty
// profile list is dropped rather than stored as [].
func (s *Service) Settings() config.ServiceSettings {
	st := config.ServiceSettings{Enabled: s.configured}
	if len(s.Profiles) > 0 {
		st.Profiles = append([]string(nil), s.Profiles...)
	}
	return st
}

// VolumeDir returns the host directory for one of the service's volumes.
func (s *Service) VolumeDir(volume string) string {
	root := ""
	if s.project != nil {
		root = s.project.Dir(config.DirVolumes)
	}
	if root == "" {
		root = filepath.Join(s.Dir, "volumes")
	}
	return filepath.Join(root, s.Name, volume)
}

// IsEnabled reports whether the orchestrator should run the service.
func (s *Service) IsEnabled() bool {
	return s.behavior.IsEnabled(s)
}

// LoadEnv returns base extended with this service's variables.
func (s *Service) LoadEnv(ctx context.Context, base env.Env, providers ProviderLookup) (env.Env, error) {
	return s.behavior.LoadEnv(ctx, s, base, providers)
}

// Configure applies user choices (enablement, profiles).
func (s *Service) Configure(opts ConfigureOptions) error {
	return s.behavior.Configure(s, opts)
}

// Start brings the service's compose fragment up.
func (s *Service) Start(ctx context.Context, starter Starter, e env.Env) error {
	return s.behavior.Start(ctx, s, starter, e)
}

// PrepareVolumes creates the host directories the service mounts.
func (s *Service) PrepareVolumes(ctx context.Context) error {
	return s.behavior.PrepareVolumes(ctx, s)
}
