package service

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/ThomasCrouzet/stackctl/internal/config"
	"github.com/ThomasCrouzet/stackctl/internal/env"
	"github.com/ThomasCrouzet/stackctl/internal/util"
)

// Behavior is what a service does at runtime. Base is the generic
// implementation; services needing custom logic register their own with
// RegisterBehavior, usually by embedding Base and overriding a method.
type Behavior interface {
	IsEnabled(s *Service) bool
	LoadEnv(ctx context.Context, s *Service, base env.Env, providers ProviderLookup) (env.Env, error)
	Configure(s *Service, opts ConfigureOptions) error
	Start(ctx context.Context, s *Service, starter Starter, e env.Env) error
	PrepareVolumes(ctx context.Context, s *Service) error
}

// ConfigureOptions are user choices for a service. Zero fields are left
// unchanged.
type ConfigureOptions struct {
	Enabled     config.Enablement
	Profiles    []string
	SetProfiles bool // apply Profiles even when empty
}

// BehaviorFactory builds the behavior for a service from its descriptor.
type BehaviorFactory func(d *Descriptor) (Behavior, error)

var (
	behaviorsMu sync.RWMutex
	behaviors   = map[string]BehaviorFactory{}
)

// RegisterBehavior installs a custom behavior for the service named name.
// Each custom behavior calls this in its init().
func RegisterBehavior(name string, factory BehaviorFactory) {
	behaviorsMu.Lock()
	defer behaviorsMu.Unlock()
	behaviors[name] = factory
}

// RegisteredBehaviors returns the names with a custom behavior.
func RegisteredBehaviors() []string {
	behaviorsMu.RLock()
	defer behaviorsMu.RUnlock()
	names := make([]string, 0, len(behaviors))
	for n := range behaviors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// behaviorFor returns the behavior to use for d: the registered custom one
// if any, else Base.
func behaviorFor(d *Descriptor) (Behavior, error) {
	behaviorsMu.RLock()
	factory, ok := behaviors[d.Name]
	behaviorsMu.RUnlock()
	if !ok {
		return Base{}, nil
	}
	b, err := factory(d)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("behavior factory returned nil")
	}
	return b, nil
}

// Base is the generic behavior every service gets by default.
type Base struct{}

func (Base) IsEnabled(s *Service) bool {
	return s.enabled
}

// LoadEnv adds the descriptor's env defaults (values already set win) and a
// <CAPABILITY>_HOST variable for each dependency that resolves to a provider.
func (Base) LoadEnv(_ context.Context, s *Service, base env.Env, providers ProviderLookup) (env.Env, error) {
	out := base
	for _, k := range sortedEnvKeys(s.Descriptor.Env) {
		out = out.WithDefault(k, s.Descriptor.Env[k])
	}
	if providers == nil {
		return out, nil
	}
	for _, dep := range s.DependsOn() {
		provider, container, ok := providers.GetByProvidedCapability(dep.Name)
		if !ok {
			continue
		}
		host := container
		if host == "" {
			host = provider.Name
		}
		out = out.WithDefault(util.EnvKey(dep.Name)+"_HOST", host)
	}
	return out, nil
}

// Configure validates profiles against the descriptor's list (when it
// declares one) and applies the options.
func (Base) Configure(s *Service, opts ConfigureOptions) error {
	if opts.Enabled != "" {
		if !opts.Enabled.Valid() {
			return &ServiceError{Service: s.Name, Err: fmt.Errorf("invalid enabled value %q", opts.Enabled)}
		}
		s.configured = opts.Enabled
	}
	if opts.SetProfiles || len(opts.Profiles) > 0 {
		if err := checkProfiles(s, opts.Profiles); err != nil {
			return err
		}
		s.Profiles = dedupe(opts.Profiles)
	}
	return nil
}

func (Base) Start(ctx context.Context, s *Service, starter Starter, e env.Env) error {
	if starter == nil {
		return &ServiceError{Service: s.Name, Err: fmt.Errorf("no compose runner")}
	}
	if err := starter.Up(ctx, []string{s.ComposeFile}, s.Profiles, e.Environ()); err != nil {
		return &ServiceError{Service: s.Name, Err: err}
	}
	return nil
}

// PrepareVolumes creates <volumes>/<service>/<volume> for each declared
// volume.
func (Base) PrepareVolumes(ctx context.Context, s *Service) error {
	for _, v := range s.Descriptor.Volumes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.MkdirAll(s.VolumeDir(v), 0o755); err != nil {
			return &ServiceError{Service: s.Name, Err: fmt.Errorf("creating volume %s: %w", v, err)}
		}
	}
	return nil
}

func checkProfiles(s *Service, profiles []string) error {
	available := s.AvailableProfiles()
	if len(available) == 0 {
		return nil
	}
	var unknown []string
	for _, p := range profiles {
		if !contains(available, p) {
			unknown = append(unknown, p)
		}
	}
	if len(unknown) > 0 {
		return &ServiceError{
			Service: s.Name,
			Err:     fmt.Errorf("unknown profile(s) %s (available: %s)", strings.Join(unknown, ", "), strings.Join(available, ", ")),
		}
	}
	return nil
}

func dedupe(list []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, v := range list {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func sortedEnvKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
