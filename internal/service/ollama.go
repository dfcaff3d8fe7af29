package service

import (
	"context"
	"fmt"

	"github.com/ThomasCrouzet/stackctl/internal/env"
)

func init() {
	RegisterBehavior("ollama", newOllama)
}

const ollamaDefaultProfile = "cpu"

// ollama runs one hardware variant at a time: its profiles (cpu,
// gpu-nvidia, gpu-amd) are mutually exclusive.
type ollama struct {
	Base
}

func newOllama(d *Descriptor) (Behavior, error) {
	if len(d.DefaultProfiles) > 1 {
		return nil, fmt.Errorf("ollama: at most one default profile, got %v", d.DefaultProfiles)
	}
	return ollama{}, nil
}

func (o ollama) Configure(s *Service, opts ConfigureOptions) error {
	if len(opts.Profiles) > 1 {
		return &ServiceError{Service: s.Name, Err: fmt.Errorf("choose one hardware profile, got %v", opts.Profiles)}
	}
	if opts.SetProfiles && len(opts.Profiles) == 0 && contains(s.AvailableProfiles(), ollamaDefaultProfile) {
		opts.Profiles = []string{ollamaDefaultProfile}
	}
	return o.Base.Configure(s, opts)
}

func (o ollama) LoadEnv(ctx context.Context, s *Service, base env.Env, providers ProviderLookup) (env.Env, error) {
	out, err := o.Base.LoadEnv(ctx, s, base, providers)
	if err != nil {
		return out, err
	}
	host := s.Name
	for _, c := range s.Provides() {
		if c.Container != "" {
			host = c.Container
			break
		}
	}
	return out.WithDefault("OLLAMA_BASE_URL", "http://"+host+":11434"), nil
}
