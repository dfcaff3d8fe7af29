package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ThomasCrouzet/stackctl/internal/env"
)

func init() {
	RegisterBehavior("supabase", newSupabase)
}

// supabaseDirs are created under the db volume besides declared volumes;
// the postgres image expects them to exist before first boot.
var supabaseDirs = []string{
	filepath.Join("db", "data"),
	filepath.Join("db", "init"),
	"storage",
	"functions",
}

type supabase struct {
	Base
}

func newSupabase(*Descriptor) (Behavior, error) {
	return supabase{}, nil
}

func (sb supabase) PrepareVolumes(ctx context.Context, s *Service) error {
	if err := sb.Base.PrepareVolumes(ctx, s); err != nil {
		return err
	}
	for _, d := range supabaseDirs {
		if err := os.MkdirAll(s.VolumeDir(d), 0o755); err != nil {
			return &ServiceError{Service: s.Name, Err: fmt.Errorf("creating %s: %w", d, err)}
		}
	}
	return nil
}

func (sb supabase) LoadEnv(ctx context.Context, s *Service, base env.Env, providers ProviderLookup) (env.Env, error) {
	out, err := sb.Base.LoadEnv(ctx, s, base, providers)
	if err != nil {
		return out, err
	}
	for _, ep := range s.Endpoints() {
		if ep.Name == "api" {
			if url := ep.URL(); url != "" {
				out = out.WithDefault("SUPABASE_PUBLIC_URL", url)
			}
		}
	}
	for _, c := range s.Provides() {
		if c.Name == "postgres" && c.Container != "" {
			out = out.WithDefault("POSTGRES_HOST", c.Container)
		}
	}
	return out, nil
}
