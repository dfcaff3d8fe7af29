package stack

import (
	"context"
	"os"

	"github.com/ThomasCrouzet/stackctl/internal/config"
	"github.com/ThomasCrouzet/stackctl/internal/env"
	"github.com/ThomasCrouzet/stackctl/internal/service"
	"github.com/ThomasCrouzet/stackctl/internal/util"
	"golang.org/x/sync/errgroup"
)

// Prepared is one enabled service with its environment.
type Prepared struct {
	Service *service.Service
	Env     env.Env
}

// BaseEnv returns the environment shared by all services: the env file,
// PROJECT_NAME and a STACK_<ROLE>_DIR variable per configured directory.
func (s *Stack) BaseEnv() env.Env {
	e := env.New(s.envVars).With(ProjectNameVar, s.Name())
	for _, role := range s.cfg.DirRoles() {
		if role == config.DirServices {
			continue
		}
		if d := s.Dir(role); d != "" {
			e = e.With("STACK_"+util.EnvKey(role)+"_DIR", d)
		}
	}
	return e
}

// Prepare creates the volume directories and builds the environment of
// every enabled service. Services are prepared concurrently; the result is
// in start order. The first failure cancels the others.
func (s *Stack) Prepare(ctx context.Context) ([]Prepared, error) {
	enabled := s.EnabledServices()
	base := s.BaseEnv()
	out := make([]Prepared, len(enabled))

	g, ctx := errgroup.WithContext(ctx)
	for i, svc := range enabled {
		i, svc := i, svc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := svc.PrepareVolumes(ctx); err != nil {
				return err
			}
			e, err := svc.LoadEnv(ctx, base, s.registry)
			if err != nil {
				return err
			}
			out[i] = Prepared{Service: svc, Env: e}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// MergeEnv folds the prepared environments into one, in start order. A
// variable set by an earlier service is not overridden by a later one.
func MergeEnv(base env.Env, prepared []Prepared) env.Env {
	out := base
	for _, p := range prepared {
		for _, k := range p.Env.Keys() {
			out = out.WithDefault(k, p.Env.Get(k))
		}
	}
	return out
}

// ComposeFiles returns the compose fragments of the enabled services.
func (s *Stack) ComposeFiles() []string {
	var files []string
	for _, svc := range s.EnabledServices() {
		files = append(files, svc.ComposeFile)
	}
	return files
}

// Profiles returns the distinct profiles selected by enabled services.
func (s *Stack) Profiles() []string {
	var out []string
	seen := map[string]bool{}
	for _, svc := range s.EnabledServices() {
		for _, p := range svc.Profiles {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// ComposeArgs returns the global docker compose arguments for the enabled
// services: -p, --env-file when the file exists, one -f per fragment and
// one --profile per selected profile.
func (s *Stack) ComposeArgs() []string {
	args := []string{"-p", s.Name()}
	if f := s.EnvFile(); f != "" {
		if _, err := os.Stat(f); err == nil {
			args = append(args, "--env-file", f)
		}
	}
	for _, f := range s.ComposeFiles() {
		args = append(args, "-f", f)
	}
	for _, p := range s.Profiles() {
		args = append(args, "--profile", p)
	}
	return args
}

