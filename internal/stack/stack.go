// Package stack is the run context of one stackctl invocation: it owns the
// project config, the service registry and the dependency graph.
package stack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ThomasCrouzet/stackctl/internal/config"
	"github.com/ThomasCrouzet/stackctl/internal/env"
	"github.com/ThomasCrouzet/stackctl/internal/service"
	"github.com/ThomasCrouzet/stackctl/internal/util"
	"github.com/ThomasCrouzet/stackctl/pkg/logging"
)

const subsystem = "Stack"

// ProjectNameVar is the environment variable compose reads the project
// name from. The config value always wins over it.
const ProjectNameVar = "PROJECT_NAME"

// State is where a Stack is in its load lifecycle.
type State int

const (
	Uninitialized State = iota
	Loading
	Repairing
	Valid
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Repairing:
		return "repairing"
	case Valid:
		return "valid"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Options control Initialize.
type Options struct {
	// AllowCreate writes a config from the template when none exists.
	AllowCreate bool
	// Force discards a cached result and loads again.
	Force bool
	// ServiceDirs are extra service sources, highest priority first. They
	// take precedence over dirs.services and <root>/services.
	ServiceDirs []string
	// EnvLookup reads the process environment. Defaults to os.LookupEnv.
	EnvLookup func(string) (string, bool)
	// RawEnv keeps ${VAR} references of the env file unexpanded.
	RawEnv bool
}

// Result describes what Initialize did.
type Result struct {
	State    State
	Created  bool
	Repaired bool
	Saved    bool
	Version  config.VersionStatus
	Sources  []string
	Messages logging.Messages
}

// Success reports whether the stack loaded.
func (r *Result) Success() bool {
	return r != nil && r.State == Valid
}

// Stack is the explicitly constructed context every command works on.
type Stack struct {
	path  string
	root  string
	cfg   config.ProjectConfig
	state State

	envVars  map[string]string
	registry *service.Registry
	graph    *service.Graph
	result   *Result
}

// For tests.
var osGetwd = os.Getwd

// New returns an uninitialized stack.
func New() *Stack {
	return &Stack{
		registry: service.NewRegistry(),
		graph:    service.BuildGraph(service.NewRegistry()),
	}
}

// Name returns the compose project name.
func (s *Stack) Name() string {
	return util.ProjectName(s.cfg.ProjectName)
}

// SetProjectName changes the compose project name. Call Save to persist.
func (s *Stack) SetProjectName(name string) {
	s.cfg.ProjectName = name
}

// Root returns the directory holding the project config.
func (s *Stack) Root() string {
	return s.root
}

// Dir returns the absolute path configured for a directory role, or "".
func (s *Stack) Dir(role string) string {
	p := s.cfg.Dir(role)
	if p == "" {
		return ""
	}
	return util.ResolvePath(s.root, p)
}

// Path returns the absolute path of the project config file.
func (s *Stack) Path() string { return s.path }

// State returns the current lifecycle state.
func (s *Stack) State() State { return s.state }

// Config returns the in-memory project config.
func (s *Stack) Config() config.ProjectConfig { return s.cfg }

// Registry returns the service registry.
func (s *Stack) Registry() *service.Registry { return s.registry }

// Graph returns the dependency graph.
func (s *Stack) Graph() *service.Graph { return s.graph }

// EnvFile returns the absolute path of the project's env file.
func (s *Stack) EnvFile() string {
	if s.cfg.EnvFile == "" {
		return ""
	}
	return util.ResolvePath(s.root, s.cfg.EnvFile)
}

// Initialize loads the project config at path, repairing or creating it as
// needed, then loads and resolves the services. A second call returns the
// cached result unless opts.Force is set.
//
// A missing config without AllowCreate yields an error matching
// config.ErrConfigNotFound; an unrepairable one a *config.InvalidConfigError.
func (s *Stack) Initialize(ctx context.Context, path string, opts Options) (*Result, error) {
	if s.result != nil && !opts.Force {
		return s.result, nil
	}

	res := &Result{}
	fail := func(err error) (*Result, error) {
		s.state = Failed
		res.State = Failed
		return res, err
	}

	s.state = Loading
	abs, err := filepath.Abs(util.ExpandPath(path))
	if err != nil {
		return fail(fmt.Errorf("resolving %s: %w", path, err))
	}
	s.path = abs
	s.root = filepath.Dir(abs)

	cfg, err := s.load(abs, opts.AllowCreate, res)
	if err != nil {
		return fail(err)
	}
	s.cfg = cfg

	res.Version = config.CheckVersion(cfg.Version, config.SchemaVersion)
	switch res.Version {
	case config.VersionNewer:
		res.Messages.Warn(subsystem, "config version %s is newer than this binary (%s)", cfg.Version, config.SchemaVersion)
	case config.VersionUnknown:
		res.Messages.Warn(subsystem, "config version %q is not a valid version", cfg.Version)
	}

	s.loadEnvFile(opts.RawEnv, &res.Messages)
	s.checkProjectName(opts.EnvLookup, &res.Messages)

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	sources := s.serviceSources(opts.ServiceDirs, &res.Messages)
	res.Sources = sources

	loaded, err := service.NewLoader(s, cfg.Services).Load(sources)
	if err != nil {
		res.Messages.Append(loaded.Messages)
		return fail(err)
	}
	res.Messages.Append(loaded.Messages)

	s.registry = service.NewRegistry()
	for _, svc := range loaded.Services {
		s.registry.Register(svc, false)
	}
	s.graph = service.BuildGraph(s.registry)
	service.Resolve(s.registry, s.graph)
	s.reportGraph(&res.Messages)

	if res.Created || res.Repaired {
		saved, err := s.Save()
		if err != nil {
			return fail(err)
		}
		res.Saved = saved
	}

	s.state = Valid
	res.State = Valid
	s.result = res
	logging.Debug(subsystem, "loaded %d services from %d sources", s.registry.Len(), len(sources))
	return res, nil
}

// load reads, validates and if needed repairs or creates the config.
func (s *Stack) load(path string, allowCreate bool, res *Result) (config.ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if !allowCreate {
			return config.ProjectConfig{}, fmt.Errorf("%s: %w", path, config.ErrConfigNotFound)
		}
		cfg, err := config.Repair(nil, config.Template())
		if err != nil {
			return config.ProjectConfig{}, err
		}
		res.Created = true
		res.Messages.Info(subsystem, "created %s from template", path)
		return cfg, nil
	}
	if err != nil {
		return config.ProjectConfig{}, fmt.Errorf("reading project config %s: %w", path, err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return config.ProjectConfig{}, &config.InvalidConfigError{Path: path, Reasons: []string{err.Error()}}
	}
	tmpl, err := config.Template().Document()
	if err != nil {
		return config.ProjectConfig{}, err
	}

	check := config.Validate(doc, tmpl)
	if len(check.Problems) > 0 {
		return config.ProjectConfig{}, &config.InvalidConfigError{Path: path, Reasons: check.Reasons()}
	}

	cfg, err := config.Decode(data)
	if err != nil {
		return config.ProjectConfig{}, &config.InvalidConfigError{Path: path, Reasons: []string{err.Error()}}
	}

	if check.Valid {
		if cfg.Dirs == nil {
			cfg.Dirs = map[string]string{}
		}
		if cfg.Services == nil {
			cfg.Services = map[string]config.ServiceSettings{}
		}
		return cfg, nil
	}

	s.state = Repairing
	res.Messages.Info(subsystem, "repairing %s: %v", path, check.Missing)
	repaired, err := config.Repair(doc, config.Template())
	if err != nil {
		return config.ProjectConfig{}, &config.InvalidConfigError{Path: path, Reasons: []string{err.Error()}}
	}
	after, err := config.ValidateConfig(repaired)
	if err != nil {
		return config.ProjectConfig{}, err
	}
	if !after.Valid {
		return config.ProjectConfig{}, &config.InvalidConfigError{Path: path, Reasons: after.Reasons()}
	}
	res.Repaired = true
	return repaired, nil
}

func (s *Stack) loadEnvFile(raw bool, msgs *logging.Messages) {
	s.envVars = map[string]string{}
	path := s.EnvFile()
	if path == "" {
		return
	}
	vars, err := env.LoadFile(path, !raw)
	if errors.Is(err, fs.ErrNotExist) {
		msgs.Debug(subsystem, "no env file at %s", path)
		return
	}
	if err != nil {
		msgs.Warn(subsystem, "%v", err)
		return
	}
	s.envVars = vars
}

// checkProjectName warns when the environment names a different project.
func (s *Stack) checkProjectName(lookup func(string) (string, bool), msgs *logging.Messages) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	want := s.cfg.ProjectName
	if v, ok := lookup(ProjectNameVar); ok && v != "" && v != want {
		msgs.Warn(subsystem, "%s=%s in the environment differs from projectName %q; using %q", ProjectNameVar, v, want, want)
	}
	if v, ok := s.envVars[ProjectNameVar]; ok && v != "" && v != want {
		msgs.Warn(subsystem, "%s=%s in %s differs from projectName %q; using %q", ProjectNameVar, v, s.cfg.EnvFile, want, want)
	}
}

// serviceSources lists the directories to scan, highest priority first:
// explicit dirs, then dirs.services, then <root>/services. The implicit
// default is skipped when it does not exist.
func (s *Stack) serviceSources(extra []string, msgs *logging.Messages) []string {
	var sources []string
	seen := map[string]bool{}
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			sources = append(sources, p)
		}
	}

	for _, d := range extra {
		add(util.ResolvePath(s.root, d))
	}
	if d := s.Dir(config.DirServices); d != "" {
		add(d)
	}

	def := filepath.Join(s.root, config.DirServices)
	if info, err := os.Stat(def); err == nil && info.IsDir() {
		add(def)
	} else if len(sources) == 0 {
		msgs.Debug(subsystem, "no services directory at %s", def)
	}
	return sources
}

func (s *Stack) reportGraph(msgs *logging.Messages) {
	for _, svc := range s.registry.All() {
		for _, c := range s.graph.Unresolved[svc.Name] {
			msgs.Warn(subsystem, "%s depends on %s but no service provides it", svc.Name, c)
		}
	}
	for _, cycle := range s.graph.Cycles() {
		msgs.Warn(subsystem, "dependency cycle: %v", cycle)
	}
}
