// Package compose inspects compose fragments and drives docker compose.
package compose

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/ThomasCrouzet/stackctl/internal/service"
	"github.com/ThomasCrouzet/stackctl/internal/util"
	"github.com/compose-spec/compose-go/v2/cli"
	composetypes "github.com/compose-spec/compose-go/v2/types"
	yamlv3 "gopkg.in/yaml.v3"
)

// InspectOptions control how a fragment is loaded.
type InspectOptions struct {
	ProjectName string
	EnvFiles    []string
	Environment []string // KEY=VALUE, used for interpolation
	Interpolate bool
}

// ServiceInfo is one compose service declared in a fragment.
type ServiceInfo struct {
	Name          string
	Image         string
	ContainerName string
	Ports         []service.PortMapping
	Profiles      []string
	DependsOn     []string
}

// Container returns the name other containers reach the service under.
func (s ServiceInfo) Container() string {
	if s.ContainerName != "" {
		return s.ContainerName
	}
	return s.Name
}

// Fragment is what Inspect found in one compose file.
type Fragment struct {
	Path     string
	Services []ServiceInfo // sorted by name
	// Fallback is set when compose rejected the file and it was read as
	// plain YAML instead.
	Fallback bool
}

// Has reports whether name is a service or container name of the fragment.
func (f *Fragment) Has(name string) bool {
	for _, s := range f.Services {
		if s.Name == name || s.ContainerName == name {
			return true
		}
	}
	return false
}

// Profiles returns every profile used in the fragment.
func (f *Fragment) Profiles() []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range f.Services {
		for _, p := range s.Profiles {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Inspect loads a compose file. Services behind a profile are included.
// When compose cannot load the file it is read as plain YAML so that a
// fragment relying on variables that are not set yet can still be listed.
func Inspect(ctx context.Context, path string, opts InspectOptions) (*Fragment, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("compose file %s: %w", path, err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	fns := []cli.ProjectOptionsFn{
		cli.WithInterpolation(opts.Interpolate),
		cli.WithWorkingDirectory(filepath.Dir(path)),
	}
	if opts.ProjectName != "" {
		fns = append(fns, cli.WithName(util.ProjectName(opts.ProjectName)))
	}
	if len(opts.EnvFiles) > 0 {
		files := make([]string, len(opts.EnvFiles))
		for i, f := range opts.EnvFiles {
			files[i] = util.ResolvePath(workDir(), f)
		}
		fns = append(fns, cli.WithEnvFiles(files...))
	}
	fns = append(fns, cli.WithDotEnv)
	if len(opts.Environment) > 0 {
		fns = append(fns, cli.WithEnv(opts.Environment))
	}

	po, err := cli.NewProjectOptions([]string{path}, fns...)
	if err != nil {
		return nil, fmt.Errorf("project options: %w", err)
	}

	project, err := cli.ProjectFromOptions(ctx, po)
	if err != nil {
		return inspectRaw(path)
	}
	return fromProject(project, path), nil
}

func workDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func fromProject(project *composetypes.Project, path string) *Fragment {
	f := &Fragment{Path: path}
	add := func(svc composetypes.ServiceConfig) {
		info := ServiceInfo{
			Name:          svc.Name,
			Image:         svc.Image,
			ContainerName: svc.ContainerName,
			Profiles:      append([]string(nil), svc.Profiles...),
		}
		for _, p := range svc.Ports {
			hostPort, _ := strconv.Atoi(p.Published)
			info.Ports = append(info.Ports, service.PortMapping{
				HostIP:        p.HostIP,
				HostPort:      hostPort,
				ContainerPort: int(p.Target),
				Protocol:      p.Protocol,
			})
		}
		for dep := range svc.DependsOn {
			info.DependsOn = append(info.DependsOn, dep)
		}
		sort.Strings(info.DependsOn)
		f.Services = append(f.Services, info)
	}
	for _, svc := range project.Services {
		add(svc)
	}
	for _, svc := range project.DisabledServices {
		add(svc)
	}
	sortServices(f.Services)
	return f
}

// inspectRaw reads the services section without compose's validation.
func inspectRaw(path string) (*Fragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Services map[string]struct {
			Image         string      `yaml:"image"`
			ContainerName string      `yaml:"container_name"`
			Ports         []any       `yaml:"ports"`
			Profiles      []string    `yaml:"profiles"`
			DependsOn     yamlv3.Node `yaml:"depends_on"`
		} `yaml:"services"`
	}
	if err := yamlv3.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("yaml parse %s: %w", path, err)
	}

	f := &Fragment{Path: path, Fallback: true}
	for name, svc := range raw.Services {
		info := ServiceInfo{
			Name:          name,
			Image:         svc.Image,
			ContainerName: svc.ContainerName,
			Profiles:      svc.Profiles,
			DependsOn:     nodeNames(&svc.DependsOn),
		}
		for _, p := range svc.Ports {
			pm := service.ParsePortMapping(fmt.Sprintf("%v", p))
			if pm.HostPort > 0 {
				info.Ports = append(info.Ports, pm)
			}
		}
		f.Services = append(f.Services, info)
	}
	sortServices(f.Services)
	return f, nil
}

// nodeNames returns the entries of a list or the keys of a mapping.
func nodeNames(n *yamlv3.Node) []string {
	var out []string
	switch n.Kind {
	case yamlv3.SequenceNode:
		for _, item := range n.Content {
			out = append(out, item.Value)
		}
	case yamlv3.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			out = append(out, n.Content[i].Value)
		}
	}
	sort.Strings(out)
	return out
}

func sortServices(list []ServiceInfo) {
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
}

// Check compares a service's descriptor with its fragment and returns the
// inconsistencies found.
func Check(svc *service.Service, f *Fragment) []string {
	var problems []string
	if len(f.Services) == 0 {
		return []string{fmt.Sprintf("%s declares no services", f.Path)}
	}
	for _, c := range svc.Provides() {
		if c.Container != "" && !f.Has(c.Container) {
			problems = append(problems, fmt.Sprintf("capability %s points at container %s, which %s does not define", c.Name, c.Container, filepath.Base(f.Path)))
		}
	}
	used := map[string]bool{}
	for _, p := range f.Profiles() {
		used[p] = true
	}
	for _, p := range svc.AvailableProfiles() {
		if !used[p] {
			problems = append(problems, fmt.Sprintf("profile %s is not used by any service in %s", p, filepath.Base(f.Path)))
		}
	}
	return problems
}
