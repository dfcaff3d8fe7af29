package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ThomasCrouzet/stackctl/internal/config"
	"github.com/stretchr/testify/require"
)

type fakeProject struct {
	root string
	dirs map[string]string
}

func (p fakeProject) Name() string { return "test-stack" }
func (p fakeProject) Root() string { return p.root }
func (p fakeProject) Dir(role string) string {
	if d, ok := p.dirs[role]; ok {
		return filepath.Join(p.root, d)
	}
	return ""
}

// writeService creates <root>/<name>/service.yml with the given body.
func writeService(t *testing.T, root, name, body string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DescriptorFile), []byte(body), 0o644))
	return dir
}

// newTestService builds a service without touching the filesystem.
func newTestService(name string, enabled config.Enablement, provides []string, dependsOn []string) *Service {
	d := &Descriptor{Name: name, DisplayName: name, Group: InferGroup(name), Compose: DefaultComposeFile}
	for _, p := range provides {
		d.Provides = append(d.Provides, Capability{Name: p})
	}
	for _, dep := range dependsOn {
		d.DependsOn = append(d.DependsOn, Dependency{Name: dep, Condition: DefaultCondition})
	}
	return New(d, Options{Dir: "/services/" + name, Settings: &config.ServiceSettings{Enabled: enabled}})
}

func registryOf(services ...*Service) *Registry {
	r := NewRegistry()
	for _, s := range services {
		r.Register(s, false)
	}
	return r
}

func writeDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
