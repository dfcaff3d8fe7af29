package render

import (
	"strings"
	"testing"

	"github.com/ThomasCrouzet/stackctl/internal/config"
	"github.com/ThomasCrouzet/stackctl/internal/service"
	"github.com/stretchr/testify/assert"
)

func newService(name string, enabled config.Enablement, d service.Descriptor) *service.Service {
	d.Name = name
	if d.DisplayName == "" {
		d.DisplayName = name
	}
	if d.Group == "" {
		d.Group = service.InferGroup(name)
	}
	d.Compose = service.DefaultComposeFile
	return service.New(&d, service.Options{
		Dir:      "/services/" + name,
		Settings: &config.ServiceSettings{Enabled: enabled},
	})
}

func sampleStack() ([]*service.Service, *service.Graph) {
	supabase := newService("supabase", config.EnabledAuto, service.Descriptor{
		DisplayName: "Supabase",
		Provides:    service.Capabilities{{Name: "postgres", Container: "db"}},
		Endpoints:   []service.Endpoint{{Name: "api", Port: "8000"}, {Name: "studio", Port: "3000"}},
	})
	qdrant := newService("qdrant", config.EnabledFalse, service.Descriptor{
		Provides: service.Capabilities{{Name: "vector"}},
	})
	n8n := newService("n8n", config.EnabledTrue, service.Descriptor{
		Description: "Workflow automation",
		DependsOn: service.Dependencies{
			{Name: "postgres", Condition: "service_healthy"},
			{Name: "redis", Condition: service.DefaultCondition},
		},
		Endpoints: []service.Endpoint{{Name: "ui", Port: "5678"}},
	})
	flowise := newService("flowise", config.EnabledFalse, service.Descriptor{
		DependsOn: service.Dependencies{{Name: "vector", Condition: service.DefaultCondition}},
	})

	r := service.NewRegistry()
	for _, s := range []*service.Service{supabase, qdrant, n8n, flowise} {
		r.Register(s, false)
	}
	g := service.BuildGraph(r)
	service.Resolve(r, g)
	return r.Ordered(), g
}

func TestRenderGraphStandard(t *testing.T) {
	services, g := sampleStack()
	output := RenderGraph(services, g, Options{Title: "ai-stack", Theme: "default"})

	assert.Contains(t, output, "direction: right")
	assert.Contains(t, output, `stack: "ai-stack" {`)
	assert.Contains(t, output, `databases: "Databases" {`)
	assert.Contains(t, output, `apps: "Apps" {`)
	assert.Contains(t, output, `supabase: "Supabase :8000" {`)
	assert.Contains(t, output, `n8n: "n8n :5678" {`)
	assert.Contains(t, output, "shape: cylinder")
	assert.Contains(t, output, `stack.apps.n8n -> stack.databases.supabase: "postgres"`)
	assert.Contains(t, output, `stack.apps.flowise -> stack.databases.qdrant: "vector" { style.stroke-dash: 3 }`)
	assert.Contains(t, output, `unresolved: "Not provided" {`)
	assert.Contains(t, output, "stack.apps.n8n -> unresolved.redis")
	assert.NotContains(t, output, "tooltip")

	// Databases are drawn before apps.
	assert.Less(t, strings.Index(output, "databases:"), strings.Index(output, "apps:"))
}

func TestRenderGraphStates(t *testing.T) {
	services, g := sampleStack()
	output := RenderGraph(services, g, Options{})

	block := func(name string) string {
		start := strings.Index(output, "    "+name+": ")
		if start < 0 {
			return ""
		}
		end := strings.Index(output[start:], "    }\n")
		return output[start : start+end]
	}

	assert.Contains(t, block("supabase"), "style.stroke-dash: 3", "auto-enabled service is dashed")
	assert.Contains(t, block("qdrant"), "style.opacity: 0.4", "disabled service is faded")
	assert.NotContains(t, block("n8n"), "style.opacity")
	assert.NotContains(t, block("n8n"), "stroke-dash")
}

func TestRenderGraphDetailLevels(t *testing.T) {
	services, g := sampleStack()

	detailed := RenderGraph(services, g, Options{DetailLevel: "detailed"})
	assert.Contains(t, detailed, `supabase: "Supabase :8000 :3000"`)
	assert.Contains(t, detailed, `stack.apps.n8n -> stack.databases.supabase: "postgres (service_healthy)"`)
	assert.Contains(t, detailed, `tooltip: "Workflow automation"`)

	minimal := RenderGraph(services, g, Options{DetailLevel: "minimal", Direction: "down"})
	assert.Contains(t, minimal, "direction: down")
	assert.Contains(t, minimal, "stack.apps.n8n -> stack.databases.supabase\n")
	assert.NotContains(t, minimal, "icon:")
	assert.NotContains(t, minimal, "unresolved")
}

func TestRenderGraphSubset(t *testing.T) {
	services, g := sampleStack()
	var enabled []*service.Service
	for _, s := range services {
		if s.IsEnabled() {
			enabled = append(enabled, s)
		}
	}

	output := RenderGraph(enabled, g, Options{})
	assert.NotContains(t, output, "qdrant")
	assert.NotContains(t, output, "flowise")
	assert.Contains(t, output, "stack.apps.n8n -> stack.databases.supabase")
}

func TestGetTheme(t *testing.T) {
	assert.Equal(t, "dark", GetTheme("dark").Name)
	assert.Equal(t, "default", GetTheme("nope").Name)
	assert.Equal(t, []string{"dark", "default", "monochrome", "ocean"}, ThemeNames())
	assert.Equal(t, GetTheme("default").Colors[service.GroupOther], GetTheme("default").ColorForGroup("custom"))
}

func TestLookupIcon(t *testing.T) {
	assert.Equal(t, selfhst+"/n8n.svg", LookupIcon("n8n"))
	assert.Equal(t, selfhst+"/open-webui.svg", LookupIcon("Open-WebUI"))
	assert.Equal(t, terrastruct+"/dev/postgresql.svg", LookupIcon("postgresql-16"))
	assert.Empty(t, LookupIcon("homegrown"))
}
