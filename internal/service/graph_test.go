package service

import (
	"testing"

	"github.com/ThomasCrouzet/stackctl/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGraph(t *testing.T) {
	postgres := newTestService("postgres", config.EnabledTrue, []string{"postgres"}, nil)
	qdrant := newTestService("qdrant", config.EnabledTrue, []string{"vector"}, nil)
	n8n := newTestService("n8n", config.EnabledTrue, nil, []string{"postgres", "vector", "redis"})
	flowise := newTestService("flowise", config.EnabledTrue, nil, []string{"postgres", "postgres"})
	r := registryOf(postgres, qdrant, n8n, flowise)

	g := BuildGraph(r)

	assert.Equal(t, []*Service{n8n, flowise}, g.Dependents(postgres))
	assert.Equal(t, []*Service{n8n}, g.Dependents(qdrant))

	deps := g.Dependents(n8n)
	assert.NotNil(t, deps)
	assert.Empty(t, deps)

	assert.Equal(t, []*Service{postgres, qdrant}, g.Providers(n8n))
	assert.Equal(t, map[string][]string{"n8n": {"redis"}}, g.Unresolved)
	assert.Len(t, g.Edges(), 4)
}

func TestGraphDependentsUnknownService(t *testing.T) {
	g := BuildGraph(NewRegistry())
	stranger := newTestService("stranger", config.EnabledTrue, nil, nil)
	deps := g.Dependents(stranger)
	assert.NotNil(t, deps)
	assert.Empty(t, deps)
}

func TestGraphCycles(t *testing.T) {
	tests := []struct {
		name     string
		services func() []*Service
		want     [][]string
	}{
		{
			name: "acyclic",
			services: func() []*Service {
				return []*Service{
					newTestService("a", config.EnabledTrue, []string{"a"}, nil),
					newTestService("b", config.EnabledTrue, []string{"b"}, []string{"a"}),
				}
			},
		},
		{
			name: "two services",
			services: func() []*Service {
				return []*Service{
					newTestService("a", config.EnabledAuto, []string{"a"}, []string{"b"}),
					newTestService("b", config.EnabledAuto, []string{"b"}, []string{"a"}),
				}
			},
			want: [][]string{{"a", "b"}},
		},
		{
			name: "self dependency",
			services: func() []*Service {
				return []*Service{
					newTestService("a", config.EnabledAuto, []string{"a"}, []string{"a"}),
				}
			},
			want: [][]string{{"a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := BuildGraph(registryOf(tt.services()...))
			assert.Equal(t, tt.want, g.Cycles())
		})
	}
}

func TestGraphSelfDependencyIsOwnDependent(t *testing.T) {
	a := newTestService("a", config.EnabledAuto, []string{"a"}, []string{"a"})
	g := BuildGraph(registryOf(a))
	require.Len(t, g.Dependents(a), 1)
	assert.Same(t, a, g.Dependents(a)[0])
}
