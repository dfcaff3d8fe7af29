package service

import (
	"testing"

	"github.com/ThomasCrouzet/stackctl/internal/config"
	"github.com/stretchr/testify/assert"
)

// chain builds a <- b <- c where c depends on b and b on a.
func chain(a, b, c config.Enablement) (*Registry, []*Service) {
	sa := newTestService("a", a, []string{"cap-a"}, nil)
	sb := newTestService("b", b, []string{"cap-b"}, []string{"cap-a"})
	sc := newTestService("c", c, nil, []string{"cap-b"})
	return registryOf(sa, sb, sc), []*Service{sa, sb, sc}
}

func enabledFlags(services []*Service) []bool {
	out := make([]bool, len(services))
	for i, s := range services {
		out[i] = s.IsEnabled()
	}
	return out
}

func TestResolve(t *testing.T) {
	auto, on, off := config.EnabledAuto, config.EnabledTrue, config.EnabledFalse

	tests := []struct {
		name    string
		a, b, c config.Enablement
		want    []bool
	}{
		{"transitive auto chain", auto, auto, on, []bool{true, true, true}},
		{"chain anchored on disabled", auto, auto, off, []bool{false, false, false}},
		{"explicit false is kept", off, auto, on, []bool{false, true, true}},
		{"explicit true without dependents", on, off, off, []bool{true, false, false}},
		{"auto without dependents", auto, off, off, []bool{false, false, false}},
		{"unset counts as true", auto, auto, "", []bool{true, true, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, services := chain(tt.a, tt.b, tt.c)
			Resolve(r, BuildGraph(r))
			assert.Equal(t, tt.want, enabledFlags(services))
		})
	}
}

func TestResolveIdempotent(t *testing.T) {
	r, services := chain(config.EnabledAuto, config.EnabledAuto, config.EnabledTrue)
	g := BuildGraph(r)

	changed := Resolve(r, g)
	assert.Len(t, changed, 3)
	first := enabledFlags(services)

	assert.Empty(t, Resolve(r, g))
	assert.Equal(t, first, enabledFlags(services))
}

func TestResolveAutoCycleStaysOff(t *testing.T) {
	a := newTestService("a", config.EnabledAuto, []string{"a"}, []string{"b"})
	b := newTestService("b", config.EnabledAuto, []string{"b"}, []string{"a"})
	r := registryOf(a, b)
	Resolve(r, BuildGraph(r))
	assert.False(t, a.IsEnabled())
	assert.False(t, b.IsEnabled())

	// An enabled dependent pulls the whole cycle in.
	c := newTestService("c", config.EnabledTrue, nil, []string{"a"})
	r.Register(c, false)
	Resolve(r, BuildGraph(r))
	assert.True(t, a.IsEnabled())
	assert.True(t, b.IsEnabled())
}

func TestResolveReportsChanges(t *testing.T) {
	r, services := chain(config.EnabledAuto, config.EnabledAuto, config.EnabledTrue)
	g := BuildGraph(r)
	Resolve(r, g)

	services[2].SetConfigured(config.EnabledFalse)
	changed := Resolve(r, g)
	assert.ElementsMatch(t, services, changed)
	assert.Equal(t, []bool{false, false, false}, enabledFlags(services))
}

func TestIsAutoEnabled(t *testing.T) {
	r, services := chain(config.EnabledAuto, config.EnabledTrue, config.EnabledFalse)
	Resolve(r, BuildGraph(r))

	assert.True(t, IsAutoEnabled(services[0]))
	assert.False(t, IsAutoEnabled(services[1]))
	assert.False(t, IsAutoEnabled(services[2]))
}
