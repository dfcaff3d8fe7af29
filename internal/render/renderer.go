package render

import "github.com/ThomasCrouzet/stackctl/internal/service"

// Options control diagram output.
type Options struct {
	Title       string // label of the outer container, usually the project name
	Direction   string // right, down, left, up
	Theme       string
	DetailLevel string // minimal, standard, detailed
}

// Renderer defines the interface for diagram generators.
type Renderer interface {
	Render(services []*service.Service, g *service.Graph, opts Options) string
}

// RenderGraph generates a D2 diagram of the services and their
// dependencies.
func RenderGraph(services []*service.Service, g *service.Graph, opts Options) string {
	r := &D2Renderer{DetailLevel: opts.DetailLevel}
	return r.Render(services, g, opts)
}
