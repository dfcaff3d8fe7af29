package service

// Edge is one resolved dependency: From needs Capability, provided by To.
type Edge struct {
	From       *Service
	To         *Service
	Capability string
	Condition  string
}

// Graph maps each service to the services that depend on it. It is built
// from a registry snapshot; rebuild it whenever the service set changes.
type Graph struct {
	dependents map[string][]*Service
	edges      []Edge
	order      []*Service

	// Unresolved lists, per service name, the capabilities no registered
	// service provides.
	Unresolved map[string][]string
}

// BuildGraph resolves every dependency through the registry's provider
// index. Dependencies nobody provides are recorded, not fatal.
func BuildGraph(r *Registry) *Graph {
	g := &Graph{
		dependents: make(map[string][]*Service),
		Unresolved: make(map[string][]string),
		order:      r.All(),
	}

	for _, s := range g.order {
		if _, ok := g.dependents[s.ID]; !ok {
			g.dependents[s.ID] = []*Service{}
		}
	}

	for _, s := range g.order {
		for _, dep := range s.DependsOn() {
			provider, _, ok := r.GetByProvidedCapability(dep.Name)
			if !ok {
				g.Unresolved[s.Name] = append(g.Unresolved[s.Name], dep.Name)
				continue
			}
			g.edges = append(g.edges, Edge{From: s, To: provider, Capability: dep.Name, Condition: dep.Condition})
			if !containsService(g.dependents[provider.ID], s) {
				g.dependents[provider.ID] = append(g.dependents[provider.ID], s)
			}
		}
	}

	return g
}

// Dependents returns the services depending on s. The result is never nil.
func (g *Graph) Dependents(s *Service) []*Service {
	deps, ok := g.dependents[s.ID]
	if !ok {
		return []*Service{}
	}
	return append([]*Service{}, deps...)
}

// Providers returns the services s depends on, in declaration order.
func (g *Graph) Providers(s *Service) []*Service {
	var out []*Service
	for _, e := range g.edges {
		if e.From == s && !containsService(out, e.To) {
			out = append(out, e.To)
		}
	}
	return out
}

// Edges returns every resolved dependency.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// Cycles returns dependency cycles as lists of service names. A service
// depending on its own capability shows up as a cycle of one.
func (g *Graph) Cycles() [][]string {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int)
	var stack []*Service
	var cycles [][]string

	var visit func(s *Service)
	visit = func(s *Service) {
		color[s.ID] = grey
		stack = append(stack, s)
		for _, p := range g.Providers(s) {
			switch color[p.ID] {
			case white:
				visit(p)
			case grey:
				var cycle []string
				for i := len(stack) - 1; i >= 0; i-- {
					cycle = append([]string{stack[i].Name}, cycle...)
					if stack[i] == p {
						break
					}
				}
				cycles = append(cycles, cycle)
			}
		}
		stack = stack[:len(stack)-1]
		color[s.ID] = black
	}

	for _, s := range g.order {
		if color[s.ID] == white {
			visit(s)
		}
	}
	return cycles
}

func containsService(list []*Service, s *Service) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
