package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ThomasCrouzet/stackctl/internal/service"
	"github.com/ThomasCrouzet/stackctl/internal/util"
)

// D2Renderer generates D2 diagram text.
type D2Renderer struct {
	DetailLevel string // minimal, standard, detailed
}

func (r *D2Renderer) detail() string {
	if r.DetailLevel == "" {
		return "standard"
	}
	return r.DetailLevel
}

// Render draws one container per group and one edge per resolved
// dependency, labelled with the capability. Disabled services are faded
// and auto-enabled ones get a dashed border.
func (r *D2Renderer) Render(services []*service.Service, g *service.Graph, opts Options) string {
	theme := GetTheme(opts.Theme)
	var b strings.Builder

	direction := opts.Direction
	if direction == "" {
		direction = "right"
	}
	fmt.Fprintf(&b, "direction: %s\n\n", direction)

	title := opts.Title
	if title == "" {
		title = "stack"
	}
	fmt.Fprintf(&b, "stack: %s {\n", util.Quote(title))

	groups := make(map[string][]*service.Service)
	for _, svc := range services {
		groups[svc.Group] = append(groups[svc.Group], svc)
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}

	for _, group := range service.SortGroups(names) {
		color := theme.ColorForGroup(group)
		fmt.Fprintf(&b, "  %s: %s {\n", groupID(group), util.Quote(service.GroupLabel(group)))
		fmt.Fprintf(&b, "    style.fill: %q\n", color.Fill)
		fmt.Fprintf(&b, "    style.stroke: %q\n", color.Stroke)
		b.WriteString("\n")

		for _, svc := range sortedServices(groups[group]) {
			r.renderService(&b, svc, theme, "    ")
		}
		b.WriteString("  }\n\n")
	}

	b.WriteString("}\n\n")

	if g != nil {
		r.renderEdges(&b, services, g)
		if r.detail() != "minimal" {
			r.renderUnresolved(&b, services, g, theme)
		}
	}

	return b.String()
}

func (r *D2Renderer) renderService(b *strings.Builder, svc *service.Service, theme *Theme, indent string) {
	fmt.Fprintf(b, "%s%s: %s", indent, util.SanitizeID(svc.Name), util.Quote(r.serviceLabel(svc)))

	props := r.serviceProperties(svc, theme)
	if len(props) > 0 {
		b.WriteString(" {\n")
		for _, prop := range props {
			fmt.Fprintf(b, "%s  %s\n", indent, prop)
		}
		fmt.Fprintf(b, "%s}\n", indent)
	} else {
		b.WriteString("\n")
	}
}

// serviceLabel builds a human-readable label for a service.
func (r *D2Renderer) serviceLabel(svc *service.Service) string {
	name := svc.DisplayName
	if name == "" {
		name = svc.Name
	}
	if r.detail() == "minimal" {
		return name
	}

	var ports []string
	for _, ep := range svc.Endpoints() {
		if p := ep.Mapping().HostPort; p > 0 {
			ports = append(ports, fmt.Sprintf(":%d", p))
		}
	}
	if len(ports) == 0 {
		return name
	}
	if r.detail() == "detailed" {
		return fmt.Sprintf("%s %s", name, strings.Join(ports, " "))
	}
	// Standard: first port only
	return fmt.Sprintf("%s %s", name, ports[0])
}

func (r *D2Renderer) serviceProperties(svc *service.Service, theme *Theme) []string {
	var props []string

	if svc.Group == service.GroupDatabases {
		props = append(props, "shape: cylinder")
	}

	if r.detail() != "minimal" {
		if icon := LookupIcon(svc.Name); icon != "" {
			props = append(props, fmt.Sprintf("icon: %s", icon))
		}
	}

	if r.detail() == "detailed" && svc.Description != "" {
		props = append(props, fmt.Sprintf("tooltip: %q", svc.Description))
	}

	switch {
	case !svc.IsEnabled():
		props = append(props, "style.opacity: 0.4")
	case service.IsAutoEnabled(svc):
		color := theme.ColorForGroup(svc.Group)
		props = append(props, "style.stroke-dash: 3")
		props = append(props, fmt.Sprintf("style.stroke: %q", color.Stroke))
	}

	return props
}

func (r *D2Renderer) renderEdges(b *strings.Builder, services []*service.Service, g *service.Graph) {
	shown := make(map[*service.Service]bool, len(services))
	for _, svc := range services {
		shown[svc] = true
	}

	for _, e := range g.Edges() {
		if !shown[e.From] || !shown[e.To] {
			continue
		}
		from, to := nodePath(e.From), nodePath(e.To)

		var label string
		switch r.detail() {
		case "minimal":
		case "detailed":
			label = fmt.Sprintf(": %s", util.Quote(fmt.Sprintf("%s (%s)", e.Capability, e.Condition)))
		default:
			label = fmt.Sprintf(": %s", util.Quote(e.Capability))
		}

		if !e.From.IsEnabled() {
			fmt.Fprintf(b, "%s -> %s%s { style.stroke-dash: 3 }\n", from, to, label)
		} else {
			fmt.Fprintf(b, "%s -> %s%s\n", from, to, label)
		}
	}
}

// renderUnresolved draws capabilities no service provides.
func (r *D2Renderer) renderUnresolved(b *strings.Builder, services []*service.Service, g *service.Graph, theme *Theme) {
	type missing struct {
		svc        *service.Service
		capability string
	}
	var list []missing
	caps := map[string]bool{}
	for _, svc := range services {
		for _, c := range g.Unresolved[svc.Name] {
			list = append(list, missing{svc, c})
			caps[c] = true
		}
	}
	if len(list) == 0 {
		return
	}

	names := make([]string, 0, len(caps))
	for c := range caps {
		names = append(names, c)
	}
	sort.Strings(names)

	color := theme.ColorForElement("missing")
	b.WriteString("\nunresolved: \"Not provided\" {\n")
	fmt.Fprintf(b, "  style.fill: %q\n", color.Fill)
	fmt.Fprintf(b, "  style.stroke: %q\n", color.Stroke)
	for _, c := range names {
		fmt.Fprintf(b, "  %s: %s\n", util.SanitizeID(c), util.Quote(c))
	}
	b.WriteString("}\n\n")

	for _, m := range list {
		fmt.Fprintf(b, "%s -> unresolved.%s { style.stroke-dash: 3 }\n", nodePath(m.svc), util.SanitizeID(m.capability))
	}
}

func groupID(group string) string {
	if group == "" {
		group = service.GroupOther
	}
	return util.SanitizeID(group)
}

func nodePath(svc *service.Service) string {
	return fmt.Sprintf("stack.%s.%s", groupID(svc.Group), util.SanitizeID(svc.Name))
}

func sortedServices(services []*service.Service) []*service.Service {
	sorted := make([]*service.Service, len(services))
	copy(sorted, services)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}
