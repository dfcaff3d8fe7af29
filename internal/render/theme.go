package render

import (
	"sort"

	"github.com/ThomasCrouzet/stackctl/internal/service"
)

// Theme defines colors for service groups and other elements.
type Theme struct {
	Name   string
	Colors map[string]ThemeColor
}

// ThemeColor defines fill and stroke colors for an element type.
type ThemeColor struct {
	Fill   string
	Stroke string
	Font   string
}

var themes = map[string]*Theme{
	"default": {
		Name: "default",
		Colors: map[string]ThemeColor{
			service.GroupDatabases:  {Fill: "#EDE9FE", Stroke: "#7C3AED", Font: "#5B21B6"},
			service.GroupMiddleware: {Fill: "#E0F2FE", Stroke: "#0284C7", Font: "#075985"},
			service.GroupApps:       {Fill: "#DCFCE7", Stroke: "#16A34A", Font: "#166534"},
			service.GroupTools:      {Fill: "#FEF9C3", Stroke: "#CA8A04", Font: "#854D0E"},
			service.GroupOther:      {Fill: "#F3F4F6", Stroke: "#6B7280", Font: "#374151"},
			"missing":               {Fill: "#FEE2E2", Stroke: "#DC2626", Font: "#991B1B"},
		},
	},
	"dark": {
		Name: "dark",
		Colors: map[string]ThemeColor{
			service.GroupDatabases:  {Fill: "#2E1065", Stroke: "#A78BFA", Font: "#C4B5FD"},
			service.GroupMiddleware: {Fill: "#082F49", Stroke: "#0EA5E9", Font: "#7DD3FC"},
			service.GroupApps:       {Fill: "#052E16", Stroke: "#22C55E", Font: "#86EFAC"},
			service.GroupTools:      {Fill: "#422006", Stroke: "#EAB308", Font: "#FDE047"},
			service.GroupOther:      {Fill: "#1F2937", Stroke: "#9CA3AF", Font: "#D1D5DB"},
			"missing":               {Fill: "#450A0A", Stroke: "#EF4444", Font: "#FCA5A5"},
		},
	},
	"monochrome": {
		Name: "monochrome",
		Colors: map[string]ThemeColor{
			service.GroupDatabases:  {Fill: "#D1D5DB", Stroke: "#4B5563", Font: "#1F2937"},
			service.GroupMiddleware: {Fill: "#E5E7EB", Stroke: "#4B5563", Font: "#1F2937"},
			service.GroupApps:       {Fill: "#F3F4F6", Stroke: "#6B7280", Font: "#374151"},
			service.GroupTools:      {Fill: "#F9FAFB", Stroke: "#9CA3AF", Font: "#4B5563"},
			service.GroupOther:      {Fill: "#F3F4F6", Stroke: "#9CA3AF", Font: "#6B7280"},
			"missing":               {Fill: "#E5E7EB", Stroke: "#374151", Font: "#111827"},
		},
	},
	"ocean": {
		Name: "ocean",
		Colors: map[string]ThemeColor{
			service.GroupDatabases:  {Fill: "#C7D2FE", Stroke: "#6366F1", Font: "#3730A3"},
			service.GroupMiddleware: {Fill: "#DBEAFE", Stroke: "#2563EB", Font: "#1E40AF"},
			service.GroupApps:       {Fill: "#CFFAFE", Stroke: "#0891B2", Font: "#155E75"},
			service.GroupTools:      {Fill: "#E0F2FE", Stroke: "#0284C7", Font: "#075985"},
			service.GroupOther:      {Fill: "#F0F9FF", Stroke: "#38BDF8", Font: "#0369A1"},
			"missing":               {Fill: "#FEE2E2", Stroke: "#DC2626", Font: "#991B1B"},
		},
	},
}

// ThemeNames returns all available theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetTheme returns the named theme or the default.
func GetTheme(name string) *Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["default"]
}

// ColorForGroup returns the theme color for a service group.
func (t *Theme) ColorForGroup(group string) ThemeColor {
	if c, ok := t.Colors[group]; ok {
		return c
	}
	return t.Colors[service.GroupOther]
}

// ColorForElement returns the theme color for a named element.
func (t *Theme) ColorForElement(name string) ThemeColor {
	if c, ok := t.Colors[name]; ok {
		return c
	}
	return ThemeColor{Fill: "#F9FAFB", Stroke: "#D1D5DB", Font: "#111827"}
}
