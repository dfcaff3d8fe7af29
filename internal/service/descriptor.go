package service

import (
	"fmt"

	"github.com/ThomasCrouzet/stackctl/internal/config"
	"gopkg.in/yaml.v3"
)

// DescriptorFile is the file every service directory must contain.
const DescriptorFile = "service.yml"

// DefaultComposeFile is used when a descriptor does not name its fragment.
const DefaultComposeFile = "docker-compose.yml"

// DefaultCondition is the readiness condition of a dependency that does not
// declare one.
const DefaultCondition = "service_started"

// Descriptor is the author-written metadata of one service.
type Descriptor struct {
	Name            string            `yaml:"name"`
	DisplayName     string            `yaml:"displayName"`
	Description     string            `yaml:"description"`
	Group           string            `yaml:"group"`
	Disabled        bool              `yaml:"disabled"`
	Enabled         config.Enablement `yaml:"enabled"`
	Compose         string            `yaml:"compose"`
	Profiles        []string          `yaml:"profiles"`
	DefaultProfiles []string          `yaml:"defaultProfiles"`
	Provides        Capabilities      `yaml:"provides"`
	DependsOn       Dependencies      `yaml:"dependsOn"`
	DependsOnCompat Dependencies      `yaml:"depends_on"` // compose spelling, folded into DependsOn
	Repo            *Repo             `yaml:"repo"`
	Endpoints       []Endpoint        `yaml:"endpoints"`
	Volumes         []string          `yaml:"volumes"`
	Env             map[string]string `yaml:"env"`
}

// Repo points at the source repository a service is built from.
type Repo struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch"`
	Dir    string `yaml:"dir"`
}

// Capability is something a service provides, optionally reachable under a
// different container name than the service itself (postgres -> "db").
type Capability struct {
	Name      string
	Container string
}

// Dependency is a capability a service needs before it can start.
type Dependency struct {
	Name      string
	Condition string
}

// Capabilities accepts either a list (`[postgres, "vector: qdrant"]`) or a
// mapping (`{postgres: db}`).
type Capabilities []Capability

// Dependencies accepts either a list or a mapping of capability to
// condition, like compose's depends_on.
type Dependencies []Dependency

func (c *Capabilities) UnmarshalYAML(node *yaml.Node) error {
	pairs, err := decodePairs(node, "provides")
	if err != nil {
		return err
	}
	out := make(Capabilities, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, Capability{Name: p[0], Container: p[1]})
	}
	*c = out
	return nil
}

func (d *Dependencies) UnmarshalYAML(node *yaml.Node) error {
	pairs, err := decodePairs(node, "dependsOn")
	if err != nil {
		return err
	}
	out := make(Dependencies, 0, len(pairs))
	for _, p := range pairs {
		cond := p[1]
		if cond == "" {
			cond = DefaultCondition
		}
		out = append(out, Dependency{Name: p[0], Condition: cond})
	}
	*d = out
	return nil
}

// Names returns the capability names.
func (c Capabilities) Names() []string {
	names := make([]string, len(c))
	for i, cp := range c {
		names[i] = cp.Name
	}
	return names
}

// Names returns the dependency names.
func (d Dependencies) Names() []string {
	names := make([]string, len(d))
	for i, dep := range d {
		names[i] = dep.Name
	}
	return names
}

// decodePairs reads a sequence of scalars / single-key maps, or a mapping,
// into ordered (key, value) pairs.
func decodePairs(node *yaml.Node, field string) ([][2]string, error) {
	var pairs [][2]string
	switch node.Kind {
	case yaml.SequenceNode:
		for _, item := range node.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				pairs = append(pairs, [2]string{item.Value, ""})
			case yaml.MappingNode:
				for i := 0; i+1 < len(item.Content); i += 2 {
					pairs = append(pairs, [2]string{item.Content[i].Value, scalarValue(item.Content[i+1])})
				}
			default:
				return nil, fmt.Errorf("line %d: %s entries must be names or name: value pairs", item.Line, field)
			}
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			pairs = append(pairs, [2]string{node.Content[i].Value, scalarValue(node.Content[i+1])})
		}
	case yaml.ScalarNode:
		if node.Tag != "!!null" && node.Value != "" {
			pairs = append(pairs, [2]string{node.Value, ""})
		}
	default:
		return nil, fmt.Errorf("line %d: %s must be a list or a mapping", node.Line, field)
	}
	for _, p := range pairs {
		if p[0] == "" {
			return nil, fmt.Errorf("%s: empty capability name", field)
		}
	}
	return pairs, nil
}

// scalarValue returns the value of a scalar, or the `condition` /
// `container` key of a nested mapping (compose long form).
func scalarValue(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return ""
		}
		return n.Value
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			switch n.Content[i].Value {
			case "condition", "container":
				return n.Content[i+1].Value
			}
		}
	}
	return ""
}

// ParseDescriptor decodes a descriptor and fills defaults. dirName is used
// when the descriptor has no name.
func ParseDescriptor(data []byte, dirName string) (*Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("yaml parse: %w", err)
	}
	if d.Name == "" {
		d.Name = dirName
	}
	if d.DisplayName == "" {
		d.DisplayName = d.Name
	}
	d.DependsOn = append(d.DependsOn, d.DependsOnCompat...)
	d.DependsOnCompat = nil
	if d.Compose == "" {
		d.Compose = DefaultComposeFile
	}
	if d.Group == "" {
		d.Group = InferGroup(d.Name)
	}
	if d.Enabled != "" && !d.Enabled.Valid() {
		return nil, fmt.Errorf("invalid enabled value %q", d.Enabled)
	}
	for _, p := range d.DefaultProfiles {
		if len(d.Profiles) > 0 && !contains(d.Profiles, p) {
			return nil, fmt.Errorf("default profile %q is not one of %v", p, d.Profiles)
		}
	}
	return &d, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
