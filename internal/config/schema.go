package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// SchemaVersion is the version written by this binary. Bump it whenever
// Template gains keys so older files get repaired on load.
const SchemaVersion = "1.3.0"

// DefaultFileName is the project config file created by `stackctl init`.
const DefaultFileName = "stackctl.json"

// Directory roles known to the template.
const (
	DirVolumes  = "volumes"
	DirImport   = "import"
	DirShared   = "shared"
	DirBackups  = "backups"
	DirServices = "services" // optional override, see grandfathered
)

// grandfathered lists key paths that older configs may lack without being
// invalid. They were added as optional and are never required.
var grandfathered = map[string]bool{
	"dirs." + DirServices: true,
}

// ProjectConfig is the persisted project configuration document.
type ProjectConfig struct {
	Initialized string                     `json:"initialized"`
	Version     string                     `json:"version"`
	ProjectName string                     `json:"projectName"`
	EnvFile     string                     `json:"envFile"`
	Dirs        map[string]string          `json:"dirs"`
	Services    map[string]ServiceSettings `json:"services"`

	// Extra holds top-level keys this binary does not know. They are
	// written back unchanged.
	Extra map[string]json.RawMessage `json:"-"`
}

var knownKeys = map[string]bool{
	"initialized": true,
	"version":     true,
	"projectName": true,
	"envFile":     true,
	"dirs":        true,
	"services":    true,
}

type plainConfig ProjectConfig

// MarshalJSON emits the known fields in declaration order followed by the
// extra keys, sorted.
func (c ProjectConfig) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(plainConfig(c))
	if err != nil {
		return nil, err
	}
	if len(c.Extra) == 0 {
		return data, nil
	}

	keys := make([]string, 0, len(c.Extra))
	for k := range c.Extra {
		if !knownKeys[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b bytes.Buffer
	b.Write(data[:len(data)-1])
	for _, k := range keys {
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		b.WriteByte(',')
		b.Write(name)
		b.WriteByte(':')
		b.Write(c.Extra[k])
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra.
func (c *ProjectConfig) UnmarshalJSON(data []byte) error {
	var plain plainConfig
	if err := json.Unmarshal(data, &plain); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	plain.Extra = nil
	for k, v := range raw {
		if knownKeys[k] {
			continue
		}
		if plain.Extra == nil {
			plain.Extra = map[string]json.RawMessage{}
		}
		plain.Extra[k] = v
	}
	*c = ProjectConfig(plain)
	return nil
}

// ServiceSettings is what the project remembers about one service.
type ServiceSettings struct {
	Enabled  Enablement `json:"enabled"`
	Profiles []string   `json:"profiles,omitempty"`
}

// Template returns a fresh default configuration. Each call allocates new
// maps so callers may mutate the result.
func Template() ProjectConfig {
	return ProjectConfig{
		Initialized: "",
		Version:     SchemaVersion,
		ProjectName: "ai-stack",
		EnvFile:     ".env",
		Dirs: map[string]string{
			DirVolumes: "volumes",
			DirImport:  "import",
			DirShared:  "shared",
			DirBackups: "backups",
		},
		Services: map[string]ServiceSettings{},
	}
}

// Document converts a config to its generic JSON form, the shape the
// validator works on.
func (c ProjectConfig) Document() (map[string]any, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Marshal renders the config the way it is stored on disk.
func (c ProjectConfig) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Decode parses a stored document into a ProjectConfig.
func Decode(data []byte) (ProjectConfig, error) {
	var c ProjectConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return ProjectConfig{}, fmt.Errorf("decoding project config: %w", err)
	}
	return c, nil
}

// Dir returns the configured path for a directory role, or "".
func (c ProjectConfig) Dir(role string) string {
	return c.Dirs[role]
}

// DirRoles returns the configured directory roles in sorted order.
func (c ProjectConfig) DirRoles() []string {
	roles := make([]string, 0, len(c.Dirs))
	for r := range c.Dirs {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	return roles
}
