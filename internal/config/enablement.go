package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Enablement is the configured enabled state of a service: on, off, or
// derived from its dependents.
type Enablement string

const (
	EnabledTrue  Enablement = "true"
	EnabledFalse Enablement = "false"
	EnabledAuto  Enablement = "auto"
)

// ParseEnablement accepts true/false/auto plus the usual yes/no/on/off spellings.
func ParseEnablement(s string) (Enablement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "enabled", "1":
		return EnabledTrue, nil
	case "false", "no", "off", "disabled", "0":
		return EnabledFalse, nil
	case "auto":
		return EnabledAuto, nil
	}
	return "", fmt.Errorf("invalid enabled value %q (want true, false or auto)", s)
}

// Valid reports whether e is one of the three known values.
func (e Enablement) Valid() bool {
	return e == EnabledTrue || e == EnabledFalse || e == EnabledAuto
}

func (e Enablement) MarshalJSON() ([]byte, error) {
	switch e {
	case EnabledTrue, "":
		return []byte("true"), nil
	case EnabledFalse:
		return []byte("false"), nil
	case EnabledAuto:
		return []byte(`"auto"`), nil
	}
	return nil, fmt.Errorf("invalid enabled value %q", string(e))
}

func (e *Enablement) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*e = fromBool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("enabled: expected true, false or \"auto\", got %s", string(data))
	}
	v, err := ParseEnablement(s)
	if err != nil {
		return err
	}
	*e = v
	return nil
}

func (e *Enablement) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: enabled must be a scalar", node.Line)
	}
	v, err := ParseEnablement(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*e = v
	return nil
}

func fromBool(b bool) Enablement {
	if b {
		return EnabledTrue
	}
	return EnabledFalse
}
