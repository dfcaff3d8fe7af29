package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfigNotFound is returned when the project config file does not exist
// and creating it was not allowed. Callers suggest running `stackctl init`.
var ErrConfigNotFound = errors.New("project config not found")

// InvalidConfigError reports a config that fails validation and could not
// be repaired.
type InvalidConfigError struct {
	Path    string
	Reasons []string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid project config %s: %s", e.Path, strings.Join(e.Reasons, "; "))
}
