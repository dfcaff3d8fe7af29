package config

import (
	"fmt"

	"dario.cat/mergo"
	"github.com/spf13/viper"
)

// Settings are the CLI-level options, read from flags, STACKCTL_* env vars
// and an optional stackctl.yml next to the project.
type Settings struct {
	ConfigFile    string   `mapstructure:"config"`
	ProjectDir    string   `mapstructure:"project_dir"`
	ServiceDirs   []string `mapstructure:"service_dirs"`
	Verbose       bool     `mapstructure:"verbose"`
	ComposeBinary string   `mapstructure:"compose_binary"`
	Theme         string   `mapstructure:"theme"`
	Direction     string   `mapstructure:"direction"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		ConfigFile:    DefaultFileName,
		ProjectDir:    ".",
		ComposeBinary: "docker",
		Theme:         "default",
		Direction:     "right",
	}
}

// LoadSettings unmarshals the current viper state and fills every unset
// field from DefaultSettings. Unset flags unmarshal as empty strings, so
// empty counts as unset here.
func LoadSettings() (*Settings, error) {
	s := &Settings{}
	if err := viper.Unmarshal(s); err != nil {
		return nil, err
	}
	if err := mergo.Merge(s, DefaultSettings()); err != nil {
		return nil, fmt.Errorf("applying default settings: %w", err)
	}
	return s, nil
}
