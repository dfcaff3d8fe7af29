package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ThomasCrouzet/stackctl/internal/config"
	"github.com/ThomasCrouzet/stackctl/internal/stack"
	"github.com/ThomasCrouzet/stackctl/internal/ui"
	"github.com/ThomasCrouzet/stackctl/pkg/logging"
	"github.com/spf13/cobra"
)

// projectPath returns the project config path from the CLI settings.
func projectPath(s *config.Settings) string {
	if filepath.IsAbs(s.ConfigFile) {
		return s.ConfigFile
	}
	return filepath.Join(s.ProjectDir, s.ConfigFile)
}

// serviceDirs returns the configured service directories followed by
// extra, in a new slice.
func serviceDirs(s *config.Settings, extra []string) []string {
	return append(append([]string(nil), s.ServiceDirs...), extra...)
}

// loadStack reads the CLI settings and initializes the stack. Load errors
// are printed with a hint before being returned.
func loadStack(cmd *cobra.Command, opts stack.Options) (*stack.Stack, *config.Settings, error) {
	settings, err := loadSettingsOnly()
	if err != nil {
		return nil, nil, err
	}
	opts.ServiceDirs = serviceDirs(settings, opts.ServiceDirs)

	st := stack.New()
	res, err := st.Initialize(cmd.Context(), projectPath(settings), opts)
	if res != nil {
		printMessages(res.Messages, settings.Verbose)
	}
	if err != nil {
		printLoadError(err)
		return nil, nil, err
	}
	return st, settings, nil
}

func loadSettingsOnly() (*config.Settings, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	return settings, nil
}

func printLoadError(err error) {
	var invalid *config.InvalidConfigError
	var unsafe *stack.UnsafeWriteError
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		fmt.Fprint(os.Stderr, ui.FormatError("Project config not found", err.Error(), "run 'stackctl init' to create one"))
	case errors.As(err, &invalid):
		fmt.Fprint(os.Stderr, ui.FormatError("Invalid project config", strings.Join(invalid.Reasons, "\n  "), "fix "+invalid.Path+" or move it away and run 'stackctl init'"))
	case errors.As(err, &unsafe):
		fmt.Fprint(os.Stderr, ui.FormatError("Refusing to write outside the working directory", err.Error(), "run stackctl from the project directory"))
	default:
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to load stack", err.Error(), ""))
	}
}

func printMessages(msgs logging.Messages, verbose bool) {
	level := logging.LevelWarn
	if verbose {
		level = logging.LevelDebug
	}
	ui.PrintMessages(os.Stderr, msgs, level)
}
