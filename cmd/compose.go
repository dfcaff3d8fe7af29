package cmd

import (
	"fmt"
	"strings"

	"github.com/ThomasCrouzet/stackctl/internal/compose"
	"github.com/ThomasCrouzet/stackctl/internal/config"
	"github.com/ThomasCrouzet/stackctl/internal/service"
	"github.com/ThomasCrouzet/stackctl/internal/stack"
	"github.com/ThomasCrouzet/stackctl/internal/ui"
	"github.com/spf13/cobra"
)

var upCmd = &cobra.Command{
	Use:   "up [SERVICE...]",
	Short: "Start the enabled services",
	Long: `Create the volume directories, build the environment of every enabled
service and start them with docker compose. With service names, only those
services are started; each must be enabled.`,
	RunE: runUp,
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop the stack",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, settings, err := loadStack(cmd, stack.Options{})
		if err != nil {
			return err
		}
		return newRunner(st, settings).Down(cmd.Context(), st.ComposeFiles(), st.Profiles(), st.BaseEnv().Environ())
	},
}

var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "List the stack's containers",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, settings, err := loadStack(cmd, stack.Options{})
		if err != nil {
			return err
		}
		return newRunner(st, settings).Ps(cmd.Context(), st.ComposeFiles(), st.Profiles(), st.BaseEnv().Environ())
	},
}

var upPrint bool

func init() {
	rootCmd.AddCommand(upCmd, downCmd, psCmd)
	upCmd.Flags().BoolVar(&upPrint, "print", false, "print the docker compose command instead of running it")
}

func newRunner(st *stack.Stack, settings *config.Settings) *compose.Runner {
	return &compose.Runner{
		Binary:      settings.ComposeBinary,
		ProjectName: st.Name(),
		EnvFile:     st.EnvFile(),
		Dir:         st.Root(),
	}
}

func runUp(cmd *cobra.Command, args []string) error {
	st, settings, err := loadStack(cmd, stack.Options{})
	if err != nil {
		return err
	}

	var targets []*service.Service
	if len(args) > 0 {
		targets, err = lookupServices(st, args)
		if err != nil {
			return err
		}
		for _, svc := range targets {
			if !svc.IsEnabled() {
				return fmt.Errorf("%s is not enabled, run 'stackctl enable %s' first", svc.Name, svc.Name)
			}
		}
	}

	if len(st.EnabledServices()) == 0 {
		ui.Warn("no services are enabled")
		return nil
	}
	if upPrint {
		fmt.Printf("docker compose %s up -d\n", strings.Join(st.ComposeArgs(), " "))
		return nil
	}

	ui.StepStarted("Preparing services")
	prepared, err := st.Prepare(cmd.Context())
	if err != nil {
		fmt.Print(ui.FormatError("Preparing services failed", err.Error(), ""))
		return err
	}
	ui.StepDone("Preparing services", fmt.Sprintf("(%d)", len(prepared)))

	merged := stack.MergeEnv(st.BaseEnv(), prepared)
	runner := newRunner(st, settings)

	if len(targets) == 0 {
		return runner.Up(cmd.Context(), st.ComposeFiles(), st.Profiles(), merged.Environ())
	}
	for _, svc := range targets {
		if err := svc.Start(cmd.Context(), runner, merged); err != nil {
			return err
		}
		ui.Success("Started " + svc.Name)
	}
	return nil
}
