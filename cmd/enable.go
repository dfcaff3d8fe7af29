package cmd

import (
	"fmt"
	"strings"

	"github.com/ThomasCrouzet/stackctl/internal/config"
	"github.com/ThomasCrouzet/stackctl/internal/service"
	"github.com/ThomasCrouzet/stackctl/internal/stack"
	"github.com/ThomasCrouzet/stackctl/internal/ui"
	"github.com/spf13/cobra"
)

var profileFlag []string

var enableCmd = newEnableCmd("enable", config.EnabledTrue, "Enable services")
var disableCmd = newEnableCmd("disable", config.EnabledFalse, "Disable services")
var autoCmd = newEnableCmd("auto", config.EnabledAuto, "Let services run only when an enabled service needs them")

func init() {
	rootCmd.AddCommand(enableCmd, disableCmd, autoCmd)
	enableCmd.Flags().StringSliceVarP(&profileFlag, "profile", "p", nil, "profiles to select (replaces the current selection)")
}

func newEnableCmd(use string, value config.Enablement, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " SERVICE...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetEnabled(cmd, args, value)
		},
	}
}

func runSetEnabled(cmd *cobra.Command, names []string, value config.Enablement) error {
	st, _, err := loadStack(cmd, stack.Options{})
	if err != nil {
		return err
	}

	services, err := lookupServices(st, names)
	if err != nil {
		return err
	}

	changed := map[string]bool{}
	for _, svc := range services {
		if value == config.EnabledTrue && cmd.Flags().Changed("profile") {
			if err := st.SetProfiles(svc, profileFlag); err != nil {
				return err
			}
		}
		diff, err := st.UpdateEnabled(svc, value)
		if err != nil {
			return err
		}
		for _, c := range diff {
			changed[c.Name] = true
		}
	}

	if _, err := st.Save(); err != nil {
		printLoadError(err)
		return err
	}

	for _, svc := range services {
		ui.Success(fmt.Sprintf("%s: %s", svc.Name, describeState(st, svc)))
	}
	for _, svc := range st.AllServices() {
		if changed[svc.Name] && !contains(names, svc.Name) {
			fmt.Printf("  %s\n", ui.Hint(fmt.Sprintf("%s is now %s", svc.Name, describeState(st, svc))))
		}
	}
	return nil
}

// lookupServices resolves names to services, failing on the first unknown
// one.
func lookupServices(st *stack.Stack, names []string) ([]*service.Service, error) {
	var out []*service.Service
	for _, name := range names {
		svc, ok := st.ServiceByName(name)
		if !ok {
			var known []string
			for _, s := range st.AllServices() {
				known = append(known, s.Name)
			}
			err := fmt.Errorf("unknown service %q", name)
			fmt.Print(ui.FormatError(err.Error(), "known services: "+strings.Join(known, ", "), "run 'stackctl status' to list them"))
			return nil, err
		}
		out = append(out, svc)
	}
	return out, nil
}

func describeState(st *stack.Stack, svc *service.Service) string {
	switch {
	case st.IsAutoEnabled(svc):
		return "enabled (needed by a dependent)"
	case svc.IsEnabled():
		return "enabled"
	case svc.Configured() == config.EnabledAuto:
		return "auto (not needed)"
	default:
		return "disabled"
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
