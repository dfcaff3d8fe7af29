package cmd

import (
	"fmt"

	"github.com/ThomasCrouzet/stackctl/internal/config"
	"github.com/ThomasCrouzet/stackctl/internal/stack"
	"github.com/ThomasCrouzet/stackctl/internal/ui"
	"github.com/ThomasCrouzet/stackctl/internal/wizard"
	"github.com/spf13/cobra"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Pick enabled services and profiles interactively",
	RunE:  runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	st, _, err := loadStack(cmd, stack.Options{})
	if err != nil {
		return err
	}

	services := st.AllServices()
	choices, err := wizard.Configure(wizard.Choices(services))
	if err != nil {
		return fmt.Errorf("wizard: %w", err)
	}

	changed := wizard.Changed(services, choices)
	if len(changed) == 0 {
		fmt.Println("Nothing changed.")
		return nil
	}

	for _, c := range changed {
		svc, _ := st.ServiceByName(c.Name)
		if len(c.Available) > 0 {
			if err := st.SetProfiles(svc, c.Profiles); err != nil {
				return err
			}
		}
		value, err := config.ParseEnablement(c.Enabled)
		if err != nil {
			return err
		}
		if _, err := st.UpdateEnabled(svc, value); err != nil {
			return err
		}
	}

	if _, err := st.Save(); err != nil {
		printLoadError(err)
		return err
	}
	ui.Success(fmt.Sprintf("Updated %d services", len(changed)))
	fmt.Println(ui.StatusTable(statusRows(st, services)))
	return nil
}
