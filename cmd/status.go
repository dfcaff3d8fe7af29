package cmd

import (
	"fmt"

	"github.com/ThomasCrouzet/stackctl/internal/service"
	"github.com/ThomasCrouzet/stackctl/internal/stack"
	"github.com/ThomasCrouzet/stackctl/internal/ui"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the services and whether they will run",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	st, _, err := loadStack(cmd, stack.Options{})
	if err != nil {
		return err
	}

	services := st.AllServices()
	if len(services) == 0 {
		ui.Warn("no services found")
		fmt.Println(ui.Hint("add service directories under " + st.Root() + "/services or pass --service-dir"))
		return nil
	}

	fmt.Printf("%s %s\n", ui.Bold("Project"), st.Name())
	fmt.Println(ui.StatusTable(statusRows(st, services)))
	fmt.Printf("%d of %d services enabled\n", len(st.EnabledServices()), len(services))
	return nil
}

func statusRows(st *stack.Stack, services []*service.Service) []ui.StatusRow {
	rows := make([]ui.StatusRow, 0, len(services))
	for _, svc := range services {
		row := ui.StatusRow{
			Name:       svc.Name,
			Group:      service.GroupLabel(svc.Group),
			Configured: string(svc.Configured()),
			Enabled:    svc.IsEnabled(),
			Auto:       st.IsAutoEnabled(svc),
			Profiles:   svc.Profiles,
			Provides:   svc.Provides().Names(),
			Needs:      svc.DependsOn().Names(),
		}
		for _, e := range svc.Endpoints() {
			if u := e.URL(); u != "" {
				row.Endpoints = append(row.Endpoints, u)
			}
		}
		rows = append(rows, row)
	}
	return rows
}
