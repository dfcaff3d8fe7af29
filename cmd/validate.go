package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/ThomasCrouzet/stackctl/internal/compose"
	"github.com/ThomasCrouzet/stackctl/internal/stack"
	"github.com/ThomasCrouzet/stackctl/internal/ui"
	"github.com/ThomasCrouzet/stackctl/pkg/logging"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the project config and the service definitions",
	Long: `Check that stackctl.json is valid, that every service descriptor loads,
that every dependency has a provider, and that each compose fragment
defines the containers and profiles its descriptor refers to.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	settings, err := loadSettingsOnly()
	if err != nil {
		return err
	}

	fmt.Println(ui.Bold("Validating " + projectPath(settings) + "..."))

	st := stack.New()
	res, err := st.Initialize(cmd.Context(), projectPath(settings), stack.Options{ServiceDirs: settings.ServiceDirs})
	if err != nil {
		printLoadError(err)
		return err
	}

	passed, failed := 1, 0
	ui.ValidationOK("project config", fmt.Sprintf("version %s, %d services", st.Config().Version, len(st.AllServices())))

	providers := st.Registry().Capabilities()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := providers[name]
		detail := "provided by " + p.Service.Name
		if p.Container != "" {
			detail += " (container " + p.Container + ")"
		}
		ui.ValidationOK("capability "+name, detail)
	}

	for _, m := range res.Messages.AtLeast(logging.LevelWarn) {
		ui.ValidationErr(m.Subsystem, m.Text, "")
		failed++
	}

	var envFiles []string
	if p := st.EnvFile(); p != "" {
		if _, err := os.Stat(p); err == nil {
			envFiles = append(envFiles, p)
		}
	}

	for _, svc := range st.AllServices() {
		frag, err := compose.Inspect(cmd.Context(), svc.ComposeFile, compose.InspectOptions{
			ProjectName: st.Name(),
			EnvFiles:    envFiles,
			Interpolate: true,
		})
		if err != nil {
			ui.ValidationErr(svc.Name, err.Error(), "every service directory needs a compose file")
			failed++
			continue
		}

		problems := compose.Check(svc, frag)
		if len(problems) == 0 {
			detail := fmt.Sprintf("%d containers", len(frag.Services))
			if frag.Fallback {
				detail += " (read without interpolation)"
			}
			ui.ValidationOK(svc.Name, detail)
			passed++
			continue
		}
		for _, p := range problems {
			ui.ValidationErr(svc.Name, p, "")
			failed++
		}
	}

	fmt.Println()
	if failed == 0 {
		ui.Success(fmt.Sprintf("%d checks passed, 0 errors", passed))
		return nil
	}
	fmt.Printf("%d checks passed, %d errors\n", passed, failed)
	return fmt.Errorf("%d validation errors", failed)
}
