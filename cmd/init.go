package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ThomasCrouzet/stackctl/internal/config"
	"github.com/ThomasCrouzet/stackctl/internal/stack"
	"github.com/ThomasCrouzet/stackctl/internal/ui"
	"github.com/ThomasCrouzet/stackctl/internal/wizard"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	initYes  bool
	initName string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create or repair the project config",
	Long: `Create stackctl.json from the built-in template, or repair an existing one
by adding the keys it is missing. Unless --yes is given, a short wizard asks
for the project name and offers to generate an env file from the defaults
declared by the services.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "accept the defaults without prompting")
	initCmd.Flags().StringVar(&initName, "name", "", "project name")
}

func runInit(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}

	fmt.Println(ui.Bold("Scanning environment..."))
	detection := wizard.Detect(nil, settings.ProjectDir)
	if detection.ComposeBinary() == "" {
		ui.Warn("docker compose was not found; stackctl up will not work until it is installed")
	}

	answers := &wizard.InitAnswers{
		ProjectName:   config.Template().ProjectName,
		ComposeBinary: detection.ComposeBinary(),
		WriteEnvFile:  detection.EnvFile == "",
	}
	if !initYes {
		answers, err = wizard.RunInit(detection, config.Template())
		if err != nil {
			return fmt.Errorf("wizard: %w", err)
		}
	}
	if initName != "" {
		answers.ProjectName = initName
	}

	st, _, err := loadStack(cmd, stack.Options{AllowCreate: true, Force: true})
	if err != nil {
		return err
	}

	if answers.ProjectName != "" && answers.ProjectName != st.Config().ProjectName {
		st.SetProjectName(answers.ProjectName)
		if _, err := st.Save(); err != nil {
			printLoadError(err)
			return err
		}
	}
	ui.Success(fmt.Sprintf("Project %s ready (%s)", st.Name(), st.Path()))

	if answers.WriteEnvFile {
		if err := writeEnvFile(st); err != nil {
			fmt.Fprint(os.Stderr, ui.FormatError("Failed to write env file", err.Error(), ""))
			return err
		}
	}

	if answers.ComposeBinary != "" && answers.ComposeBinary != settings.ComposeBinary {
		if err := saveComposeBinary(st.Root(), answers.ComposeBinary); err != nil {
			ui.Warn(err.Error())
		}
	}

	fmt.Println()
	fmt.Printf("Next step: %s\n", ui.Bold("stackctl status"))
	fmt.Printf("           %s\n", ui.Hint("or stackctl configure to pick services and profiles"))
	return nil
}

// writeEnvFile generates the env file unless one exists.
func writeEnvFile(st *stack.Stack) error {
	path := st.EnvFile()
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("  %s\n", ui.Hint(path+" exists, leaving it alone"))
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	content, err := wizard.GenerateEnvFile(st.AllServices(), st.Name())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return err
	}
	ui.Success(fmt.Sprintf("Created %s", path))
	return nil
}

// saveComposeBinary records the chosen compose binary in stackctl.yml.
func saveComposeBinary(root, binary string) error {
	v := viper.New()
	v.Set("compose_binary", binary)
	path := filepath.Join(root, "stackctl.yml")
	if err := v.SafeWriteConfigAs(path); err != nil {
		var exists viper.ConfigFileAlreadyExistsError
		if errors.As(err, &exists) {
			return fmt.Errorf("%s exists; set compose_binary: %s there", path, binary)
		}
		return err
	}
	ui.Success(fmt.Sprintf("Created %s", path))
	return nil
}
