package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/ThomasCrouzet/stackctl/pkg/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var settingsFile string

var rootCmd = &cobra.Command{
	Use:   "stackctl",
	Short: "Manage a local AI docker compose stack",
	Long: `stackctl discovers the services of a local AI stack (databases, model
servers, workflow tools), resolves which of them must run from their
declared dependencies, and drives docker compose for the enabled set.

The project state lives in stackctl.json next to the stack.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.LevelWarn
		if viper.GetBool("verbose") {
			level = logging.LevelDebug
		}
		logging.Init(level, os.Stderr)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&settingsFile, "settings", "", "CLI settings file (default: stackctl.yml)")
	flags.StringP("config", "c", "", "project config file (default: stackctl.json)")
	flags.StringP("project-dir", "C", "", "directory holding the stack (default: .)")
	flags.StringSlice("service-dir", nil, "extra service directory, highest priority first (repeatable)")
	flags.BoolP("verbose", "v", false, "show debug diagnostics")
	flags.String("compose-binary", "", "docker, or the path of a standalone docker-compose")

	for key, flag := range map[string]string{
		"config":         "config",
		"project_dir":    "project-dir",
		"service_dirs":   "service-dir",
		"verbose":        "verbose",
		"compose_binary": "compose-binary",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

func initConfig() {
	if settingsFile != "" {
		viper.SetConfigFile(settingsFile)
	} else {
		viper.SetConfigName("stackctl")
		viper.SetConfigType("yml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("STACKCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading settings: %v\n", err)
		}
	}
}
