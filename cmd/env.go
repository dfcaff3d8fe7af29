package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ThomasCrouzet/stackctl/internal/env"
	"github.com/ThomasCrouzet/stackctl/internal/stack"
	"github.com/spf13/cobra"
)

var envRaw bool

var envCmd = &cobra.Command{
	Use:   "env [SERVICE]",
	Short: "Print the environment passed to docker compose",
	Long: `Print the merged environment of the enabled services, or of one service,
as KEY=value lines. With --raw, ${VAR} references in the env file are left
unexpanded.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEnv,
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolVar(&envRaw, "raw", false, "do not expand ${VAR} references of the env file")
}

func runEnv(cmd *cobra.Command, args []string) error {
	st, _, err := loadStack(cmd, stack.Options{RawEnv: envRaw})
	if err != nil {
		return err
	}

	base := st.BaseEnv()
	if len(args) == 1 {
		services, err := lookupServices(st, args)
		if err != nil {
			return err
		}
		e, err := services[0].LoadEnv(cmd.Context(), base, st.Registry())
		if err != nil {
			return err
		}
		printEnv(e)
		return nil
	}

	var prepared []stack.Prepared
	for _, svc := range st.EnabledServices() {
		e, err := svc.LoadEnv(cmd.Context(), base, st.Registry())
		if err != nil {
			return err
		}
		prepared = append(prepared, stack.Prepared{Service: svc, Env: e})
	}
	printEnv(stack.MergeEnv(base, prepared))
	return nil
}

func printEnv(e env.Env) {
	for _, k := range e.Keys() {
		fmt.Printf("%s=%s\n", k, envValue(e.Get(k)))
	}
}

// envValue quotes values the way a dotenv parser reads them back.
func envValue(v string) string {
	if v == "" || strings.ContainsAny(v, " \t#\"'\\$\n") {
		return strconv.Quote(v)
	}
	return v
}
