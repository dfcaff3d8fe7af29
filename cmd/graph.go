package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/ThomasCrouzet/stackctl/internal/render"
	"github.com/ThomasCrouzet/stackctl/internal/stack"
	"github.com/ThomasCrouzet/stackctl/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	graphOutput  string
	detailLevel  string
	autoRender   bool
	renderFormat string
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Draw the service dependency graph as a D2 diagram",
	Long: `Generate a D2 diagram of the services grouped by kind, with one edge per
dependency. Disabled services are faded, auto-enabled ones dashed.

Render the output with: d2 stack.d2 stack.svg (or pass --render).`,
	RunE: runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringVarP(&graphOutput, "output", "o", "", "output D2 file path (default: stdout)")
	graphCmd.Flags().StringVar(&detailLevel, "detail", "standard", "detail level: minimal, standard, detailed")
	graphCmd.Flags().BoolVar(&autoRender, "render", false, "render to SVG/PNG after writing the D2 file (requires d2)")
	graphCmd.Flags().StringVar(&renderFormat, "format", "svg", "output format for --render: svg, png")
	graphCmd.Flags().String("theme", "", "color theme: "+strings.Join(render.ThemeNames(), ", "))
	graphCmd.Flags().String("direction", "", "layout direction: right, down, left, up")
	_ = viper.BindPFlag("theme", graphCmd.Flags().Lookup("theme"))
	_ = viper.BindPFlag("direction", graphCmd.Flags().Lookup("direction"))
}

func runGraph(cmd *cobra.Command, args []string) error {
	st, settings, err := loadStack(cmd, stack.Options{})
	if err != nil {
		return err
	}

	switch detailLevel {
	case "minimal", "standard", "detailed":
	default:
		return fmt.Errorf("unknown detail level %q", detailLevel)
	}
	if autoRender && graphOutput == "" {
		return fmt.Errorf("--render needs --output")
	}

	content := render.RenderGraph(st.AllServices(), st.Graph(), render.Options{
		Title:       st.Name(),
		Direction:   settings.Direction,
		Theme:       settings.Theme,
		DetailLevel: detailLevel,
	})

	if graphOutput == "" {
		fmt.Print(content)
		return nil
	}

	if err := os.WriteFile(graphOutput, []byte(content), 0o644); err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to write output", err.Error(), ""))
		return err
	}
	ui.Success(fmt.Sprintf("Generated %s (%d services)", graphOutput, len(st.AllServices())))

	if autoRender {
		if err := autoRenderD2(graphOutput, renderFormat); err != nil {
			fmt.Fprint(os.Stderr, ui.FormatError("Auto-render failed", err.Error(), "install d2: https://d2lang.com/tour/install"))
		}
	}
	return nil
}

func autoRenderD2(d2File, format string) error {
	if format == "" {
		format = "svg"
	}

	d2Path, err := findExecutable("d2")
	if err != nil {
		return fmt.Errorf("d2 not found in PATH, install it from https://d2lang.com/tour/install")
	}

	outFile := strings.TrimSuffix(d2File, ".d2") + "." + format

	cmd := execCommand(d2Path, d2File, outFile)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("d2 render failed: %w", err)
	}

	ui.Success(fmt.Sprintf("Rendered %s", outFile))
	return nil
}
