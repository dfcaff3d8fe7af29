package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/ThomasCrouzet/stackctl/pkg/logging"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CA8A04"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

// FormatError returns a styled multi-line error message.
func FormatError(title, detail, suggestion string) string {
	out := errorStyle.Render("Error: "+title) + "\n"
	if detail != "" {
		out += "  " + detail + "\n"
	}
	if suggestion != "" {
		out += "  " + hintStyle.Render("Hint: "+suggestion) + "\n"
	}
	return out
}

// StepStarted prints a styled status when a long step begins.
func StepStarted(name string) {
	fmt.Printf("  %s %s\n", dimStyle.Render("..."), name)
}

// StepDone prints a styled status when a step finishes.
func StepDone(name, detail string) {
	msg := successStyle.Render("  OK ") + " " + name
	if detail != "" {
		msg += " " + dimStyle.Render(detail)
	}
	// overwrite the "started" line by moving up
	fmt.Printf("\033[1A\033[2K%s\n", msg)
}

// Success prints a green success message.
func Success(msg string) {
	fmt.Println(successStyle.Render(msg))
}

// Warn prints a yellow warning message.
func Warn(msg string) {
	fmt.Println(warnStyle.Render("Warning: " + msg))
}

// Bold renders text in bold.
func Bold(s string) string {
	return boldStyle.Render(s)
}

// Hint renders text in dim italic.
func Hint(s string) string {
	return hintStyle.Render(s)
}

// ValidationOK prints a green check for a valid field.
func ValidationOK(field, detail string) {
	fmt.Printf("  %s %s: %s\n", successStyle.Render("OK "), field, detail)
}

// ValidationErr prints a red error for an invalid field.
func ValidationErr(field, message, suggestion string) {
	fmt.Printf("  %s %s: %s\n", errorStyle.Render("ERR"), field, message)
	if suggestion != "" {
		fmt.Printf("      %s\n", hintStyle.Render("Hint: "+suggestion))
	}
}

// PrintMessages writes diagnostics at or above level, one per line.
func PrintMessages(w io.Writer, msgs logging.Messages, level logging.LogLevel) {
	for _, m := range msgs.AtLeast(level) {
		var label string
		switch m.Level {
		case logging.LevelError:
			label = errorStyle.Render("ERR ")
		case logging.LevelWarn:
			label = warnStyle.Render("WARN")
		case logging.LevelInfo:
			label = successStyle.Render("INFO")
		default:
			label = dimStyle.Render("DBG ")
		}
		fmt.Fprintf(w, "  %s %s %s\n", label, dimStyle.Render(m.Subsystem+":"), m.Text)
	}
}

// StatusRow is one service line of the status table.
type StatusRow struct {
	Name       string
	Group      string
	Configured string
	Enabled    bool
	Auto       bool
	Profiles   []string
	Provides   []string
	Needs      []string
	Endpoints  []string
}

// State returns the human label of the effective enabled state.
func (r StatusRow) State() string {
	switch {
	case r.Enabled && r.Auto:
		return "on (auto)"
	case r.Enabled:
		return "on"
	default:
		return "off"
	}
}

// StatusTable renders the service status table.
func StatusTable(rows []StatusRow) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers("SERVICE", "GROUP", "CONFIGURED", "STATE", "PROFILES", "PROVIDES", "NEEDS", "ENDPOINTS").
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Bold(true)
			}
			if col == 3 && row >= 0 && row < len(rows) {
				if rows[row].Enabled {
					return style.Inherit(successStyle)
				}
				return style.Inherit(dimStyle)
			}
			return style
		})

	for _, r := range rows {
		t.Row(r.Name, r.Group, r.Configured, r.State(),
			strings.Join(r.Profiles, ","),
			strings.Join(r.Provides, ","),
			strings.Join(r.Needs, ","),
			strings.Join(r.Endpoints, " "))
	}
	return t.Render()
}
