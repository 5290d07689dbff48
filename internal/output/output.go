// Package output provides styled terminal output for the wren CLI.
//
// All user-facing messages go through this package so the tool has one
// consistent voice. Functions use lipgloss for styling but abstract away
// the details from callers.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	verboseMode bool
	writer      io.Writer = os.Stdout
)

// SetVerbose enables or disables verbose output.
// Called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) {
	verboseMode = v
}

// SetWriter redirects output, mainly for tests.
func SetWriter(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	writer = w
}

// Success prints a completed-operation message in green.
//
// Example:
//
//	output.Success("Created project: myapp")
func Success(msg string) {
	fmt.Fprintln(writer, successStyle.Render("🪶 "+msg))
}

// Error prints a failure that needs user attention in red.
func Error(msg string) {
	fmt.Fprintln(writer, errorStyle.Render("✗ "+msg))
}

// Warning prints a non-fatal problem in yellow. Use this for
// succeeded-with-warnings outcomes such as a failing lint check pass.
func Warning(msg string) {
	fmt.Fprintln(writer, warnStyle.Render("⚠ "+msg))
}

// Info prints a status update or explanation in cyan.
func Info(msg string) {
	fmt.Fprintln(writer, infoStyle.Render("ℹ "+msg))
}

// Step prints an indented step message in gray. Use this for actionable
// next steps or per-file sub-items.
func Step(msg string) {
	fmt.Fprintln(writer, stepStyle.Render("   "+msg))
}

// Verbose prints a debug message only when verbose mode is enabled.
func Verbose(msg string) {
	if verboseMode {
		fmt.Fprintln(writer, stepStyle.Render("· "+msg))
	}
}
