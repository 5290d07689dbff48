// Package commands wires the wren CLI. This layer owns flag parsing,
// prompting, and report presentation; the engine only ever sees a
// validated ProjectConfig.
package commands

import (
	"github.com/simonhull/wren"
	"github.com/simonhull/wren/internal/output"
	"github.com/spf13/cobra"
)

// RootCmd creates the root command for the wren CLI.
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "wren",
		Short: "Scaffold Go projects with idempotent upgrades",
		Long: `wren generates new Go project skeletons from built-in templates and
can re-apply updated templates to an existing project without
destroying your edits.

A manifest (wren.lock) tracks what wren last wrote, so upgrades know
the difference between generator-owned drift and your changes.`,
		Version: wren.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")

	return cmd
}
