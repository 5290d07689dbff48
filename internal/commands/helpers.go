package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/simonhull/wren/internal/config"
	"github.com/simonhull/wren/internal/engine"
	"github.com/simonhull/wren/internal/output"
	"github.com/simonhull/wren/internal/pipeline"
	"github.com/spf13/cobra"
)

// pipelineFunc adapts a runner plus the project's standard steps into
// the engine's opaque pipeline hook.
func pipelineFunc(runner *pipeline.Runner, cfg *config.ProjectConfig) engine.PipelineFunc {
	steps := pipeline.ProjectSteps(cfg)
	return func(ctx context.Context, root string) *pipeline.Result {
		return runner.Run(ctx, root, steps)
	}
}

// projectName derives a project name from its directory.
func projectName(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		return filepath.Base(root)
	}
	return filepath.Base(abs)
}

// verboseEnabled reports whether --verbose was set on this invocation.
// Spinners and verbose streaming don't mix.
func verboseEnabled(cmd *cobra.Command) bool {
	v, err := cmd.Root().PersistentFlags().GetBool("verbose")
	return err == nil && v
}

// printReport prints every path and its outcome, even on partial
// failure.
func printReport(report *engine.Report) {
	prefix := ""
	if report.DryRun {
		prefix = "[dry run] "
	}

	for _, p := range report.Created {
		output.Step(prefix + "create    " + p)
	}
	for _, p := range report.Overwritten {
		output.Step(prefix + "overwrite " + p)
	}
	for _, p := range report.Skipped {
		output.Verbose(prefix + "skip      " + p)
	}
	for _, c := range report.Conflicts {
		output.Warning(fmt.Sprintf("%sconflict  %s (%s)", prefix, c.Path, c.Reason))
	}
	for _, p := range report.Stale {
		output.Warning(prefix + "stale     " + p + " (no longer generated; use --prune to remove)")
	}
	for _, f := range report.Failed {
		output.Error(fmt.Sprintf("%sfailed    %s: %v", prefix, f.Path, f.Err))
	}

	if report.Pipeline != nil {
		for _, step := range report.Pipeline.Steps {
			switch {
			case step.Skipped:
				output.Verbose("pipeline: skipped " + step.Name)
			case step.Failed:
				output.Warning(fmt.Sprintf("pipeline: %s failed (exit %d)", step.Name, step.ExitCode))
				if step.Output != "" {
					output.Step(step.Output)
				}
			default:
				output.Verbose("pipeline: " + step.Name + " ok")
			}
		}
	}
}
