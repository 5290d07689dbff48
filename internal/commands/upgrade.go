package commands

import (
	"fmt"

	"github.com/simonhull/wren/internal/catalog"
	"github.com/simonhull/wren/internal/config"
	"github.com/simonhull/wren/internal/engine"
	"github.com/simonhull/wren/internal/exec"
	"github.com/simonhull/wren/internal/output"
	"github.com/simonhull/wren/internal/pipeline"
	"github.com/spf13/cobra"
)

// UpgradeCmd creates the 'upgrade' command for re-applying templates to
// an existing project.
func UpgradeCmd() *cobra.Command {
	var (
		typeFlag      string
		modulePath    string
		author        string
		email         string
		description   string
		license       string
		features      []string
		force         bool
		skipConflicts bool
		interactive   bool
		dryRun        bool
		prune         bool
	)

	cmd := &cobra.Command{
		Use:   "upgrade [project-dir]",
		Short: "Re-apply templates to an existing project",
		Long: `Re-applies the current templates to a previously generated project.

Files you have edited are never overwritten silently: wren compares
each file against the hash recorded in wren.lock and reports a
conflict when both the template and your copy changed. Use --force,
--skip-conflicts, or --interactive to decide what happens to
conflicts.

Example:
  wren upgrade myapp --features ci,docker,lint,git`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]

			if typeFlag == "" {
				typeFlag = "lib"
			}
			projectType, err := config.ParseType(typeFlag)
			if err != nil {
				return err
			}
			enabled, err := config.ParseFeatures(features)
			if err != nil {
				return err
			}

			cfg, err := config.New(config.Options{
				Name:        projectName(root),
				Type:        projectType,
				ModulePath:  modulePath,
				Author:      author,
				Email:       email,
				Description: description,
				License:     license,
				Features:    enabled,
			})
			if err != nil {
				return err
			}

			resolver, err := engine.NewResolver(force, skipConflicts, interactive)
			if err != nil {
				return err
			}

			set, err := catalog.Default()
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(exec.New(nil), !verboseEnabled(cmd))
			eng := engine.New(set,
				engine.WithDryRun(dryRun),
				engine.WithResolver(resolver),
				engine.WithPipeline(pipelineFunc(runner, cfg)),
			)

			report, err := eng.Upgrade(cmd.Context(), cfg, root)
			if err != nil {
				return err
			}

			if report.Recovered {
				output.Warning("wren.lock was unreadable; treated this as a fresh generation (upgrade tracking was reset)")
			}

			printReport(report)

			if prune && len(report.Stale) > 0 && !dryRun {
				if err := engine.RemoveStale(root, report.Stale); err != nil {
					return fmt.Errorf("prune stale files: %w", err)
				}
				for _, p := range report.Stale {
					output.Step("removed " + p)
				}
			}

			if dryRun {
				return nil
			}

			switch {
			case len(report.Conflicts) > 0:
				output.Warning(fmt.Sprintf("Upgrade finished with %d unresolved conflict(s); review them above", len(report.Conflicts)))
			case report.Clean():
				output.Success("Project is up to date")
			default:
				output.Warning("Upgrade finished with warnings; review the output above")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeFlag, "type", "t", "", "Project type: lib, cli, or api")
	cmd.Flags().StringVarP(&modulePath, "module", "m", "", "Go module path of the project")
	cmd.Flags().StringVar(&author, "author", "", "Author name")
	cmd.Flags().StringVar(&email, "email", "", "Author email")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Project description")
	cmd.Flags().StringVar(&license, "license", "", "License identifier (default MIT)")
	cmd.Flags().StringSliceVar(&features, "features", nil, "Feature flags to enable (ci,docker,lint,git)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite conflicted files with generated content")
	cmd.Flags().BoolVar(&skipConflicts, "skip-conflicts", false, "Keep your version of conflicted files")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Decide each conflict interactively")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print planned actions without writing files")
	cmd.Flags().BoolVar(&prune, "prune", false, "Delete files no longer produced by the templates")

	return cmd
}
