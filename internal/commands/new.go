package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/simonhull/wren/internal/catalog"
	"github.com/simonhull/wren/internal/config"
	"github.com/simonhull/wren/internal/engine"
	"github.com/simonhull/wren/internal/exec"
	"github.com/simonhull/wren/internal/input"
	"github.com/simonhull/wren/internal/output"
	"github.com/simonhull/wren/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewCmd creates the 'new' command for generating projects.
func NewCmd() *cobra.Command {
	var (
		typeFlag    string
		modulePath  string
		author      string
		email       string
		description string
		license     string
		features    []string
		noInput     bool
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "new [project-name]",
		Short: "Create a new Go project",
		Long: `Creates a new Go project from wren's built-in templates:
• go.mod, README, license, .gitignore
• type-specific skeleton (lib, cli, or api)
• optional CI workflow, Dockerfile, lint + hook config

After generating files, wren runs git init, go mod tidy, the lint
fix/check passes, hook installation, and a build check.

Example:
  wren new myapp --type cli --features ci,lint,git`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			defaults, err := config.LoadDefaults()
			if err != nil {
				return fmt.Errorf("load defaults: %w", err)
			}
			if author == "" {
				author = defaults.Author
			}
			if email == "" {
				email = defaults.Email
			}
			if license == "" {
				license = defaults.License
			}
			if len(features) == 0 && len(defaults.Features) > 0 {
				features = defaults.Features
			}

			if !noInput {
				if typeFlag == "" {
					typeFlag = input.Prompt("Project type (lib, cli, api)", "lib")
				}
				if author == "" {
					author = input.Prompt("Author name", "")
				}
				if description == "" {
					description = input.Prompt("Project description", "")
				}
				if modulePath == "" {
					modulePath = input.Prompt("Module path", "example.com/"+name)
				}
			}
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
				Name:        name,
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

			root := filepath.Join(".", cfg.Name)
			if !dryRun {
				if _, err := os.Stat(root); err == nil {
					return fmt.Errorf("directory %s already exists (use 'wren upgrade' to update it)", root)
				}
			}

			set, err := catalog.Default()
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(exec.New(nil), !verboseEnabled(cmd))
			eng := engine.New(set,
				engine.WithDryRun(dryRun),
				engine.WithPipeline(pipelineFunc(runner, cfg)),
			)

			output.Verbose(fmt.Sprintf("Creating %s project: %s", cfg.Type, cfg.Name))
			report, err := eng.Generate(cmd.Context(), cfg, root)
			if err != nil {
				return err
			}

			printReport(report)
			if dryRun {
				return nil
			}

			if report.Clean() {
				output.Success(fmt.Sprintf("Created project: %s", cfg.Name))
			} else {
				output.Warning(fmt.Sprintf("Created project %s with warnings; review the output above", cfg.Name))
			}
			output.Info("Next steps:")
			output.Step(fmt.Sprintf("cd %s", cfg.Name))
			output.Step("go test ./...")
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeFlag, "type", "t", "", "Project type: lib, cli, or api")
	cmd.Flags().StringVarP(&modulePath, "module", "m", "", "Go module path for the generated project")
	cmd.Flags().StringVar(&author, "author", "", "Author name")
	cmd.Flags().StringVar(&email, "email", "", "Author email")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Project description")
	cmd.Flags().StringVar(&license, "license", "", "License identifier (default MIT)")
	cmd.Flags().StringSliceVar(&features, "features", nil, "Feature flags to enable (ci,docker,lint,git)")
	cmd.Flags().BoolVar(&noInput, "no-input", false, "Never prompt; rely on flags and defaults")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print planned actions without writing files")

	return cmd
}
