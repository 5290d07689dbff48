package commands

import (
	"fmt"

	"github.com/simonhull/wren/internal/config"
	"github.com/simonhull/wren/internal/output"
	"github.com/spf13/cobra"
)

// TemplatesCmd creates the 'templates' command listing project types
// and feature flags.
func TemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List available project types and feature flags",
		Run: func(cmd *cobra.Command, args []string) {
			output.Info("Project types:")
			for _, t := range config.Types() {
				output.Step(fmt.Sprintf("%-8s %s", t, t.Describe()))
			}
			output.Info("Feature flags:")
			for _, f := range config.Features() {
				output.Step(fmt.Sprintf("%-8s %s", f, describeFeature(f)))
			}
		},
	}
}

func describeFeature(f config.Feature) string {
	switch f {
	case config.FeatureCI:
		return "GitHub Actions workflow"
	case config.FeatureDocker:
		return "Dockerfile and .dockerignore"
	case config.FeatureLint:
		return "golangci-lint config and lefthook hooks"
	case config.FeatureGit:
		return "git init during the post-generation pipeline"
	default:
		return ""
	}
}
