package pipeline

import (
	"time"

	"github.com/simonhull/wren/internal/config"
)

// ProjectSteps builds the standard post-generation pipeline for a
// project configuration. Order matters: version control first, then
// dependency sync, then the two hook passes, hook installation, and a
// final build check.
//
// Lint runs twice: pass one in fix mode with its exit code ignored,
// pass two in check mode with its exit code authoritative.
func ProjectSteps(cfg *config.ProjectConfig) []Step {
	var steps []Step

	if cfg.Enabled(config.FeatureGit) {
		steps = append(steps,
			Step{Name: "git init", Program: "git", Args: []string{"init"}, Idempotent: true, Timeout: 30 * time.Second},
			Step{Name: "git add", Program: "git", Args: []string{"add", "."}, Idempotent: true, Timeout: 30 * time.Second},
		)
	}

	steps = append(steps, Step{
		Name:       "go mod tidy",
		Program:    "go",
		Args:       []string{"mod", "tidy"},
		Fatal:      true,
		Idempotent: true,
		Timeout:    2 * time.Minute,
	})

	if cfg.Enabled(config.FeatureLint) {
		steps = append(steps,
			Step{Name: "lint (fix pass)", Program: "golangci-lint", Args: []string{"run", "--fix"}, IgnoreExit: true, Timeout: 2 * time.Minute},
			Step{Name: "lint (check pass)", Program: "golangci-lint", Args: []string{"run"}, Fatal: true, Idempotent: true, Timeout: 2 * time.Minute},
			Step{Name: "install hooks", Program: "lefthook", Args: []string{"install"}, Idempotent: true, Timeout: 30 * time.Second},
		)
	}

	steps = append(steps, Step{
		Name:       "go build",
		Program:    "go",
		Args:       []string{"build", "./..."},
		Fatal:      true,
		Idempotent: true,
		Timeout:    2 * time.Minute,
	})

	return steps
}
