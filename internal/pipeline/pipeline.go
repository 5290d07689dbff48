// Package pipeline executes the ordered external toolchain steps that
// run after files are materialized: dependency sync, hook passes, hook
// installation, build checks. Steps declare their own fatality and
// idempotence; the runner stays generic.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/simonhull/wren/internal/exec"
	"github.com/simonhull/wren/internal/output"
)

// Step is one external invocation with its execution policy.
type Step struct {
	Name    string
	Program string
	Args    []string
	// Fatal steps abort the remaining pipeline on failure. Non-fatal
	// failures are recorded and execution continues.
	Fatal bool
	// Idempotent steps are safe to re-run; the runner retries them once
	// on failure before recording the result.
	Idempotent bool
	// IgnoreExit treats any exit code as success. Used for fix-mode hook
	// passes, where only the follow-up check pass is authoritative.
	IgnoreExit bool
	Timeout    time.Duration
}

// StepResult records one executed (or skipped) step.
type StepResult struct {
	Name     string
	Command  string
	ExitCode int
	Output   string
	Err      string
	Failed   bool
	TimedOut bool
	Skipped  bool
	Duration time.Duration
}

// Result is the outcome of a whole pipeline run.
type Result struct {
	Steps     []StepResult
	Succeeded bool
	// Aborted is set when a fatal step failure stopped the remaining
	// steps.
	Aborted bool
}

// Failures returns the failed steps for reporting.
func (r *Result) Failures() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if s.Failed {
			out = append(out, s)
		}
	}
	return out
}

// Runner executes steps strictly in declared order.
type Runner struct {
	executor *exec.Executor
	spinner  bool
}

// NewRunner creates a pipeline runner. With spinner enabled, each step
// shows progress feedback while it runs.
func NewRunner(executor *exec.Executor, spinner bool) *Runner {
	return &Runner{executor: executor, spinner: spinner}
}

// Run executes the steps in root. Cancellation between steps stops
// issuing further ones; files already applied stay in place.
func (r *Runner) Run(ctx context.Context, root string, steps []Step) *Result {
	result := &Result{Succeeded: true}

	for _, step := range steps {
		if result.Aborted || ctx.Err() != nil {
			result.Steps = append(result.Steps, StepResult{Name: step.Name, Skipped: true})
			continue
		}

		sr := r.runStep(ctx, root, step)
		if sr.Failed && step.Idempotent {
			output.Verbose(fmt.Sprintf("retrying idempotent step %q", step.Name))
			sr = r.runStep(ctx, root, step)
		}

		// A timed-out step aborts regardless of its own fatality: the
		// child was killed mid-run and later steps cannot trust the tree.
		if sr.Failed {
			result.Succeeded = false
			if step.Fatal || sr.TimedOut {
				result.Aborted = true
			}
		}
		result.Steps = append(result.Steps, sr)
	}

	return result
}

// runStep executes a single step once.
func (r *Runner) runStep(ctx context.Context, root string, step Step) StepResult {
	cmd := exec.Command{
		Program: step.Program,
		Args:    step.Args,
		Dir:     root,
		Timeout: step.Timeout,
	}

	sr := StepResult{Name: step.Name, Command: cmd.String()}
	output.Verbose(fmt.Sprintf("pipeline step %q: %s", step.Name, sr.Command))

	var res *exec.Result
	var err error
	if r.spinner {
		res, err = r.executor.RunWithSpinner(ctx, step.Name, cmd)
	} else {
		res, err = r.executor.Run(ctx, cmd)
	}

	if res != nil {
		sr.ExitCode = res.ExitCode
		sr.Output = res.CombinedOutput()
		sr.Duration = res.Duration
		sr.TimedOut = res.TimedOut
	}
	if err != nil {
		sr.Err = err.Error()
		sr.Failed = true
		return sr
	}
	if !res.Ok() && !step.IgnoreExit {
		sr.Failed = true
	}
	return sr
}
