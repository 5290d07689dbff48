// Package exec runs external toolchain commands with captured output,
// per-command timeouts, and optional spinner feedback.
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"strings"
	"time"
)

// Command describes a single external invocation.
type Command struct {
	Program string
	Args    []string
	Dir     string        // Working directory ("" = inherit)
	Env     []string      // Additional environment variables
	Timeout time.Duration // 0 = no timeout
}

// String returns the command line for display and debugging.
func (c Command) String() string {
	return strings.Join(append([]string{c.Program}, c.Args...), " ")
}

// Result captures the outcome of a completed command. A non-zero exit
// code is an outcome, not an error: Run only returns an error when the
// command could not be started or ran out of time.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	TimedOut bool
}

// Ok reports whether the command exited cleanly.
func (r *Result) Ok() bool {
	return r != nil && !r.TimedOut && r.ExitCode == 0
}

// CombinedOutput joins stdout and stderr for error reporting.
func (r *Result) CombinedOutput() string {
	out := strings.TrimSpace(r.Stdout)
	errOut := strings.TrimSpace(r.Stderr)
	switch {
	case out == "":
		return errOut
	case errOut == "":
		return out
	default:
		return out + "\n" + errOut
	}
}

// Executor runs commands. It captures output for the caller and can
// mirror it to a writer in verbose mode.
type Executor struct {
	mirror io.Writer // Mirror child output here when non-nil
	env    []string

	// Swappable for tests.
	commandFunc func(ctx context.Context, name string, args ...string) *osexec.Cmd
}

// Options configures an Executor.
type Options struct {
	Mirror io.Writer // Stream child output here in addition to capturing it
	Env    []string
}

// New creates an executor with sensible defaults.
func New(opts *Options) *Executor {
	e := &Executor{commandFunc: osexec.CommandContext}
	if opts != nil {
		e.mirror = opts.Mirror
		e.env = opts.Env
	}
	return e
}

// ErrTimeout marks a command that was killed after exceeding its timeout.
var ErrTimeout = errors.New("command timed out")

// Run executes a command and waits for it to finish. The returned Result
// is non-nil whenever the process actually ran, including non-zero exits
// and timeouts.
func (e *Executor) Run(ctx context.Context, cmd Command) (*Result, error) {
	runCtx := ctx
	var cancel context.CancelFunc
	if cmd.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	proc := e.commandFunc(runCtx, cmd.Program, cmd.Args...)
	proc.Dir = cmd.Dir
	if len(e.env) > 0 || len(cmd.Env) > 0 {
		proc.Env = append(os.Environ(), append(e.env, cmd.Env...)...)
	}

	var stdout, stderr bytes.Buffer
	if e.mirror != nil {
		proc.Stdout = io.MultiWriter(&stdout, e.mirror)
		proc.Stderr = io.MultiWriter(&stderr, e.mirror)
	} else {
		proc.Stdout = &stdout
		proc.Stderr = &stderr
	}

	start := time.Now()
	err := proc.Run()
	res := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if runCtx.Err() != nil {
		res.TimedOut = errors.Is(runCtx.Err(), context.DeadlineExceeded)
		res.ExitCode = -1
		if res.TimedOut {
			return res, fmt.Errorf("%s: %w after %s", cmd.Program, ErrTimeout, cmd.Timeout)
		}
		return res, fmt.Errorf("%s cancelled: %w", cmd.Program, runCtx.Err())
	}

	if err != nil {
		var exitErr *osexec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		if isCommandNotFound(err) {
			return nil, enhanceNotFound(err, cmd.Program)
		}
		return nil, fmt.Errorf("failed to start %s: %w", cmd.Program, err)
	}

	return res, nil
}

// isCommandNotFound checks whether an error means the program is missing.
func isCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, osexec.ErrNotFound) ||
		strings.Contains(err.Error(), "executable file not found") ||
		strings.Contains(err.Error(), "command not found")
}

// enhanceNotFound adds an install hint for missing programs.
func enhanceNotFound(err error, program string) error {
	return fmt.Errorf("%w\n💡 Command '%s' not found. Please install it and try again", err, program)
}
