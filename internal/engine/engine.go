// Package engine implements wren's template materialization and
// idempotent-upgrade core: rendering the catalog into a plan, deciding
// per-file actions against the on-disk tree and the state ledger,
// applying those actions atomically, and driving the post-generation
// pipeline.
package engine

import (
	"context"
	"fmt"
	"os"

	"github.com/simonhull/wren/internal/catalog"
	"github.com/simonhull/wren/internal/config"
	"github.com/simonhull/wren/internal/output"
	"github.com/simonhull/wren/internal/pipeline"
)

// Conflict is a reported, unapplied collision between template output
// and local edits.
type Conflict struct {
	Path   string
	Reason string
}

// FileError records a single path that failed to apply. One bad file
// never blocks generation of the rest.
type FileError struct {
	Path string
	Err  error
}

// Report is the full outcome of a generate or upgrade run. It lists
// every planned path and its resolution, even on partial failure.
type Report struct {
	Created     []string
	Overwritten []string
	Skipped     []string
	Stale       []string
	Conflicts   []Conflict
	Failed      []FileError

	// Recovered is set when a prior ledger existed but was unreadable;
	// the run proceeded as initial generation.
	Recovered bool
	DryRun    bool
	Pipeline  *pipeline.Result
}

// Clean reports whether the run finished with no conflicts, failures,
// or pipeline problems.
func (r *Report) Clean() bool {
	if len(r.Conflicts) > 0 || len(r.Failed) > 0 {
		return false
	}
	if r.Pipeline != nil && !r.Pipeline.Succeeded {
		return false
	}
	return true
}

// PipelineFunc runs the post-generation pipeline in the project root.
// The engine treats it as opaque: it neither knows nor cares that the
// steps are a dependency installer or a hook runner.
type PipelineFunc func(ctx context.Context, root string) *pipeline.Result

// Engine ties the materializer, ledger, and reconciler together.
type Engine struct {
	mat      *Materializer
	resolver Resolver
	pipeline PipelineFunc
	dryRun   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithResolver sets the conflict resolver. Defaults to ReportResolver.
func WithResolver(r Resolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// WithPipeline sets the post-generation pipeline.
func WithPipeline(fn PipelineFunc) Option {
	return func(e *Engine) { e.pipeline = fn }
}

// WithDryRun makes runs report planned actions without writing anything.
func WithDryRun(dry bool) Option {
	return func(e *Engine) { e.dryRun = dry }
}

// New creates an engine over a loaded template catalog.
func New(set *catalog.Set, opts ...Option) *Engine {
	e := &Engine{
		mat:      NewMaterializer(set),
		resolver: ReportResolver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate materializes the catalog into root, creating the directory
// if needed, and runs the pipeline. On a fresh directory every planned
// path reports Create.
func (e *Engine) Generate(ctx context.Context, cfg *config.ProjectConfig, root string) (*Report, error) {
	plan, err := e.mat.Materialize(cfg)
	if err != nil {
		return nil, err
	}

	if !e.dryRun {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("create project directory: %w", err)
		}
	}

	return e.run(ctx, plan, root)
}

// Upgrade re-applies the current catalog to an existing project. It is
// identical to Generate except that the root must already exist and the
// ledger is expected to be non-empty.
func (e *Engine) Upgrade(ctx context.Context, cfg *config.ProjectConfig, root string) (*Report, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("project root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", root)
	}

	plan, err := e.mat.Materialize(cfg)
	if err != nil {
		return nil, err
	}

	return e.run(ctx, plan, root)
}

// run reconciles and applies a materialized plan against root.
func (e *Engine) run(ctx context.Context, plan []RenderedFile, root string) (*Report, error) {
	ledger, err := LoadLedger(root)
	if err != nil {
		return nil, err
	}

	report := &Report{Recovered: ledger.Recovered, DryRun: e.dryRun}

	if !e.dryRun {
		unlock, err := ledger.Lock()
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	if err := ledger.Refresh(); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(plan)+ledger.Len())
	for _, f := range plan {
		paths = append(paths, f.Path)
	}
	paths = append(paths, ledger.Paths()...)

	disk, err := TakeSnapshot(root, paths)
	if err != nil {
		return nil, err
	}

	actions := Reconcile(plan, disk, ledger)

	if e.dryRun {
		collectDryRun(report, actions)
		return report, nil
	}

	e.apply(root, plan, actions, disk, ledger, report)

	if err := ledger.Save(); err != nil {
		return report, fmt.Errorf("save ledger: %w", err)
	}

	if e.pipeline != nil {
		report.Pipeline = e.pipeline(ctx, root)
	}

	return report, nil
}

// apply executes the reconciler's decisions. File errors are accumulated
// per path; application continues for the rest of the plan.
func (e *Engine) apply(root string, plan []RenderedFile, actions []Action, disk Snapshot, ledger *Ledger, report *Report) {
	byPath := make(map[string]RenderedFile, len(plan))
	for _, f := range plan {
		byPath[f.Path] = f
	}

	resolver := e.resolver
	for _, action := range actions {
		switch action.Kind {
		case ActionCreate, ActionOverwrite:
			f := byPath[action.Path]
			if err := writeFileAtomic(root, f); err != nil {
				report.Failed = append(report.Failed, FileError{Path: action.Path, Err: err})
				continue
			}
			ledger.Record(f.Path, f.Hash, OriginGenerated)
			if action.Kind == ActionCreate {
				report.Created = append(report.Created, action.Path)
			} else {
				report.Overwritten = append(report.Overwritten, action.Path)
			}

		case ActionSkip:
			report.Skipped = append(report.Skipped, action.Path)
			// A user-restored file is generated content again.
			if f, planned := byPath[action.Path]; planned {
				if _, tracked := ledger.Get(action.Path); tracked {
					ledger.Record(f.Path, f.Hash, OriginGenerated)
				}
			}

		case ActionConflict:
			f := byPath[action.Path]
			res := ResolutionReport
			if resolver != nil {
				var err error
				res, err = resolver.Resolve(action.Path, disk[action.Path], f.Content)
				if err != nil {
					output.Verbose(fmt.Sprintf("conflict resolver failed for %s: %v", action.Path, err))
					res = ResolutionReport
				}
			}
			switch res {
			case ResolutionOverwrite:
				if err := writeFileAtomic(root, f); err != nil {
					report.Failed = append(report.Failed, FileError{Path: action.Path, Err: err})
					continue
				}
				ledger.Record(f.Path, f.Hash, OriginGenerated)
				report.Overwritten = append(report.Overwritten, action.Path)
			case ResolutionSkip:
				report.Skipped = append(report.Skipped, action.Path)
			case ResolutionCancel:
				resolver = nil
				report.Conflicts = append(report.Conflicts, Conflict{Path: action.Path, Reason: action.Reason})
			default:
				report.Conflicts = append(report.Conflicts, Conflict{Path: action.Path, Reason: action.Reason})
			}

		case ActionStale:
			report.Stale = append(report.Stale, action.Path)
		}
	}
}

// collectDryRun fills a report from decisions without touching disk.
func collectDryRun(report *Report, actions []Action) {
	for _, action := range actions {
		switch action.Kind {
		case ActionCreate:
			report.Created = append(report.Created, action.Path)
		case ActionOverwrite:
			report.Overwritten = append(report.Overwritten, action.Path)
		case ActionSkip:
			report.Skipped = append(report.Skipped, action.Path)
		case ActionConflict:
			report.Conflicts = append(report.Conflicts, Conflict{Path: action.Path, Reason: action.Reason})
		case ActionStale:
			report.Stale = append(report.Stale, action.Path)
		}
	}
}

// RemoveStale deletes reported stale paths and drops them from the
// ledger. Only ever called on explicit user request (--prune); the
// engine never removes stale files on its own.
func RemoveStale(root string, stale []string) error {
	ledger, err := LoadLedger(root)
	if err != nil {
		return err
	}
	unlock, err := ledger.Lock()
	if err != nil {
		return err
	}
	defer unlock()

	for _, p := range stale {
		if err := os.Remove(joinUnderRoot(root, p)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
		ledger.Remove(p)
	}
	return ledger.Save()
}
