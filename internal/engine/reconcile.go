package engine

import (
	"fmt"
	"os"
	"path/filepath"
)

// ActionKind classifies the reconciler's per-path decision.
type ActionKind int

const (
	// ActionCreate writes a path that does not exist on disk.
	ActionCreate ActionKind = iota
	// ActionOverwrite replaces scaffold-owned content that drifted from
	// the new plan but was never hand-edited.
	ActionOverwrite
	// ActionSkip leaves the path untouched.
	ActionSkip
	// ActionConflict marks a path where both the template output and the
	// on-disk content changed independently. Reported, never applied.
	ActionConflict
	// ActionStale marks a ledger path absent from the new plan (feature
	// disabled or template removed). Reported; removal is never automatic.
	ActionStale
)

func (k ActionKind) String() string {
	switch k {
	case ActionCreate:
		return "create"
	case ActionOverwrite:
		return "overwrite"
	case ActionSkip:
		return "skip"
	case ActionConflict:
		return "conflict"
	case ActionStale:
		return "stale"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Action is one reconciliation decision. Produced fresh each run, never
// persisted.
type Action struct {
	Path   string
	Kind   ActionKind
	Reason string
}

// Snapshot holds on-disk content keyed by relative path. Paths absent
// from the map do not exist on disk. Keeping the reconciler on an
// in-memory snapshot makes it testable without a filesystem.
type Snapshot map[string][]byte

// TakeSnapshot reads the given paths from the project root. Missing
// files are simply absent from the snapshot.
func TakeSnapshot(root string, paths []string) (Snapshot, error) {
	snap := make(Snapshot, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(filepath.Join(root, p))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		snap[p] = data
	}
	return snap, nil
}

// Reconcile decides, path by path, the safe action for applying a plan
// to an existing tree. Decisions are independent per path; there is no
// cross-file reasoning.
//
// The rule: a file is only ever overwritten automatically when it was
// scaffold-generated and the user has not diverged from the
// last-generated content. Everything else is a skip or a reported
// conflict.
func Reconcile(plan []RenderedFile, disk Snapshot, ledger *Ledger) []Action {
	actions := make([]Action, 0, len(plan))
	planned := make(map[string]bool, len(plan))

	for _, f := range plan {
		planned[f.Path] = true

		existing, onDisk := disk[f.Path]
		if !onDisk {
			actions = append(actions, Action{Path: f.Path, Kind: ActionCreate})
			continue
		}

		entry, tracked := ledger.Get(f.Path)
		if !tracked {
			actions = append(actions, Action{Path: f.Path, Kind: ActionSkip, Reason: "pre-existing file not owned by wren"})
			continue
		}

		if hashBytes(existing) == f.Hash {
			reason := "already current"
			if entry.Origin == OriginModified {
				reason = "restored to generated content"
			}
			actions = append(actions, Action{Path: f.Path, Kind: ActionSkip, Reason: reason})
			continue
		}

		switch entry.Origin {
		case OriginGenerated:
			actions = append(actions, Action{Path: f.Path, Kind: ActionOverwrite, Reason: "template changed"})
		default:
			actions = append(actions, Action{Path: f.Path, Kind: ActionConflict, Reason: "locally modified"})
		}
	}

	// Ledger paths the new plan no longer produces.
	for _, p := range ledger.Paths() {
		if !planned[p] {
			actions = append(actions, Action{Path: p, Kind: ActionStale, Reason: "no longer produced by templates"})
		}
	}

	return actions
}
