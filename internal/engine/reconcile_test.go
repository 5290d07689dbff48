package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rendered(path, content string) RenderedFile {
	data := []byte(content)
	return RenderedFile{Path: path, Content: data, Hash: hashBytes(data), Mode: 0o644}
}

func emptyLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := LoadLedger(t.TempDir())
	require.NoError(t, err)
	return l
}

// TestReconcile_DecisionTable exercises every row of the per-path
// decision table with in-memory fixtures.
func TestReconcile_DecisionTable(t *testing.T) {
	planned := rendered("a.txt", "new content")
	generated := []byte("old generated")

	tests := []struct {
		name       string
		disk       Snapshot
		ledger     func(l *Ledger)
		wantKind   ActionKind
		wantReason string
	}{
		{
			name:     "absent on disk",
			disk:     Snapshot{},
			wantKind: ActionCreate,
		},
		{
			name:       "on disk but untracked",
			disk:       Snapshot{"a.txt": []byte("user's own file")},
			wantKind:   ActionSkip,
			wantReason: "pre-existing file not owned by wren",
		},
		{
			name: "generated and already current",
			disk: Snapshot{"a.txt": planned.Content},
			ledger: func(l *Ledger) {
				l.Record("a.txt", planned.Hash, OriginGenerated)
			},
			wantKind:   ActionSkip,
			wantReason: "already current",
		},
		{
			name: "generated and template changed",
			disk: Snapshot{"a.txt": generated},
			ledger: func(l *Ledger) {
				l.Record("a.txt", hashBytes(generated), OriginGenerated)
			},
			wantKind: ActionOverwrite,
		},
		{
			name: "user restored generated content",
			disk: Snapshot{"a.txt": planned.Content},
			ledger: func(l *Ledger) {
				l.Record("a.txt", hashBytes(generated), OriginModified)
			},
			wantKind:   ActionSkip,
			wantReason: "restored to generated content",
		},
		{
			name: "locally modified",
			disk: Snapshot{"a.txt": []byte("user edit")},
			ledger: func(l *Ledger) {
				l.Record("a.txt", hashBytes(generated), OriginModified)
			},
			wantKind:   ActionConflict,
			wantReason: "locally modified",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := emptyLedger(t)
			if tt.ledger != nil {
				tt.ledger(ledger)
			}

			actions := Reconcile([]RenderedFile{planned}, tt.disk, ledger)
			require.Len(t, actions, 1)
			assert.Equal(t, "a.txt", actions[0].Path)
			assert.Equal(t, tt.wantKind, actions[0].Kind, "got %s", actions[0].Kind)
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, actions[0].Reason)
			}
		})
	}
}

func TestReconcile_StalePaths(t *testing.T) {
	ledger := emptyLedger(t)
	ledger.Record("removed/by-flag.yml", "h1", OriginGenerated)
	ledger.Record("kept.txt", "h2", OriginGenerated)

	plan := []RenderedFile{rendered("kept.txt", "content")}
	actions := Reconcile(plan, Snapshot{}, ledger)

	var stale []string
	for _, a := range actions {
		if a.Kind == ActionStale {
			stale = append(stale, a.Path)
		}
	}
	assert.Equal(t, []string{"removed/by-flag.yml"}, stale)
}

func TestReconcile_DecisionsAreIndependent(t *testing.T) {
	ledger := emptyLedger(t)
	ledger.Record("conflicted.txt", hashBytes([]byte("old")), OriginModified)

	plan := []RenderedFile{
		rendered("new.txt", "brand new"),
		rendered("conflicted.txt", "new version"),
	}
	disk := Snapshot{"conflicted.txt": []byte("user edit")}

	actions := Reconcile(plan, disk, ledger)
	require.Len(t, actions, 2)
	assert.Equal(t, ActionCreate, actions[0].Kind)
	assert.Equal(t, ActionConflict, actions[1].Kind)
}

func TestActionKind_String(t *testing.T) {
	assert.Equal(t, "create", ActionCreate.String())
	assert.Equal(t, "overwrite", ActionOverwrite.String())
	assert.Equal(t, "skip", ActionSkip.String())
	assert.Equal(t, "conflict", ActionConflict.String())
	assert.Equal(t, "stale", ActionStale.String())
}
