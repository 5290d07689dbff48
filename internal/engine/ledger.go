package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// Origin records who last touched a generated file as far as the ledger
// knows.
type Origin string

const (
	// OriginGenerated means the file still holds scaffold-written content.
	OriginGenerated Origin = "generated"
	// OriginModified means the user has edited the file since the last
	// scaffold write.
	OriginModified Origin = "modified"
)

// LedgerName is the manifest file written at the project root.
const LedgerName = "wren.lock"

// lockName is a sibling flock file. The ledger itself is replaced by
// rename on save, so it cannot carry the lock.
const lockName = ".wren.flock"

// ledgerVersion is bumped when the on-disk schema changes.
const ledgerVersion = 1

// LedgerEntry is the persisted record for one materialized path.
type LedgerEntry struct {
	Hash   string `yaml:"hash"`
	Origin Origin `yaml:"origin"`
}

type ledgerDoc struct {
	Version int                    `yaml:"version"`
	Files   map[string]LedgerEntry `yaml:"files"`
}

// Ledger tracks what the scaffold last wrote to a project, keyed by
// path relative to the project root. A path on disk but absent from the
// ledger is pre-existing user content and is never overwritten.
type Ledger struct {
	root  string
	files map[string]LedgerEntry

	// Recovered is set when a prior ledger existed but could not be
	// parsed. The run proceeds as initial generation, but callers should
	// warn that upgrade tracking was lost.
	Recovered bool
}

// LoadLedger reads the ledger from the project root. A missing file
// yields an empty ledger (the initial-generation case); an unreadable or
// unparseable file yields an empty ledger with Recovered set.
func LoadLedger(root string) (*Ledger, error) {
	l := &Ledger{root: root, files: make(map[string]LedgerEntry)}

	data, err := os.ReadFile(filepath.Join(root, LedgerName))
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		l.Recovered = true
		return l, nil
	}

	var doc ledgerDoc
	if err := yaml.Unmarshal(data, &doc); err != nil || doc.Version > ledgerVersion {
		l.Recovered = true
		return l, nil
	}
	for p, e := range doc.Files {
		l.files[p] = e
	}
	return l, nil
}

// Get returns the entry for a path.
func (l *Ledger) Get(path string) (LedgerEntry, bool) {
	e, ok := l.files[path]
	return e, ok
}

// Record sets the entry for a path.
func (l *Ledger) Record(path, hash string, origin Origin) {
	l.files[path] = LedgerEntry{Hash: hash, Origin: origin}
}

// Remove drops a path from the ledger.
func (l *Ledger) Remove(path string) {
	delete(l.files, path)
}

// Len returns the number of tracked paths.
func (l *Ledger) Len() int {
	return len(l.files)
}

// Paths returns tracked paths in sorted order.
func (l *Ledger) Paths() []string {
	out := make([]string, 0, len(l.files))
	for p := range l.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Refresh recomputes the on-disk hash for every tracked path and
// promotes entries whose content diverged to OriginModified. Hashing is
// the single source of truth; mtimes are ignored. Paths missing from
// disk keep their entry (the reconciler recreates them or reports them
// stale).
func (l *Ledger) Refresh() error {
	for p, entry := range l.files {
		data, err := os.ReadFile(filepath.Join(l.root, p))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("rehash %s: %w", p, err)
		}
		if hashBytes(data) != entry.Hash {
			entry.Origin = OriginModified
			l.files[p] = entry
		}
	}
	return nil
}

// Save atomically rewrites the ledger: write to a temporary file in the
// same directory, then rename over the old one. A crash mid-save leaves
// either the old or the new ledger, never a corrupt partial one.
func (l *Ledger) Save() error {
	doc := ledgerDoc{Version: ledgerVersion, Files: l.files}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	target := filepath.Join(l.root, LedgerName)
	tmp, err := os.CreateTemp(l.root, LedgerName+".tmp-*")
	if err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

// Lock takes an advisory file lock on the project root for the duration
// of a run. Concurrent invocations against the same root are not
// supported; the lock serializes them. The returned func releases the
// lock.
func (l *Ledger) Lock() (func(), error) {
	fl := flock.New(filepath.Join(l.root, lockName))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock project: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("project %s is locked by another wren invocation", l.root)
	}
	return func() {
		_ = fl.Unlock()
		_ = os.Remove(fl.Path())
	}, nil
}
