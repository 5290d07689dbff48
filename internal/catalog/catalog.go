// Package catalog holds the immutable template set wren generates
// projects from. Templates are embedded at build time; each entry maps a
// template source to a target path (itself possibly templated) plus the
// conditions under which the file is included.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/simonhull/wren/internal/config"
)

//go:embed templates
var templatesFS embed.FS

// Entry describes one templated file in the catalog.
type Entry struct {
	// Source is the template path under templates/.
	Source string
	// Target is the output path relative to the project root. It may
	// contain placeholders ({{ .PackageName }}).
	Target string
	// Feature gates inclusion on a feature flag. Empty means always
	// included (subject to Types).
	Feature config.Feature
	// Types restricts the entry to specific project types. Nil means all.
	Types []config.ProjectType
	// Binary entries are copied verbatim without placeholder substitution.
	Binary bool
	// Mode is the file mode for the generated file.
	Mode fs.FileMode
}

// Applies reports whether this entry is included for the given config.
func (e Entry) Applies(cfg *config.ProjectConfig) bool {
	if e.Feature != "" && !cfg.Enabled(e.Feature) {
		return false
	}
	if len(e.Types) == 0 {
		return true
	}
	for _, t := range e.Types {
		if t == cfg.Type {
			return true
		}
	}
	return false
}

// LoadError reports a defective catalog. Generation aborts before any
// filesystem write when the catalog fails to load.
type LoadError struct {
	Source string
	Reason string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("template catalog: %s: %s", e.Source, e.Reason)
}

// Set is the loaded, validated catalog. Entry order is fixed at load
// time and stable for the lifetime of the Set.
type Set struct {
	fsys    fs.FS
	entries []Entry
}

// Default loads the built-in catalog from the embedded filesystem.
func Default() (*Set, error) {
	return New(templatesFS, defaultEntries())
}

// New validates entries against a template filesystem and the known
// feature flags. Loading fails if an entry's condition references an
// undefined flag or its template file is missing.
func New(fsys fs.FS, entries []Entry) (*Set, error) {
	known := make(map[config.Feature]bool, len(config.Features()))
	for _, f := range config.Features() {
		known[f] = true
	}

	for _, e := range entries {
		if e.Feature != "" && !known[e.Feature] {
			return nil, &LoadError{Source: e.Source, Reason: fmt.Sprintf("condition references undefined feature flag %q", e.Feature)}
		}
		if err := validateTarget(e.Target); err != nil {
			return nil, &LoadError{Source: e.Source, Reason: err.Error()}
		}
		if _, err := fs.Stat(fsys, e.Source); err != nil {
			return nil, &LoadError{Source: e.Source, Reason: "template file missing from catalog"}
		}
	}

	return &Set{fsys: fsys, entries: entries}, nil
}

// Entries returns the catalog entries in declaration order. The returned
// slice must not be mutated.
func (s *Set) Entries() []Entry {
	return s.entries
}

// Read returns the raw template bytes for an entry source.
func (s *Set) Read(source string) ([]byte, error) {
	return fs.ReadFile(s.fsys, source)
}

// validateTarget rejects absolute targets and parent-directory escapes.
// The check runs on the raw template here and again on the rendered path
// in the materializer.
func validateTarget(target string) error {
	if target == "" {
		return fmt.Errorf("empty target path")
	}
	if path.IsAbs(target) || strings.HasPrefix(target, "/") {
		return fmt.Errorf("target path %q must be relative", target)
	}
	for _, seg := range strings.Split(target, "/") {
		if seg == ".." {
			return fmt.Errorf("target path %q must not contain parent-directory segments", target)
		}
	}
	return nil
}

// defaultEntries declares the built-in catalog. Order matters: it is the
// materialization order and must stay stable across releases so upgrade
// reports stay comparable.
func defaultEntries() []Entry {
	all := []config.ProjectType(nil)
	return []Entry{
		// Base files for every project type.
		{Source: "templates/base/go.mod.tmpl", Target: "go.mod", Types: all, Mode: 0o644},
		{Source: "templates/base/README.md.tmpl", Target: "README.md", Types: all, Mode: 0o644},
		{Source: "templates/base/gitignore.tmpl", Target: ".gitignore", Types: all, Mode: 0o644},
		{Source: "templates/base/LICENSE.tmpl", Target: "LICENSE", Types: all, Mode: 0o644},
		{Source: "templates/base/gitkeep.tmpl", Target: "docs/.gitkeep", Types: all, Mode: 0o644},

		// Library projects.
		{Source: "templates/lib/lib.go.tmpl", Target: "{{ .PackageName }}.go", Types: []config.ProjectType{config.TypeLib}, Mode: 0o644},
		{Source: "templates/lib/lib_test.go.tmpl", Target: "{{ .PackageName }}_test.go", Types: []config.ProjectType{config.TypeLib}, Mode: 0o644},

		// CLI projects.
		{Source: "templates/cli/main.go.tmpl", Target: "cmd/{{ .PackageName }}/main.go", Types: []config.ProjectType{config.TypeCLI}, Mode: 0o644},
		{Source: "templates/cli/run.go.tmpl", Target: "internal/app/run.go", Types: []config.ProjectType{config.TypeCLI}, Mode: 0o644},

		// API projects.
		{Source: "templates/api/main.go.tmpl", Target: "cmd/{{ .PackageName }}/main.go", Types: []config.ProjectType{config.TypeAPI}, Mode: 0o644},
		{Source: "templates/api/server.go.tmpl", Target: "internal/server/server.go", Types: []config.ProjectType{config.TypeAPI}, Mode: 0o644},
		{Source: "templates/api/routes.go.tmpl", Target: "internal/server/routes.go", Types: []config.ProjectType{config.TypeAPI}, Mode: 0o644},

		// Feature-gated files.
		{Source: "templates/ci/workflow.yml.tmpl", Target: ".github/workflows/ci.yml", Feature: config.FeatureCI, Mode: 0o644},
		{Source: "templates/docker/Dockerfile.tmpl", Target: "Dockerfile", Feature: config.FeatureDocker, Mode: 0o644},
		{Source: "templates/docker/dockerignore.tmpl", Target: ".dockerignore", Feature: config.FeatureDocker, Mode: 0o644},
		{Source: "templates/lint/golangci.yml.tmpl", Target: ".golangci.yml", Feature: config.FeatureLint, Mode: 0o644},
		{Source: "templates/lint/lefthook.yml.tmpl", Target: "lefthook.yml", Feature: config.FeatureLint, Mode: 0o644},
	}
}
