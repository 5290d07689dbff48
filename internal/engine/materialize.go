package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/simonhull/wren/internal/catalog"
	"github.com/simonhull/wren/internal/config"
)

// RenderedFile is one materialized output: a relative path, its content,
// and the content digest. Never mutated after creation.
type RenderedFile struct {
	Path    string
	Content []byte
	Hash    string
	Mode    fs.FileMode
}

// Materializer renders the template catalog against a project config
// into an ordered plan of rendered files.
//
// Materializing the same (catalog, config) pair twice yields
// byte-identical output in identical order. The reconciler's hash
// comparisons depend on this.
type Materializer struct {
	set      *catalog.Set
	renderer *Renderer
}

// NewMaterializer creates a materializer over a loaded catalog.
func NewMaterializer(set *catalog.Set) *Materializer {
	return &Materializer{set: set, renderer: NewRenderer()}
}

// Materialize renders every applicable catalog entry in catalog order.
// Entries whose feature condition is false are excluded. Any render
// failure aborts the whole plan; partial output is never returned.
func (m *Materializer) Materialize(cfg *config.ProjectConfig) ([]RenderedFile, error) {
	data := templateData(cfg)

	var plan []RenderedFile
	seen := make(map[string]string, len(m.set.Entries()))

	for _, entry := range m.set.Entries() {
		if !entry.Applies(cfg) {
			continue
		}

		raw, err := m.set.Read(entry.Source)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", entry.Source, err)
		}

		target, err := m.renderer.Render(entry.Source+"#path", entry.Target, data)
		if err != nil {
			return nil, err
		}
		rel, err := cleanTarget(entry.Source, string(target))
		if err != nil {
			return nil, err
		}

		content := raw
		if !entry.Binary {
			content, err = m.renderer.Render(entry.Source, string(raw), data)
			if err != nil {
				return nil, err
			}
		}

		if prev, dup := seen[rel]; dup {
			return nil, fmt.Errorf("templates %s and %s both target %s", prev, entry.Source, rel)
		}
		seen[rel] = entry.Source

		plan = append(plan, RenderedFile{
			Path:    rel,
			Content: content,
			Hash:    hashBytes(content),
			Mode:    entry.Mode,
		})
	}

	return plan, nil
}

// cleanTarget validates and normalizes a rendered target path. Rendered
// paths must stay inside the project root.
func cleanTarget(source, target string) (string, error) {
	rel := path.Clean(strings.TrimSpace(target))
	if rel == "" || rel == "." || path.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("template %s: rendered target %q escapes the project root", source, target)
	}
	return rel, nil
}

// templateData flattens a ProjectConfig into the substitution context.
func templateData(cfg *config.ProjectConfig) map[string]any {
	features := make(map[string]bool, len(cfg.Features))
	for f := range cfg.Features {
		features[string(f)] = true
	}
	return map[string]any{
		"ProjectName": cfg.Name,
		"PackageName": cfg.PackageName,
		"ModulePath":  cfg.ModulePath,
		"Author":      cfg.Author,
		"Email":       cfg.Email,
		"Description": cfg.Description,
		"License":     cfg.License,
		"Type":        string(cfg.Type),
		"Year":        cfg.Year,
		"GoVersion":   cfg.ToolVersions["go"],
		"Features":    features,
	}
}

// hashBytes returns the hex sha256 digest of content.
func hashBytes(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
