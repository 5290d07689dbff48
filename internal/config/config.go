// Package config defines the validated project configuration that drives
// template rendering. The CLI layer builds a ProjectConfig from flags and
// prompts; the engine never parses raw command-line text itself.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
)

// ProjectType selects which template group a project is generated from.
type ProjectType string

const (
	TypeLib ProjectType = "lib"
	TypeCLI ProjectType = "cli"
	TypeAPI ProjectType = "api"
)

// Types returns all project types in display order.
func Types() []ProjectType {
	return []ProjectType{TypeLib, TypeCLI, TypeAPI}
}

// Describe returns a one-line description for template listings.
func (t ProjectType) Describe() string {
	switch t {
	case TypeLib:
		return "importable library package"
	case TypeCLI:
		return "command-line application"
	case TypeAPI:
		return "HTTP API service"
	default:
		return "unknown"
	}
}

// ParseType validates a user-supplied project type string.
func ParseType(s string) (ProjectType, error) {
	t := ProjectType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Types() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown project type %q (expected lib, cli, or api)", ErrInvalidConfig, s)
}

// Feature is an optional template group toggled per project.
type Feature string

const (
	FeatureCI     Feature = "ci"     // GitHub Actions workflow
	FeatureDocker Feature = "docker" // Dockerfile + .dockerignore
	FeatureLint   Feature = "lint"   // golangci-lint config + lefthook
	FeatureGit    Feature = "git"    // git init in the post-generation pipeline
)

// Features returns all known feature flags in display order.
func Features() []Feature {
	return []Feature{FeatureCI, FeatureDocker, FeatureLint, FeatureGit}
}

// ParseFeatures validates a comma-separated feature list.
func ParseFeatures(names []string) (map[Feature]bool, error) {
	enabled := make(map[Feature]bool, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		f := Feature(name)
		known := false
		for _, k := range Features() {
			if f == k {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("%w: unknown feature %q", ErrInvalidConfig, name)
		}
		enabled[f] = true
	}
	return enabled, nil
}

// ErrInvalidConfig marks a configuration the engine must refuse before
// touching the filesystem.
var ErrInvalidConfig = errors.New("invalid project configuration")

// ProjectConfig is the validated render context. Construct it with New;
// a zero or hand-built value is not guaranteed to satisfy the package
// name invariant.
type ProjectConfig struct {
	Name        string // Normalized project name (lowercase, dash-separated)
	PackageName string // Derived: Name with dashes as underscores, valid Go identifier
	ModulePath  string // Go module path for the generated project
	Author      string
	Email       string
	Description string
	License     string
	Type        ProjectType
	Features    map[Feature]bool
	// ToolVersions pins the versions templates and pipeline steps refer to,
	// keyed by tool name ("go", "golangci-lint").
	ToolVersions map[string]string
	Year         int
}

// Options carries the raw inputs for New.
type Options struct {
	Name         string
	Type         ProjectType
	ModulePath   string // Defaults to example.com/<name> when empty
	Author       string
	Email        string
	Description  string
	License      string
	Features     map[Feature]bool
	ToolVersions map[string]string
}

// New normalizes and validates the raw inputs into a ProjectConfig.
//
// The project name is lowercased with spaces collapsed to dashes; the
// package name replaces dashes with underscores and must then be a valid
// Go identifier, otherwise New fails with ErrInvalidConfig.
func New(opts Options) (*ProjectConfig, error) {
	name := normalizeName(opts.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: project name must not be empty", ErrInvalidConfig)
	}

	pkg := strings.ReplaceAll(name, "-", "_")
	if !isIdentifier(pkg) {
		return nil, fmt.Errorf("%w: name %q does not derive a valid Go package identifier (%q)", ErrInvalidConfig, opts.Name, pkg)
	}

	if opts.Type == "" {
		return nil, fmt.Errorf("%w: project type must be set", ErrInvalidConfig)
	}
	if _, err := ParseType(string(opts.Type)); err != nil {
		return nil, err
	}

	cfg := &ProjectConfig{
		Name:         name,
		PackageName:  pkg,
		ModulePath:   strings.TrimSpace(opts.ModulePath),
		Author:       strings.TrimSpace(opts.Author),
		Email:        strings.TrimSpace(opts.Email),
		Description:  strings.TrimSpace(opts.Description),
		License:      strings.TrimSpace(opts.License),
		Type:         opts.Type,
		Features:     map[Feature]bool{},
		ToolVersions: map[string]string{},
		Year:         time.Now().Year(),
	}

	for f, on := range opts.Features {
		if on {
			cfg.Features[f] = true
		}
	}
	for tool, version := range opts.ToolVersions {
		cfg.ToolVersions[tool] = version
	}

	if cfg.ModulePath == "" {
		cfg.ModulePath = "example.com/" + name
	}
	if strings.HasPrefix(cfg.ModulePath, "/") || strings.Contains(cfg.ModulePath, " ") {
		return nil, fmt.Errorf("%w: module path %q is not a valid import path", ErrInvalidConfig, cfg.ModulePath)
	}
	if cfg.License == "" {
		cfg.License = "MIT"
	}
	if cfg.ToolVersions["go"] == "" {
		cfg.ToolVersions["go"] = "1.25"
	}
	if err := validateGoVersion(cfg.ToolVersions["go"]); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Enabled reports whether a feature flag is on.
func (c *ProjectConfig) Enabled(f Feature) bool {
	return c.Features[f]
}

// EnabledFeatures returns the enabled flags in stable order.
func (c *ProjectConfig) EnabledFeatures() []Feature {
	var out []Feature
	for f := range c.Features {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// normalizeName lowercases and collapses whitespace runs to single dashes.
func normalizeName(name string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	return strings.Join(fields, "-")
}

// isIdentifier reports whether s is a valid Go identifier.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if unicode.IsLetter(r) || r == '_' {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// validateGoVersion checks an X.Y or X.Y.Z version pin.
func validateGoVersion(v string) error {
	parts := strings.Split(v, ".")
	if len(parts) < 2 {
		return fmt.Errorf("%w: go version %q must be in X.Y form", ErrInvalidConfig, v)
	}
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("%w: go version %q must be numeric", ErrInvalidConfig, v)
		}
		for _, r := range p {
			if !unicode.IsDigit(r) {
				return fmt.Errorf("%w: go version %q must be numeric", ErrInvalidConfig, v)
			}
		}
	}
	return nil
}
