package engine

import (
	"testing"
	"testing/fstest"

	"github.com/simonhull/wren/internal/catalog"
	"github.com/simonhull/wren/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, typ config.ProjectType, features ...config.Feature) *config.ProjectConfig {
	t.Helper()
	enabled := map[config.Feature]bool{}
	for _, f := range features {
		enabled[f] = true
	}
	cfg, err := config.New(config.Options{
		Name:        "widget",
		Type:        typ,
		ModulePath:  "example.com/widget",
		Author:      "Ada",
		Description: "a widget",
		Features:    enabled,
	})
	require.NoError(t, err)
	return cfg
}

func planPaths(plan []RenderedFile) []string {
	out := make([]string, len(plan))
	for i, f := range plan {
		out[i] = f.Path
	}
	return out
}

func TestMaterialize_Deterministic(t *testing.T) {
	set, err := catalog.Default()
	require.NoError(t, err)
	m := NewMaterializer(set)
	cfg := testConfig(t, config.TypeCLI, config.FeatureCI, config.FeatureLint)

	first, err := m.Materialize(cfg)
	require.NoError(t, err)
	second, err := m.Materialize(cfg)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Path, second[i].Path)
		assert.Equal(t, first[i].Content, second[i].Content)
		assert.Equal(t, first[i].Hash, second[i].Hash)
	}
}

func TestMaterialize_ConditionalInclusion(t *testing.T) {
	set, err := catalog.Default()
	require.NoError(t, err)
	m := NewMaterializer(set)

	withoutCI, err := m.Materialize(testConfig(t, config.TypeLib))
	require.NoError(t, err)
	assert.NotContains(t, planPaths(withoutCI), ".github/workflows/ci.yml")

	withCI, err := m.Materialize(testConfig(t, config.TypeLib, config.FeatureCI))
	require.NoError(t, err)
	assert.Contains(t, planPaths(withCI), ".github/workflows/ci.yml")
}

func TestMaterialize_PathPlaceholders(t *testing.T) {
	set, err := catalog.Default()
	require.NoError(t, err)
	m := NewMaterializer(set)

	plan, err := m.Materialize(testConfig(t, config.TypeCLI))
	require.NoError(t, err)

	assert.Contains(t, planPaths(plan), "cmd/widget/main.go")
}

func TestMaterialize_TypeSelection(t *testing.T) {
	set, err := catalog.Default()
	require.NoError(t, err)
	m := NewMaterializer(set)

	lib, err := m.Materialize(testConfig(t, config.TypeLib))
	require.NoError(t, err)
	assert.Contains(t, planPaths(lib), "widget.go")
	assert.NotContains(t, planPaths(lib), "internal/server/server.go")

	api, err := m.Materialize(testConfig(t, config.TypeAPI))
	require.NoError(t, err)
	assert.Contains(t, planPaths(api), "internal/server/server.go")
	assert.NotContains(t, planPaths(api), "widget.go")
}

func TestMaterialize_UnresolvedPlaceholderFailsWholeRun(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/ok.tmpl":  &fstest.MapFile{Data: []byte("fine")},
		"templates/bad.tmpl": &fstest.MapFile{Data: []byte("{{ .Bogus }}")},
	}
	set, err := catalog.New(fsys, []catalog.Entry{
		{Source: "templates/ok.tmpl", Target: "ok.txt"},
		{Source: "templates/bad.tmpl", Target: "bad.txt"},
	})
	require.NoError(t, err)

	plan, err := NewMaterializer(set).Materialize(testConfig(t, config.TypeLib))
	require.Error(t, err)
	assert.Nil(t, plan, "partial output must not be returned")

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "templates/bad.tmpl", renderErr.Template)
	assert.Equal(t, "Bogus", renderErr.Key)
}

func TestMaterialize_DuplicateTargets(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/a.tmpl": &fstest.MapFile{Data: []byte("a")},
		"templates/b.tmpl": &fstest.MapFile{Data: []byte("b")},
	}
	set, err := catalog.New(fsys, []catalog.Entry{
		{Source: "templates/a.tmpl", Target: "same.txt"},
		{Source: "templates/b.tmpl", Target: "same.txt"},
	})
	require.NoError(t, err)

	_, err = NewMaterializer(set).Materialize(testConfig(t, config.TypeLib))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both target")
}

func TestMaterialize_BinaryCopiedVerbatim(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G', 0x00, '{', '{'}
	fsys := fstest.MapFS{
		"templates/logo.png": &fstest.MapFile{Data: raw},
	}
	set, err := catalog.New(fsys, []catalog.Entry{
		{Source: "templates/logo.png", Target: "logo.png", Binary: true},
	})
	require.NoError(t, err)

	plan, err := NewMaterializer(set).Materialize(testConfig(t, config.TypeLib))
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, raw, plan[0].Content)
}

func TestCleanTarget(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		want    string
		wantErr bool
	}{
		{"plain", "README.md", "README.md", false},
		{"nested", "cmd/widget/main.go", "cmd/widget/main.go", false},
		{"cleans dot segments", "./docs/index.md", "docs/index.md", false},
		{"escape", "../outside", "", true},
		{"nested escape", "docs/../../outside", "", true},
		{"absolute", "/etc/passwd", "", true},
		{"empty", "  ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cleanTarget("src", tt.target)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
