package catalog

import (
	"testing"
	"testing/fstest"

	"github.com/simonhull/wren/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Loads(t *testing.T) {
	set, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, set.Entries())

	// Every declared source must be readable.
	for _, e := range set.Entries() {
		_, err := set.Read(e.Source)
		assert.NoError(t, err, "source %s", e.Source)
	}
}

func TestDefault_StableOrder(t *testing.T) {
	set, err := Default()
	require.NoError(t, err)

	first := set.Entries()
	second := set.Entries()
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Source, second[i].Source)
	}
}

func TestNew_UndefinedFeature(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/x.tmpl": &fstest.MapFile{Data: []byte("x")},
	}
	entries := []Entry{
		{Source: "templates/x.tmpl", Target: "x", Feature: config.Feature("telemetry")},
	}

	_, err := New(fsys, entries)
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Reason, "undefined feature flag")
}

func TestNew_MissingSource(t *testing.T) {
	_, err := New(fstest.MapFS{}, []Entry{
		{Source: "templates/gone.tmpl", Target: "gone"},
	})
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Reason, "missing")
}

func TestNew_InvalidTargets(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/x.tmpl": &fstest.MapFile{Data: []byte("x")},
	}

	tests := []struct {
		name   string
		target string
	}{
		{"absolute", "/etc/passwd"},
		{"parent escape", "../outside"},
		{"nested escape", "docs/../../outside"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(fsys, []Entry{{Source: "templates/x.tmpl", Target: tt.target}})
			assert.Error(t, err)
		})
	}
}

func TestEntry_Applies(t *testing.T) {
	libCfg, err := config.New(config.Options{Name: "widget", Type: config.TypeLib})
	require.NoError(t, err)
	ciCfg, err := config.New(config.Options{
		Name:     "widget",
		Type:     config.TypeLib,
		Features: map[config.Feature]bool{config.FeatureCI: true},
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		entry Entry
		cfg   *config.ProjectConfig
		want  bool
	}{
		{"unconditional", Entry{}, libCfg, true},
		{"feature off", Entry{Feature: config.FeatureCI}, libCfg, false},
		{"feature on", Entry{Feature: config.FeatureCI}, ciCfg, true},
		{"matching type", Entry{Types: []config.ProjectType{config.TypeLib}}, libCfg, true},
		{"other type", Entry{Types: []config.ProjectType{config.TypeAPI}}, libCfg, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Applies(tt.cfg))
		})
	}
}
