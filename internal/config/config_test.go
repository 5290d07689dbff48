package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NameNormalization(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantName    string
		wantPackage string
		wantErr     bool
	}{
		{"simple", "widget", "widget", "widget", false},
		{"uppercase", "Widget", "widget", "widget", false},
		{"spaces", "My Cool Tool", "my-cool-tool", "my_cool_tool", false},
		{"dashes", "http-client", "http-client", "http_client", false},
		{"empty", "", "", "", true},
		{"only spaces", "   ", "", "", true},
		{"leading digit", "3d-engine", "", "", true},
		{"punctuation", "my.tool", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := New(Options{Name: tt.input, Type: TypeLib})
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, cfg.Name)
			assert.Equal(t, tt.wantPackage, cfg.PackageName)
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	cfg, err := New(Options{Name: "widget", Type: TypeLib})
	require.NoError(t, err)

	assert.Equal(t, "MIT", cfg.License)
	assert.Equal(t, "example.com/widget", cfg.ModulePath)
	assert.NotEmpty(t, cfg.ToolVersions["go"])
	assert.NotZero(t, cfg.Year)
}

func TestNew_RequiresType(t *testing.T) {
	_, err := New(Options{Name: "widget"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNew_GoVersionValidation(t *testing.T) {
	tests := []struct {
		version string
		wantErr bool
	}{
		{"1.25", false},
		{"1.25.3", false},
		{"1", true},
		{"one.two", true},
		{"1.", true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			_, err := New(Options{
				Name:         "widget",
				Type:         TypeLib,
				ToolVersions: map[string]string{"go": tt.version},
			})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	for _, known := range Types() {
		got, err := ParseType(string(known))
		require.NoError(t, err)
		assert.Equal(t, known, got)
	}

	_, err := ParseType("webapp")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParseFeatures(t *testing.T) {
	enabled, err := ParseFeatures([]string{"ci", "lint", ""})
	require.NoError(t, err)
	assert.True(t, enabled[FeatureCI])
	assert.True(t, enabled[FeatureLint])
	assert.False(t, enabled[FeatureDocker])

	_, err = ParseFeatures([]string{"telemetry"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestEnabledFeatures_StableOrder(t *testing.T) {
	cfg, err := New(Options{
		Name:     "widget",
		Type:     TypeLib,
		Features: map[Feature]bool{FeatureLint: true, FeatureCI: true, FeatureDocker: true},
	})
	require.NoError(t, err)

	assert.Equal(t, []Feature{FeatureCI, FeatureDocker, FeatureLint}, cfg.EnabledFeatures())
}
