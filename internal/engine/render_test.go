package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Basics(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name     string
		template string
		data     map[string]any
		want     string
		wantErr  bool
	}{
		{
			name:     "plain text",
			template: "hello",
			want:     "hello",
		},
		{
			name:     "substitution",
			template: "module {{ .ModulePath }}",
			data:     map[string]any{"ModulePath": "example.com/x"},
			want:     "module example.com/x",
		},
		{
			name:     "helper function",
			template: "{{ pascalCase .Name }}",
			data:     map[string]any{"Name": "my-tool"},
			want:     "MyTool",
		},
		{
			name:     "syntax error",
			template: "{{ .Name }",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render(tt.name, tt.template, tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestRender_MissingKeyNamesTemplateAndKey(t *testing.T) {
	r := NewRenderer()

	_, err := r.Render("templates/base/go.mod.tmpl", "{{ .Missing }}", map[string]any{"Present": 1})
	require.Error(t, err)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "templates/base/go.mod.tmpl", renderErr.Template)
	assert.Equal(t, "Missing", renderErr.Key)
	assert.Contains(t, renderErr.Error(), "Missing")
}

func TestRender_Deterministic(t *testing.T) {
	r := NewRenderer()
	data := map[string]any{"Name": "widget", "Year": 2026}

	first, err := r.Render("t", "{{ .Name }} {{ .Year }}", data)
	require.NoError(t, err)
	second, err := r.Render("t", "{{ .Name }} {{ .Year }}", data)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCaseHelpers(t *testing.T) {
	assert.Equal(t, "UserName", PascalCase("user_name"))
	assert.Equal(t, "MyTool", PascalCase("my-tool"))
	assert.Equal(t, "user_name", SnakeCase("UserName"))
	assert.Equal(t, "http_server", SnakeCase("HTTPServer"))
}
