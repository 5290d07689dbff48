package engine

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"text/template"
	"unicode"
)

// RenderError reports a template that failed to render, naming the
// offending template and, when known, the unresolved key. A RenderError
// fails the whole run before any filesystem write.
type RenderError struct {
	Template string
	Key      string
	Err      error
}

func (e *RenderError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("render %s: unresolved placeholder %q", e.Template, e.Key)
	}
	return fmt.Sprintf("render %s: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Renderer parses and executes templates with caching. Rendering is
// strict: any reference to a missing context key fails the render.
type Renderer struct {
	funcMap template.FuncMap
	cache   map[string]*template.Template
	mu      sync.RWMutex
}

// NewRenderer creates a renderer with the built-in helper functions.
func NewRenderer() *Renderer {
	return &Renderer{
		funcMap: defaultFuncMap(),
		cache:   make(map[string]*template.Template),
	}
}

// Render executes a template string against data. The name is used for
// caching and error messages.
func (r *Renderer) Render(name, templateStr string, data map[string]any) ([]byte, error) {
	r.mu.RLock()
	tmpl, ok := r.cache[name]
	r.mu.RUnlock()

	if !ok {
		var err error
		tmpl, err = template.New(name).
			Funcs(r.funcMap).
			Option("missingkey=error").
			Parse(templateStr)
		if err != nil {
			return nil, &RenderError{Template: name, Err: err}
		}
		r.mu.Lock()
		r.cache[name] = tmpl
		r.mu.Unlock()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, &RenderError{Template: name, Key: missingKey(err), Err: err}
	}
	return buf.Bytes(), nil
}

var missingKeyRe = regexp.MustCompile(`map has no entry for key "([^"]+)"`)

// missingKey extracts the unresolved key name from a template execution
// error, if the error was a missing-key failure.
func missingKey(err error) string {
	if err == nil {
		return ""
	}
	if m := missingKeyRe.FindStringSubmatch(err.Error()); m != nil {
		return m[1]
	}
	return ""
}

// defaultFuncMap returns the helpers available inside templates.
func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"pascalCase": PascalCase,
		"snakeCase":  SnakeCase,
		"upper":      strings.ToUpper,
		"lower":      strings.ToLower,
		"trim":       strings.TrimSpace,
		"replace":    strings.ReplaceAll,
		"quote":      func(s string) string { return fmt.Sprintf("%q", s) },
	}
}

// PascalCase converts snake_case or kebab-case to PascalCase.
// Examples: user_name → UserName, my-tool → MyTool.
func PascalCase(s string) string {
	if s == "" {
		return ""
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' })
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "")
}

// SnakeCase converts PascalCase or camelCase to snake_case.
func SnakeCase(s string) string {
	if s == "" {
		return ""
	}
	if strings.Contains(s, "_") {
		return strings.ToLower(s)
	}
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := rune(s[i-1])
				if unicode.IsLower(prev) {
					b.WriteRune('_')
				} else if i+1 < len(s) && unicode.IsLower(rune(s[i+1])) {
					b.WriteRune('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
