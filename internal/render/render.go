// Package render is the pipeline's hand-off boundary: it renders the
// normalized model through a text template and round-trips the result through
// an external source formatter.
package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/huandu/xstrings"

	"github.com/astroseek/alpacagen/internal/spec"
)

// Options controls rendering and formatting.
type Options struct {
	// Template overrides the built-in template text when non-empty.
	Template string
	// Formatter is the external formatter command; empty skips formatting.
	Formatter string
	// FormatterArgs are extra arguments for the formatter command.
	FormatterArgs []string
}

// TypeDecl is one type-table entry prepared for the template.
type TypeDecl struct {
	Name   string
	Kind   string
	Schema *openapi3.Schema
}

type templateData struct {
	Operations []*spec.Operation
	Types      []TypeDecl
}

// Render executes the template over the model and, when a formatter is
// configured, pipes the output through it. A formatter failure fails the run.
func Render(ctx context.Context, m *spec.Model, opts Options) ([]byte, error) {
	text := opts.Template
	if text == "" {
		text = defaultTemplate
	}

	tmpl, err := template.New("alpacagen").Funcs(sprig.TxtFuncMap()).Funcs(funcMap(m)).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newTemplateData(m)); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	if opts.Formatter == "" {
		return buf.Bytes(), nil
	}
	return Format(ctx, opts.Formatter, opts.FormatterArgs, buf.Bytes())
}

// Format submits src to the external formatter over stdin and returns its
// stdout. Non-zero exit or any error output is fatal.
func Format(ctx context.Context, command string, args []string, src []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdin = bytes.NewReader(src)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("formatter %s: %w: %s", command, err, strings.TrimSpace(stderr.String()))
	}
	if stderr.Len() > 0 {
		return nil, fmt.Errorf("formatter %s reported: %s", command, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

func newTemplateData(m *spec.Model) *templateData {
	table := m.Table()
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	decls := make([]TypeDecl, 0, len(names))
	for _, name := range names {
		ref := table[name]
		if ref == nil || ref.Value == nil || ref.Value.Type != "object" {
			continue
		}
		decls = append(decls, TypeDecl{
			Name:   name,
			Kind:   m.Kinds[ref.Value].String(),
			Schema: ref.Value,
		})
	}
	return &templateData{Operations: m.Operations, Types: decls}
}

func funcMap(m *spec.Model) template.FuncMap {
	return template.FuncMap{
		"pascal": xstrings.ToCamelCase,
		"refName": func(ref string) string {
			name := strings.TrimPrefix(ref, "#/components/schemas/")
			if canon, ok := m.Replacements[name]; ok {
				return canon
			}
			return name
		},
		"goType": func(ref *openapi3.SchemaRef) string { return goType(m, ref) },
	}
}

// goType maps a schema node to a Go type expression, routing references
// through the replacement map so superseded names resolve to their canonical
// schema.
func goType(m *spec.Model, ref *openapi3.SchemaRef) string {
	if ref == nil {
		return "any"
	}
	if ref.Ref != "" {
		name := strings.TrimPrefix(ref.Ref, "#/components/schemas/")
		if canon, ok := m.Replacements[name]; ok {
			return canon
		}
		return name
	}
	s := ref.Value
	if s == nil {
		return "any"
	}
	switch s.Type {
	case "integer":
		if s.Format == "uint32" {
			return "uint32"
		}
		return "int32"
	case "number":
		return "float64"
	case "string":
		return "string"
	case "boolean":
		return "bool"
	case "array":
		return "[]" + goType(m, s.Items)
	case "object":
		return "map[string]any"
	default:
		return "any"
	}
}

const defaultTemplate = `// Code generated by alpacagen. DO NOT EDIT.

package alpaca
{{range .Operations}}
// {{.ID}}: {{.Method}} {{.Path}}{{with .CanonicalName}} ({{.}}){{end}}
{{- end}}
{{range .Types}}
// {{.Name}} is a {{.Kind}} container.
type {{.Name}} struct {
{{- range $name, $prop := .Schema.Properties}}
	{{pascal $name}} {{goType $prop}} ` + "`json:\"{{$name}}\"`" + `
{{- end}}
}
{{end}}`
