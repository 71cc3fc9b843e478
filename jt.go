// Package jt is a logic-less templating engine for JSON-shaped data.
//
// A template is itself a JSON value (or a plain string) containing
// mustache-like markers. It compiles once into an immutable tree and renders
// any number of times against input documents:
//
//	tmpl, err := jt.Compile(map[string]any{"greeting": "Hello {{ $.name }}!"})
//	out, err := tmpl.Render(map[string]any{"name": "Foo"})
//
// Marker kinds: {{ path }} interpolates the stringified match into the
// surrounding text, {{{ path }}} substitutes the match verbatim, {{& path }}
// parses a string-encoded scalar back into its native type, and a mapping
// whose single key is {{# path }} repeats its value once per element of the
// matched sequence. Paths are RFC 9535 JSONPath by default; expressions
// without a leading '$' resolve as child lookups of the current scope.
package jt

import (
	"fmt"

	"github.com/jacoelho/jt/internal/ast"
	"github.com/jacoelho/jt/internal/compiler"
	"github.com/jacoelho/jt/internal/jsonval"
	"github.com/jacoelho/jt/internal/lexer"
	"github.com/jacoelho/jt/internal/pathquery"
	"github.com/jacoelho/jt/internal/renderer"
)

// Compile-time errors.
var (
	// ErrInvalid indicates malformed marker syntax.
	ErrInvalid = lexer.ErrInvalid

	// ErrInvalidPath indicates path text between braces failed to compile.
	ErrInvalidPath = lexer.ErrInvalidPath

	// ErrInvalidTemplate indicates a structural rule violation.
	ErrInvalidTemplate = compiler.ErrInvalidTemplate
)

// Render-time errors.
var (
	// ErrCannotRender indicates a path evaluation did not yield the shape a
	// node requires.
	ErrCannotRender = renderer.ErrCannotRender

	// ErrCannotUnquote indicates an unquoted string is not a valid scalar.
	ErrCannotUnquote = renderer.ErrCannotUnquote
)

// Engine is the path-query capability a template is compiled against.
// The default is RFC 9535 JSONPath; see CompileWith to supply another.
type Engine = pathquery.Engine

// Template is a compiled template. It is immutable and safe for concurrent
// Render calls.
type Template struct {
	root     ast.Node
	renderer *renderer.Renderer
}

// Compile compiles a raw template value using the default JSONPath engine.
// Mappings may be map[string]any or the ordered objects produced by
// DecodeTemplate; sequences are []any; strings run through the marker lexer;
// other scalars pass through as literals.
func Compile(template any) (*Template, error) {
	return CompileWith(template, pathquery.NewJSONPath())
}

// CompileWith compiles a raw template value against a custom path engine.
func CompileWith(template any, paths Engine) (*Template, error) {
	root, err := compiler.New(paths).Compile(template)
	if err != nil {
		return nil, err
	}

	return &Template{
		root:     root,
		renderer: renderer.New(paths),
	}, nil
}

// MustCompile is Compile for templates known to be valid, such as package
// variables. It panics on compile errors.
func MustCompile(template any) *Template {
	tmpl, err := Compile(template)
	if err != nil {
		panic(fmt.Sprintf("jt: MustCompile: %v", err))
	}

	return tmpl
}

// Render evaluates the template against input and returns the output value.
// Mappings authored in the template render as ordered objects that marshal
// with their field order intact.
func (t *Template) Render(input any) (any, error) {
	return t.renderer.Render(t.root, input)
}

// RenderJSON decodes input as a JSON document, renders, and returns the
// compact JSON encoding of the result.
func (t *Template) RenderJSON(input []byte) ([]byte, error) {
	document, err := jsonval.Decode(input)
	if err != nil {
		return nil, err
	}

	output, err := t.Render(document)
	if err != nil {
		return nil, err
	}

	return jsonval.Encode(output)
}

// DecodeTemplate parses JSON template bytes preserving authored field order,
// ready to pass to Compile.
func DecodeTemplate(data []byte) (any, error) {
	return jsonval.DecodeOrdered(data)
}
