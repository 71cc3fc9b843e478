// Package pathquery defines the boundary between the template engine and the
// path-query language. The compiler stores only compiled paths, and the
// renderer evaluates them through the Evaluator interface, so the concrete
// query language is swappable without touching either phase.
package pathquery

import (
	"fmt"
	"strings"

	"github.com/theory/jsonpath"
)

// Path is a compiled path expression. It is opaque to the template engine
// beyond the source expression used in error messages.
type Path interface {
	// Expr returns the expression the path was compiled from.
	Expr() string
}

// Compiler compiles path expression text at template-compile time.
type Compiler interface {
	Compile(expr string) (Path, error)
}

// Evaluator resolves a compiled path at render time. root is the document the
// render pass started from and current is the value in scope, so evaluators
// whose grammar distinguishes absolute references can address both.
type Evaluator interface {
	Eval(root, current any, path Path) ([]any, error)
}

// Engine combines both halves of the path-query contract.
type Engine interface {
	Compiler
	Evaluator
}

// JSONPath is the default Engine, backed by RFC 9535 JSONPath. Expressions
// without a leading '$' are compiled as child lookups relative to the current
// scope, so section keys like "repo" work without ceremony.
type JSONPath struct{}

// NewJSONPath returns the default JSONPath engine.
func NewJSONPath() *JSONPath {
	return &JSONPath{}
}

type compiledPath struct {
	expr string
	path *jsonpath.Path
}

func (p *compiledPath) Expr() string {
	return p.expr
}

// Compile parses expr into a reusable compiled path.
func (e *JSONPath) Compile(expr string) (Path, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrSyntax)
	}

	normalized := trimmed
	if !strings.HasPrefix(normalized, "$") {
		normalized = "$." + normalized
	}

	path, err := jsonpath.Parse(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrSyntax, trimmed, err)
	}

	return &compiledPath{expr: trimmed, path: path}, nil
}

// Eval selects all values matching path. JSONPath has no syntax for escaping
// back to the document root, so '$' binds to current; root is accepted to
// satisfy the Evaluator contract.
func (e *JSONPath) Eval(_, current any, path Path) ([]any, error) {
	compiled, ok := path.(*compiledPath)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrIncompatiblePath, path)
	}

	return compiled.path.Select(current), nil
}
