// Package renderer evaluates a compiled template tree against an input
// document. Rendering either fully succeeds or fails with the first error
// encountered; no partial output is ever returned.
package renderer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jacoelho/jt/internal/ast"
	"github.com/jacoelho/jt/internal/jsonval"
	"github.com/jacoelho/jt/internal/pathquery"
)

type Renderer struct {
	paths pathquery.Evaluator
}

func New(paths pathquery.Evaluator) *Renderer {
	return &Renderer{paths: paths}
}

// Render walks node against input. The renderer only reads the tree, so a
// compiled template can be rendered concurrently from multiple goroutines.
func (r *Renderer) Render(node ast.Node, input any) (any, error) {
	return r.render(node, input, input)
}

// render threads two documents through every call: root stays fixed for the
// whole pass, current is rebound inside sections.
func (r *Renderer) render(node ast.Node, root, current any) (any, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return n.Value, nil

	case *ast.Sequence:
		items := make([]any, 0, len(n.Items))
		for _, item := range n.Items {
			value, err := r.render(item, root, current)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		return items, nil

	case *ast.Mapping:
		object := jsonval.NewObject(len(n.Fields))
		for _, field := range n.Fields {
			value, err := r.render(field.Value, root, current)
			if err != nil {
				return nil, err
			}
			object.Set(field.Key, value)
		}
		return object, nil

	case *ast.Interpolation:
		return r.renderInterpolation(n, root, current)

	case *ast.Raw:
		return r.evalSingle(n.Path, root, current)

	case *ast.Unquote:
		return r.renderUnquote(n, root, current)

	case *ast.Section:
		return r.renderSection(n, root, current)

	default:
		return nil, fmt.Errorf("%w: unknown node %T", ErrCannotRender, node)
	}
}

func (r *Renderer) renderInterpolation(node *ast.Interpolation, root, current any) (any, error) {
	var b strings.Builder

	for _, token := range node.Tokens {
		switch t := token.(type) {
		case ast.Text:
			b.WriteString(string(t))

		case ast.PathToken:
			match, err := r.evalSingle(t.Path, root, current)
			if err != nil {
				return nil, err
			}

			text, err := stringify(match)
			if err != nil {
				return nil, err
			}
			b.WriteString(text)

		default:
			return nil, fmt.Errorf("%w: unknown interpolation token %T", ErrCannotRender, token)
		}
	}

	return b.String(), nil
}

func (r *Renderer) renderUnquote(node *ast.Unquote, root, current any) (any, error) {
	match, err := r.evalSingle(node.Path, root, current)
	if err != nil {
		return nil, err
	}

	text, ok := match.(string)
	if !ok {
		return match, nil
	}

	return unquoteScalar(text)
}

// renderSection expands its body once per element of the sequence the path
// resolves to. A single matched array iterates its elements; multiple matches
// iterate the match set itself; a single matched boolean gates rendering the
// body once with the current scope unchanged.
func (r *Renderer) renderSection(node *ast.Section, root, current any) (any, error) {
	matches, err := r.eval(node.Path, root, current)
	if err != nil {
		return nil, err
	}

	var elements []any
	switch {
	case len(matches) == 1:
		switch match := matches[0].(type) {
		case []any:
			elements = match
		case bool:
			if !match {
				return []any{}, nil
			}
			elements = []any{current}
		default:
			return nil, fmt.Errorf("%w: section path %s matched a %T, want a sequence", ErrCannotRender, node.Path.Expr(), matches[0])
		}

	case len(matches) > 1:
		elements = matches

	default:
		return nil, fmt.Errorf("%w: section path %s matched nothing", ErrCannotRender, node.Path.Expr())
	}

	items := make([]any, 0, len(elements))
	for _, element := range elements {
		value, err := r.render(node.Body, root, element)
		if err != nil {
			return nil, err
		}
		items = append(items, value)
	}

	return items, nil
}

func (r *Renderer) eval(path pathquery.Path, root, current any) ([]any, error) {
	matches, err := r.paths.Eval(root, current, path)
	if err != nil {
		return nil, fmt.Errorf("%w: path %s: %v", ErrCannotRender, path.Expr(), err)
	}

	return matches, nil
}

func (r *Renderer) evalSingle(path pathquery.Path, root, current any) (any, error) {
	matches, err := r.eval(path, root, current)
	if err != nil {
		return nil, err
	}

	if len(matches) != 1 {
		return nil, fmt.Errorf("%w: path %s matched %d values, want exactly 1", ErrCannotRender, path.Expr(), len(matches))
	}

	return matches[0], nil
}

// stringify appends a matched value to an interpolation: strings verbatim,
// everything else as its compact JSON encoding.
func stringify(value any) (string, error) {
	if text, ok := value.(string); ok {
		return text, nil
	}

	data, err := jsonval.Encode(value)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCannotRender, err)
	}

	return string(data), nil
}

// unquoteScalar parses a string-encoded scalar back into its native type. The
// whole string must be consumed: "42z" is not a number.
func unquoteScalar(text string) (any, error) {
	switch text {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	}

	if len(text) > 0 && (text[0] == '-' || (text[0] >= '0' && text[0] <= '9')) {
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return n, nil
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return f, nil
		}
		return nil, fmt.Errorf("%w: %q is not a number", ErrCannotUnquote, text)
	}

	return nil, fmt.Errorf("%w: %q is not a scalar literal", ErrCannotUnquote, text)
}
