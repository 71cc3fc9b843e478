// Package compiler turns a raw template value into the compiled tree the
// renderer walks. Compilation is a pure function of the template: it never
// touches a render-time document.
package compiler

import (
	"fmt"
	"sort"

	"github.com/jacoelho/jt/internal/ast"
	"github.com/jacoelho/jt/internal/jsonval"
	"github.com/jacoelho/jt/internal/lexer"
	"github.com/jacoelho/jt/internal/pathquery"
)

type Compiler struct {
	paths pathquery.Compiler
}

func New(paths pathquery.Compiler) *Compiler {
	return &Compiler{paths: paths}
}

// Compile builds the tree for a raw template value: *jsonval.Object or
// map[string]any for mappings, []any for sequences, strings through the
// marker lexer, and any other scalar as a literal. Plain maps have no
// authored order, so their keys compile in sorted order for determinism;
// decode templates with jsonval.DecodeOrdered to keep authored field order.
func (c *Compiler) Compile(template any) (ast.Node, error) {
	switch value := template.(type) {
	case *jsonval.Object:
		return c.compileMapping(value.Fields())

	case map[string]any:
		fields := make([]jsonval.Field, 0, len(value))
		for key, item := range value {
			fields = append(fields, jsonval.Field{Key: key, Value: item})
		}
		sort.Slice(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })
		return c.compileMapping(fields)

	case []any:
		items := make([]ast.Node, 0, len(value))
		for _, item := range value {
			node, err := c.Compile(item)
			if err != nil {
				return nil, err
			}
			items = append(items, node)
		}
		return &ast.Sequence{Items: items}, nil

	case string:
		return c.compileString(value)

	default:
		return &ast.Literal{Value: value}, nil
	}
}

func (c *Compiler) compileMapping(fields []jsonval.Field) (ast.Node, error) {
	mapping := &ast.Mapping{Fields: make([]ast.Field, 0, len(fields))}

	for _, field := range fields {
		value, err := c.Compile(field.Value)
		if err != nil {
			return nil, err
		}

		key, section, err := c.compileKey(field.Key)
		if err != nil {
			return nil, err
		}

		if section != nil {
			if len(fields) != 1 {
				return nil, fmt.Errorf("%w: section key %q must be the only key of its mapping, found %d keys", ErrInvalidTemplate, field.Key, len(fields))
			}

			section.Body = value
			return section, nil
		}

		mapping.Fields = append(mapping.Fields, ast.Field{Key: key, Value: value})
	}

	return mapping, nil
}

// compileKey classifies a mapping key as either a plain literal key or a
// section marker. The returned section carries its path with the body still
// unset; the caller fills it in.
func (c *Compiler) compileKey(key string) (string, *ast.Section, error) {
	result, err := lexer.Lex(key, c.paths)
	if err != nil {
		return "", nil, err
	}

	switch result.Kind {
	case lexer.KindLiteral:
		return result.Text, nil, nil

	case lexer.KindSection:
		return "", &ast.Section{Path: result.Path}, nil

	default:
		return "", nil, fmt.Errorf("%w: mapping key %q resolves to a %s marker, want literal or section", lexer.ErrInvalid, key, result.Kind)
	}
}

func (c *Compiler) compileString(value string) (ast.Node, error) {
	result, err := lexer.Lex(value, c.paths)
	if err != nil {
		return nil, err
	}

	switch result.Kind {
	case lexer.KindLiteral:
		return &ast.Literal{Value: result.Text}, nil

	case lexer.KindInterpolation:
		return &ast.Interpolation{Tokens: result.Tokens}, nil

	case lexer.KindRaw:
		return &ast.Raw{Path: result.Path}, nil

	case lexer.KindUnquote:
		return &ast.Unquote{Path: result.Path}, nil

	case lexer.KindSection:
		return nil, fmt.Errorf("%w: section marker %q is only valid as a mapping key", lexer.ErrInvalid, value)

	default:
		return nil, fmt.Errorf("%w: %s marker %q has no template rule", lexer.ErrInvalid, result.Kind, value)
	}
}
