// Package ast holds the compiled template tree. Nodes are built once by the
// compiler, never mutated, and safe to render from concurrently.
package ast

import "github.com/jacoelho/jt/internal/pathquery"

// Node is a compiled template fragment. The set of implementations is closed
// so the renderer's dispatch is exhaustive.
type Node interface {
	node()
}

// Literal passes a value through unchanged at render time: any non-string
// scalar, or a string with no markers.
type Literal struct {
	Value any
}

// Interpolation builds a string by concatenating literal fragments and
// stringified single-match path results.
type Interpolation struct {
	Tokens []Token
}

// Raw substitutes a path's single match verbatim, without stringification.
type Raw struct {
	Path pathquery.Path
}

// Unquote resolves a path's single match and, when it is a string, parses it
// back into a scalar.
type Unquote struct {
	Path pathquery.Path
}

// Section repeats Body once per element of the sequence its path resolves to.
// A Section only ever arises from a single-key mapping whose key carried the
// section marker.
type Section struct {
	Path pathquery.Path
	Body Node
}

// Field is one key/value pair of a compiled mapping.
type Field struct {
	Key   string
	Value Node
}

// Mapping is a compiled object with field order preserved.
type Mapping struct {
	Fields []Field
}

// Sequence is a compiled array, order preserved.
type Sequence struct {
	Items []Node
}

func (*Literal) node()       {}
func (*Interpolation) node() {}
func (*Raw) node()           {}
func (*Unquote) node()       {}
func (*Section) node()       {}
func (*Mapping) node()       {}
func (*Sequence) node()      {}

// Token is one element of an interpolation: literal text or a compiled path.
type Token interface {
	token()
}

// Text is a literal interpolation fragment. The lexer merges adjacent
// fragments, so no two Text tokens are ever adjacent.
type Text string

// PathToken references a compiled path whose single match is stringified into
// the interpolation result.
type PathToken struct {
	Path pathquery.Path
}

func (Text) token()      {}
func (PathToken) token() {}
