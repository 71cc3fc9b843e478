package renderer

import "errors"

var (
	// ErrCannotRender indicates a path evaluation did not yield the shape a
	// node requires, such as multiple matches where exactly one is needed.
	ErrCannotRender = errors.New("template: cannot render")

	// ErrCannotUnquote indicates a string matched by an unquote marker is not
	// a valid scalar literal.
	ErrCannotUnquote = errors.New("template: cannot unquote")
)
