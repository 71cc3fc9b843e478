package lexer

import "errors"

var (
	// ErrInvalid indicates malformed marker syntax, such as an unterminated
	// marker or content after a closed terminal marker.
	ErrInvalid = errors.New("template: invalid marker syntax")

	// ErrInvalidPath indicates the text between marker braces failed to
	// compile as a path expression.
	ErrInvalidPath = errors.New("template: invalid path expression")
)
