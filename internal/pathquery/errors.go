package pathquery

import "errors"

var (
	// ErrSyntax indicates a path expression failed to compile.
	ErrSyntax = errors.New("pathquery: syntax error")

	// ErrIncompatiblePath indicates an evaluator was given a compiled path
	// produced by a different compiler.
	ErrIncompatiblePath = errors.New("pathquery: incompatible compiled path")
)
