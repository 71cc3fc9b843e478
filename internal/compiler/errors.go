package compiler

import "errors"

// ErrInvalidTemplate indicates a structural rule violation, such as a section
// key sharing a mapping with other keys.
var ErrInvalidTemplate = errors.New("template: invalid template structure")
