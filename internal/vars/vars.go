// Package vars builds the extra fields merged into input documents: user
// variables from repeated -var flags and generated metadata (uuid,
// timestamps) for templates that need per-render values.
package vars

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jacoelho/jt/internal/clock"
)

var (
	ErrInvalidVariableFormat = errors.New("variable must be in format name=value")
	ErrEmptyVariableName     = errors.New("variable name cannot be empty")
)

// MetaKey is the top-level field generated metadata is stored under.
const MetaKey = "meta"

// ParsePair parses one name=value flag. Values that read as JSON scalars
// (true, null, 42, 4.2) become typed values; everything else stays a string.
func ParsePair(pair string) (string, any, error) {
	name, value, found := strings.Cut(pair, "=")
	if !found {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidVariableFormat, pair)
	}

	if name == "" {
		return "", nil, fmt.Errorf("%w: %q", ErrEmptyVariableName, pair)
	}

	return name, parseScalar(value), nil
}

// Parse parses a list of name=value pairs. Later pairs win on duplicate names.
func Parse(pairs []string) (map[string]any, error) {
	values := make(map[string]any, len(pairs))

	for _, pair := range pairs {
		name, value, err := ParsePair(pair)
		if err != nil {
			return nil, err
		}
		values[name] = value
	}

	return values, nil
}

func parseScalar(value string) any {
	switch value {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}

	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}

	return value
}

// Meta returns the generated metadata document: a fresh uuid, the unix
// timestamp, and the RFC 3339 rendering of the current time.
func Meta() map[string]any {
	now := clock.Now()

	return map[string]any{
		"uuid":      uuid.New().String(),
		"timestamp": now.Unix(),
		"now":       now.Format(time.RFC3339),
	}
}

// Apply merges values into the top level of document, values winning on
// conflicts. A nil document becomes an object holding only values; a
// non-object document is returned unchanged when there is nothing to merge,
// and cannot accept variables otherwise.
func Apply(document any, values map[string]any) (any, error) {
	if len(values) == 0 {
		return document, nil
	}

	switch doc := document.(type) {
	case nil:
		merged := make(map[string]any, len(values))
		for name, value := range values {
			merged[name] = value
		}
		return merged, nil

	case map[string]any:
		merged := make(map[string]any, len(doc)+len(values))
		for name, value := range doc {
			merged[name] = value
		}
		for name, value := range values {
			merged[name] = value
		}
		return merged, nil

	default:
		return nil, fmt.Errorf("cannot merge variables into %T document", document)
	}
}
