package pathquery

import (
	"errors"
	"testing"
)

func TestJSONPath_Compile(t *testing.T) {
	t.Parallel()

	engine := NewJSONPath()

	tests := []struct {
		name    string
		expr    string
		wantErr error
	}{
		{name: "absolute", expr: "$.first_name"},
		{name: "root_only", expr: "$"},
		{name: "relative_gets_prefixed", expr: "repo"},
		{name: "nested", expr: "$.a.b.c"},
		{name: "wildcard", expr: "$.items[*]"},
		{name: "surrounding_whitespace", expr: "  $.name  "},
		{name: "empty", expr: "", wantErr: ErrSyntax},
		{name: "whitespace_only", expr: "   ", wantErr: ErrSyntax},
		{name: "unclosed_bracket", expr: "$.items[", wantErr: ErrSyntax},
		{name: "relative_with_space", expr: "not a path", wantErr: ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path, err := engine.Compile(tt.expr)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Compile(%q) error = %v, want %v", tt.expr, err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Compile(%q) unexpected error: %v", tt.expr, err)
			}

			if path.Expr() == "" {
				t.Errorf("Compile(%q).Expr() is empty", tt.expr)
			}
		})
	}
}

func TestJSONPath_Eval(t *testing.T) {
	t.Parallel()

	engine := NewJSONPath()
	document := map[string]any{
		"name": "Foo",
		"items": []any{
			map[string]any{"id": float64(1)},
			map[string]any{"id": float64(2)},
		},
	}

	tests := []struct {
		name      string
		expr      string
		wantCount int
		wantFirst any
	}{
		{name: "single_match", expr: "$.name", wantCount: 1, wantFirst: "Foo"},
		{name: "relative_single_match", expr: "name", wantCount: 1, wantFirst: "Foo"},
		{name: "wildcard_multiple", expr: "$.items[*].id", wantCount: 2, wantFirst: float64(1)},
		{name: "no_match", expr: "$.missing", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path, err := engine.Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile(%q) unexpected error: %v", tt.expr, err)
			}

			matches, err := engine.Eval(document, document, path)
			if err != nil {
				t.Fatalf("Eval(%q) unexpected error: %v", tt.expr, err)
			}

			if len(matches) != tt.wantCount {
				t.Fatalf("Eval(%q) matched %d values, want %d", tt.expr, len(matches), tt.wantCount)
			}

			if tt.wantCount > 0 && matches[0] != tt.wantFirst {
				t.Errorf("Eval(%q) first match = %v, want %v", tt.expr, matches[0], tt.wantFirst)
			}
		})
	}
}

func TestJSONPath_EvalUsesCurrentScope(t *testing.T) {
	t.Parallel()

	engine := NewJSONPath()
	root := map[string]any{"name": "root"}
	current := map[string]any{"name": "scoped"}

	path, err := engine.Compile("$.name")
	if err != nil {
		t.Fatalf("Compile() unexpected error: %v", err)
	}

	matches, err := engine.Eval(root, current, path)
	if err != nil {
		t.Fatalf("Eval() unexpected error: %v", err)
	}

	if len(matches) != 1 || matches[0] != "scoped" {
		t.Errorf("Eval() = %v, want [scoped]", matches)
	}
}

type foreignPath struct{}

func (foreignPath) Expr() string { return "foreign" }

func TestJSONPath_EvalRejectsForeignPath(t *testing.T) {
	t.Parallel()

	engine := NewJSONPath()

	_, err := engine.Eval(nil, nil, foreignPath{})
	if !errors.Is(err, ErrIncompatiblePath) {
		t.Errorf("Eval(foreign path) error = %v, want %v", err, ErrIncompatiblePath)
	}
}
