package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jacoelho/jt/internal/exit"
)

func writeTemplate(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "template.json")
	if err := os.WriteFile(path, []byte(`"{{ $.name }}"`), 0o600); err != nil {
		t.Fatalf("write template: %v", err)
	}

	return path
}

func TestParse(t *testing.T) {
	t.Parallel()

	template := writeTemplate(t)

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cfg, exitResult := Parse([]string{"jt", "-template", template})
		if exitResult != nil {
			t.Fatalf("Parse() exit result: %s", exitResult.Message)
		}

		if cfg.TemplateFile != template {
			t.Errorf("TemplateFile = %q, want %q", cfg.TemplateFile, template)
		}
		if cfg.InputFile != "-" || cfg.OutputFile != "-" {
			t.Errorf("default streams = %q, %q, want - and -", cfg.InputFile, cfg.OutputFile)
		}
		if cfg.NDJSON || cfg.Pretty || cfg.Meta {
			t.Error("boolean flags should default to false")
		}
		if cfg.Rate != 0 {
			t.Errorf("Rate = %f, want 0", cfg.Rate)
		}
	})

	t.Run("all_flags", func(t *testing.T) {
		t.Parallel()

		cfg, exitResult := Parse([]string{
			"jt",
			"-template", template,
			"-input", "in.json",
			"-output", "out.json",
			"-ndjson",
			"-rate", "10",
			"-meta",
			"-var", "name=Foo",
			"-var", "count=2",
		})
		if exitResult != nil {
			t.Fatalf("Parse() exit result: %s", exitResult.Message)
		}

		if !cfg.NDJSON || !cfg.Meta || cfg.Rate != 10 {
			t.Errorf("flags = ndjson:%t meta:%t rate:%f", cfg.NDJSON, cfg.Meta, cfg.Rate)
		}

		want := map[string]any{"name": "Foo", "count": int64(2)}
		if !reflect.DeepEqual(cfg.Variables, want) {
			t.Errorf("Variables = %v, want %v", cfg.Variables, want)
		}
	})
}

func TestParse_UsageErrors(t *testing.T) {
	t.Parallel()

	template := writeTemplate(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "no_arguments", args: nil},
		{name: "no_template", args: []string{"jt"}},
		{name: "missing_template_file", args: []string{"jt", "-template", "does-not-exist.json"}},
		{name: "negative_rate", args: []string{"jt", "-template", template, "-rate", "-1"}},
		{name: "pretty_with_ndjson", args: []string{"jt", "-template", template, "-pretty", "-ndjson"}},
		{name: "bad_variable", args: []string{"jt", "-template", template, "-var", "novalue"}},
		{name: "unknown_flag", args: []string{"jt", "-template", template, "-bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, exitResult := Parse(tt.args)
			if cfg != nil {
				t.Fatalf("Parse(%v) returned config, want usage error", tt.args)
			}

			if exitResult == nil || exitResult.ExitCode != exit.CodeUsage {
				t.Errorf("Parse(%v) exit = %+v, want usage code %d", tt.args, exitResult, exit.CodeUsage)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	template := writeTemplate(t)

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "valid", cfg: Config{TemplateFile: template}},
		{name: "no_template", cfg: Config{}, wantErr: ErrNoTemplateFile},
		{name: "negative_rate", cfg: Config{TemplateFile: template, Rate: -2}, wantErr: ErrNegativeRate},
		{name: "pretty_ndjson", cfg: Config{TemplateFile: template, Pretty: true, NDJSON: true}, wantErr: ErrPrettyNDJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
