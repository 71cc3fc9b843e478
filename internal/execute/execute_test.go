package execute

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jacoelho/jt/internal/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}

	return path
}

func runPipeline(t *testing.T, cfg *config.Config) string {
	t.Helper()

	runner, err := New(cfg)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	output, err := os.ReadFile(cfg.OutputFile)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	return string(output)
}

func TestRun_SingleDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	template := writeFile(t, dir, "template.json", `{"greeting": "Hello {{ $.first_name }}!", "num": "{{{ $.num }}}"}`)
	input := writeFile(t, dir, "input.json", `{"first_name": "Foo", "num": 42}`)

	got := runPipeline(t, &config.Config{
		TemplateFile: template,
		InputFile:    input,
		OutputFile:   filepath.Join(dir, "out.json"),
	})

	want := `{"greeting":"Hello Foo!","num":42}` + "\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRun_TemplateFieldOrderSurvives(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	template := writeFile(t, dir, "template.json", `{"zebra": "1", "alpha": "2", "mike": "3"}`)
	input := writeFile(t, dir, "input.json", `{}`)

	got := runPipeline(t, &config.Config{
		TemplateFile: template,
		InputFile:    input,
		OutputFile:   filepath.Join(dir, "out.json"),
	})

	want := `{"zebra":"1","alpha":"2","mike":"3"}` + "\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRun_YAMLTemplate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	template := writeFile(t, dir, "template.yaml", "zebra: \"{{ $.name }}\"\nalpha: plain\n")
	input := writeFile(t, dir, "input.json", `{"name": "Foo"}`)

	got := runPipeline(t, &config.Config{
		TemplateFile: template,
		InputFile:    input,
		OutputFile:   filepath.Join(dir, "out.json"),
	})

	want := `{"zebra":"Foo","alpha":"plain"}` + "\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRun_Variables(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	template := writeFile(t, dir, "template.json", `"{{ $.name }} has {{ $.count }}"`)
	input := writeFile(t, dir, "input.json", `{"name": "doc"}`)

	got := runPipeline(t, &config.Config{
		TemplateFile: template,
		InputFile:    input,
		OutputFile:   filepath.Join(dir, "out.json"),
		Variables:    map[string]any{"name": "flag", "count": int64(3)},
	})

	want := `"flag has 3"` + "\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRun_Meta(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	template := writeFile(t, dir, "template.json", `"{{ $.meta.uuid }}"`)
	input := writeFile(t, dir, "input.json", `{}`)

	got := runPipeline(t, &config.Config{
		TemplateFile: template,
		InputFile:    input,
		OutputFile:   filepath.Join(dir, "out.json"),
		Meta:         true,
	})

	// Quoted uuid plus newline.
	if len(strings.TrimSpace(got)) != 38 {
		t.Errorf("output = %q, want a quoted uuid", got)
	}
}

func TestRun_NDJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	template := writeFile(t, dir, "template.json", `"Hello {{ $.name }}"`)
	input := writeFile(t, dir, "input.ndjson", `{"name": "Davide"}`+"\n\n"+`{"name": "Riccardo"}`+"\n")

	got := runPipeline(t, &config.Config{
		TemplateFile: template,
		InputFile:    input,
		OutputFile:   filepath.Join(dir, "out.ndjson"),
		NDJSON:       true,
	})

	want := `"Hello Davide"` + "\n" + `"Hello Riccardo"` + "\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRun_NDJSONReportsLine(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	template := writeFile(t, dir, "template.json", `"{{ $.name }}"`)
	input := writeFile(t, dir, "input.ndjson", `{"name": "ok"}`+"\n"+`{"other": 1}`+"\n")

	runner, err := New(&config.Config{
		TemplateFile: template,
		InputFile:    input,
		OutputFile:   filepath.Join(dir, "out.ndjson"),
		NDJSON:       true,
	})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	err = runner.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Run() error = %v, want line 2 failure", err)
	}
}

func TestNew_CompileError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	template := writeFile(t, dir, "template.json", `"{{ $.name"`)

	if _, err := New(&config.Config{TemplateFile: template}); err == nil {
		t.Error("New() with unterminated marker should fail")
	}
}

func TestRun_Pretty(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	template := writeFile(t, dir, "template.json", `{"a": "{{ $.name }}"}`)
	input := writeFile(t, dir, "input.json", `{"name": "Foo"}`)

	got := runPipeline(t, &config.Config{
		TemplateFile: template,
		InputFile:    input,
		OutputFile:   filepath.Join(dir, "out.json"),
		Pretty:       true,
	})

	want := "{\n  \"a\": \"Foo\"\n}\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
