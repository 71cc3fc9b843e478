// Package execute orchestrates a jt invocation: load and compile the
// template once, then render one input document or an NDJSON stream.
package execute

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/jt"
	"github.com/jacoelho/jt/internal/config"
	"github.com/jacoelho/jt/internal/jsonval"
	"github.com/jacoelho/jt/internal/ratelimit"
	"github.com/jacoelho/jt/internal/vars"
)

// scannerBufferSize bounds a single NDJSON line.
const scannerBufferSize = 1 << 20

type Runner struct {
	cfg  *config.Config
	tmpl *jt.Template
}

// New loads and compiles the configured template.
func New(cfg *config.Config) (*Runner, error) {
	raw, err := loadTemplate(cfg.TemplateFile)
	if err != nil {
		return nil, err
	}

	tmpl, err := jt.Compile(raw)
	if err != nil {
		return nil, fmt.Errorf("compile template %s: %w", cfg.TemplateFile, err)
	}

	return &Runner{cfg: cfg, tmpl: tmpl}, nil
}

// Run renders until the input is exhausted or the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	in, closeIn, err := openInput(r.cfg.InputFile)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(r.cfg.OutputFile)
	if err != nil {
		return err
	}
	defer closeOut()

	if r.cfg.NDJSON {
		return r.runBatch(ctx, in, out)
	}

	return r.runSingle(in, out)
}

func (r *Runner) runSingle(in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var document any
	if len(bytes.TrimSpace(data)) > 0 {
		document, err = jsonval.Decode(data)
		if err != nil {
			return fmt.Errorf("decode input: %w", err)
		}
	}

	output, err := r.renderOne(document)
	if err != nil {
		return err
	}

	if r.cfg.Pretty {
		encoded, err := jsonval.EncodeIndent(output)
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		_, err = fmt.Fprintf(out, "%s\n", encoded)
		return err
	}

	return jsonval.EncodeTo(out, output)
}

func (r *Runner) runBatch(ctx context.Context, in io.Reader, out io.Writer) error {
	limiter := ratelimit.New(r.cfg.Rate)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), scannerBufferSize)

	line := 0
	for scanner.Scan() {
		line++

		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		document, err := jsonval.Decode(data)
		if err != nil {
			return fmt.Errorf("line %d: decode input: %w", line, err)
		}

		output, err := r.renderOne(document)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		if err := jsonval.EncodeTo(out, output); err != nil {
			return fmt.Errorf("line %d: write output: %w", line, err)
		}
	}

	return scanner.Err()
}

// renderOne merges configured variables and, when enabled, fresh metadata
// into the document before rendering.
func (r *Runner) renderOne(document any) (any, error) {
	values := make(map[string]any, len(r.cfg.Variables)+1)
	maps.Copy(values, r.cfg.Variables)
	if r.cfg.Meta {
		values[vars.MetaKey] = vars.Meta()
	}

	merged, err := vars.Apply(document, values)
	if err != nil {
		return nil, err
	}

	output, err := r.tmpl.Render(merged)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	return output, nil
}

// loadTemplate reads and decodes a template file. JSON files decode with
// authored field order preserved; everything else decodes as YAML, which
// covers JSON content as well.
func loadTemplate(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}

	if strings.HasSuffix(path, ".json") {
		raw, err := jt.DecodeTemplate(data)
		if err != nil {
			return nil, fmt.Errorf("decode template %s: %w", path, err)
		}
		return raw, nil
	}

	var raw any
	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("decode template %s: %w", path, err)
	}

	return normalizeYAML(raw)
}

// normalizeYAML converts goccy/go-yaml ordered maps into the engine's
// ordered object representation.
func normalizeYAML(value any) (any, error) {
	switch v := value.(type) {
	case yaml.MapSlice:
		object := jsonval.NewObject(len(v))
		for _, item := range v {
			key, ok := item.Key.(string)
			if !ok {
				return nil, fmt.Errorf("template mapping key %v is %T, want string", item.Key, item.Key)
			}

			normalized, err := normalizeYAML(item.Value)
			if err != nil {
				return nil, err
			}
			object.Set(key, normalized)
		}
		return object, nil

	case []any:
		items := make([]any, 0, len(v))
		for _, item := range v {
			normalized, err := normalizeYAML(item)
			if err != nil {
				return nil, err
			}
			items = append(items, normalized)
		}
		return items, nil

	default:
		return value, nil
	}
}

func openInput(path string) (io.Reader, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input %s: %w", path, err)
	}

	return f, f.Close, nil
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output %s: %w", path, err)
	}

	return f, f.Close, nil
}
