// Package config parses and validates the jt command line.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jacoelho/jt/internal/exit"
	"github.com/jacoelho/jt/internal/vars"
)

var (
	ErrNoArguments    = errors.New("no arguments provided")
	ErrNoTemplateFile = errors.New("no template file specified")
	ErrNegativeRate   = errors.New("rate must be zero or positive")
	ErrPrettyNDJSON   = errors.New("pretty output is not available in ndjson mode")
)

// Config represents the complete configuration for the jt tool.
type Config struct {
	// TemplateFile is the JSON or YAML template to compile.
	TemplateFile string

	// InputFile is the input document, "-" meaning stdin.
	InputFile string

	// OutputFile is the render destination, "-" meaning stdout.
	OutputFile string

	// NDJSON renders the template once per input line.
	NDJSON bool

	// Rate caps renders per second in ndjson mode (0 = unlimited).
	Rate float64

	// Pretty indents the output document.
	Pretty bool

	// Meta injects a generated metadata object into the input document.
	Meta bool

	// Variables are merged into the input document top level.
	Variables map[string]any
}

// Parse parses command line arguments into a Config. A non-nil exit result
// means the process should terminate with it.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Usagef("%v\n", ErrNoArguments)
	}

	cfg := &Config{
		Variables: make(map[string]any),
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	var usage strings.Builder
	fs.SetOutput(&usage)

	fs.StringVar(&cfg.TemplateFile, "template", "", "template file, JSON or YAML (required)")
	fs.StringVar(&cfg.InputFile, "input", "-", "input JSON document, - for stdin")
	fs.StringVar(&cfg.OutputFile, "output", "-", "output destination, - for stdout")
	fs.BoolVar(&cfg.NDJSON, "ndjson", false, "treat input as one JSON document per line")
	fs.Float64Var(&cfg.Rate, "rate", 0, "maximum renders per second in ndjson mode (0 = unlimited)")
	fs.BoolVar(&cfg.Pretty, "pretty", false, "indent the output document")
	fs.BoolVar(&cfg.Meta, "meta", false, "inject generated metadata (uuid, timestamps) under the meta key")
	fs.Var(variablesFlag(cfg.Variables), "var", "variable in name=value format (repeatable)")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, exit.Usagef("%v\n%s", err, usage.String())
	}

	if err := cfg.Validate(); err != nil {
		return nil, exit.Usagef("%v\n", err)
	}

	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.TemplateFile == "" {
		return ErrNoTemplateFile
	}

	if _, err := os.Stat(c.TemplateFile); err != nil {
		return fmt.Errorf("template file %s not found: %w", c.TemplateFile, err)
	}

	if c.Rate < 0 {
		return ErrNegativeRate
	}

	if c.Pretty && c.NDJSON {
		return ErrPrettyNDJSON
	}

	return nil
}

// variablesFlag implements flag.Value for parsing multiple -var flags.
type variablesFlag map[string]any

func (f variablesFlag) String() string {
	pairs := make([]string, 0, len(f))
	for name, value := range f {
		pairs = append(pairs, fmt.Sprintf("%s=%v", name, value))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func (f variablesFlag) Set(pair string) error {
	name, value, err := vars.ParsePair(pair)
	if err != nil {
		return err
	}

	f[name] = value
	return nil
}
