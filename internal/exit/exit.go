package exit

import (
	"fmt"
	"io"
	"os"
)

// Exit codes for the jt binary.
const (
	CodeOK    = 0
	CodeError = 1
	CodeUsage = 2
)

// Result holds the output destination and exit code for program termination.
type Result struct {
	Output   io.Writer
	ExitCode int
	Message  string
}

// Print writes the result message to the configured output destination.
func (r *Result) Print() {
	fmt.Fprint(r.Output, r.Message)
}

// Success creates a successful exit result that outputs to stdout.
func Success(message string) *Result {
	return &Result{
		Output:   os.Stdout,
		ExitCode: CodeOK,
		Message:  message,
	}
}

// Errorf creates an error exit result with a formatted message on stderr.
func Errorf(format string, a ...any) *Result {
	return &Result{
		Output:   os.Stderr,
		ExitCode: CodeError,
		Message:  fmt.Sprintf(format, a...),
	}
}

// Usagef creates a usage-error exit result with a formatted message on stderr.
func Usagef(format string, a ...any) *Result {
	return &Result{
		Output:   os.Stderr,
		ExitCode: CodeUsage,
		Message:  fmt.Sprintf(format, a...),
	}
}
