// Package lox implements the functionality of the interpreter, the CLI in
// package cmd is simply the entrypoint to exported functions and methods in
// this package.
package lox

import (
	"errors"
	"fmt"
	"io"
	"time"

	"charm.land/log/v2"
	"go.followtheprocess.codes/hue"
	"go.followtheprocess.codes/lox/internal/syntax"
)

// Styles.
const (
	// errorStyle is the style used to render compile and runtime errors.
	errorStyle = hue.Red | hue.Bold

	// warningStyle is the style used to render compile warnings.
	warningStyle = hue.Yellow
)

// Sentinel errors carried up to the CLI layer so file mode can map failures
// to the conventional exit codes.
var (
	// ErrCompile indicates a compile time failure (scanner, parser or
	// resolver). File mode exits with code 65.
	ErrCompile = errors.New("compile error")

	// ErrRuntime indicates an uncaught runtime error. File mode exits
	// with code 70.
	ErrRuntime = errors.New("runtime error")
)

// ExitCode maps an error returned by this package to a process exit code:
// 65 for compile errors, 70 for runtime errors, 1 for anything else and
// 0 for nil.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrCompile):
		return 65
	case errors.Is(err, ErrRuntime):
		return 70
	default:
		return 1
	}
}

// Lox represents the lox program.
type Lox struct {
	stdout  io.Writer   // Normal program output is written here
	stderr  io.Writer   // Logs, diagnostics and errors are written here
	logger  *log.Logger // The logger for the application
	version string      // Version info, shown in the REPL banner
}

// New returns a new [Lox].
func New(debug bool, version string, stdout, stderr io.Writer) Lox {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(stderr, log.Options{
		TimeFormat:      time.RFC3339Nano,
		Level:           level,
		Prefix:          "lox",
		ReportTimestamp: true,
	})

	logger.SetStyles(defaultLogStyles())

	return Lox{
		stdout:  stdout,
		stderr:  stderr,
		logger:  logger,
		version: version,
	}
}

// report prints diagnostics to stderr in the format Lox reports compile
// time problems, errors in red and warnings in yellow.
func (l Lox) report(diagnostics []syntax.Diagnostic) {
	for _, diagnostic := range diagnostics {
		style := errorStyle
		if diagnostic.Severity == syntax.SeverityWarning {
			style = warningStyle
		}

		fmt.Fprintln(l.stderr, style.Text(diagnostic.String()))
	}
}
