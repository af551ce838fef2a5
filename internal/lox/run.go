package lox

import (
	"fmt"
	"os"
	"time"

	"go.followtheprocess.codes/lox/internal/interp/builtins"
)

// Run implements the run subcommand: compile the file, report any
// diagnostics, then execute.
//
// The returned error wraps [ErrCompile] or [ErrRuntime] so the CLI can exit
// with the conventional codes (65 and 70 respectively).
func (l Lox) Run(file string) error {
	logger := l.logger.WithPrefix("run")

	start := time.Now()

	src, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("could not read file: %w", err)
	}

	session := NewSession(l.stdout, builtins.Standard())

	compiled := session.Compile(file, src, true)
	l.report(compiled.Diagnostics)

	if compiled.Errored() {
		return fmt.Errorf("%w: %s", ErrCompile, file)
	}

	logger.Debug("Compiled file successfully", "file", file, "took", time.Since(start))

	if err := session.Execute(compiled); err != nil {
		fmt.Fprintln(l.stderr, errorStyle.Text(err.Error()))
		return fmt.Errorf("%w: %s", ErrRuntime, file)
	}

	logger.Debug("Executed file successfully", "file", file, "took", time.Since(start))

	return nil
}
