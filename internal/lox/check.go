package lox

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"go.followtheprocess.codes/lox/internal/format"
	"go.followtheprocess.codes/lox/internal/interp/builtins"
	"go.followtheprocess.codes/lox/internal/syntax"
	"go.followtheprocess.codes/msg"
	"golang.org/x/sync/errgroup"
)

// CheckOptions are the options passed to the check subcommand.
type CheckOptions struct {
	// Format selects how diagnostics are reported: text, json or yaml.
	Format string

	// Debug enables debug logging.
	Debug bool
}

// Validate reports whether the CheckOptions is valid, returning a non-nil
// error if it's not.
func (c CheckOptions) Validate() error {
	_, err := format.New(c.Format)
	return err
}

// Check implements the check subcommand: compile (but do not run) every .lox
// file under path, reporting diagnostics in the requested format.
//
// Files are checked concurrently; output is emitted afterwards in path order
// so runs are deterministic.
func (l Lox) Check(path string, options CheckOptions) error {
	logger := l.logger.WithPrefix("check").With("path", path)
	logger.Debug("Checking path")

	if err := options.Validate(); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("could not get path info: %w", err)
	}

	var paths []string

	if info.IsDir() {
		logger.Debug("Path is a directory")

		err = filepath.WalkDir(path, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if filepath.Ext(path) == ".lox" {
				paths = append(paths, path)
			}

			return nil
		})
		if err != nil {
			return fmt.Errorf("could not walk %s: %w", path, err)
		}
	} else {
		logger.Debug("Path is a file")

		paths = []string{path}
	}

	logger.Debug("Checking lox files given by path", "number", len(paths))

	reports := make([]format.Report, len(paths))

	group := errgroup.Group{}

	for i, path := range paths {
		group.Go(func() error {
			report, err := checkFile(path)
			if err != nil {
				return err
			}

			reports[i] = report

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	exporter, err := format.New(options.Format)
	if err != nil {
		return err
	}

	invalid := 0

	for _, report := range reports {
		if !report.Valid() {
			invalid++
		}

		if options.Format == "text" && report.Valid() {
			// Text mode gets friendly success lines for clean files
			msg.Fsuccess(l.stdout, "%s is valid", report.Name)
			continue
		}

		if err := exporter.Export(l.stdout, report); err != nil {
			return err
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d files had errors", invalid, len(paths))
	}

	return nil
}

// checkFile compiles a single file, returning its diagnostic report.
func checkFile(path string) (format.Report, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return format.Report{}, fmt.Errorf("could not read %s: %w", path, err)
	}

	// Check never executes anything so program output has nowhere to go
	session := NewSession(io.Discard, builtins.Standard())

	compiled := session.Compile(path, src, true)

	// The resolver reports in traversal order (unused locals at scope end,
	// unused globals last), so put the whole list into source order
	slices.SortStableFunc(compiled.Diagnostics, func(a, b syntax.Diagnostic) int {
		return syntax.ComparePosition(a.Position, b.Position)
	})

	return format.Report{Name: path, Diagnostics: compiled.Diagnostics}, nil
}
