// Package format provides mechanisms for exporting compile diagnostics into
// external formats.
//
// Notably, the package provides the [Exporter] interface for doing this in a
// format-agnostic way, along with the built in text, JSON and YAML exporters.
package format

import (
	"fmt"
	"io"

	"go.followtheprocess.codes/lox/internal/syntax"
)

// Report is the set of diagnostics produced by compiling one file.
type Report struct {
	// Name is the name of the file that was compiled.
	Name string `json:"name" yaml:"name"`

	// Diagnostics is the list of diagnostics, sorted by position.
	Diagnostics []syntax.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

// Valid reports whether the report contains no error diagnostics, warnings
// do not count against validity.
func (r Report) Valid() bool {
	return !syntax.HasErrors(r.Diagnostics)
}

// Exporter is the interface defining a mechanism for exporting a diagnostic
// report into an external format.
type Exporter interface {
	// Export writes the report to w.
	Export(w io.Writer, report Report) error
}

// New returns the [Exporter] for the named format: "text", "json" or "yaml".
func New(name string) (Exporter, error) {
	switch name {
	case "text":
		return TextExporter{}, nil
	case "json":
		return JSONExporter{}, nil
	case "yaml":
		return YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("invalid format %q, allowed values are 'text', 'json', 'yaml'", name)
	}
}
