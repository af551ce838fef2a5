package format

import (
	"fmt"
	"io"
)

// TextExporter is an [Exporter] that renders diagnostics the way the
// interpreter reports them on the command line, one per line.
type TextExporter struct{}

// Export implements [Exporter] for [TextExporter].
func (t TextExporter) Export(w io.Writer, report Report) error {
	for _, diagnostic := range report.Diagnostics {
		if _, err := fmt.Fprintln(w, diagnostic.String()); err != nil {
			return err
		}
	}

	return nil
}
