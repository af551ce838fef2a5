package format

import (
	"encoding/json"
	"io"
)

// JSONExporter is an [Exporter] that transforms diagnostic reports into
// JSON documents.
type JSONExporter struct{}

// Export implements [Exporter] for [JSONExporter] and exports the given
// report as a complete JSON document.
func (j JSONExporter) Export(w io.Writer, report Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(report)
}
