package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/sentry-client/internal"
)

// JSONExporter exports result sets in JSON format (pretty-printed)
type JSONExporter struct{}

// Export writes the items as one indented JSON array
func (e *JSONExporter) Export(items []internal.ResultItem, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if items == nil {
		items = []internal.ResultItem{}
	}
	return enc.Encode(items)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}

// MimeType returns the media type of the output
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
