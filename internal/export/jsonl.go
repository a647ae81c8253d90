package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/sentry-client/internal"
)

// JSONLExporter exports result sets in JSONL format (one item per line)
type JSONLExporter struct{}

// Export writes one JSON object per item
func (e *JSONLExporter) Export(items []internal.ResultItem, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}

// MimeType returns the media type of the output
func (e *JSONLExporter) MimeType() string {
	return "application/x-ndjson"
}
