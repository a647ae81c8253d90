package export

import (
	"fmt"
	"io"

	"github.com/iksnae/sentry-client/internal"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(items []internal.ResultItem, w io.Writer) error
	Extension() string
	MimeType() string
}

// Formats lists the supported format names, default first
var Formats = []string{"csv", "json", "jsonl", "yaml", "md"}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "csv", "":
		return &CSVExporter{}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: csv, jsonl, md, yaml, json)", format)
	}
}
