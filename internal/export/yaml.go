package export

import (
	"io"

	"github.com/iksnae/sentry-client/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports result sets in YAML format
type YAMLExporter struct{}

// Export writes the items as a YAML sequence
func (e *YAMLExporter) Export(items []internal.ResultItem, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	if items == nil {
		items = []internal.ResultItem{}
	}
	return enc.Encode(items)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}

// MimeType returns the media type of the output
func (e *YAMLExporter) MimeType() string {
	return "application/yaml"
}
