package export

import (
	"io"
	"strings"

	"github.com/iksnae/sentry-client/internal"
)

// csvHeader is the first row of every CSV export
var csvHeader = []string{"Type", "Content", "Privacy", "Date"}

// CSVExporter writes result rows as CSV. Every field is quoted and embedded
// quotes are doubled (RFC 4180). Rows are joined by "\n" with no trailing newline.
type CSVExporter struct{}

// Export writes the header and one row per item
func (e *CSVExporter) Export(items []internal.ResultItem, w io.Writer) error {
	rows := make([]string, 0, len(items)+1)
	rows = append(rows, csvRow(csvHeader))
	for _, it := range items {
		rows = append(rows, csvRow([]string{it.Type, it.Content, it.Privacy, it.Date}))
	}
	_, err := io.WriteString(w, strings.Join(rows, "\n"))
	return err
}

func csvRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

// Extension returns the file extension for this format
func (e *CSVExporter) Extension() string {
	return "csv"
}

// MimeType returns the media type of the output
func (e *CSVExporter) MimeType() string {
	return "text/csv"
}
