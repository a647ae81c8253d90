package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/sentry-client/internal"
)

// MarkdownExporter exports result sets as a Markdown table
type MarkdownExporter struct{}

// Export writes a heading and a table with one row per item
func (e *MarkdownExporter) Export(items []internal.ResultItem, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# Search Results\n\n**Results:** %d\n\n", len(items)); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(csvHeader, " | "))
	_, _ = fmt.Fprintf(w, "|%s\n", strings.Repeat(" --- |", len(csvHeader)))

	for _, it := range items {
		_, err := fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
			escapeCell(it.Type), escapeCell(it.Content), escapeCell(it.Privacy), escapeCell(it.Date))
		if err != nil {
			return err
		}
	}
	return nil
}

// escapeCell keeps a value inside its table cell
func escapeCell(text string) string {
	text = strings.ReplaceAll(text, "|", "\\|")
	text = strings.ReplaceAll(text, "\r\n", "<br>")
	text = strings.ReplaceAll(text, "\n", "<br>")
	text = strings.ReplaceAll(text, "**", "\\*\\*")
	return text
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}

// MimeType returns the media type of the output
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}
