package internal

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

var highlightStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("0")).
	Background(lipgloss.Color("226"))

// MarkHighlight renders a matched span
func MarkHighlight(s string) string {
	return highlightStyle.Render(s)
}

// ContainsFold reports whether query occurs in text, ignoring case.
// An empty query matches everything.
func ContainsFold(text, query string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(query))
}

// Highlight wraps every case-insensitive occurrence of query in text with mark.
// Matching is rune-wise so non-ASCII case folding cannot shift offsets.
func Highlight(text, query string, mark func(string) string) string {
	if query == "" || mark == nil {
		return text
	}
	qn := utf8.RuneCountInString(query)
	tr := []rune(text)

	var b strings.Builder
	last := 0
	for i := 0; i+qn <= len(tr); {
		if strings.EqualFold(string(tr[i:i+qn]), query) {
			b.WriteString(string(tr[last:i]))
			b.WriteString(mark(string(tr[i : i+qn])))
			i += qn
			last = i
			continue
		}
		i++
	}
	b.WriteString(string(tr[last:]))
	return b.String()
}
