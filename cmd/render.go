package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/iksnae/sentry-client/internal"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)

	attackerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2ecc71"))

	levelStyles = map[string]lipgloss.Style{
		internal.PrivacyPublic:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		internal.PrivacyConfidential: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		internal.PrivacyRestricted:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		internal.PrivacyBackend:      lipgloss.NewStyle().Foreground(lipgloss.Color("135")),
	}
)

func privacyLabel(label string) string {
	if style, ok := levelStyles[label]; ok {
		return style.Render(label)
	}
	return label
}

func printPending(w io.Writer, files []internal.PendingFile) {
	if len(files) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("📎 %d file(s) selected", len(files))))
	for _, f := range files {
		_, _ = fmt.Fprintf(w, "  %s %s %s\n", f.Name, dateStyle.Render(f.HumanSize()), idStyle.Render(f.MimeType))
	}
}

func printReceipts(w io.Writer, receipts []internal.Receipt) {
	if len(receipts) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, headerStyle.Render("🧾 Upload receipts"))
	for _, r := range receipts {
		_, _ = fmt.Fprintf(w, "  %s %s\n", titleStyle.Render(strings.Join(r.FileNames, ", ")), dateStyle.Render(humanize.Time(r.Timestamp)))
		_, _ = fmt.Fprintf(w, "    Sensitivity: %s (%d%%)\n", privacyLabel(r.Sensitivity.Label()), r.Sensitivity.Percent())
		_, _ = fmt.Fprintf(w, "    Document ID: %s\n", idStyle.Render(r.DocumentID))
		_, _ = fmt.Fprintf(w, "    Chunks:      %s\n", countStyle.Render(humanize.Comma(int64(r.ChunkCount))))
		scrambled := "No"
		if r.Scrambled {
			scrambled = "Yes"
		}
		_, _ = fmt.Fprintf(w, "    Scrambled:   %s\n", scrambled)
	}
}

// printResults renders one page of results as a table, marking the query in content
func printResults(w io.Writer, items []internal.ResultItem, query string, page, pageCount, total int) {
	if total == 0 {
		_, _ = fmt.Fprintln(w, headerStyle.Render("🔍 No results found"))
		return
	}
	_, _ = fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("🔍 %d result(s)", total)))
	_, _ = fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, titleStyle.Render("Type")+"\t"+titleStyle.Render("Content")+"\t"+titleStyle.Render("Privacy")+"\t"+titleStyle.Render("Date")+"\t")
	for _, it := range items {
		content := internal.Highlight(it.Content, strings.TrimSpace(query), internal.MarkHighlight)
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", it.Type, content, privacyLabel(it.Privacy), dateStyle.Render(it.Date))
	}
	_ = tw.Flush()

	if pageCount > 1 {
		_, _ = fmt.Fprintf(w, "\nPage %d of %d\n", page, pageCount)
	}
}

// progressReporter returns an OnProgress callback drawing a bar on w
func progressReporter(w io.Writer, label string) (func(int), func()) {
	bar := internal.NewProgressBar(w, label)
	return bar.Update, bar.Done
}
