package cmd

import (
	"errors"
	"strings"

	"github.com/iksnae/sentry-client/internal"
	"github.com/iksnae/sentry-client/internal/export"
	"github.com/spf13/cobra"
)

var (
	searchPrivacy []string
	searchSort    string
	searchPage    int
	searchExport  string
	searchOutDir  string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Ask the backend a question about your documents",
	Long: `Send a natural-language query to the backend and show the answer.

When the backend returns nothing usable, the built-in sample documents are
filtered instead: by query text, by --privacy label and ordered by --sort.
Results are shown three per page; --page selects the page and is clamped
into range. --export writes the shown result set to search_results.<ext>.`,
	Example: `  sentry search "who owns the budget"
  sentry search react --privacy Public --sort date_desc --page 2
  sentry search node --export csv --out ./reports`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		query := strings.Join(args, " ")

		order, err := internal.ParseSortOrder(searchSort)
		if err != nil {
			return err
		}
		var exporter export.Exporter
		if searchExport != "" {
			if exporter, err = export.NewExporter(searchExport); err != nil {
				return err
			}
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		flow := internal.NewSearchFlow(a.client, a.session, a.cfg)
		if err := flow.SetPrivacyFilter(searchPrivacy...); err != nil {
			return err
		}
		flow.SetSort(order)

		err = internal.ShowProgress(cmd.Context(), "Searching", func() error {
			_, submitErr := flow.Submit(cmd.Context(), query)
			return submitErr
		})
		// a failed query still shows the sample documents; the error is returned last
		var queryErr *internal.QueryError
		if err != nil && !errors.As(err, &queryErr) {
			return err
		}

		if !flow.HasSearched() {
			internal.PrintInfo(out, "Enter a search query to see results.")
			return nil
		}

		page := flow.SetPage(searchPage)
		printResults(out, flow.PageItems(), query, page, flow.PageCount(), len(flow.Filtered()))

		if exporter != nil {
			path, err := export.WriteFile(searchOutDir, exporter, flow.Filtered())
			if errors.Is(err, internal.ErrNothingToExport) {
				internal.PrintWarning(cmd.ErrOrStderr(), "Nothing to export")
			} else if err != nil {
				return err
			} else {
				internal.PrintSuccess(out, "Exported to "+path)
			}
		}

		if queryErr != nil {
			return queryErr
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringSliceVarP(&searchPrivacy, "privacy", "p", nil, "Privacy labels to include (Public, Confidential, Restricted)")
	searchCmd.Flags().StringVarP(&searchSort, "sort", "s", string(internal.SortTitleAsc), "Sort order (title_asc, title_desc, date_asc, date_desc)")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "Page to show")
	searchCmd.Flags().StringVarP(&searchExport, "export", "e", "", "Export results (csv, json, jsonl, yaml, md)")
	searchCmd.Flags().StringVarP(&searchOutDir, "out", "o", ".", "Directory for exported files")
}
