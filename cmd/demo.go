package cmd

import (
	"errors"
	"fmt"

	"github.com/iksnae/sentry-client/internal"
	"github.com/spf13/cobra"
)

var (
	demoText  string
	demoQuery string
)

var demoCmd = &cobra.Command{
	Use:   "demo [files...]",
	Short: "Simulate secure upload and search offline",
	Long: `Run the upload and search flow locally without a backend. Selected files and
text become demo documents, which are then searched by --query (all of them
when it is empty).

Two views are printed: what you see, with the query highlighted, and what an
attacker without the key sees: random characters of the same length, new on
every run.`,
	Example: `  sentry demo notes.txt --query notes
  sentry demo --text "salary review for Q3" --query salary`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		flow := internal.NewDemoFlow(cfg)
		if len(args) > 0 {
			if err := flow.SelectFiles(args...); err != nil {
				var rejected *internal.RejectionError
				if !errors.As(err, &rejected) {
					return err
				}
				internal.PrintWarning(cmd.ErrOrStderr(), rejected.Error())
			}
		}
		flow.SetText(demoText)

		update, done := progressReporter(cmd.ErrOrStderr(), "Encrypting")
		flow.OnProgress = update
		docs, err := flow.Upload(cmd.Context())
		done()
		if err != nil {
			var valErr *internal.ValidationError
			if errors.As(err, &valErr) {
				return errors.New(flow.LastError())
			}
			return err
		}
		internal.PrintSuccess(out, fmt.Sprintf("%d document(s) uploaded (simulated)", len(docs)))

		results, err := flow.Search(demoQuery)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, sectionStyle.Render("👤 User View"))
		if len(results) == 0 {
			_, _ = fmt.Fprintln(out, "No results found.")
		}
		for _, line := range flow.UserView(internal.MarkHighlight) {
			_, _ = fmt.Fprintln(out, "  "+line)
		}

		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, sectionStyle.Render("🕵️ Attacker View"))
		for _, line := range flow.AttackerView() {
			_, _ = fmt.Fprintln(out, "  "+attackerStyle.Render(line))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().StringVarP(&demoText, "text", "t", "", "Text to add as a demo document")
	demoCmd.Flags().StringVarP(&demoQuery, "query", "q", "", "Search query (empty shows every document)")
}
