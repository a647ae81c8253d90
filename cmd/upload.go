package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/iksnae/sentry-client/internal"
	"github.com/spf13/cobra"
)

var (
	uploadText     string
	uploadTextFile string
	uploadLevel    int
	uploadExclude  []string
)

var uploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Upload files or text for private ingestion",
	Long: `Submit files and/or pasted text to the ingestion endpoint with a sensitivity
level from 1 to 10 (1-3 Public, 4-7 Confidential, 8-10 Restricted).

Accepted files: pdf, txt, docx, png, jpeg up to 20 MiB. Rejected files are
reported and skipped. When text is given it is ingested as the content;
otherwise the selected file names are.`,
	Example: `  sentry upload report.pdf scan.png --level 9
  sentry upload --text "meeting notes" --level 3
  cat notes.txt | sentry upload --text-file -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		text := uploadText
		if uploadTextFile != "" {
			data, err := readTextFile(cmd, uploadTextFile)
			if err != nil {
				return err
			}
			text = data
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		flow := internal.NewUploadFlow(a.client, a.session, a.cfg)
		if cmd.Flags().Changed("level") {
			if err := flow.SetLevel(internal.Sensitivity(uploadLevel)); err != nil {
				return err
			}
		}

		if len(args) > 0 {
			if err := flow.SelectFiles(args...); err != nil {
				var rejected *internal.RejectionError
				if !errors.As(err, &rejected) {
					return err
				}
				internal.PrintWarning(cmd.ErrOrStderr(), rejected.Error())
			}
		}
		for _, name := range uploadExclude {
			if !flow.RemoveFile(name) {
				internal.LogWarn("No pending file named %s", name)
			}
		}
		flow.SetText(text)

		printPending(out, flow.Pending())
		_, _ = fmt.Fprintf(out, "Sensitivity: %s (%d%%)\n", privacyLabel(flow.Level().Label()), flow.Level().Percent())

		update, done := progressReporter(cmd.ErrOrStderr(), "Uploading")
		flow.OnProgress = update
		internal.LogInfo("Sending to %s", a.client.BaseURL())
		receipt, err := flow.Submit(cmd.Context())
		done()
		if err != nil {
			return err
		}

		internal.PrintSuccess(out, fmt.Sprintf("Uploaded and scrambled %d chunk(s)", receipt.ChunkCount))
		printReceipts(out, flow.Receipts())
		return nil
	},
}

// readTextFile reads pasted text from a file, or stdin for "-"
func readTextFile(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	return string(data), nil
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().StringVarP(&uploadText, "text", "t", "", "Text to ingest instead of file names")
	uploadCmd.Flags().StringVar(&uploadTextFile, "text-file", "", "Read the text from a file (- for stdin)")
	uploadCmd.Flags().IntVarP(&uploadLevel, "level", "l", int(internal.DefaultSensitivity), "Sensitivity level 1-10 (default ingest.default_level)")
	uploadCmd.Flags().StringSliceVar(&uploadExclude, "exclude", nil, "Drop a selected file by name before submitting")
}
