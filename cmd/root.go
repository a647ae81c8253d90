package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iksnae/sentry-client/internal"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	configPath  string
	storagePath string
	apiURL      string
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sentry",
	Short: "Upload and search documents through the SENTRY privacy backend",
	Long: `A command-line client for the SENTRY document-privacy backend.

Documents and pasted text are ingested with a sensitivity level (1-10) and
can then be queried in natural language. The demo command shows the same
flow entirely offline, side by side with what an attacker would see.

Features:
  • Upload files (pdf, txt, docx, png, jpeg up to 20 MiB) or pasted text
  • Search with privacy filters, sorting and pagination
  • Export results (CSV, JSON, JSONL, YAML, Markdown)
  • Offline demo with an attacker view

Quick Start:
  sentry login --user-id 1 --password secret
  sentry upload report.pdf --level 8
  sentry search "quarterly budget" --export csv
  sentry demo notes.txt --query notes

Configuration is read from ~/.config/sentry/config.yaml, SENTRY_* environment
variables and a .env file in the working directory.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		internal.LogWarn("Failed to load .env: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		internal.PrintError(os.Stderr, fmt.Sprintf("Error: %v", err))
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/sentry/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Client storage database (default ~/.sentry/storage.db)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Backend base URL (overrides api.base_url)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
