package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/iksnae/sentry-client/internal"
	"github.com/spf13/cobra"
)

// healthcheckTimeout bounds the backend reachability probe
const healthcheckTimeout = 5 * time.Second

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check configuration, client storage and backend reachability",
	Long: `Check the health of the client by verifying:
  • Configuration loading and validation
  • Client storage access and stored credential
  • Backend reachability

Use --verbose for paths and response details.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, sectionStyle.Render("🔍 SENTRY Health Check"))
		_, _ = fmt.Fprintln(out)

		// Step 1: Configuration
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 1: Loading configuration..."))
		cfg, err := loadConfig()
		if err != nil {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Failed to load configuration:"), err)
			return err
		}
		_, _ = fmt.Fprintln(out, successStyle.Render("✅ Configuration valid"))
		if verbose {
			_, _ = fmt.Fprintf(out, "   Backend: %s (timeout %s)\n", cfg.API.BaseURL, cfg.API.Timeout)
			_, _ = fmt.Fprintf(out, "   Org: %d, roles: %v, default level: %d\n", cfg.Ingest.OrgID, cfg.Ingest.ACLRoles, cfg.Ingest.DefaultLevel)
		}
		_, _ = fmt.Fprintln(out)

		// Step 2: Client storage
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 2: Opening client storage..."))
		storage, err := internal.OpenStorage(cfg.Storage.Path)
		if err != nil {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Failed to open client storage:"), err)
			return err
		}
		defer func() { _ = storage.Close() }()
		_, _ = fmt.Fprintln(out, successStyle.Render("✅ Client storage accessible"))
		if verbose {
			_, _ = fmt.Fprintf(out, "   Database: %s\n", storage.Path())
			if pairs, err := storage.LoadAll(); err == nil {
				_, _ = fmt.Fprintf(out, "   Keys: %d\n", len(pairs))
			}
		}
		if _, ok := internal.NewSession(storage).Token(); ok {
			_, _ = fmt.Fprintln(out, successStyle.Render("✅ Credential stored"))
		} else {
			_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  No credential stored (run 'sentry login')"))
		}
		_, _ = fmt.Fprintln(out)

		// Step 3: Backend
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 3: Contacting backend..."))
		ctx, cancel := context.WithTimeout(cmd.Context(), healthcheckTimeout)
		defer cancel()
		status, err := internal.NewClient(cfg.API.BaseURL, cfg.API.Timeout).Ping(ctx)
		if err != nil {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Backend unreachable:"), err)
			return fmt.Errorf("backend unreachable: %w", err)
		}
		if status >= http.StatusInternalServerError {
			_, _ = fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("⚠️  Backend answered %d %s", status, http.StatusText(status))))
		} else {
			_, _ = fmt.Fprintln(out, successStyle.Render("✅ Backend reachable"))
		}
		if verbose {
			_, _ = fmt.Fprintf(out, "   Status: %d\n", status)
		}
		_, _ = fmt.Fprintln(out)

		_, _ = fmt.Fprintln(out, successStyle.Render("✅ Health check complete"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
