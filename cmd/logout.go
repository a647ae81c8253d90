package cmd

import (
	"fmt"

	"github.com/iksnae/sentry-client/internal"
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored credential",
	Long:  `Remove everything kept in client storage, including the access token. Running it again is harmless.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		route, err := internal.NewSearchFlow(a.client, a.session, a.cfg).Logout()
		if err != nil {
			return fmt.Errorf("logout failed: %w", err)
		}
		next := internal.Resolve(route)
		internal.PrintSuccess(cmd.OutOrStdout(), "Logged out")
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Next: %s (%s)\n", next.Path, next.Screen)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show whether a credential is stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		token, ok := a.session.Token()
		if !ok {
			internal.PrintWarning(cmd.ErrOrStderr(), "Not logged in")
			return internal.ErrNotAuthenticated
		}
		internal.PrintSuccess(cmd.OutOrStdout(), "Logged in "+idStyle.Render(internal.MaskToken(token)))
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Backend: %s\n", a.cfg.API.BaseURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
