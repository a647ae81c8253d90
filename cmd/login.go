package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/sentry-client/internal"
	"github.com/spf13/cobra"
)

var (
	loginUserID   int
	loginOrgID    int
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the access token",
	Long: `Authenticate against the backend and store the returned bearer token in
client storage. The token is read by upload and search and removed by logout.

The password can also be given through SENTRY_PASSWORD.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if loginPassword == "" {
			loginPassword = os.Getenv("SENTRY_PASSWORD")
		}
		if loginUserID <= 0 {
			return &internal.ValidationError{Msg: "--user-id is required"}
		}
		if loginPassword == "" {
			return &internal.ValidationError{Msg: "--password is required"}
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		orgID := loginOrgID
		if orgID == 0 {
			orgID = a.cfg.Ingest.OrgID
		}

		var token *internal.TokenResponse
		err = internal.ShowProgressWithSteps(cmd.Context(), []internal.ProgressStep{
			{Message: "Authenticating", Fn: func() error {
				var loginErr error
				token, loginErr = a.client.Login(cmd.Context(), internal.LoginRequest{
					UserID:   loginUserID,
					OrgID:    orgID,
					Password: loginPassword,
				})
				return loginErr
			}},
			{Message: "Storing credential", Fn: func() error {
				return a.session.SetToken(token.AccessToken)
			}},
		})
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		internal.PrintSuccess(cmd.OutOrStdout(), "Logged in "+idStyle.Render(internal.MaskToken(token.AccessToken)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().IntVar(&loginUserID, "user-id", 0, "User ID")
	loginCmd.Flags().IntVar(&loginOrgID, "org-id", 0, "Organization ID (default ingest.org_id)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password")
}
