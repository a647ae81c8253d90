package cmd

import (
	"fmt"
	"strings"

	"github.com/iksnae/sentry-client/internal"
	"github.com/spf13/cobra"
)

// screenCommands maps each screen to the command that drives it
var screenCommands = map[internal.Screen]string{
	internal.ScreenHome:   "sentry --help",
	internal.ScreenLogin:  "sentry login",
	internal.ScreenSignup: "sentry login",
	internal.ScreenUpload: "sentry upload",
	internal.ScreenSearch: "sentry search",
	internal.ScreenDemo:   "sentry demo",
}

// dashboardTabs are the screens linked from the dashboard layout
var dashboardTabs = []internal.Screen{internal.ScreenUpload, internal.ScreenSearch, internal.ScreenDemo}

var openCmd = &cobra.Command{
	Use:   "open <path>",
	Short: "Resolve an application route",
	Long: `Resolve a route such as /dashboard/search and show which screen it renders
and which command drives it. Unknown paths redirect to /.`,
	Example: `  sentry open /dashboard
  sentry open /dashboard/search`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res := internal.Resolve(args[0])
		out := cmd.OutOrStdout()

		if res.Redirected {
			_, _ = fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("⚠ No route for %s, redirected to %s", args[0], res.Path)))
		}
		_, _ = fmt.Fprintf(out, "Route:   %s\n", res.Path)
		_, _ = fmt.Fprintf(out, "Screen:  %s\n", titleStyle.Render(string(res.Screen)))
		if res.Dashboard {
			tabs := make([]string, len(dashboardTabs))
			for i, screen := range dashboardTabs {
				tabs[i] = internal.DashboardPath(screen)
			}
			_, _ = fmt.Fprintf(out, "Layout:  dashboard (%s)\n", strings.Join(tabs, " | "))
		}
		_, _ = fmt.Fprintf(out, "Command: %s\n", screenCommands[res.Screen])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
