package cli

import (
	"github.com/picklr-io/flydeploy/internal/identity"
	"github.com/spf13/cobra"
)

var cmdContext string

var cmdCmd = &cobra.Command{
	Use:   "cmd --context <server|client> <flyctl args...>",
	Short: "Run a flyctl command against the server or client app",
	Long: `Runs flyctl with the given arguments next to the app's fly.toml. Changes
flyctl makes to fly.toml are saved even if the command fails.

Everything after the first argument is passed to flyctl unchanged, for example:
  flydeploy fly cmd --wasp-dir $PWD --context server secrets list`,
	Args: cobra.MatchAll(cobra.MinimumNArgs(1), validContext),
	RunE: runCmd,
}

func init() {
	cmdCmd.Flags().StringVar(&cmdContext, "context", "", "App to run against: server or client")
	_ = cmdCmd.MarkFlagRequired("context")
	cmdCmd.Flags().SetInterspersed(false)
}

// validContext rejects a bad --context before preflight runs.
func validContext(cmd *cobra.Command, args []string) error {
	_, err := identity.ParseTier(cmdContext)
	return err
}

func runCmd(cmd *cobra.Command, args []string) error {
	tier, err := identity.ParseTier(cmdContext)
	if err != nil {
		return err
	}
	return current.engine.Command(cmd.Context(), tier, args)
}
