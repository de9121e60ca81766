package cli

import (
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup <basename> <region>",
	Short: "Set up the server and client apps without deploying",
	Long: `Creates <basename>-server and <basename>-client on Fly.io and saves their
fly.toml files. The server gets its JWT_SECRET, PORT and WASP_WEB_CLIENT_URL
secrets. No database is created and nothing is deployed; run create-db and
deploy next.

Apps that already exist are skipped, so setup can be re-run after a failure.`,
	Args: cobra.ExactArgs(2),
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVar(&skipBuild, "skip-build", false, "Do not run wasp build first")
}

func runSetup(cmd *cobra.Command, args []string) error {
	base, region := args[0], args[1]
	if err := requireRegion(cmd, region); err != nil {
		return err
	}
	return current.engine.Setup(cmd.Context(), base, region)
}
