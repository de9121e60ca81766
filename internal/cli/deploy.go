package cli

import (
	"github.com/spf13/cobra"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy the apps that have been set up",
	Long: `Builds the project and deploys every app whose fly.toml exists. The client
is rebuilt against the server's URL first. The server is not deployed unless
its DATABASE_URL secret is set.`,
	Args: cobra.NoArgs,
	RunE: runDeploy,
}

func init() {
	deployCmd.Flags().BoolVar(&skipBuild, "skip-build", false, "Do not run wasp build first")
	deployCmd.Flags().BoolVar(&localBuild, "local-build", false, "Build images with the local Docker daemon")
}

func runDeploy(cmd *cobra.Command, args []string) error {
	if err := requireDocker(cmd); err != nil {
		return err
	}
	return current.engine.Deploy(cmd.Context())
}
