package cli

import (
	"github.com/spf13/cobra"
)

var launchCmd = &cobra.Command{
	Use:   "launch <basename> <region>",
	Short: "Set up, create the database for and deploy a new app in one step",
	Long: `Runs setup, create-db and deploy in one go for the apps that do not exist
yet. Apps that already exist are skipped; use deploy to update them.`,
	Args: cobra.ExactArgs(2),
	RunE: runLaunch,
}

func init() {
	launchCmd.Flags().BoolVar(&skipBuild, "skip-build", false, "Do not run wasp build first")
	launchCmd.Flags().BoolVar(&localBuild, "local-build", false, "Build images with the local Docker daemon")
}

func runLaunch(cmd *cobra.Command, args []string) error {
	base, region := args[0], args[1]
	if err := requireRegion(cmd, region); err != nil {
		return err
	}
	if err := requireDocker(cmd); err != nil {
		return err
	}
	return current.engine.Launch(cmd.Context(), base, region)
}
