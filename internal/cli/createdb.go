package cli

import (
	"github.com/spf13/cobra"
)

var createDBCmd = &cobra.Command{
	Use:   "create-db <region>",
	Short: "Create a Postgres database and attach it to the server app",
	Long: `Creates <basename>-db on Fly.io and attaches it to the server app, which
sets its DATABASE_URL secret. The database credentials are shown once; take
note of them before continuing.

Sizing and organization come from .flydeploy.yaml in the Wasp project.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreateDB,
}

func runCreateDB(cmd *cobra.Command, args []string) error {
	region := args[0]
	if err := requireRegion(cmd, region); err != nil {
		return err
	}
	return current.engine.CreateDB(cmd.Context(), region)
}
