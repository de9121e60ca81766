package cli

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which apps have been set up",
	Long: `Reads fly-server.toml and fly-client.toml and prints the deployment phase
and the app names and URLs they record. flyctl is not called.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	st, err := current.engine.Status(cmd.Context())
	if err != nil {
		return err
	}

	out := current.out
	out.Title("Phase: %s", st.Phase)
	for _, ts := range st.Tiers {
		switch {
		case !ts.Present:
			out.Info("%-6s  not set up (%s)", ts.Tier, ts.Location)
		case ts.Err != nil:
			out.Warn("%s record %s: %v", ts.Tier, ts.Location, ts.Err)
		default:
			out.Success("%-6s  %s  %s", ts.Tier, ts.App, ts.URL)
		}
	}
	return nil
}
