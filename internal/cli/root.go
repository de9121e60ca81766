package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/picklr-io/flydeploy/internal/logging"
	"github.com/spf13/cobra"
)

var (
	logLevel string
	noColor  bool
)

var rootCmd = &cobra.Command{
	Use:   "flydeploy",
	Short: "Deploy Wasp apps to Fly.io",
	Long: `flydeploy provisions and redeploys a Wasp app on Fly.io.

A Wasp app runs as two Fly.io apps:
  • <basename>-server, the Node.js server, backed by <basename>-db
  • <basename>-client, the static web client

The fly.toml of each app is kept as fly-server.toml and fly-client.toml,
so every command can be re-run safely after a failure.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logLevel)
	},
}

// Execute runs the root command. An interrupt cancels the running external
// command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.EnableTraverseRunHooks = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(flyCmd)
}
