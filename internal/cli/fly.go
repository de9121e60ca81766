package cli

import (
	"errors"
	"fmt"

	"github.com/picklr-io/flydeploy/internal/config"
	"github.com/picklr-io/flydeploy/internal/engine"
	"github.com/picklr-io/flydeploy/internal/preflight"
	"github.com/picklr-io/flydeploy/internal/state"
	"github.com/picklr-io/flydeploy/internal/ui"
	"github.com/picklr-io/flydeploy/providers/fly"
	"github.com/picklr-io/flydeploy/providers/wasp"
	"github.com/spf13/cobra"
)

var (
	waspDir    string
	tomlDir    string
	tomlStore  string
	awsRegion  string
	awsProfile string

	skipBuild  bool
	localBuild bool
)

// session is what the fly sub-commands share once preflight has passed.
type session struct {
	out      *ui.Printer
	settings *config.Settings
	checker  *preflight.Checker
	engine   *engine.Engine
}

var current *session

var flyCmd = &cobra.Command{
	Use:   "fly",
	Short: "Provision and deploy a Wasp app on Fly.io",
	Long: `Provision and deploy a Wasp app on Fly.io.

Run setup, then create-db, then deploy. Or run launch to do all three at once.
Every sub-command needs the absolute path of the Wasp project in --wasp-dir.`,
	PersistentPreRunE: prepare,
}

func init() {
	flags := flyCmd.PersistentFlags()
	flags.StringVar(&waspDir, "wasp-dir", "", "Absolute path to the Wasp project")
	flags.StringVar(&tomlDir, "toml-dir", "", "Absolute path to the directory holding fly-server.toml and fly-client.toml (default: --wasp-dir)")
	flags.StringVar(&tomlStore, "toml-store", "", "Keep the toml files in S3 instead, as s3://bucket/prefix")
	flags.StringVar(&awsRegion, "aws-region", "", "AWS region of the --toml-store bucket")
	flags.StringVar(&awsProfile, "aws-profile", "", "AWS shared config profile for --toml-store")
	_ = flyCmd.MarkPersistentFlagRequired("wasp-dir")

	flyCmd.AddCommand(setupCmd)
	flyCmd.AddCommand(createDBCmd)
	flyCmd.AddCommand(deployCmd)
	flyCmd.AddCommand(launchCmd)
	flyCmd.AddCommand(cmdCmd)
	flyCmd.AddCommand(statusCmd)
}

// prepare validates the environment and builds the session. Directory
// arguments are checked before anything else runs.
func prepare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := ui.NewPrinter(cmd.OutOrStdout(), !noColor)

	// Required flags are only validated after the pre-run hooks.
	if waspDir == "" {
		return errors.New(`required flag "wasp-dir" not set`)
	}
	dirs := []preflight.Dir{{Flag: "wasp-dir", Path: waspDir}, {Flag: "toml-dir", Path: tomlDir}}
	if err := preflight.PathsAbsolute(dirs...); err != nil {
		return advise(out, err)
	}

	settings, err := config.Load(waspDir)
	if err != nil {
		return err
	}

	run := newRunner()
	flyClient := fly.New(run, settings.Platform.Binary)
	prompter := newPrompter()
	checker := &preflight.Checker{Fly: flyClient, Prompter: prompter, Out: out}

	req := preflight.Requirements{Dirs: dirs, WaspDir: waspDir, Offline: cmd == statusCmd}
	if err := checker.Run(ctx, req); err != nil {
		return advise(out, err)
	}

	store, err := state.NewStore(ctx, state.StoreConfig{
		WaspDir:    waspDir,
		TomlDir:    tomlDir,
		Remote:     tomlStore,
		AWSRegion:  awsRegion,
		AWSProfile: awsProfile,
	})
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}

	opts := engine.Options{
		WaspDir:    waspDir,
		TomlDir:    tomlDir,
		SkipBuild:  skipBuild,
		LocalBuild: localBuild,
	}
	current = &session{
		out:      out,
		settings: settings,
		checker:  checker,
		engine: engine.New(opts, engine.Deps{
			Fly:      flyClient,
			Wasp:     wasp.New(run),
			Store:    store,
			Prompter: prompter,
			Out:      out,
			Settings: settings,
		}),
	}
	return nil
}
