package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/picklr-io/flydeploy/internal/identity"
	"github.com/picklr-io/flydeploy/internal/logging"
	"github.com/picklr-io/flydeploy/internal/runner"
	"github.com/picklr-io/flydeploy/internal/state"
)

// Command runs an arbitrary flyctl command against the tier's app. The
// record is copied back afterwards even when the command fails, so edits
// such as `config save` are kept. A failing command is reported but is not
// an error.
func (e *Engine) Command(ctx context.Context, tier identity.Tier, args []string) error {
	location := e.location(tier)
	exists, err := e.store.Exists(ctx, location)
	if err != nil {
		return err
	}
	if !exists {
		e.out.Warn("No %s record at %s; running without a fly.toml.", tier, location)
	}
	logging.Info("command", "tier", tier, "args", strings.Join(args, " "))

	dir := e.workDir(tier)
	sync, err := state.Acquire(ctx, e.store, location, dir)
	if err != nil {
		return err
	}
	err = e.fly.Passthrough(ctx, dir, args)
	if rerr := sync.Release(ctx); rerr != nil {
		return fmt.Errorf("failed to copy fly.toml back to %s: %w", location, rerr)
	}
	if err == nil {
		return nil
	}
	if !errors.Is(err, runner.ErrToolFailed) {
		return err
	}

	e.out.Error("%v", err)
	e.out.Hint("If the command failed, note that many commands require a toml file or a -a option specifying the app name.")
	e.out.Hint("If you already have an app, consider running \"config save -- -a <app-name>\".")
	return nil
}
