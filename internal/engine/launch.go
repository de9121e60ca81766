package engine

import (
	"context"

	"github.com/picklr-io/flydeploy/internal/identity"
	"github.com/picklr-io/flydeploy/internal/logging"
	"github.com/picklr-io/flydeploy/internal/state"
)

// Launch sets up, creates the database for and deploys whichever apps are
// missing, in one run.
func (e *Engine) Launch(ctx context.Context, base, region string) error {
	if err := identity.ValidateBase(base); err != nil {
		return err
	}
	phase, err := state.Detect(ctx, e.store)
	if err != nil {
		return err
	}
	logging.Info("launch", "base", base, "region", region, "phase", phase)

	n := e.names(base)
	needServer, needClient := !phase.Has(identity.Server), !phase.Has(identity.Client)
	if !needServer {
		e.out.Info("Server app %s already exists, skipping.", n.Server)
	}
	if !needClient {
		e.out.Info("Client app %s already exists, skipping.", n.Client)
	}
	if phase.Complete() {
		e.out.Hint("Use the deploy command to push new changes.")
		return nil
	}

	rep := e.newReport()
	ok, err := rep.attempt("identity check", func() error {
		return e.verifyIdentity(ctx, phase, base)
	})
	if err != nil || !ok {
		return firstErr(err, rep)
	}

	e.out.Warn("NOTE: Please do not exit this terminal session until it has completed.")
	if ok, err := e.build(ctx, rep); err != nil || !ok {
		return firstErr(err, rep)
	}

	serverReady := !needServer
	if needServer {
		ready, err := e.launchServer(ctx, rep, n, region)
		if err != nil {
			return err
		}
		serverReady = ready
	}

	if needClient {
		if !serverReady {
			rep.skip("client launch", "the server app is not ready")
		} else if err := e.launchClient(ctx, rep, n, region); err != nil {
			return err
		}
	}

	if rep.ok() {
		e.out.Success("Congratulations! Your Wasp app is now accessible at %s", n.ClientURL)
	}
	return rep.err()
}

// launchServer runs the server steps in order, stopping at the first
// failure. It reports whether the server ended up deployed.
func (e *Engine) launchServer(ctx context.Context, rep *report, n identity.Names, region string) (bool, error) {
	e.out.Title("Launching server app %s", n.Server)
	ok, err := rep.sequence(
		step{"server setup", func() error { return e.provisionServer(ctx, n, region) }},
		step{"database setup", func() error { return e.createDatabase(ctx, n, region) }},
		step{"server deploy", func() error { return e.deployServer(ctx) }},
	)
	if err != nil || !ok {
		return false, err
	}
	e.out.Success("Server app %s deployed.", n.Server)
	return true, nil
}

// launchClient builds the client against the server URL, sets it up and
// deploys it.
func (e *Engine) launchClient(ctx context.Context, rep *report, n identity.Names, region string) error {
	e.out.Title("Launching client app %s", n.Client)
	dir := e.workDir(identity.Client)
	ok, err := rep.sequence(
		step{"client build", func() error { return e.buildClient(ctx, dir, n.ServerURL) }},
		step{"client setup", func() error { return e.provisionClient(ctx, n, region) }},
		step{"client deploy", func() error {
			return e.withRecord(ctx, identity.Client, func(dir string) error {
				return e.fly.Deploy(ctx, dir, e.strategy())
			})
		}},
	)
	if err != nil || !ok {
		return err
	}
	e.out.Success("Client app %s deployed.", n.Client)
	return nil
}
