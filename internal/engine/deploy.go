package engine

import (
	"context"

	"github.com/picklr-io/flydeploy/internal/identity"
	"github.com/picklr-io/flydeploy/internal/logging"
	"github.com/picklr-io/flydeploy/internal/state"
	"github.com/picklr-io/flydeploy/providers/fly"
)

// Deploy redeploys every app whose record exists. The server is only
// deployed when its database binding is in place.
func (e *Engine) Deploy(ctx context.Context) error {
	phase, err := state.Detect(ctx, e.store)
	if err != nil {
		return err
	}
	logging.Info("deploy", "phase", phase, "strategy", e.strategy())

	if !phase.Any() {
		e.out.Info("No apps found; run setup first.")
		return nil
	}

	rep := e.newReport()
	if ok, err := e.build(ctx, rep); err != nil || !ok {
		return firstErr(err, rep)
	}

	if phase.Has(identity.Server) {
		e.out.Title("Deploying server")
		ok, err := rep.attempt("server deploy", func() error {
			return e.deployServer(ctx)
		})
		if err != nil {
			return err
		}
		if ok {
			e.out.Success("Server deployed.")
		}
	} else {
		e.out.Info("No server app found at %s; run setup first.", e.location(identity.Server))
	}

	if phase.Has(identity.Client) {
		e.out.Title("Deploying client")
		ok, err := rep.attempt("client deploy", func() error {
			return e.deployClient(ctx)
		})
		if err != nil {
			return err
		}
		if ok {
			e.out.Success("Client deployed.")
		}
	} else {
		e.out.Info("No client app found at %s; run setup first.", e.location(identity.Client))
	}

	return rep.err()
}

// deployServer requires DATABASE_URL on the server app before deploying it.
func (e *Engine) deployServer(ctx context.Context) error {
	rec, err := state.ReadRecord(ctx, e.store, e.location(identity.Server))
	if err != nil {
		return err
	}
	return e.withRecord(ctx, identity.Server, func(dir string) error {
		secrets, err := e.fly.ListSecrets(ctx, dir)
		if err != nil {
			return err
		}
		if !fly.HasSecret(secrets, fly.DatabaseURLSecret) {
			return &MissingSecretError{App: rec.App, Secret: fly.DatabaseURLSecret}
		}
		return e.fly.Deploy(ctx, dir, e.strategy())
	})
}

// deployClient rebuilds the client against the server URL derived from the
// client record and deploys it.
func (e *Engine) deployClient(ctx context.Context) error {
	base, err := state.RecoverBase(ctx, e.store, identity.Client)
	if err != nil {
		return err
	}
	n := e.names(base)
	return e.withRecord(ctx, identity.Client, func(dir string) error {
		if err := e.buildClient(ctx, dir, n.ServerURL); err != nil {
			return err
		}
		return e.fly.Deploy(ctx, dir, e.strategy())
	})
}
