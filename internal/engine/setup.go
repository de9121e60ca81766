package engine

import (
	"context"

	"github.com/picklr-io/flydeploy/internal/identity"
	"github.com/picklr-io/flydeploy/internal/logging"
	"github.com/picklr-io/flydeploy/internal/state"
)

// Setup provisions whichever apps are missing without creating a database
// or deploying. Apps whose record already exists are skipped, so Setup can
// be re-run after a partial failure.
func (e *Engine) Setup(ctx context.Context, base, region string) error {
	if err := identity.ValidateBase(base); err != nil {
		return err
	}
	phase, err := state.Detect(ctx, e.store)
	if err != nil {
		return err
	}
	logging.Info("setup", "base", base, "region", region, "phase", phase)

	n := e.names(base)
	needServer, needClient := !phase.Has(identity.Server), !phase.Has(identity.Client)
	if !needServer {
		e.out.Info("Server app %s already exists, skipping.", n.Server)
	}
	if !needClient {
		e.out.Info("Client app %s already exists, skipping.", n.Client)
	}
	if phase.Complete() {
		return nil
	}

	rep := e.newReport()
	ok, err := rep.attempt("identity check", func() error {
		return e.verifyIdentity(ctx, phase, base)
	})
	if err != nil || !ok {
		return firstErr(err, rep)
	}
	if ok, err := e.build(ctx, rep); err != nil || !ok {
		return firstErr(err, rep)
	}

	serverReady := !needServer
	if needServer {
		e.out.Title("Setting up server app %s", n.Server)
		ok, err := rep.attempt("server setup", func() error {
			return e.provisionServer(ctx, n, region)
		})
		if err != nil {
			return err
		}
		serverReady = ok
		if ok {
			e.out.Success("Server app %s created.", n.Server)
		}
	}

	if needClient {
		if !serverReady {
			rep.skip("client setup", "the server app is not set up")
		} else {
			e.out.Title("Setting up client app %s", n.Client)
			ok, err := rep.attempt("client setup", func() error {
				return e.provisionClient(ctx, n, region)
			})
			if err != nil {
				return err
			}
			if ok {
				e.out.Success("Client app %s created.", n.Client)
			}
		}
	}

	if rep.ok() {
		e.out.Success("Setup complete.")
		if needServer {
			e.out.Hint("Next, create a database with the create-db command, then run deploy.")
		}
	}
	return rep.err()
}

// firstErr returns a fatal error if there is one, else the report's outcome.
func firstErr(err error, rep *report) error {
	if err != nil {
		return err
	}
	return rep.err()
}
