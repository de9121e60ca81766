package engine

import (
	"context"

	"github.com/picklr-io/flydeploy/internal/identity"
	"github.com/picklr-io/flydeploy/internal/logging"
	"github.com/picklr-io/flydeploy/internal/state"
)

// CreateDB creates the Postgres cluster for an already set up server app and
// attaches it. The database name is derived from the server record.
func (e *Engine) CreateDB(ctx context.Context, region string) error {
	phase, err := state.Detect(ctx, e.store)
	if err != nil {
		return err
	}
	logging.Info("create-db", "region", region, "phase", phase)

	if !phase.Has(identity.Server) {
		e.out.Info("No server app found at %s; run setup first.", e.location(identity.Server))
		return nil
	}

	rep := e.newReport()
	var base string
	ok, err := rep.attempt("identity check", func() error {
		var err error
		base, err = state.RecoverBase(ctx, e.store, identity.Server)
		return err
	})
	if err != nil || !ok {
		return firstErr(err, rep)
	}

	n := e.names(base)
	e.out.Title("Creating database %s", n.Database)
	ok, err = rep.attempt("database setup", func() error {
		return e.createDatabase(ctx, n, region)
	})
	if err != nil {
		return err
	}
	if ok {
		e.out.Success("Database %s attached to %s.", n.Database, n.Server)
	}
	return rep.err()
}
