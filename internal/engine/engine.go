// Package engine drives the deployment lifecycles: setup, create-db, launch,
// deploy and ad-hoc flyctl commands. Every lifecycle inspects the deployment
// phase once, skips the tiers that are already provisioned and advances a
// tier's record only when its step completed.
package engine

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/picklr-io/flydeploy/internal/config"
	"github.com/picklr-io/flydeploy/internal/identity"
	"github.com/picklr-io/flydeploy/internal/logging"
	"github.com/picklr-io/flydeploy/internal/state"
	"github.com/picklr-io/flydeploy/internal/ui"
	"github.com/picklr-io/flydeploy/providers/fly"
	"github.com/picklr-io/flydeploy/providers/wasp"
)

// Options is the per-invocation configuration. It is never mutated after
// the command line has been parsed.
type Options struct {
	WaspDir    string
	TomlDir    string
	SkipBuild  bool
	LocalBuild bool
}

// Deps are the collaborators an Engine drives.
type Deps struct {
	Fly      *fly.Client
	Wasp     *wasp.Client
	Store    state.Store
	Prompter ui.Prompter
	Out      *ui.Printer
	Settings *config.Settings
	// Secret generates the session-signing secret. Defaults to 32 random
	// bytes, hex encoded.
	Secret func() (string, error)
}

type Engine struct {
	opts     Options
	fly      *fly.Client
	wasp     *wasp.Client
	store    state.Store
	prompt   ui.Prompter
	out      *ui.Printer
	settings *config.Settings
	secret   func() (string, error)
}

func New(opts Options, deps Deps) *Engine {
	settings := deps.Settings
	if settings == nil {
		settings = config.Default()
	}
	secret := deps.Secret
	if secret == nil {
		secret = randomSecret
	}
	return &Engine{
		opts:     opts,
		fly:      deps.Fly,
		wasp:     deps.Wasp,
		store:    deps.Store,
		prompt:   deps.Prompter,
		out:      deps.Out,
		settings: settings,
		secret:   secret,
	}
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (e *Engine) names(base string) identity.Names {
	return identity.DeriveWithDomain(base, e.settings.Platform.Domain)
}

func (e *Engine) workDir(t identity.Tier) string {
	if t == identity.Client {
		return wasp.ClientDir(e.opts.WaspDir)
	}
	return wasp.ServerDir(e.opts.WaspDir)
}

func (e *Engine) location(t identity.Tier) string {
	return e.store.Paths().For(t)
}

func (e *Engine) strategy() fly.Strategy {
	if e.opts.LocalBuild || e.settings.Deploy.Strategy == config.StrategyLocal {
		return fly.LocalBuild
	}
	return fly.RemoteBuild
}

// build runs `wasp build` unless --skip-build was given.
func (e *Engine) build(ctx context.Context, rep *report) (bool, error) {
	if e.opts.SkipBuild {
		logging.Debug("build skipped")
		return true, nil
	}
	e.out.Info("Building the Wasp project...")
	return rep.attempt("wasp build", func() error {
		return e.wasp.Build(ctx, e.opts.WaspDir)
	})
}

// withRecord mirrors the tier's record into its working directory while fn
// runs, copying it back afterwards whatever fn returned.
func (e *Engine) withRecord(ctx context.Context, t identity.Tier, fn func(dir string) error) (err error) {
	dir := e.workDir(t)
	sync, err := state.Acquire(ctx, e.store, e.location(t), dir)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := sync.Release(ctx); rerr != nil {
			err = errors.Join(err, rerr)
		}
	}()
	return fn(dir)
}

// verifyIdentity recovers the base name from the first existing record and
// requires it to equal base.
func (e *Engine) verifyIdentity(ctx context.Context, phase state.Phase, base string) error {
	for _, t := range identity.Tiers {
		if !phase.Has(t) {
			continue
		}
		recorded, err := state.RecoverBase(ctx, e.store, t)
		if err != nil {
			return err
		}
		if recorded != base {
			return &IdentityMismatchError{Supplied: base, Recorded: recorded, Record: e.location(t)}
		}
		return nil
	}
	return nil
}

// provisionServer creates the server app, sets its secrets and only then
// saves its record.
func (e *Engine) provisionServer(ctx context.Context, n identity.Names, region string) error {
	dir := e.workDir(identity.Server)
	if err := state.ClearWorking(dir); err != nil {
		return err
	}

	// Creates fly.toml without deploying; the database has to exist first.
	if err := e.fly.Launch(ctx, dir, n.Server, region); err != nil {
		return err
	}

	secret, err := e.secret()
	if err != nil {
		return err
	}
	if err := e.fly.SetSecrets(ctx, dir, map[string]string{
		"JWT_SECRET":          secret,
		"PORT":                strconv.Itoa(e.settings.Server.Port),
		"WASP_WEB_CLIENT_URL": n.ClientURL,
	}); err != nil {
		return err
	}

	return state.Save(ctx, e.store, dir, e.location(identity.Server))
}

// provisionClient creates the client app and patches the port goStatic
// listens on into its fly.toml before saving the record.
func (e *Engine) provisionClient(ctx context.Context, n identity.Names, region string) error {
	dir := e.workDir(identity.Client)
	if err := state.ClearWorking(dir); err != nil {
		return err
	}
	if err := wasp.WriteStaticDockerfile(dir); err != nil {
		return err
	}
	if err := e.fly.Launch(ctx, dir, n.Client, region); err != nil {
		return err
	}

	working := filepath.Join(dir, state.WorkingFileName)
	err := state.PatchPort(working, e.settings.Client.DefaultPort, e.settings.Client.Port)
	switch {
	case errors.Is(err, state.ErrNoPort):
		logging.Info("client port not patched", "app", n.Client, "from", e.settings.Client.DefaultPort)
		e.out.Warn("The client fly.toml has no port %d; saved it unchanged. Check internal_port in %s.",
			e.settings.Client.DefaultPort, e.location(identity.Client))
	case err != nil:
		return err
	}
	return state.Save(ctx, e.store, dir, e.location(identity.Client))
}

// createDatabase creates and attaches the Postgres cluster for the server
// app. Attaching is what sets DATABASE_URL on the server.
func (e *Engine) createDatabase(ctx context.Context, n identity.Names, region string) error {
	err := e.withRecord(ctx, identity.Server, func(dir string) error {
		pg := e.settings.Postgres
		if err := e.fly.CreatePostgres(ctx, dir, fly.PostgresSpec{
			Name:               n.Database,
			Region:             region,
			VMSize:             pg.VMSize,
			InitialClusterSize: pg.InitialClusterSize,
			VolumeSize:         pg.VolumeSize,
			Org:                pg.Org,
		}); err != nil {
			return err
		}
		return e.fly.AttachPostgres(ctx, dir, n.Database)
	})
	if err != nil {
		return err
	}
	return e.prompt.Acknowledge(ctx, "Please take note of your database credentials above. Press any key to continue.")
}

// buildClient produces the static client assets pointed at serverURL.
func (e *Engine) buildClient(ctx context.Context, dir, serverURL string) error {
	e.out.Info("Building web client for production...")
	if err := e.wasp.BuildClient(ctx, dir, serverURL); err != nil {
		return err
	}
	return wasp.WriteStaticDockerfile(dir)
}
