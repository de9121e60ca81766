// Package preflight validates the environment before any lifecycle runs.
package preflight

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/picklr-io/flydeploy/internal/logging"
	"github.com/picklr-io/flydeploy/internal/ui"
	"github.com/picklr-io/flydeploy/providers/docker"
	"github.com/picklr-io/flydeploy/providers/fly"
	"github.com/picklr-io/flydeploy/providers/wasp"
)

// ErrPrecondition matches every *PreconditionError.
var ErrPrecondition = errors.New("precondition failed")

// PreconditionError is a fatal environment problem. Advice lines tell the
// operator how to fix it.
type PreconditionError struct {
	Check  string
	Reason string
	Advice []string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Check, e.Reason)
}

func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

// Flyctl is the part of the fly client preflight needs.
type Flyctl interface {
	Binary() string
	Available() error
	WhoAmI(ctx context.Context) error
	Login(ctx context.Context) error
	Regions(ctx context.Context) ([]fly.Region, error)
}

// Dir is a user-supplied directory flag.
type Dir struct {
	Flag string
	Path string
}

// Requirements lists what the running sub-command needs.
type Requirements struct {
	Dirs    []Dir
	WaspDir string
	// Offline skips the flyctl and login checks.
	Offline bool
}

// Checker runs the checks in their fixed order.
type Checker struct {
	Fly      Flyctl
	Prompter ui.Prompter
	Out      *ui.Printer
	Docker   docker.Pinger
}

// Run performs the checks shared by every sub-command. Relative paths are
// rejected before anything else runs.
func (c *Checker) Run(ctx context.Context, req Requirements) error {
	if err := PathsAbsolute(req.Dirs...); err != nil {
		return err
	}
	if !req.Offline {
		if err := c.ToolAvailable(); err != nil {
			return err
		}
		if err := c.UserAuthenticated(ctx); err != nil {
			return err
		}
	}
	return DirectoryLooksValid(req.WaspDir)
}

// PathsAbsolute rejects relative directory arguments. Empty optional flags
// are allowed.
func PathsAbsolute(dirs ...Dir) error {
	for _, d := range dirs {
		if d.Path == "" || filepath.IsAbs(d.Path) {
			continue
		}
		return &PreconditionError{
			Check:  "PathsAbsolute",
			Reason: fmt.Sprintf("--%s must be an absolute path, got %q", d.Flag, d.Path),
			Advice: []string{fmt.Sprintf("Pass the full path, for example --%s \"$(pwd)/%s\".", d.Flag, d.Path)},
		}
	}
	return nil
}

// ToolAvailable requires flyctl on PATH.
func (c *Checker) ToolAvailable() error {
	if err := c.Fly.Available(); err != nil {
		logging.Debug("flyctl lookup failed", "binary", c.Fly.Binary(), "error", err)
		return &PreconditionError{
			Check:  "ToolAvailable",
			Reason: "the Fly.io CLI is not available on this system",
			Advice: []string{"Please install flyctl: " + fly.InstallURL},
		}
	}
	return nil
}

// UserAuthenticated requires a logged-in flyctl, offering to run the login
// flow when it is not.
func (c *Checker) UserAuthenticated(ctx context.Context) error {
	if err := c.Fly.WhoAmI(ctx); err == nil {
		return nil
	}

	login := c.Fly.Binary() + " auth login"
	ok, err := c.Prompter.Confirm(ctx, "flyctl is not logged into Fly.io. Would you like to log in now?")
	if err != nil {
		return &PreconditionError{Check: "UserAuthenticated", Reason: err.Error()}
	}
	if !ok {
		return &PreconditionError{
			Check:  "UserAuthenticated",
			Reason: "flyctl is not logged in",
			Advice: []string{fmt.Sprintf("Run %q and try again.", login)},
		}
	}
	if err := c.Fly.Login(ctx); err != nil {
		return &PreconditionError{
			Check:  "UserAuthenticated",
			Reason: "there was a problem logging in",
			Advice: []string{fmt.Sprintf("Please run %q and try again.", login)},
		}
	}
	return nil
}

// DirectoryLooksValid requires the Wasp project marker file.
func DirectoryLooksValid(waspDir string) error {
	if wasp.LooksLikeProject(waspDir) {
		return nil
	}
	return &PreconditionError{
		Check:  "DirectoryLooksValid",
		Reason: fmt.Sprintf("%s does not appear to be a valid Wasp project (no %s file)", waspDir, wasp.MarkerFile),
		Advice: []string{"Please double check your --wasp-dir path."},
	}
}

// RegionValid checks region against the live region list. When the list
// cannot be fetched it warns and lets flyctl reject a bad region later.
func (c *Checker) RegionValid(ctx context.Context, region string) error {
	regions, err := c.Fly.Regions(ctx)
	if err != nil {
		logging.Warn("region list unavailable", "error", err)
		c.Out.Warn("Unable to validate region %q before calling flyctl.", region)
		return nil
	}
	if fly.HasRegion(regions, region) {
		return nil
	}
	return &PreconditionError{
		Check:  "RegionValid",
		Reason: fmt.Sprintf("invalid region %q", region),
		Advice: []string{"Please specify a valid 3 character region id: " + fly.RegionsURL},
	}
}

// DockerReachable requires a running Docker daemon for local image builds.
func (c *Checker) DockerReachable(ctx context.Context) error {
	if err := c.Docker.Ping(ctx); err != nil {
		return &PreconditionError{
			Check:  "DockerReachable",
			Reason: err.Error(),
			Advice: []string{"Start Docker, or drop --local-build to build on Fly.io instead."},
		}
	}
	return nil
}
