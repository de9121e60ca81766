package cli

import (
	"errors"

	"github.com/picklr-io/flydeploy/internal/config"
	"github.com/picklr-io/flydeploy/internal/preflight"
	"github.com/picklr-io/flydeploy/internal/runner"
	"github.com/picklr-io/flydeploy/internal/ui"
	"github.com/picklr-io/flydeploy/providers/docker"
	"github.com/spf13/cobra"
)

// Constructors for the collaborators that touch the outside world. Tests
// replace them.
var (
	newRunner   = func() runner.Runner { return runner.NewExec() }
	newPrompter = func() ui.Prompter { return ui.NewTerminalPrompter() }
	newDocker   = func() dockerDaemon { return docker.New() }
)

type dockerDaemon interface {
	docker.Pinger
	Close() error
}

// advise prints the remediation advice of a precondition failure and
// returns err unchanged.
func advise(out *ui.Printer, err error) error {
	var pe *preflight.PreconditionError
	if errors.As(err, &pe) {
		for _, line := range pe.Advice {
			out.Hint("%s", line)
		}
	}
	return err
}

// requireRegion validates a region argument against the live region list.
func requireRegion(cmd *cobra.Command, region string) error {
	return advise(current.out, current.checker.RegionValid(cmd.Context(), region))
}

// requireDocker checks the local Docker daemon when images are built
// locally.
func requireDocker(cmd *cobra.Command) error {
	if !localBuild && current.settings.Deploy.Strategy != config.StrategyLocal {
		return nil
	}
	d := newDocker()
	defer d.Close()
	current.checker.Docker = d
	return advise(current.out, current.checker.DockerReachable(cmd.Context()))
}
