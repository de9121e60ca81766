// Package docker checks the local Docker daemon that `flyctl deploy
// --local-only` builds images with.
package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/client"
	"github.com/picklr-io/flydeploy/internal/logging"
)

// Pinger reports whether a container daemon is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Daemon talks to the daemon configured by DOCKER_HOST and friends.
type Daemon struct {
	client *client.Client
}

func New() *Daemon {
	return &Daemon{}
}

func (d *Daemon) ensureClient() error {
	if d.client != nil {
		return nil
	}
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return err
	}
	d.client = cli
	return nil
}

// Ping succeeds when the daemon answers.
func (d *Daemon) Ping(ctx context.Context) error {
	if err := d.ensureClient(); err != nil {
		return fmt.Errorf("failed to create Docker client: %w", err)
	}
	ping, err := d.client.Ping(ctx)
	if err != nil {
		return fmt.Errorf("docker daemon at %s is not reachable: %w", d.client.DaemonHost(), err)
	}
	logging.Debug("docker daemon reachable", "host", d.client.DaemonHost(), "api", ping.APIVersion, "os", ping.OSType)
	return nil
}

// Close releases the client connection, if one was opened.
func (d *Daemon) Close() error {
	if d.client == nil {
		return nil
	}
	return d.client.Close()
}
