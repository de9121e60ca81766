// Package fly drives the Fly.io CLI (flyctl).
package fly

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/picklr-io/flydeploy/internal/runner"
)

const (
	DefaultBinary = "flyctl"
	// InstallURL is shown when flyctl cannot be found.
	InstallURL = "https://fly.io/docs/hands-on/install-flyctl"
	// RegionsURL documents valid region codes.
	RegionsURL = "https://fly.io/docs/reference/regions"
	// DatabaseURLSecret is set on the server app by `flyctl postgres attach`.
	DatabaseURLSecret = "DATABASE_URL"
)

// ErrBadOutput is returned when flyctl prints something other than the JSON
// it was asked for.
var ErrBadOutput = errors.New("unexpected flyctl output")

// Region is one entry of `flyctl platform regions -j`.
type Region struct {
	Code string `json:"Code"`
	Name string `json:"Name"`
}

// Secret is one entry of `flyctl secrets list -j`. Values are never listed.
type Secret struct {
	Name      string `json:"Name"`
	Digest    string `json:"Digest"`
	CreatedAt string `json:"CreatedAt"`
}

// PostgresSpec sizes a new managed Postgres cluster.
type PostgresSpec struct {
	Name               string
	Region             string
	VMSize             string
	InitialClusterSize int
	VolumeSize         int
	// Org is optional; flyctl asks interactively when it is empty and the
	// user belongs to several organizations.
	Org string
}

// Strategy selects where `flyctl deploy` builds the image.
type Strategy string

const (
	RemoteBuild Strategy = "remote"
	LocalBuild  Strategy = "local"
)

// Client wraps flyctl invocations. Commands that read fly.toml run in the
// working directory passed to them.
type Client struct {
	run    runner.Runner
	binary string
}

func New(r runner.Runner, binary string) *Client {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Client{run: r, binary: binary}
}

// Binary returns the flyctl executable name.
func (c *Client) Binary() string {
	return c.binary
}

// Available checks that flyctl is on PATH.
func (c *Client) Available() error {
	_, err := c.run.LookPath(c.binary)
	return err
}

// WhoAmI succeeds when flyctl holds valid credentials.
func (c *Client) WhoAmI(ctx context.Context) error {
	_, err := c.exec(ctx, runner.Invocation{Args: []string{"auth", "whoami"}})
	return err
}

// Login runs the interactive browser login flow.
func (c *Client) Login(ctx context.Context) error {
	_, err := c.exec(ctx, runner.Invocation{Args: []string{"auth", "login"}, Stream: true})
	return err
}

// Regions lists the regions Fly.io currently offers.
func (c *Client) Regions(ctx context.Context) ([]Region, error) {
	res, err := c.exec(ctx, runner.Invocation{Args: []string{"platform", "regions", "-j"}})
	if err != nil {
		return nil, err
	}
	var regions []Region
	if err := json.Unmarshal(res.Stdout, &regions); err != nil {
		return nil, fmt.Errorf("%w: failed to parse region list: %v", ErrBadOutput, err)
	}
	return regions, nil
}

// HasRegion reports whether code is one of regions.
func HasRegion(regions []Region, code string) bool {
	for _, r := range regions {
		if r.Code == code {
			return true
		}
	}
	return false
}

// Launch creates the app and writes a fresh fly.toml into dir without
// deploying.
func (c *Client) Launch(ctx context.Context, dir, app, region string) error {
	_, err := c.exec(ctx, runner.Invocation{
		Dir:    dir,
		Args:   []string{"launch", "--no-deploy", "--name", app, "--region", region},
		Stream: true,
	})
	return err
}

// SetSecrets sets app secrets for the fly.toml in dir. Keys are sorted so the
// command line is deterministic.
func (c *Client) SetSecrets(ctx context.Context, dir string, secrets map[string]string) error {
	keys := make([]string, 0, len(secrets))
	for k := range secrets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := []string{"secrets", "set"}
	for _, k := range keys {
		args = append(args, k+"="+secrets[k])
	}
	_, err := c.exec(ctx, runner.Invocation{Dir: dir, Args: args, Stream: true, Sensitive: true})
	return err
}

// ListSecrets returns the secret names set on the app in dir.
func (c *Client) ListSecrets(ctx context.Context, dir string) ([]Secret, error) {
	res, err := c.exec(ctx, runner.Invocation{Dir: dir, Args: []string{"secrets", "list", "-j"}})
	if err != nil {
		return nil, err
	}
	var secrets []Secret
	if err := json.Unmarshal(res.Stdout, &secrets); err != nil {
		return nil, fmt.Errorf("%w: failed to parse secret list: %v", ErrBadOutput, err)
	}
	return secrets, nil
}

// HasSecret reports whether name is among secrets.
func HasSecret(secrets []Secret, name string) bool {
	for _, s := range secrets {
		if s.Name == name {
			return true
		}
	}
	return false
}

// CreatePostgres provisions a managed Postgres cluster. flyctl prints the
// one-time credentials, so output is streamed.
func (c *Client) CreatePostgres(ctx context.Context, dir string, spec PostgresSpec) error {
	args := []string{
		"postgres", "create",
		"--name", spec.Name,
		"--region", spec.Region,
		"--vm-size", spec.VMSize,
		"--initial-cluster-size", strconv.Itoa(spec.InitialClusterSize),
		"--volume-size", strconv.Itoa(spec.VolumeSize),
	}
	if spec.Org != "" {
		args = append(args, "--org", spec.Org)
	}
	_, err := c.exec(ctx, runner.Invocation{Dir: dir, Args: args, Stream: true})
	return err
}

// AttachPostgres attaches db to the app in dir, which sets DATABASE_URL on it.
func (c *Client) AttachPostgres(ctx context.Context, dir, db string) error {
	_, err := c.exec(ctx, runner.Invocation{Dir: dir, Args: []string{"postgres", "attach", db}, Stream: true})
	return err
}

// Deploy deploys the app in dir.
func (c *Client) Deploy(ctx context.Context, dir string, strategy Strategy) error {
	flag := "--remote-only"
	if strategy == LocalBuild {
		flag = "--local-only"
	}
	_, err := c.exec(ctx, runner.Invocation{Dir: dir, Args: []string{"deploy", flag}, Stream: true})
	return err
}

// Passthrough runs an arbitrary flyctl command in dir.
func (c *Client) Passthrough(ctx context.Context, dir string, args []string) error {
	_, err := c.exec(ctx, runner.Invocation{Dir: dir, Args: args, Stream: true})
	return err
}

func (c *Client) exec(ctx context.Context, inv runner.Invocation) (*runner.Result, error) {
	inv.Name = c.binary
	return c.run.Run(ctx, inv)
}
