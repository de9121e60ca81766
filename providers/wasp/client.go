// Package wasp drives the local build tools: the wasp CLI for the server
// bundle and npm for the static web client.
package wasp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/picklr-io/flydeploy/internal/runner"
)

const (
	// MarkerFile sits at the root of every Wasp project.
	MarkerFile = ".wasproot"
	// APIURLEnv tells the client build where the server lives.
	APIURLEnv = "REACT_APP_API_URL"
)

// staticDockerfile serves the client build with goStatic.
// Ref: https://fly.io/docs/languages-and-frameworks/static/
const staticDockerfile = `FROM pierrezemb/gostatic
CMD [ "-fallback", "index.html" ]
COPY ./build/ /srv/http/
`

// ServerDir is where `wasp build` puts the server bundle.
func ServerDir(waspDir string) string {
	return filepath.Join(waspDir, ".wasp", "build")
}

// ClientDir is where `wasp build` puts the web client sources.
func ClientDir(waspDir string) string {
	return filepath.Join(waspDir, ".wasp", "build", "web-app")
}

// LooksLikeProject reports whether dir contains the Wasp marker file.
func LooksLikeProject(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, MarkerFile))
	return err == nil
}

type Client struct {
	run  runner.Runner
	wasp string
	npm  string
}

func New(r runner.Runner) *Client {
	return &Client{run: r, wasp: "wasp", npm: "npm"}
}

// Build produces the deployable server bundle and client sources.
func (c *Client) Build(ctx context.Context, waspDir string) error {
	_, err := c.run.Run(ctx, runner.Invocation{Dir: waspDir, Name: c.wasp, Args: []string{"build"}, Stream: true})
	return err
}

// BuildClient installs client dependencies and builds the static assets
// against serverURL.
func (c *Client) BuildClient(ctx context.Context, clientDir, serverURL string) error {
	if _, err := c.run.Run(ctx, runner.Invocation{Dir: clientDir, Name: c.npm, Args: []string{"install"}, Stream: true}); err != nil {
		return err
	}
	_, err := c.run.Run(ctx, runner.Invocation{
		Dir:    clientDir,
		Name:   c.npm,
		Args:   []string{"run", "build"},
		Env:    []string{APIURLEnv + "=" + serverURL},
		Stream: true,
	})
	return err
}

// WriteStaticDockerfile writes the goStatic Dockerfile and an empty
// .dockerignore, which keeps flyctl from asking about one.
func WriteStaticDockerfile(clientDir string) error {
	if err := os.WriteFile(filepath.Join(clientDir, "Dockerfile"), []byte(staticDockerfile), 0o644); err != nil {
		return fmt.Errorf("failed to write client Dockerfile: %w", err)
	}
	ignore := filepath.Join(clientDir, ".dockerignore")
	f, err := os.OpenFile(ignore, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", ignore, err)
	}
	return f.Close()
}
