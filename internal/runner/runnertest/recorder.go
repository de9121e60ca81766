// Package runnertest provides an in-memory runner.Runner for tests.
package runnertest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/picklr-io/flydeploy/internal/runner"
)

// Response scripts the outcome of every invocation matching a prefix.
type Response struct {
	Stdout   string
	ExitCode int
	// Do simulates side effects of the external tool, such as the fly.toml
	// written by `flyctl launch`. An error from Do is reported as a failed start.
	Do func(inv runner.Invocation) error
}

type rule struct {
	prefix string
	resp   Response
}

// Recorder records invocations and answers them from scripted responses.
// Unscripted invocations succeed with empty output.
type Recorder struct {
	mu      sync.Mutex
	rules   []rule
	missing map[string]bool
	Calls   []runner.Invocation
}

func New() *Recorder {
	return &Recorder{missing: make(map[string]bool)}
}

// On scripts the response for invocations whose command line starts with
// prefix. The longest matching prefix wins; among equal prefixes the latest
// rule wins, so tests can override a fixture's defaults.
func (r *Recorder) On(prefix string, resp Response) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule{prefix: prefix, resp: resp})
	return r
}

// Fail scripts a non-zero exit for prefix.
func (r *Recorder) Fail(prefix string) *Recorder {
	return r.On(prefix, Response{ExitCode: 1})
}

// Missing makes LookPath fail for name.
func (r *Recorder) Missing(name string) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.missing[name] = true
	return r
}

func (r *Recorder) LookPath(name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.missing[name] {
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}
	return "/usr/local/bin/" + name, nil
}

func (r *Recorder) Run(ctx context.Context, inv runner.Invocation) (*runner.Result, error) {
	r.mu.Lock()
	r.Calls = append(r.Calls, inv)
	resp, matched := r.match(commandLine(inv))
	r.mu.Unlock()

	if !matched {
		return &runner.Result{}, nil
	}
	if resp.Do != nil {
		if err := resp.Do(inv); err != nil {
			return &runner.Result{ExitCode: -1}, &runner.ToolError{Command: inv.String(), Dir: inv.Dir, ExitCode: -1, Err: err}
		}
	}
	res := &runner.Result{Stdout: []byte(resp.Stdout), ExitCode: resp.ExitCode}
	if resp.ExitCode != 0 {
		return res, &runner.ToolError{Command: inv.String(), Dir: inv.Dir, ExitCode: resp.ExitCode}
	}
	return res, nil
}

func (r *Recorder) match(line string) (Response, bool) {
	best := -1
	for i, rl := range r.rules {
		if strings.HasPrefix(line, rl.prefix) && (best < 0 || len(rl.prefix) >= len(r.rules[best].prefix)) {
			best = i
		}
	}
	if best < 0 {
		return Response{}, false
	}
	return r.rules[best].resp, true
}

// Commands returns the recorded command lines, unmasked.
func (r *Recorder) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Calls))
	for _, inv := range r.Calls {
		out = append(out, commandLine(inv))
	}
	return out
}

// Ran reports whether any recorded command line starts with prefix.
func (r *Recorder) Ran(prefix string) bool {
	for _, line := range r.Commands() {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// Find returns the first invocation whose command line starts with prefix.
func (r *Recorder) Find(prefix string) (runner.Invocation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.Calls {
		if strings.HasPrefix(commandLine(inv), prefix) {
			return inv, true
		}
	}
	return runner.Invocation{}, false
}

// WriteFile returns a Do hook that writes content to name inside the
// invocation's working directory.
func WriteFile(name, content string) func(inv runner.Invocation) error {
	return func(inv runner.Invocation) error {
		return os.WriteFile(filepath.Join(inv.Dir, name), []byte(content), 0o644)
	}
}

func commandLine(inv runner.Invocation) string {
	return strings.Join(append([]string{inv.Name}, inv.Args...), " ")
}
