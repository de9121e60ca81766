package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"github.com/picklr-io/flydeploy/internal/logging"
)

// Exec runs invocations with os/exec.
type Exec struct {
	// Stdout and Stderr receive streamed output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
	// Stdin is handed to streamed invocations so interactive tools such as
	// `flyctl auth login` can read from the terminal.
	Stdin io.Reader
}

// NewExec returns a runner attached to the process terminal.
func NewExec() *Exec {
	return &Exec{Stdout: os.Stdout, Stderr: os.Stderr, Stdin: os.Stdin}
}

func (e *Exec) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (e *Exec) Run(ctx context.Context, inv Invocation) (*Result, error) {
	log := logging.With("id", uuid.NewString(), "dir", inv.Dir, "cmd", inv.String())
	log.Debug("running external command")

	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = append(os.Environ(), inv.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if inv.Stream {
		if e.Stdout != nil {
			cmd.Stdout = io.MultiWriter(&stdout, e.Stdout)
		}
		if e.Stderr != nil {
			cmd.Stderr = io.MultiWriter(&stderr, e.Stderr)
		}
		cmd.Stdin = e.Stdin
	}

	start := time.Now()
	err := cmd.Run()
	res := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if err == nil {
		log.Debug("external command finished", "duration", res.Duration)
		return res, nil
	}

	toolErr := &ToolError{
		Command:  inv.String(),
		Dir:      inv.Dir,
		ExitCode: -1,
		Stderr:   stderr.String(),
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		toolErr.ExitCode = exitErr.ExitCode()
	} else {
		toolErr.Err = err
	}
	res.ExitCode = toolErr.ExitCode
	log.Debug("external command failed", "exit", toolErr.ExitCode, "duration", res.Duration, "error", err)
	return res, toolErr
}
