// Package runner executes external tools as child processes. Every
// invocation names its working directory explicitly; the process working
// directory is never changed.
package runner

import (
	"context"
	"strings"
	"time"
)

// Invocation describes one external command.
type Invocation struct {
	// Dir is the working directory of the child process.
	Dir  string
	Name string
	Args []string
	// Env holds KEY=VALUE pairs added on top of the current environment.
	Env []string
	// Stream tees the child's output to the terminal while capturing it.
	// Long-running or chatty commands (launch, deploy, login) set it.
	Stream bool
	// Sensitive masks the values of KEY=VALUE arguments in String.
	Sensitive bool
}

// String renders the invocation the way a user would type it.
func (i Invocation) String() string {
	parts := make([]string, 0, len(i.Args)+1)
	parts = append(parts, i.Name)
	for _, arg := range i.Args {
		if i.Sensitive {
			if key, _, ok := strings.Cut(arg, "="); ok {
				arg = key + "=***"
			}
		}
		if strings.ContainsAny(arg, " \t\"'") {
			arg = `"` + strings.ReplaceAll(arg, `"`, `\"`) + `"`
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}

// Result is the captured outcome of an invocation.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Runner executes invocations. A non-zero exit is reported as a *ToolError
// alongside the captured Result.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (*Result, error)
	LookPath(name string) (string, error)
}
