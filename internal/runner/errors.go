package runner

import (
	"errors"
	"fmt"
	"strings"
)

// ErrToolFailed matches every *ToolError.
var ErrToolFailed = errors.New("external tool failed")

// ToolError reports an external command that could not be started or exited
// non-zero.
type ToolError struct {
	Command  string
	Dir      string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	var b strings.Builder
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, "%s exited with status %d", e.Command, e.ExitCode)
	} else {
		fmt.Fprintf(&b, "%s could not be run", e.Command)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if msg := lastLine(e.Stderr); msg != "" {
		fmt.Fprintf(&b, " (%s)", msg)
	}
	return b.String()
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

func (e *ToolError) Is(target error) bool {
	return target == ErrToolFailed
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
