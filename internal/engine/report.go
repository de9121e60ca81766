package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/picklr-io/flydeploy/internal/identity"
	"github.com/picklr-io/flydeploy/internal/logging"
	"github.com/picklr-io/flydeploy/internal/runner"
	"github.com/picklr-io/flydeploy/internal/ui"
	"github.com/picklr-io/flydeploy/providers/fly"
)

// report collects the outcome of the steps of one lifecycle run.
type report struct {
	out    *ui.Printer
	failed []string
}

func (e *Engine) newReport() *report {
	return &report{out: e.out}
}

// attempt runs one step. Tool failures, unreadable tool output and malformed
// records are reported inline and mark the step failed; any other error is
// fatal and returned.
func (r *report) attempt(name string, fn func() error) (bool, error) {
	logging.Debug("step started", "step", name)
	err := fn()
	switch {
	case err == nil:
		logging.Debug("step completed", "step", name)
		return true, nil
	case errors.Is(err, runner.ErrToolFailed):
		r.out.Error("%s failed: %v", name, err)
		r.out.Hint("Fix the problem above and run the same command again; completed steps are skipped.")
	case errors.Is(err, fly.ErrBadOutput):
		r.out.Error("%s failed: %v", name, err)
		r.out.Hint("Check that flyctl is up to date and logged in, then run the same command again.")
	case errors.Is(err, identity.ErrMalformedConfig):
		r.out.Error("%s failed: %v", name, err)
		r.out.Hint("The record was not written by flydeploy or has been edited; check its app field.")
	default:
		logging.Debug("step aborted", "step", name, "error", err)
		return false, err
	}
	logging.Info("step failed", "step", name, "error", err)
	r.failed = append(r.failed, name)
	return false, nil
}

// skip records a step that could not run because an earlier one failed.
func (r *report) skip(name, reason string) {
	r.out.Warn("Skipping %s: %s.", name, reason)
	r.failed = append(r.failed, name)
}

type step struct {
	name string
	run  func() error
}

// sequence attempts steps in order. After the first failure the remaining
// steps are skipped; it reports whether every step completed.
func (r *report) sequence(steps ...step) (bool, error) {
	for i, s := range steps {
		ok, err := r.attempt(s.name, s.run)
		if err != nil {
			return false, err
		}
		if !ok {
			for _, rest := range steps[i+1:] {
				r.skip(rest.name, s.name+" failed")
			}
			return false, nil
		}
	}
	return true, nil
}

func (r *report) ok() bool {
	return len(r.failed) == 0
}

func (r *report) err() error {
	if r.ok() {
		return nil
	}
	return fmt.Errorf("%w: %s did not complete", ErrIncomplete, strings.Join(r.failed, ", "))
}
