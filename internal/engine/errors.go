package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrIdentityMismatch matches every *IdentityMismatchError.
	ErrIdentityMismatch = errors.New("identity mismatch")
	// ErrMissingSecret matches every *MissingSecretError.
	ErrMissingSecret = errors.New("missing required secret")
	// ErrIncomplete is returned when at least one step failed and was
	// reported. Re-running the same command resumes from the failed step.
	ErrIncomplete = errors.New("deployment incomplete")
)

// IdentityMismatchError means an existing record belongs to a different
// deployment than the base name given on the command line.
type IdentityMismatchError struct {
	Supplied string
	Recorded string
	Record   string
}

func (e *IdentityMismatchError) Error() string {
	return fmt.Sprintf("%s was provisioned for %q, not %q", e.Record, e.Recorded, e.Supplied)
}

func (e *IdentityMismatchError) Is(target error) bool {
	return target == ErrIdentityMismatch
}

// MissingSecretError means the server app lacks a secret it cannot run
// without.
type MissingSecretError struct {
	App    string
	Secret string
}

func (e *MissingSecretError) Error() string {
	return fmt.Sprintf("app %s has no %s secret", e.App, e.Secret)
}

func (e *MissingSecretError) Is(target error) bool {
	return target == ErrMissingSecret
}
