package state

import (
	"context"

	"github.com/picklr-io/flydeploy/internal/identity"
)

// Phase is the provisioning state of a deployment. It is never persisted;
// it is derived from which records exist.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseServerOnly
	// PhaseClientOnly only arises when the server record was removed by hand.
	PhaseClientOnly
	PhaseBothPresent
)

func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "NONE"
	case PhaseServerOnly:
		return "SERVER_ONLY"
	case PhaseClientOnly:
		return "CLIENT_ONLY"
	case PhaseBothPresent:
		return "BOTH_PRESENT"
	default:
		return "UNKNOWN"
	}
}

// Has reports whether the record of tier exists in this phase.
func (p Phase) Has(t identity.Tier) bool {
	switch t {
	case identity.Server:
		return p == PhaseServerOnly || p == PhaseBothPresent
	case identity.Client:
		return p == PhaseClientOnly || p == PhaseBothPresent
	default:
		return false
	}
}

// Any reports whether at least one record exists.
func (p Phase) Any() bool {
	return p != PhaseNone
}

// Complete reports whether both records exist.
func (p Phase) Complete() bool {
	return p == PhaseBothPresent
}

// Detect computes the phase from the records in store.
func Detect(ctx context.Context, store Store) (Phase, error) {
	paths := store.Paths()
	server, err := store.Exists(ctx, paths.Server)
	if err != nil {
		return PhaseNone, err
	}
	client, err := store.Exists(ctx, paths.Client)
	if err != nil {
		return PhaseNone, err
	}

	switch {
	case server && client:
		return PhaseBothPresent, nil
	case server:
		return PhaseServerOnly, nil
	case client:
		return PhaseClientOnly, nil
	default:
		return PhaseNone, nil
	}
}
