package engine

import (
	"context"

	"github.com/picklr-io/flydeploy/internal/identity"
	"github.com/picklr-io/flydeploy/internal/state"
)

// TierStatus describes one tier's record.
type TierStatus struct {
	Tier     identity.Tier
	Location string
	Present  bool
	App      string
	URL      string
	// Err is set when the record exists but cannot be read or recognized.
	Err error
}

// Status is the deployment phase and what each record says.
type Status struct {
	Phase state.Phase
	Tiers []TierStatus
}

// Status inspects the records without running any external tool.
func (e *Engine) Status(ctx context.Context) (*Status, error) {
	phase, err := state.Detect(ctx, e.store)
	if err != nil {
		return nil, err
	}
	st := &Status{Phase: phase}
	for _, t := range identity.Tiers {
		ts := TierStatus{Tier: t, Location: e.location(t), Present: phase.Has(t)}
		if ts.Present {
			if base, err := state.RecoverBase(ctx, e.store, t); err != nil {
				ts.Err = err
			} else {
				n := e.names(base)
				ts.App = n.App(t)
				ts.URL = n.URL(t)
			}
		}
		st.Tiers = append(st.Tiers, ts)
	}
	return st, nil
}
