package estimator

import (
	"github.com/hashicorp/go-hclog"
)

// WithLogger sets the parent logger.
func WithLogger(l hclog.Logger) Option {
	return func(e *Estimator) error {
		e.l = l.Named("estimator")
		return nil
	}
}

// WithSnapshotSource wires up the component that the HTTP handlers
// pull farm snapshots from.
func WithSnapshotSource(s SnapshotSource) Option {
	return func(e *Estimator) error {
		e.src = s
		return nil
	}
}
