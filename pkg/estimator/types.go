package estimator

import (
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/buildq/pkg/types"
)

// overrunGrace is charged for a job that has run past its estimate.
// Usually long enough for the build to actually finish, and keeps an
// overrun from showing up as a negative wait.
const overrunGrace = 120 * time.Second

// A SnapshotSource hands out consistent point in time views of the
// farm.  The registry is the usual implementation; tests substitute
// canned snapshots.
type SnapshotSource interface {
	Snapshot() *types.Snapshot
}

// Option configures an Estimator at construction.
type Option func(*Estimator) error

// Estimator answers queue depth and builder availability questions
// over farm snapshots.  It holds no farm state of its own; every
// answer is computed fresh from the snapshot it is handed.
type Estimator struct {
	l   hclog.Logger
	src SnapshotSource
}
