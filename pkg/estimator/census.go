package estimator

import (
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/buildq/pkg/types"
)

// New returns an estimator configured by the supplied options.
func New(opts ...Option) (*Estimator, error) {
	e := Estimator{
		l: hclog.NewNullLogger(),
	}
	for _, o := range opts {
		if err := o(&e); err != nil {
			return nil, err
		}
	}
	return &e, nil
}

// Census counts the operational builders in each capability class.
// Every concrete class present in the farm gets an entry, and each
// virtualization flag additionally gets an any-arch aggregate
// summing its concrete classes.  The count is recomputed on every
// call; builders get enabled and disabled between calls and the
// census must reflect live state.  Lookups of absent classes are
// zero by map convention.
func (e *Estimator) Census(snap *types.Snapshot) map[types.Capability]int {
	counts := make(map[types.Capability]int)
	for _, b := range snap.OperationalBuilders() {
		counts[b.Cap]++
		counts[b.Cap.Aggregate()]++
	}
	return counts
}

// FreeCount reports how many operational builders of the given class
// are idle right now.  A builder is busy only while its assigned job
// is actually BUILDING; a stale assignment to a finished job does
// not hold the builder.  Clamped at zero should assignments ever
// outnumber builders.
func (e *Estimator) FreeCount(snap *types.Snapshot, class types.Capability) int {
	total := e.Census(snap)[class]

	busy := 0
	for _, b := range snap.OperationalBuilders() {
		if !class.Matches(b.Cap) || b.JobID == nil {
			continue
		}
		if j, ok := snap.JobByID(*b.JobID); ok && j.Building() {
			busy++
		}
	}

	free := total - busy
	if free < 0 {
		e.l.Warn("More assigned jobs than builders in class", "class", class, "total", total, "busy", busy)
		return 0
	}
	return free
}

// NextFreeTime estimates how long until a builder of the given class
// finishes its current job, by taking the minimum remaining time
// across every in-progress job in the class.  A job past its
// estimate is charged the overrun grace period rather than a
// negative remainder.  Only sensible when the class has builders
// building; with none the answer is zero.
func (e *Estimator) NextFreeTime(snap *types.Snapshot, class types.Capability, now time.Time) time.Duration {
	var min time.Duration
	found := false
	for _, j := range snap.BuildingJobs(class) {
		remaining := j.EstimatedDuration - now.Sub(*j.StartedAt)
		if remaining < 0 {
			remaining = overrunGrace
		}
		if !found || remaining < min {
			min = remaining
			found = true
		}
	}
	if !found {
		return 0
	}
	return min
}
