package estimator

import (
	"time"

	"github.com/the-maldridge/buildq/pkg/queue"
	"github.com/the-maldridge/buildq/pkg/types"
)

// EstimateDelay predicts how long a queued job will wait before
// dispatch, given everything ahead of it.  The work ahead of the job
// inside its own capability partition is assumed to spread evenly
// across that partition's free builders; if another partition
// currently owns the head of the queue, the full backlog of the
// competing partition is charged on top, spread across the any-arch
// builder pool.
//
// The answer is advisory.  A job no builder can ever run still gets
// a finite number here rather than an error; flagging impossibility
// is the dispatcher's problem, and the UI depends on always getting
// a figure back.
func (e *Estimator) EstimateDelay(snap *types.Snapshot, job types.Job, now time.Time) (time.Duration, error) {
	if !job.Pending() {
		return 0, NewPreconditionError(job)
	}

	model := queue.NewModel(snap)
	class := job.Cap

	// Work ahead of this job in its own partition.
	var partition []types.Job
	if class.Concrete() {
		partition = model.ClassJobs(class)
	} else {
		partition = model.PlatformIndependent()
	}
	var ahead time.Duration
	for _, other := range partition {
		if other.ID != job.ID && queue.Before(other, job) {
			ahead += other.EstimatedDuration
		}
	}
	own := ahead / time.Duration(atLeastOne(e.FreeCount(snap, class)))

	head, ok := model.HeadPlatform()
	if !ok || head == class {
		// This job's partition is already at the front; nothing
		// competing to wait out.
		return own, nil
	}

	// Another partition dispatches first.  Charge its whole
	// pending backlog, spread over the any-arch pool.
	var competing []types.Job
	if class.Concrete() {
		competing = model.PlatformIndependent()
	} else {
		competing = model.PlatformSpecific()
	}
	var backlog time.Duration
	for _, other := range competing {
		backlog += other.EstimatedDuration
	}
	cross := backlog / time.Duration(atLeastOne(e.FreeCount(snap, class.Aggregate())))

	e.l.Trace("Estimated delay", "job", job.ID, "own", own, "cross", cross)
	return own + cross, nil
}

// MinTimeToBuilder is the coarse availability estimate: zero if a
// capable builder is idle, otherwise the time until the soonest
// capable builder frees up.  A class with no builders registered at
// all also answers zero; the optimistic reading keeps status pages
// from wedging on an impossible job, at the price of claiming a
// builder is imminent when none will ever come.
func (e *Estimator) MinTimeToBuilder(snap *types.Snapshot, job types.Job, now time.Time) time.Duration {
	class := job.Cap
	if e.FreeCount(snap, class) > 0 {
		return 0
	}
	if e.Census(snap)[class] == 0 {
		return 0
	}
	return e.NextFreeTime(snap, class, now)
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
