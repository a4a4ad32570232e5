package queue

import (
	"sort"

	"github.com/the-maldridge/buildq/pkg/types"
)

// Before is the dispatch ordering over queue entries: higher score
// first, and at equal score the older (lower ID) entry first.
func Before(a, b types.Job) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.ID < b.ID
}

// NewModel builds the ordered queue view from a snapshot.  Only
// PENDING entries participate; everything else has already left the
// queue as far as ordering is concerned.
func NewModel(snap *types.Snapshot) *Model {
	jobs := snap.PendingJobs()
	sort.Slice(jobs, func(i, j int) bool {
		return Before(jobs[i], jobs[j])
	})
	return &Model{jobs: jobs}
}

// Pending returns every queued job in dispatch order.
func (m *Model) Pending() []types.Job {
	return m.jobs
}

// PlatformSpecific returns the queued jobs that name a concrete
// architecture, in dispatch order.
func (m *Model) PlatformSpecific() []types.Job {
	out := []types.Job{}
	for _, j := range m.jobs {
		if j.Cap.Concrete() {
			out = append(out, j)
		}
	}
	return out
}

// PlatformIndependent returns the queued jobs runnable on any
// architecture, in dispatch order.
func (m *Model) PlatformIndependent() []types.Job {
	out := []types.Job{}
	for _, j := range m.jobs {
		if !j.Cap.Concrete() {
			out = append(out, j)
		}
	}
	return out
}

// ClassJobs returns the queued jobs of exactly the given class, in
// dispatch order.
func (m *Model) ClassJobs(class types.Capability) []types.Job {
	out := []types.Job{}
	for _, j := range m.jobs {
		if j.Cap == class {
			out = append(out, j)
		}
	}
	return out
}

// HeadPlatform resolves which capability class dispatches next.  The
// competitors are the best ranked platform independent job and the
// best ranked job of each concrete class; since the queue is totally
// ordered, the overall head job is necessarily the head of its own
// class, so the answer is the front of the queue.  Returns false if
// nothing is queued.
func (m *Model) HeadPlatform() (types.Capability, bool) {
	if len(m.jobs) == 0 {
		return types.Capability{}, false
	}
	return m.jobs[0].Cap, true
}
