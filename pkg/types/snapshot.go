package types

import (
	"time"
)

// A Snapshot is a point in time copy of the farm: every registered
// builder and every live queue entry, plus the instant it was taken.
// Estimation over a batch of jobs must run against a single snapshot
// so the answers are mutually consistent; the registry hands out a
// fresh one per batch and never mutates it afterwards.
type Snapshot struct {
	TakenAt  time.Time
	Builders []Builder
	Jobs     []Job
}

// OperationalBuilders returns the builders with the OK flag set.
// Manual builders are included; the farm's estimates have always
// counted manual machines and downstream consumers expect that.
func (s *Snapshot) OperationalBuilders() []Builder {
	out := make([]Builder, 0, len(s.Builders))
	for _, b := range s.Builders {
		if b.OK {
			out = append(out, b)
		}
	}
	return out
}

// PendingJobs returns every queue entry still waiting for a builder.
func (s *Snapshot) PendingJobs() []Job {
	out := make([]Job, 0, len(s.Jobs))
	for _, j := range s.Jobs {
		if j.Pending() {
			out = append(out, j)
		}
	}
	return out
}

// BuildingJobs returns the in-progress jobs whose builder falls in
// the given class.  An aggregate class matches every arch with the
// same virtualization flag.
func (s *Snapshot) BuildingJobs(class Capability) []Job {
	out := []Job{}
	for _, j := range s.Jobs {
		if !j.Building() {
			continue
		}
		b, ok := s.BuilderByName(j.Builder)
		if !ok || !b.OK {
			continue
		}
		if class.Matches(b.Cap) {
			out = append(out, j)
		}
	}
	return out
}

// JobByID looks a job up by its queue entry ID.
func (s *Snapshot) JobByID(id uint64) (Job, bool) {
	for _, j := range s.Jobs {
		if j.ID == id {
			return j, true
		}
	}
	return Job{}, false
}

// BuilderByName looks a builder up by name.
func (s *Snapshot) BuilderByName(name string) (Builder, bool) {
	for _, b := range s.Builders {
		if b.Name == name {
			return b, true
		}
	}
	return Builder{}, false
}
