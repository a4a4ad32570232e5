package types

import (
	"time"
)

// JobState tracks where a queue entry is in its lifecycle.  Only two
// states matter to the estimators; everything after a build finishes
// is handled elsewhere and the entry leaves the queue.
type JobState string

const (
	// JobPending means the entry is waiting for a builder.
	JobPending JobState = "PENDING"

	// JobBuilding means the entry has been handed to a builder
	// and is in progress.
	JobBuilding JobState = "BUILDING"
)

// JobKind discriminates the flavors of build the farm knows how to
// run.  The estimators never look at this; it exists so the rest of
// the system can carry kind specific payloads without the queue
// caring.
type JobKind string

const (
	KindBinary JobKind = "binary"
	KindRecipe JobKind = "recipe"
	KindSnap   JobKind = "snap"
	KindOCI    JobKind = "oci"
)

// A Job is a single build queue entry.  IDs are assigned
// monotonically by the registry, which makes them double as an age
// tie-break: at equal score the lower ID dispatches first.
type Job struct {
	ID    uint64
	Kind  JobKind
	Score int
	Cap   Capability

	// EstimatedDuration is a planning-time guess at how long the
	// build will run.
	EstimatedDuration time.Duration

	State     JobState
	StartedAt *time.Time

	// Builder names the machine running this job while it is in
	// the BUILDING state, and is empty otherwise.
	Builder string
}

// Pending is a convenience check used all over the queue and
// estimator code.
func (j *Job) Pending() bool {
	return j.State == JobPending
}

// Building reports whether the job is currently on a builder.
func (j *Job) Building() bool {
	return j.State == JobBuilding
}

// A Builder is a single machine in the farm.  Builders run one job
// at a time and are matched to jobs by capability.
type Builder struct {
	Name string
	Cap  Capability

	// OK is the operator controlled "this machine works" flag.
	// Builders with OK false are invisible to the estimators.
	OK bool

	// Manual takes a builder out of automatic dispatch.  The
	// estimators deliberately do not consult this flag; see the
	// note on Census.
	Manual bool

	// JobID references the job this builder is running, if any.
	JobID *uint64
}
