package registry

import (
	"strconv"

	"github.com/the-maldridge/buildq/pkg/types"
)

// ErrNoSuchBuilder is returned when a builder is referenced that was
// never registered.
type ErrNoSuchBuilder struct {
	name string
}

// NewErrNoSuchBuilder returns a new error specialized to the
// attempted builder.
func NewErrNoSuchBuilder(name string) ErrNoSuchBuilder {
	return ErrNoSuchBuilder{name}
}

func (e ErrNoSuchBuilder) Error() string {
	return "no builder with name " + e.name + " exists"
}

// ErrNoSuchJob is returned when a queue entry is referenced that is
// not in the queue.
type ErrNoSuchJob struct {
	id uint64
}

// NewErrNoSuchJob returns a new error specialized to the attempted
// job.
func NewErrNoSuchJob(id uint64) ErrNoSuchJob {
	return ErrNoSuchJob{id}
}

func (e ErrNoSuchJob) Error() string {
	return "no job with id " + strconv.FormatUint(e.id, 10) + " exists"
}

// ErrBuilderBusy is returned when a job start names a builder that
// is already running something.
type ErrBuilderBusy struct {
	name string
}

// NewErrBuilderBusy returns a new error specialized to the busy
// builder.
func NewErrBuilderBusy(name string) ErrBuilderBusy {
	return ErrBuilderBusy{name}
}

func (e ErrBuilderBusy) Error() string {
	return "builder " + e.name + " is already running a job"
}

// ErrWrongState is returned when a lifecycle transition is requested
// for a job not in the state the transition starts from.
type ErrWrongState struct {
	id   uint64
	have types.JobState
	want types.JobState
}

// NewErrWrongState returns a new error describing the rejected
// transition.
func NewErrWrongState(id uint64, have, want types.JobState) ErrWrongState {
	return ErrWrongState{id, have, want}
}

func (e ErrWrongState) Error() string {
	return "job " + strconv.FormatUint(e.id, 10) + " is " + string(e.have) + ", not " + string(e.want)
}

// ErrWildcardBuilder is returned when a builder registration claims
// the any-arch wildcard.  Builders are concrete machines; only jobs
// get to be platform independent.
type ErrWildcardBuilder struct {
	name string
}

// NewErrWildcardBuilder returns a new error specialized to the
// offending registration.
func NewErrWildcardBuilder(name string) ErrWildcardBuilder {
	return ErrWildcardBuilder{name}
}

func (e ErrWildcardBuilder) Error() string {
	return "builder " + e.name + " must register a concrete architecture"
}

// ErrCapabilityMismatch is returned when a job start names a builder
// that cannot run the job's class of work.
type ErrCapabilityMismatch struct {
	job     types.Capability
	builder types.Capability
}

// NewErrCapabilityMismatch returns a new error describing the
// mismatched classes.
func NewErrCapabilityMismatch(job, builder types.Capability) ErrCapabilityMismatch {
	return ErrCapabilityMismatch{job, builder}
}

func (e ErrCapabilityMismatch) Error() string {
	return "job requires " + e.job.String() + " but builder provides " + e.builder.String()
}
