package estimator

import (
	"strconv"

	"github.com/the-maldridge/buildq/pkg/types"
)

// A PreconditionError is returned when a delay estimate is requested
// for a job that is not waiting in the queue.  Estimates are only
// meaningful before dispatch.
type PreconditionError struct {
	id    uint64
	state types.JobState
}

// NewPreconditionError returns a new error specialized to the
// offending job.
func NewPreconditionError(j types.Job) PreconditionError {
	return PreconditionError{id: j.ID, state: j.State}
}

func (e PreconditionError) Error() string {
	return "job " + strconv.FormatUint(e.id, 10) + " is " + string(e.state) + "; delay estimation requires PENDING"
}
