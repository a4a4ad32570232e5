package queue

import (
	"github.com/the-maldridge/buildq/pkg/types"
)

// A Model is an ordered, read-only view over the pending jobs of one
// snapshot.  Build one per estimation pass; it does not observe
// later changes to the farm.
type Model struct {
	jobs []types.Job
}
