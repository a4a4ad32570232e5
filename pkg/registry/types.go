package registry

import (
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/buildq/pkg/storage"
	"github.com/the-maldridge/buildq/pkg/types"
)

// Registry is the authoritative record of the farm: every registered
// builder and every live queue entry.  All estimation reads go
// through Snapshot so a batch of estimates sees one consistent
// state; mutations come in through the lifecycle methods below and
// via HTTP callbacks from the surrounding orchestration.
type Registry struct {
	l  hclog.Logger
	mu sync.Mutex

	builders map[string]*types.Builder
	jobs     map[uint64]*types.Job

	// nextID seeds queue entry IDs; monotonic so IDs double as
	// the age tie-break.
	nextID uint64

	store storage.Storage
}
