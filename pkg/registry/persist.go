package registry

import (
	"encoding/json"

	"github.com/klauspost/compress/zstd"

	"github.com/the-maldridge/buildq/pkg/types"
)

var stateKey = []byte("farm/state")

// farmState is the on-disk shape of the registry: the maps flattened
// to slices so the JSON is stable, plus the ID counter.
type farmState struct {
	NextID   uint64
	Builders []types.Builder
	Jobs     []types.Job
}

// persist writes the current state through the store as zstd
// compressed JSON.  Callers hold the registry lock.  Without a store
// this is a no-op.
func (r *Registry) persist() error {
	if r.store == nil {
		return nil
	}

	state := farmState{NextID: r.nextID}
	for _, b := range r.builders {
		state.Builders = append(state.Builders, *b)
	}
	for _, j := range r.jobs {
		state.Jobs = append(state.Jobs, *j)
	}

	raw, err := json.Marshal(state)
	if err != nil {
		r.l.Error("Error marshalling state", "error", err)
		return err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	blob := enc.EncodeAll(raw, nil)
	enc.Close()

	if err := r.store.Put(stateKey, blob); err != nil {
		r.l.Error("Error persisting state", "error", err)
		return err
	}
	r.l.Trace("Persisted state", "bytes", len(blob))
	return nil
}

// load restores state from the store.  A store with no prior state
// leaves the registry empty.  Callers hold the registry lock.
func (r *Registry) load() error {
	blob, err := r.store.Get(stateKey)
	if err != nil {
		r.l.Error("Error loading state", "error", err)
		return err
	}
	if blob == nil {
		r.l.Debug("No prior state to load")
		return nil
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return err
	}
	raw, err := dec.DecodeAll(blob, nil)
	dec.Close()
	if err != nil {
		r.l.Error("Error decompressing state", "error", err)
		return err
	}

	state := farmState{}
	if err := json.Unmarshal(raw, &state); err != nil {
		r.l.Error("Error unmarshalling state", "error", err)
		return err
	}

	r.nextID = state.NextID
	r.builders = make(map[string]*types.Builder, len(state.Builders))
	for i := range state.Builders {
		b := state.Builders[i]
		r.builders[b.Name] = &b
	}
	r.jobs = make(map[uint64]*types.Job, len(state.Jobs))
	for i := range state.Jobs {
		j := state.Jobs[i]
		r.jobs[j.ID] = &j
	}
	r.l.Info("Loaded state", "builders", len(r.builders), "jobs", len(r.jobs))
	return nil
}
