package registry

import (
	"sort"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/buildq/pkg/storage"
	"github.com/the-maldridge/buildq/pkg/types"
)

// New returns an empty registry.  Attach a store with
// EnablePersistence to survive restarts.
func New(l hclog.Logger) *Registry {
	x := Registry{
		l:        l.Named("registry"),
		builders: make(map[string]*types.Builder),
		jobs:     make(map[uint64]*types.Job),
		nextID:   1,
	}
	return &x
}

// EnablePersistence provides a durable store for the farm state and
// immediately loads whatever state the store already holds.  If not
// enabled the registry is purely in-memory.
func (r *Registry) EnablePersistence(s storage.Storage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store = s
	return r.load()
}

// RegisterBuilder adds a builder to the farm, or updates the
// capability and flags of an existing one.  An in-flight job
// assignment survives re-registration; operators edit builders while
// the farm runs.
func (r *Registry) RegisterBuilder(name string, cap types.Capability, ok, manual bool) error {
	if !cap.Concrete() {
		return NewErrWildcardBuilder(name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b, exists := r.builders[name]
	if !exists {
		b = &types.Builder{Name: name}
		r.builders[name] = b
	}
	b.Cap = cap
	b.OK = ok
	b.Manual = manual

	r.l.Info("Registered builder", "builder", name, "class", cap, "ok", ok)
	return r.persist()
}

// SetBuilderOK flips the operational flag on a builder.
func (r *Registry) SetBuilderOK(name string, ok bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, exists := r.builders[name]
	if !exists {
		return NewErrNoSuchBuilder(name)
	}
	b.OK = ok
	return r.persist()
}

// SetBuilderManual flips the manual-mode flag on a builder.
func (r *Registry) SetBuilderManual(name string, manual bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, exists := r.builders[name]
	if !exists {
		return NewErrNoSuchBuilder(name)
	}
	b.Manual = manual
	return r.persist()
}

// Enqueue adds a pending entry to the build queue and returns its
// ID.
func (r *Registry) Enqueue(kind types.JobKind, cap types.Capability, score int, estimate time.Duration) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.jobs[id] = &types.Job{
		ID:                id,
		Kind:              kind,
		Cap:               cap,
		Score:             score,
		EstimatedDuration: estimate,
		State:             types.JobPending,
	}
	r.l.Debug("Enqueued job", "job", id, "class", cap, "score", score)
	return id, r.persist()
}

// MarkBuilding records that the orchestration layer started a job on
// a builder.  The job must be pending, the builder idle, and the
// capability classes must line up; the BUILDING invariants (start
// time and builder reference set) hold on return.
func (r *Registry) MarkBuilding(id uint64, builder string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, exists := r.jobs[id]
	if !exists {
		return NewErrNoSuchJob(id)
	}
	if j.State != types.JobPending {
		return NewErrWrongState(id, j.State, types.JobPending)
	}
	b, exists := r.builders[builder]
	if !exists {
		return NewErrNoSuchBuilder(builder)
	}
	if b.JobID != nil {
		return NewErrBuilderBusy(builder)
	}
	if !j.Cap.Matches(b.Cap) {
		return NewErrCapabilityMismatch(j.Cap, b.Cap)
	}

	started := now
	j.State = types.JobBuilding
	j.StartedAt = &started
	j.Builder = builder
	jid := id
	b.JobID = &jid

	r.l.Info("Job started", "job", id, "builder", builder)
	return r.persist()
}

// Complete records that a build finished and removes the entry from
// the queue, freeing its builder.
func (r *Registry) Complete(id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, exists := r.jobs[id]
	if !exists {
		return NewErrNoSuchJob(id)
	}
	if j.State != types.JobBuilding {
		return NewErrWrongState(id, j.State, types.JobBuilding)
	}

	r.releaseBuilder(j)
	delete(r.jobs, id)
	r.l.Info("Job complete", "job", id)
	return r.persist()
}

// Reset returns a building job to the queue, clearing its start time
// and builder so the PENDING invariants hold again.  Used when a
// builder dies or an operator yanks a build.
func (r *Registry) Reset(id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, exists := r.jobs[id]
	if !exists {
		return NewErrNoSuchJob(id)
	}
	if j.State != types.JobBuilding {
		return NewErrWrongState(id, j.State, types.JobBuilding)
	}

	r.releaseBuilder(j)
	j.State = types.JobPending
	j.StartedAt = nil
	j.Builder = ""
	r.l.Info("Job reset", "job", id)
	return r.persist()
}

func (r *Registry) releaseBuilder(j *types.Job) {
	b, exists := r.builders[j.Builder]
	if exists {
		b.JobID = nil
	}
}

// Snapshot returns a deep copy of the farm state.  The copy is
// immutable by convention; later registry mutations never show
// through, which is what makes a batch of estimates against one
// snapshot mutually consistent.
func (r *Registry) Snapshot() *types.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := types.Snapshot{
		TakenAt:  time.Now(),
		Builders: make([]types.Builder, 0, len(r.builders)),
		Jobs:     make([]types.Job, 0, len(r.jobs)),
	}
	for _, b := range r.builders {
		c := *b
		if b.JobID != nil {
			id := *b.JobID
			c.JobID = &id
		}
		snap.Builders = append(snap.Builders, c)
	}
	for _, j := range r.jobs {
		c := *j
		if j.StartedAt != nil {
			t := *j.StartedAt
			c.StartedAt = &t
		}
		snap.Jobs = append(snap.Jobs, c)
	}

	sort.Slice(snap.Builders, func(i, j int) bool {
		return snap.Builders[i].Name < snap.Builders[j].Name
	})
	sort.Slice(snap.Jobs, func(i, j int) bool {
		return snap.Jobs[i].ID < snap.Jobs[j].ID
	})
	return &snap
}
