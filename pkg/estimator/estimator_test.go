package estimator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-maldridge/buildq/pkg/types"
)

func newTestEstimator(t *testing.T) *Estimator {
	e, err := New()
	require.NoError(t, err)
	return e
}

func worker(name, arch string, virt bool) types.Builder {
	return types.Builder{
		Name: name,
		Cap:  types.NewCapability(arch, virt),
		OK:   true,
	}
}

func pendingJob(id uint64, score int, arch string, estimate time.Duration) types.Job {
	return types.Job{
		ID:                id,
		Score:             score,
		Cap:               types.NewCapability(arch, false),
		EstimatedDuration: estimate,
		State:             types.JobPending,
	}
}

// assign marks a pending job in the snapshot as building on the
// named builder, mirroring what the registry does at job start.
func assign(t *testing.T, snap *types.Snapshot, id uint64, builder string, start time.Time) {
	for i := range snap.Jobs {
		if snap.Jobs[i].ID == id {
			snap.Jobs[i].State = types.JobBuilding
			snap.Jobs[i].StartedAt = &start
			snap.Jobs[i].Builder = builder
			for k := range snap.Builders {
				if snap.Builders[k].Name == builder {
					snap.Builders[k].JobID = &snap.Jobs[i].ID
					return
				}
			}
		}
	}
	t.Fatalf("no job %d or builder %s in snapshot", id, builder)
}

func TestCensus(t *testing.T) {
	e := newTestEstimator(t)

	down := worker("x4", "x86_64", false)
	down.OK = false
	snap := &types.Snapshot{
		Builders: []types.Builder{
			worker("x1", "x86_64", false),
			worker("x2", "x86_64", false),
			worker("a1", "aarch64", false),
			worker("v1", "x86_64", true),
			down,
		},
	}

	counts := e.Census(snap)
	assert.Equal(t, 2, counts[types.NewCapability("x86_64", false)])
	assert.Equal(t, 1, counts[types.NewCapability("aarch64", false)])
	assert.Equal(t, 1, counts[types.NewCapability("x86_64", true)])

	// Aggregates sum their concrete classes per virt flag; the
	// non-operational builder appears nowhere.
	assert.Equal(t, 3, counts[types.NewCapability(types.ArchAny, false)])
	assert.Equal(t, 1, counts[types.NewCapability(types.ArchAny, true)])

	total := 0
	for class, n := range counts {
		if class.Concrete() {
			total += n
		}
	}
	assert.Equal(t, 4, total, "every operational builder lands in exactly one concrete class")
}

func TestCensusEmptyFarm(t *testing.T) {
	e := newTestEstimator(t)
	counts := e.Census(&types.Snapshot{})
	assert.Empty(t, counts)
	assert.Zero(t, counts[types.NewCapability("x86_64", false)])
}

func TestFreeCountBounds(t *testing.T) {
	e := newTestEstimator(t)
	now := time.Now()

	snap := &types.Snapshot{
		Builders: []types.Builder{
			worker("x1", "x86_64", false),
			worker("x2", "x86_64", false),
			worker("a1", "aarch64", false),
		},
		Jobs: []types.Job{
			pendingJob(1, 100, "x86_64", time.Minute),
			pendingJob(2, 100, "aarch64", time.Minute),
		},
	}
	assign(t, snap, 1, "x1", now)

	counts := e.Census(snap)
	for class := range counts {
		free := e.FreeCount(snap, class)
		assert.GreaterOrEqual(t, free, 0, "class %s", class)
		assert.LessOrEqual(t, free, counts[class], "class %s", class)
	}

	assert.Equal(t, 1, e.FreeCount(snap, types.NewCapability("x86_64", false)))
	assert.Equal(t, 1, e.FreeCount(snap, types.NewCapability("aarch64", false)))
	assert.Equal(t, 2, e.FreeCount(snap, types.NewCapability(types.ArchAny, false)))
}

func TestFreeCountStaleAssignment(t *testing.T) {
	// A builder pointing at a job that is no longer BUILDING is
	// not busy.
	e := newTestEstimator(t)

	jid := uint64(1)
	b := worker("x1", "x86_64", false)
	b.JobID = &jid
	snap := &types.Snapshot{
		Builders: []types.Builder{b},
		Jobs:     []types.Job{pendingJob(1, 100, "x86_64", time.Minute)},
	}

	assert.Equal(t, 1, e.FreeCount(snap, types.NewCapability("x86_64", false)))
}

func TestNextFreeTime(t *testing.T) {
	e := newTestEstimator(t)
	now := time.Unix(1700000000, 0)

	snap := &types.Snapshot{
		Builders: []types.Builder{
			worker("x1", "x86_64", false),
			worker("x2", "x86_64", false),
		},
		Jobs: []types.Job{
			pendingJob(1, 100, "x86_64", 10*time.Minute),
			pendingJob(2, 100, "x86_64", 4*time.Minute),
		},
	}
	assign(t, snap, 1, "x1", now.Add(-2*time.Minute))
	assign(t, snap, 2, "x2", now.Add(-1*time.Minute))

	// x1 has 8m left, x2 has 3m left.
	got := e.NextFreeTime(snap, types.NewCapability("x86_64", false), now)
	assert.Equal(t, 3*time.Minute, got)
}

func TestNextFreeTimeOverrunClamp(t *testing.T) {
	// A job 120s past its 480s estimate reports the grace period,
	// never a negative remainder.
	e := newTestEstimator(t)
	now := time.Unix(1700000000, 0)

	snap := &types.Snapshot{
		Builders: []types.Builder{worker("x1", "x86_64", false)},
		Jobs:     []types.Job{pendingJob(1, 100, "x86_64", 480*time.Second)},
	}
	assign(t, snap, 1, "x1", now.Add(-600*time.Second))

	class := types.NewCapability("x86_64", false)
	require.Zero(t, e.FreeCount(snap, class))
	got := e.NextFreeTime(snap, class, now)
	assert.Equal(t, 120*time.Second, got)
	assert.GreaterOrEqual(t, got, time.Duration(0))
}

func TestEstimateDelayHeadJob(t *testing.T) {
	// The sole job of the head partition waits on nothing.
	e := newTestEstimator(t)

	snap := &types.Snapshot{
		Builders: []types.Builder{worker("x1", "x86_64", false)},
		Jobs:     []types.Job{pendingJob(1, 100, "x86_64", time.Hour)},
	}

	delay, err := e.EstimateDelay(snap, snap.Jobs[0], time.Now())
	require.NoError(t, err)
	assert.Zero(t, delay)
}

func TestEstimateDelayMonotonic(t *testing.T) {
	e := newTestEstimator(t)
	now := time.Now()

	job := pendingJob(10, 100, "x86_64", time.Minute)
	snap := &types.Snapshot{
		Builders: []types.Builder{worker("x1", "x86_64", false)},
		Jobs: []types.Job{
			job,
			pendingJob(2, 200, "x86_64", 120*time.Second),
		},
	}

	before, err := e.EstimateDelay(snap, job, now)
	require.NoError(t, err)
	assert.Equal(t, 120*time.Second, before)

	// Another competitor ahead of the job never shrinks the
	// estimate.  Equal score with a lower ID still counts as
	// ahead.
	snap.Jobs = append(snap.Jobs, pendingJob(5, 100, "x86_64", 60*time.Second))
	after, err := e.EstimateDelay(snap, job, now)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, after, before)
	assert.Equal(t, 180*time.Second, after)
}

func TestEstimateDelayNotPending(t *testing.T) {
	e := newTestEstimator(t)
	now := time.Now()

	snap := &types.Snapshot{
		Builders: []types.Builder{worker("x1", "x86_64", false)},
		Jobs:     []types.Job{pendingJob(1, 100, "x86_64", time.Minute)},
	}
	assign(t, snap, 1, "x1", now)

	_, err := e.EstimateDelay(snap, snap.Jobs[0], now)
	var pe PreconditionError
	require.ErrorAs(t, err, &pe)
}

func TestMinTimeToBuilderQueueDrain(t *testing.T) {
	// Four native builders, eight queued native jobs with
	// durations 60s..480s at scores 1001..1008.
	e := newTestEstimator(t)
	t0 := time.Unix(1700000000, 0)

	snap := &types.Snapshot{
		Builders: []types.Builder{
			worker("x1", "x86_64", false),
			worker("x2", "x86_64", false),
			worker("x3", "x86_64", false),
			worker("x4", "x86_64", false),
		},
	}
	for i := 1; i <= 8; i++ {
		snap.Jobs = append(snap.Jobs,
			pendingJob(uint64(i), 1000+i, "x86_64", time.Duration(i)*time.Minute))
	}

	// Builders idle: no wait for anyone.
	job3, ok := snap.JobByID(3)
	require.True(t, ok)
	assert.Zero(t, e.MinTimeToBuilder(snap, job3, t0))

	// The four highest scored jobs dispatch, occupying the whole
	// class.  The next job waits out the shortest running
	// estimate, the 300s job.
	assign(t, snap, 8, "x1", t0)
	assign(t, snap, 7, "x2", t0)
	assign(t, snap, 6, "x3", t0)
	assign(t, snap, 5, "x4", t0)

	job4, ok := snap.JobByID(4)
	require.True(t, ok)
	assert.Equal(t, 300*time.Second, e.MinTimeToBuilder(snap, job4, t0))
}

func TestEstimateDelayCrossPartition(t *testing.T) {
	// A platform independent job outranks a specific job; the
	// specific job's estimate charges the independent backlog
	// spread over the whole farm.
	e := newTestEstimator(t)
	now := time.Now()

	snap := &types.Snapshot{
		Builders: []types.Builder{
			worker("h1", "hppa", false),
			worker("h2", "hppa", false),
			worker("i1", "386", false),
			worker("i2", "386", false),
		},
		Jobs: []types.Job{
			pendingJob(1, 1003, "hppa", 60*time.Second),
			pendingJob(2, 1027, "hppa", 120*time.Second),
			pendingJob(4, 1048, "386", 240*time.Second),
			pendingJob(9, 1025, types.ArchAny, 300*time.Second),
		},
	}

	// Head of the queue is the 386 job at 1048.  The hppa job at
	// 1003 waits for the hppa work ahead of it (120s over two
	// builders) plus the independent backlog (300s over four).
	job1, ok := snap.JobByID(1)
	require.True(t, ok)
	delay, err := e.EstimateDelay(snap, job1, now)
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second+75*time.Second, delay)
}

func TestEstimateDelayIndependentJob(t *testing.T) {
	// The mirror case: an independent job behind the specific
	// head charges the whole specific backlog over the any-arch
	// pool.
	e := newTestEstimator(t)
	now := time.Now()

	snap := &types.Snapshot{
		Builders: []types.Builder{
			worker("h1", "hppa", false),
			worker("h2", "hppa", false),
			worker("i1", "386", false),
			worker("i2", "386", false),
		},
		Jobs: []types.Job{
			pendingJob(1, 1003, "hppa", 60*time.Second),
			pendingJob(4, 1048, "386", 240*time.Second),
			pendingJob(9, 1025, types.ArchAny, 300*time.Second),
			pendingJob(10, 1000, types.ArchAny, 60*time.Second),
		},
	}

	// Job 10 queues behind independent job 9 (300s over four
	// builders) and the specific backlog (300s over four).
	job10, ok := snap.JobByID(10)
	require.True(t, ok)
	delay, err := e.EstimateDelay(snap, job10, now)
	require.NoError(t, err)
	assert.Equal(t, 150*time.Second, delay)
}

func TestNoCapableBuilders(t *testing.T) {
	// A job for an arch nobody offers still gets optimistic
	// numbers back rather than an error.  Long-standing farm
	// behavior that status pages rely on.
	e := newTestEstimator(t)
	now := time.Now()

	snap := &types.Snapshot{
		Builders: []types.Builder{worker("x1", "x86_64", false)},
		Jobs:     []types.Job{pendingJob(1, 100, "riscv64", time.Hour)},
	}

	assert.Zero(t, e.MinTimeToBuilder(snap, snap.Jobs[0], now))

	delay, err := e.EstimateDelay(snap, snap.Jobs[0], now)
	require.NoError(t, err)
	assert.Zero(t, delay)
}
