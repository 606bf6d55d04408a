package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/paiban/pkg/scheduler/engine"
)

func TestSharedBestFoundOnlyAcceptsImprovements(t *testing.T) {
	p := newUniformDemandProblem(3, 2, 1, 1)
	worst := engine.NewEmptySolution(p)
	worstEval := engine.FullEvaluation(worst)
	store := engine.NewSharedBestFound(worst, worstEval)

	same := worst.Clone()
	assert.False(t, store.TryUpdate(same, worstEval), "a tying candidate must not replace the shared best")

	better := engine.GreedyConstruction(p)
	betterEval := engine.FullEvaluation(better)
	assert.True(t, store.TryUpdate(better, betterEval))

	_, snapshotEval := store.Snapshot()
	assert.Equal(t, betterEval, snapshotEval)

	assert.False(t, store.TryUpdate(worst, worstEval), "a worse candidate must never overwrite an improvement")
}

func TestSharedBestFoundSnapshotIsADeepCopy(t *testing.T) {
	p := newUniformDemandProblem(3, 2, 1, 1)
	start := engine.NewEmptySolution(p)
	eval := engine.FullEvaluation(start)
	store := engine.NewSharedBestFound(start, eval)

	snap, _ := store.Snapshot()
	snap.SetAssignment(0, 0, 0)

	unaffected, _ := store.Snapshot()
	assert.Equal(t, engine.Unassigned, unaffected.Assignment(0, 0), "mutating a snapshot must not affect the stored best")
}

func TestRunIteratedLocalSearchPoolRespectsContextDeadline(t *testing.T) {
	p := newUniformDemandProblem(5, 4, 2, 1)
	start := engine.GreedyConstruction(p)
	tracer := engine.NewTracer(false, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	cfg := engine.WorkerPoolConfig{
		Threads:           2,
		GlobalSeed:        17,
		BlockSizes:        []int{1, 2},
		Policy:            engine.FirstImproving,
		PerturbationSteps: 1,
		RestartAfter:      30,
		AcceptWorseRate:   0.05,
		NoReturnCacheSize: 16,
		PollInterval:      10 * time.Millisecond,
	}

	best, eval, err := engine.RunIteratedLocalSearchPool(ctx, p, start, cfg, tracer)
	require.NoError(t, err)
	require.NotNil(t, best)

	baseline := engine.FullEvaluation(start.Clone())
	assert.False(t, baseline.Less(eval), "the pool must return something at least as good as the seed")
	assert.NotEmpty(t, tracer.BestFoundTrace())
}
