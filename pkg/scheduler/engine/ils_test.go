package engine_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/paiban/pkg/scheduler/engine"
)

func TestIteratedLocalSearchRequiresInitBeforeNextStep(t *testing.T) {
	p := newUniformDemandProblem(4, 3, 1, 1)
	vnd, err := engine.NewVariableNeighborhoodDescent([]int{1}, engine.FirstImproving, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	filter, err := engine.NewNoReturnFilter(8)
	require.NoError(t, err)
	ils, err := engine.NewIteratedLocalSearch(p, vnd, filter, 1, 10, 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	_, err = ils.NextStep()
	assert.Error(t, err, "NextStep before Init must report illegal state")
}

func TestIteratedLocalSearchBestEvaluationIsMonotone(t *testing.T) {
	p := newUniformDemandProblem(6, 5, 2, 1)
	start, err := engine.FastBlockConstruction(p, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	vnd, err := engine.NewVariableNeighborhoodDescent([]int{1, 2}, engine.FirstImproving, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	filter, err := engine.NewNoReturnFilter(32)
	require.NoError(t, err)
	ils, err := engine.NewIteratedLocalSearch(p, vnd, filter, 1, 20, 0.1, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	require.NoError(t, ils.Init(start))
	prev := ils.BestEvaluation()

	for i := 0; i < 40; i++ {
		_, err := ils.NextStep()
		require.NoError(t, err)
		current := ils.BestEvaluation()
		assert.False(t, prev.Less(current), "the overall best-found evaluation must never regress between steps")
		prev = current
	}
}

func TestIteratedLocalSearchKeepsSteppingThroughStagnationRestarts(t *testing.T) {
	p := newUniformDemandProblem(4, 3, 1, 1)
	start := engine.GreedyConstruction(p)

	vnd, err := engine.NewVariableNeighborhoodDescent([]int{1}, engine.FirstImproving, rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	filter, err := engine.NewNoReturnFilter(8)
	require.NoError(t, err)
	ils, err := engine.NewIteratedLocalSearch(p, vnd, filter, 1, 3, 0, rand.New(rand.NewSource(9)))
	require.NoError(t, err)

	require.NoError(t, ils.Init(start))
	for i := 0; i < 15; i++ {
		_, err := ils.NextStep()
		require.NoError(t, err)
	}
	assert.Equal(t, 15, ils.Iteration())
}
