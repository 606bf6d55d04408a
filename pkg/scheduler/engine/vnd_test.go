package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/paiban/pkg/scheduler/engine"
)

func TestVariableNeighborhoodDescentRejectsNonIncreasingBlockSizes(t *testing.T) {
	_, err := engine.NewVariableNeighborhoodDescent([]int{2, 2}, engine.FirstImproving, nil)
	assert.Error(t, err)

	_, err = engine.NewVariableNeighborhoodDescent(nil, engine.FirstImproving, nil)
	assert.Error(t, err)
}

func TestVariableNeighborhoodDescentNeverWorsensTheSolution(t *testing.T) {
	p := newUniformDemandProblem(6, 5, 2, 1)
	s, err := engine.FastBlockConstruction(p, nil)
	require.NoError(t, err)
	start := engine.FullEvaluation(s)

	vnd, err := engine.NewVariableNeighborhoodDescent([]int{1, 2, 3}, engine.FirstImproving, nil)
	require.NoError(t, err)

	final, err := vnd.Run(s, start)
	require.NoError(t, err)

	assert.False(t, start.Less(final), "descent must never return an evaluation worse than the starting point")
}

func TestVariableNeighborhoodDescentTerminatesAtLocalOptimum(t *testing.T) {
	p := newUniformDemandProblem(4, 3, 1, 1)
	s := engine.GreedyConstruction(p)
	base := engine.FullEvaluation(s)

	vnd, err := engine.NewVariableNeighborhoodDescent([]int{1}, engine.BestImproving, nil)
	require.NoError(t, err)

	final, err := vnd.Run(s, base)
	require.NoError(t, err)

	nb, err := engine.NewSwapNeighborhood(s, 1, final, true, nil)
	require.NoError(t, err)
	_, hasImproving := nb.GetBestNeighborEvaluation()
	assert.False(t, hasImproving, "once VND returns, no single-block swap should still improve the solution")
}
