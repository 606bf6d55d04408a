package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/paiban/pkg/scheduler/engine"
)

func TestSwapNeighborhoodEnumeratesEveryPairAndStart(t *testing.T) {
	p := newUniformDemandProblem(4, 4, 1, 1)
	s := engine.GreedyConstruction(p)
	base := engine.FullEvaluation(s)

	nb, err := engine.NewSwapNeighborhood(s, 1, base, false, nil)
	require.NoError(t, err)

	// blockSize 1 over 4 days and C(4,2)=6 employee pairs per day.
	wantCount := 4 * 6
	got := 0
	for {
		_, ok := nb.NextNeighborEvaluation()
		if !ok {
			break
		}
		got++
	}
	assert.Equal(t, wantCount, got)
}

func TestSwapNeighborhoodDeltaMatchesFullRecompute(t *testing.T) {
	p := newUniformDemandProblem(4, 4, 2, 1)
	s := engine.GreedyConstruction(p)
	base := engine.FullEvaluation(s)

	nb, err := engine.NewSwapNeighborhood(s, 1, base, false, nil)
	require.NoError(t, err)

	checked := 0
	for {
		eval, ok := nb.NextNeighborEvaluation()
		if !ok {
			break
		}
		clone, err := nb.GetLastEvaluatedNeighbor()
		require.NoError(t, err)
		recomputed := engine.FullEvaluation(clone)
		assert.Equal(t, recomputed, eval, "incremental swap delta must agree with a full recompute")
		checked++
	}
	assert.Greater(t, checked, 0)
}

func TestSwapNeighborhoodMoveToBestNeighborOnlyMovesOnImprovement(t *testing.T) {
	p := newUniformDemandProblem(3, 2, 1, 1)
	s := engine.NewEmptySolution(p)
	base := engine.FullEvaluation(s)

	nb, err := engine.NewSwapNeighborhood(s, 1, base, true, nil)
	require.NoError(t, err)

	moved, err := nb.MoveToBestNeighbor()
	require.NoError(t, err)
	assert.False(t, moved, "swapping two unassigned employees can never improve an all-unassigned solution")
}

func TestBiasedSwapNeighborhoodOnlyTracksActiveRank(t *testing.T) {
	p := newUniformDemandProblem(4, 4, 1, 1)
	s := engine.GreedyConstruction(p)

	active := map[int][]engine.Constraint{
		1: {preferredShiftConstraint{employeeIndex: 0, shiftIndex: 0}},
	}
	nb, err := engine.NewBiasedSwapNeighborhood(s, 1, active, 2, false, nil)
	require.NoError(t, err)

	for {
		delta, ok := nb.NextNeighborEvaluation()
		if !ok {
			break
		}
		assert.Equal(t, 0, delta[0], "rank 0 was not listed as active and must stay zero")
	}
}
