package engine_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/paiban/pkg/scheduler/engine"
)

func TestGreedyConstructionCoversAllDemandWhenFeasible(t *testing.T) {
	p := newUniformDemandProblem(5, 4, 2, 1)
	s := engine.GreedyConstruction(p)

	assert.False(t, s.AnyUnassignedDemand(), "enough employees per day must leave no open slot")

	eval := engine.FullEvaluation(s)
	assert.Equal(t, 0, eval[0], "hard coverage constraint must be fully satisfied")
}

func TestGreedyConstructionPrefersEmployeeZerosPreferredShift(t *testing.T) {
	p := newUniformDemandProblem(6, 4, 2, 1)
	s := engine.GreedyConstruction(p)

	eval := engine.FullEvaluation(s)
	assert.Equal(t, 0, eval[1], "greedy construction should route employee 0 onto its preferred shift whenever it works")
}

func TestFastBlockConstructionIsDeterministicWithoutRNG(t *testing.T) {
	p := newUniformDemandProblem(4, 3, 1, 1)
	a, err := engine.FastBlockConstruction(p, nil)
	require.NoError(t, err)
	b, err := engine.FastBlockConstruction(p, nil)
	require.NoError(t, err)
	assert.True(t, a.AssignmentsEqual(b), "nil rng must walk employees in a fixed order")
}

func TestFastBlockConstructionRespectsDemandCeiling(t *testing.T) {
	p := newUniformDemandProblem(3, 2, 1, 1)
	rng := rand.New(rand.NewSource(7))
	s, err := engine.FastBlockConstruction(p, rng)
	require.NoError(t, err)

	for d := 0; d < s.Days(); d++ {
		assigned := 0
		for e := 0; e < s.Employees(); e++ {
			if s.Assignment(d, e) != engine.Unassigned {
				assigned++
			}
		}
		require.LessOrEqual(t, assigned, s.Employees())
		assert.LessOrEqual(t, assigned, 1, "demand of 1 must never be oversubscribed")
	}
}

func TestFastBlockConstructionFailsWhenDemandExceedsEmployees(t *testing.T) {
	p := newUniformDemandProblem(1, 2, 1, 3)
	_, err := engine.FastBlockConstruction(p, rand.New(rand.NewSource(5)))
	require.Error(t, err, "demand of 3 with only 2 employees must exhaust every candidate")
}

func TestMultistartGreedyConstructionPicksBestOfStarts(t *testing.T) {
	p := newUniformDemandProblem(5, 4, 2, 1)
	rng := rand.New(rand.NewSource(11))
	best := engine.MultistartGreedyConstruction(p, 5, rng, engine.FullEvaluation)

	require.NotNil(t, best)
	eval := engine.FullEvaluation(best)
	assert.Equal(t, 0, eval[0])
}

func TestConstructionWithProgressiveDescentSatisfiesHardCoverage(t *testing.T) {
	p := newUniformDemandProblem(6, 4, 2, 1)
	vnd, err := engine.NewVariableNeighborhoodDescent([]int{1, 2}, engine.FirstImproving, rand.New(rand.NewSource(14)))
	require.NoError(t, err)

	s, err := engine.ConstructionWithProgressiveDescent(p, vnd, rand.New(rand.NewSource(14)))
	require.NoError(t, err)

	eval := engine.FullEvaluation(s)
	assert.Equal(t, 0, eval[0], "the hard coverage rank must stay active and fully satisfied throughout the ladder")
}
