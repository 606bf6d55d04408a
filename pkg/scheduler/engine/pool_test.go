package engine_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/paiban/pkg/scheduler/engine"
)

func TestSolutionPoolRejectsDuplicates(t *testing.T) {
	p := newUniformDemandProblem(3, 2, 1, 1)
	pool, err := engine.NewSolutionPool(4, engine.ReplaceNext, 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	s := engine.GreedyConstruction(p)
	eval := engine.FullEvaluation(s)

	assert.True(t, pool.Insert(s, eval))
	assert.Equal(t, 1, pool.Len())
	assert.False(t, pool.Insert(s.Clone(), eval), "a structurally identical solution must be rejected")
	assert.Equal(t, 1, pool.Len())
}

func TestSolutionPoolReplaceNextEvictsRegardlessOfQuality(t *testing.T) {
	p := newUniformDemandProblem(3, 2, 1, 1)
	pool, err := engine.NewSolutionPool(1, engine.ReplaceNext, 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	first := engine.NewEmptySolution(p)
	firstEval := engine.FullEvaluation(first)
	require.True(t, pool.Insert(first, firstEval))

	second := engine.GreedyConstruction(p)
	secondEval := engine.FullEvaluation(second)
	require.True(t, pool.Insert(second, secondEval), "ReplaceNext must accept even a worse candidate once full")
	assert.Equal(t, 1, pool.Len())
}

func TestSolutionPoolReplaceOneOfWorstRequiresImprovement(t *testing.T) {
	p := newUniformDemandProblem(3, 2, 1, 1)
	pool, err := engine.NewSolutionPool(1, engine.ReplaceOneOfWorst, 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	good := engine.GreedyConstruction(p)
	goodEval := engine.FullEvaluation(good)
	require.True(t, pool.Insert(good, goodEval))

	worse := engine.NewEmptySolution(p)
	worseEval := engine.FullEvaluation(worse)
	assert.False(t, pool.Insert(worse, worseEval), "ReplaceOneOfWorst must reject a candidate that doesn't improve on the member it would evict")
}

func TestSolutionPoolBestReturnsLexicographicMinimum(t *testing.T) {
	p := newUniformDemandProblem(3, 2, 1, 1)
	pool, err := engine.NewSolutionPool(4, engine.ReplaceNext, 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	worse := engine.NewEmptySolution(p)
	worseEval := engine.FullEvaluation(worse)
	better := engine.GreedyConstruction(p)
	betterEval := engine.FullEvaluation(better)

	pool.Insert(worse, worseEval)
	pool.Insert(better, betterEval)

	_, bestEval, ok := pool.Best()
	require.True(t, ok)
	assert.Equal(t, betterEval, bestEval)
}

func TestSolutionPoolRejectsInvalidConfiguration(t *testing.T) {
	_, err := engine.NewSolutionPool(0, engine.ReplaceNext, 0, nil)
	assert.Error(t, err)

	_, err = engine.NewSolutionPool(2, engine.ReplaceInWorstSet, 0, nil)
	assert.Error(t, err, "ReplaceInWorstSet requires a worstSetFraction in (0, 1]")
}
