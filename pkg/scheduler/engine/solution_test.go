package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/paiban/pkg/scheduler/engine"
)

func TestNewEmptySolutionDimensions(t *testing.T) {
	p := newUniformDemandProblem(3, 4, 2, 1)
	s := engine.NewEmptySolution(p)

	assert.Equal(t, 3, s.Days())
	assert.Equal(t, 4, s.Employees())
	assert.Equal(t, 2, s.NumShifts())

	for d := 0; d < s.Days(); d++ {
		for e := 0; e < s.Employees(); e++ {
			assert.Equal(t, engine.Unassigned, s.Assignment(d, e))
		}
		for sh := 0; sh < s.NumShifts(); sh++ {
			assert.Equal(t, 1, s.UnassignedCount(d, sh))
		}
	}
	assert.True(t, s.AnyUnassignedDemand())
}

func TestSetAssignmentInvalidatesEvaluation(t *testing.T) {
	p := newUniformDemandProblem(2, 2, 1, 1)
	s := engine.NewEmptySolution(p)
	engine.FullEvaluation(s)
	require.True(t, s.Evaluated())

	s.SetAssignment(0, 0, 0)
	assert.False(t, s.Evaluated())
}

func TestCloneIsIndependent(t *testing.T) {
	p := newUniformDemandProblem(2, 2, 1, 1)
	s := engine.NewEmptySolution(p)
	s.SetAssignment(0, 0, 0)
	s.ConsumeUnassigned(0, 0)

	clone := s.Clone()
	clone.SetAssignment(1, 1, 0)

	assert.Equal(t, engine.Unassigned, s.Assignment(1, 1), "mutating the clone must not affect the original")
	assert.Equal(t, 0, clone.Assignment(0, 0), "clone must start from the original's state")
}

func TestFullEvaluationCountsUnmetDemand(t *testing.T) {
	p := newUniformDemandProblem(2, 2, 1, 1)
	s := engine.NewEmptySolution(p)

	eval := engine.FullEvaluation(s)
	// Two days, one shift, demand 1 each: 2 unmet slots * 1000 penalty.
	require.Len(t, eval, 2)
	assert.Equal(t, 2000, eval[0])
	assert.Equal(t, 0, eval[1])
}

func TestEvaluationOrdering(t *testing.T) {
	better := engine.Evaluation{0, 5}
	worse := engine.Evaluation{1, 0}
	tie := engine.Evaluation{0, 5}

	assert.True(t, better.Less(worse), "lower rank-0 cost must win regardless of rank-1")
	assert.False(t, worse.Less(better))
	assert.True(t, better.Equal(tie))
	assert.Equal(t, 0, better.Compare(tie))
	assert.True(t, better.Compare(worse) < 0)
	assert.True(t, worse.Compare(better) > 0)
}

func TestEvaluationZeroAddSub(t *testing.T) {
	zero := engine.NewEvaluation(2)
	assert.True(t, zero.IsZero())

	a := engine.Evaluation{3, 4}
	delta := engine.Evaluation{-1, 2}
	assert.Equal(t, engine.Evaluation{2, 6}, a.Add(delta))
	assert.Equal(t, engine.Evaluation{4, 2}, a.Sub(delta))
}

func TestAssignmentsEqualDetectsStructuralDifference(t *testing.T) {
	p := newUniformDemandProblem(2, 2, 1, 1)
	a := engine.NewEmptySolution(p)
	b := engine.NewEmptySolution(p)
	assert.True(t, a.AssignmentsEqual(b))

	b.SetAssignment(0, 0, 0)
	assert.False(t, a.AssignmentsEqual(b))
}
