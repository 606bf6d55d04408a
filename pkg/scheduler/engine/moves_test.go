package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/paiban/pkg/scheduler/engine"
)

func TestSwapMoveApplyRevertIsInvolution(t *testing.T) {
	p := newUniformDemandProblem(4, 3, 1, 1)
	s := engine.NewEmptySolution(p)
	s.SetAssignment(0, 0, 0)
	s.SetAssignment(1, 0, 0)
	s.SetAssignment(0, 1, 0)
	s.SetAssignment(1, 1, 0)

	before := snapshotAssignments(s)

	m := engine.SwapMove{Employee1Index: 0, Employee2Index: 1, StartDayIndex: 0, BlockSize: 2}
	m.Apply(s)
	assert.NotEqual(t, before, snapshotAssignments(s), "swap of distinct assignments must change the matrix")

	m.Revert(s)
	assert.Equal(t, before, snapshotAssignments(s), "revert must restore the pre-swap matrix exactly")
}

func TestSwapMoveAppliedLeavesOriginUnchanged(t *testing.T) {
	p := newUniformDemandProblem(2, 2, 1, 1)
	s := engine.NewEmptySolution(p)
	s.SetAssignment(0, 0, 0)

	before := snapshotAssignments(s)
	m := engine.SwapMove{Employee1Index: 0, Employee2Index: 1, StartDayIndex: 0, BlockSize: 1}
	clone := m.Applied(s)

	assert.Equal(t, before, snapshotAssignments(s), "Applied must not mutate its receiver")
	assert.NotEqual(t, before, snapshotAssignments(clone))
}

func TestSwapMoveModifyAssignment(t *testing.T) {
	p := newUniformDemandProblem(2, 2, 1, 1)
	s := engine.NewEmptySolution(p)

	noop := engine.SwapMove{Employee1Index: 0, Employee2Index: 1, StartDayIndex: 0, BlockSize: 2}
	require.False(t, noop.ModifyAssignment(s), "two unassigned employees swapping is not a change")

	s.SetAssignment(0, 0, 0)
	assert.True(t, noop.ModifyAssignment(s))
}

func TestSwapMoveEndDayIndex(t *testing.T) {
	m := engine.SwapMove{StartDayIndex: 2, BlockSize: 3}
	assert.Equal(t, 4, m.EndDayIndex())
}

func snapshotAssignments(s *engine.Solution) [][]int {
	out := make([][]int, s.Days())
	for d := range out {
		row := make([]int, s.Employees())
		for e := range row {
			row[e] = s.Assignment(d, e)
		}
		out[d] = row
	}
	return out
}
