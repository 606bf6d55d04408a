package engine_test

import (
	"github.com/google/uuid"

	"github.com/paiban/paiban/pkg/model"
	"github.com/paiban/paiban/pkg/scheduler/engine"
)

// coverageConstraint is a rank-0 (hard) constraint: every unmet demand slot
// costs a large fixed penalty. It never responds to a swap, since a swap
// only exchanges two already-assigned cells and can't change how many slots
// are still unassigned.
type coverageConstraint struct{}

func (coverageConstraint) GetEvaluator(p engine.Problem) engine.ConstraintEvaluator {
	return coverageEvaluator{}
}

type coverageEvaluator struct{}

func (coverageEvaluator) Evaluate(s *engine.Solution) int {
	total := 0
	for d := 0; d < s.Days(); d++ {
		for shift := 0; shift < s.NumShifts(); shift++ {
			total += s.UnassignedCount(d, shift) * 1000
		}
	}
	return total
}

func (coverageEvaluator) SwapMoveCostDifference(s *engine.Solution, m engine.SwapMove) int {
	return 0
}

func (coverageEvaluator) ConstraintSatisfactionDifference(s *engine.Solution, m engine.SwapMove) (int, int) {
	return 0, 0
}

func (coverageEvaluator) EstimatedAssignmentCost(s *engine.Solution, employeeIndex, shiftIndex, dayIndex int) int {
	return 0
}

func (coverageEvaluator) HasPreferredAssignment(dayIndex, employeeIndex int) bool { return false }
func (coverageEvaluator) HasUnwantedAssignment(dayIndex, employeeIndex int) bool  { return false }
func (coverageEvaluator) IsPreferredAssignment(dayIndex, employeeIndex, shiftIndex int) bool {
	return false
}

// preferredShiftConstraint is a rank-1 (soft) constraint: the named
// employee incurs a penalty of 1 for every day it works a shift other than
// its preferred one. Unassigned days never incur a penalty.
type preferredShiftConstraint struct {
	employeeIndex int
	shiftIndex    int
}

func (c preferredShiftConstraint) GetEvaluator(p engine.Problem) engine.ConstraintEvaluator {
	return &preferredShiftEvaluator{employeeIndex: c.employeeIndex, shiftIndex: c.shiftIndex}
}

type preferredShiftEvaluator struct {
	employeeIndex int
	shiftIndex    int
}

func (e *preferredShiftEvaluator) Evaluate(s *engine.Solution) int {
	penalty := 0
	for d := 0; d < s.Days(); d++ {
		a := s.Assignment(d, e.employeeIndex)
		if a != engine.Unassigned && a != e.shiftIndex {
			penalty++
		}
	}
	return penalty
}

func (e *preferredShiftEvaluator) SwapMoveCostDifference(s *engine.Solution, m engine.SwapMove) int {
	if m.Employee1Index != e.employeeIndex && m.Employee2Index != e.employeeIndex {
		return 0
	}
	before := e.Evaluate(s)
	after := e.Evaluate(m.Applied(s))
	return after - before
}

func (e *preferredShiftEvaluator) ConstraintSatisfactionDifference(s *engine.Solution, m engine.SwapMove) (int, int) {
	diff := e.SwapMoveCostDifference(s, m)
	if diff < 0 {
		return -diff, 0
	}
	if diff > 0 {
		return 0, diff
	}
	return 0, 0
}

func (e *preferredShiftEvaluator) EstimatedAssignmentCost(s *engine.Solution, employeeIndex, shiftIndex, dayIndex int) int {
	if employeeIndex == e.employeeIndex && shiftIndex != e.shiftIndex {
		return 1
	}
	return 0
}

func (e *preferredShiftEvaluator) HasPreferredAssignment(dayIndex, employeeIndex int) bool {
	return employeeIndex == e.employeeIndex
}
func (e *preferredShiftEvaluator) HasUnwantedAssignment(dayIndex, employeeIndex int) bool {
	return false
}
func (e *preferredShiftEvaluator) IsPreferredAssignment(dayIndex, employeeIndex, shiftIndex int) bool {
	return employeeIndex == e.employeeIndex && shiftIndex == e.shiftIndex
}

// testProblem is a minimal, in-memory engine.Problem used to exercise the
// search machinery without pulling in constraint.Manager. demand[shift][day]
// mirrors the shape ManagerProblem builds from real scheduling data.
type testProblem struct {
	employees   []*model.Employee
	shifts      []*model.Shift
	contracts   []*model.Contract
	period      model.SchedulingPeriod
	demand      [][]int
	constraints [][]engine.Constraint
}

func (p *testProblem) Employees() []*model.Employee         { return p.employees }
func (p *testProblem) Shifts() []*model.Shift                { return p.shifts }
func (p *testProblem) Contracts() []*model.Contract           { return p.contracts }
func (p *testProblem) Period() model.SchedulingPeriod          { return p.period }
func (p *testProblem) Demand(shiftIndex, dayIndex int) int {
	if shiftIndex < 0 || shiftIndex >= len(p.demand) {
		return 0
	}
	row := p.demand[shiftIndex]
	if dayIndex < 0 || dayIndex >= len(row) {
		return 0
	}
	return row[dayIndex]
}
func (p *testProblem) Constraints(rankIndex int) []engine.Constraint {
	if rankIndex < 0 || rankIndex >= len(p.constraints) {
		return nil
	}
	return p.constraints[rankIndex]
}
func (p *testProblem) MaxConstraintsRankIndex() int { return len(p.constraints) - 1 }

func newTestEmployee() *model.Employee {
	return &model.Employee{BaseModel: model.BaseModel{ID: uuid.New()}}
}

func newTestShift() *model.Shift {
	return &model.Shift{BaseModel: model.BaseModel{ID: uuid.New()}}
}

// newUniformDemandProblem builds a days x employees x shifts problem where
// every (day, shift) slot needs exactly perSlotDemand employees, guarded by
// coverageConstraint at rank 0 and a preference for employee 0 at rank 1.
func newUniformDemandProblem(days, employees, shifts, perSlotDemand int) *testProblem {
	period, err := model.NewSchedulingPeriod("2026-01-01", addDays("2026-01-01", days-1))
	if err != nil {
		panic(err)
	}

	emps := make([]*model.Employee, employees)
	for i := range emps {
		emps[i] = newTestEmployee()
	}
	shiftModels := make([]*model.Shift, shifts)
	for i := range shiftModels {
		shiftModels[i] = newTestShift()
	}

	demand := make([][]int, shifts)
	for s := range demand {
		demand[s] = make([]int, days)
		for d := range demand[s] {
			demand[s][d] = perSlotDemand
		}
	}

	return &testProblem{
		employees: emps,
		shifts:    shiftModels,
		period:    period,
		demand:    demand,
		constraints: [][]engine.Constraint{
			{coverageConstraint{}},
			{preferredShiftConstraint{employeeIndex: 0, shiftIndex: 0}},
		},
	}
}

func addDays(date string, n int) string {
	t, err := model.NewSchedulingPeriod(date, date)
	if err != nil {
		panic(err)
	}
	return t.Date(0 + n)
}
