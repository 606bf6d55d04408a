package engine_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/paiban/pkg/model"
	"github.com/paiban/paiban/pkg/scheduler/constraint"
	"github.com/paiban/paiban/pkg/scheduler/engine"
)

// noopHardConstraint never rejects anything; it exists to give the manager
// something to classify into the hard category for these tests.
type noopHardConstraint struct{}

func (noopHardConstraint) Name() string               { return "noop-hard" }
func (noopHardConstraint) Type() constraint.Type      { return constraint.TypeMaxHoursPerDay }
func (noopHardConstraint) Category() constraint.Category { return constraint.CategoryHard }
func (noopHardConstraint) Weight() int                { return 100 }
func (noopHardConstraint) Evaluate(ctx *constraint.Context) (bool, int, []constraint.ViolationDetail) {
	return true, 0, nil
}
func (noopHardConstraint) EvaluateAssignment(ctx *constraint.Context, a *model.Assignment) (bool, int) {
	return true, 0
}

type noopSoftConstraint struct{}

func (noopSoftConstraint) Name() string                   { return "noop-soft" }
func (noopSoftConstraint) Type() constraint.Type          { return constraint.TypeWorkloadBalance }
func (noopSoftConstraint) Category() constraint.Category  { return constraint.CategorySoft }
func (noopSoftConstraint) Weight() int                    { return 10 }
func (noopSoftConstraint) Evaluate(ctx *constraint.Context) (bool, int, []constraint.ViolationDetail) {
	return true, 0, nil
}
func (noopSoftConstraint) EvaluateAssignment(ctx *constraint.Context, a *model.Assignment) (bool, int) {
	return true, 0
}

func newManagerProblemFixture(t *testing.T) (*engine.ManagerProblem, model.SchedulingPeriod) {
	t.Helper()
	mgr := constraint.NewManager()
	mgr.Register(noopHardConstraint{})
	mgr.Register(noopSoftConstraint{})

	period, err := model.NewSchedulingPeriod("2026-03-02", "2026-03-03")
	require.NoError(t, err)

	emp := &model.Employee{BaseModel: model.BaseModel{ID: uuid.New()}, Position: "nurse"}
	shift := &model.Shift{BaseModel: model.BaseModel{ID: uuid.New()}, Code: "AM", StartTime: "08:00", EndTime: "16:00"}

	p, err := engine.NewConstraintManagerProblem(engine.ManagerProblemConfig{
		OrgID:     uuid.New(),
		Employees: []*model.Employee{emp},
		Shifts:    []*model.Shift{shift},
		Period:    period,
		Demand:    [][]int{{1, 1}},
		Manager:   mgr,
	})
	require.NoError(t, err)
	return p, period
}

func TestNewConstraintManagerProblemValidatesConfig(t *testing.T) {
	mgr := constraint.NewManager()
	period, err := model.NewSchedulingPeriod("2026-01-01", "2026-01-02")
	require.NoError(t, err)
	emp := &model.Employee{BaseModel: model.BaseModel{ID: uuid.New()}}
	shift := &model.Shift{BaseModel: model.BaseModel{ID: uuid.New()}}

	_, err = engine.NewConstraintManagerProblem(engine.ManagerProblemConfig{})
	assert.Error(t, err, "a nil manager must be rejected")

	_, err = engine.NewConstraintManagerProblem(engine.ManagerProblemConfig{
		Manager: mgr,
		Shifts:  []*model.Shift{shift},
		Period:  period,
		Demand:  [][]int{{1, 1}},
	})
	assert.Error(t, err, "empty employees must be rejected")

	_, err = engine.NewConstraintManagerProblem(engine.ManagerProblemConfig{
		Manager:   mgr,
		Employees: []*model.Employee{emp},
		Shifts:    []*model.Shift{shift},
		Period:    period,
		Demand:    [][]int{{1, 1, 1}},
	})
	assert.Error(t, err, "a demand row of the wrong length must be rejected")
}

func TestManagerProblemConstraintsSplitByCategory(t *testing.T) {
	p, _ := newManagerProblemFixture(t)

	assert.Equal(t, 1, p.MaxConstraintsRankIndex())
	assert.Len(t, p.Constraints(0), 1, "rank 0 must hold exactly the hard constraint")
	assert.Len(t, p.Constraints(1), 1, "rank 1 must hold exactly the soft constraint")
	assert.Nil(t, p.Constraints(2))
}

func TestManagerProblemAssignmentsRoundTrip(t *testing.T) {
	p, period := newManagerProblemFixture(t)
	s := engine.NewEmptySolution(p)
	s.SetAssignment(0, 0, 0)

	assignments := p.Assignments(s)
	require.Len(t, assignments, 1)

	a := assignments[0]
	assert.Equal(t, p.Employees()[0].ID, a.EmployeeID)
	assert.Equal(t, p.Shifts()[0].ID, a.ShiftID)
	assert.Equal(t, period.Date(0), a.Date)
	assert.Equal(t, "nurse", a.Position)
}

func TestManagerProblemAssignmentsSkipsUnassignedCells(t *testing.T) {
	p, _ := newManagerProblemFixture(t)
	s := engine.NewEmptySolution(p)

	assert.Empty(t, p.Assignments(s))
}
