package solver_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/paiban/pkg/model"
	"github.com/paiban/paiban/pkg/scheduler/constraint"
	"github.com/paiban/paiban/pkg/scheduler/solver"
)

func newSchedulingContext(t *testing.T, employees, days int) *constraint.Context {
	t.Helper()
	orgID := uuid.New()
	ctx := constraint.NewContext(orgID, "2026-04-06", addDaysString(t, "2026-04-06", days-1))

	emps := make([]*model.Employee, employees)
	for i := range emps {
		emps[i] = &model.Employee{BaseModel: model.BaseModel{ID: uuid.New()}, Position: "nurse", Status: "active"}
	}
	ctx.SetEmployees(emps)

	shift := &model.Shift{BaseModel: model.BaseModel{ID: uuid.New()}, Code: "AM", StartTime: "08:00", EndTime: "16:00", IsActive: true}
	ctx.SetShifts([]*model.Shift{shift})

	for d := 0; d < days; d++ {
		date := addDaysString(t, "2026-04-06", d)
		ctx.Requirements = append(ctx.Requirements, &model.ShiftRequirement{
			BaseModel:    model.BaseModel{ID: uuid.New()},
			OrgID:        orgID,
			ShiftID:      shift.ID,
			Date:         date,
			MinEmployees: 1,
			MaxEmployees: employees,
		})
	}
	return ctx
}

func addDaysString(t *testing.T, date string, n int) string {
	t.Helper()
	period, err := model.NewSchedulingPeriod(date, date)
	require.NoError(t, err)
	return period.Date(n)
}

func TestEngineSolverName(t *testing.T) {
	cm := constraint.NewManager()
	ils := solver.NewEngineSolver(cm, solver.EngineConfig{Mode: solver.EngineModeILS})
	assert.Equal(t, "IteratedLocalSearchSolver", ils.Name())

	memetic := solver.NewEngineSolver(cm, solver.EngineConfig{Mode: solver.EngineModeMemetic})
	assert.Equal(t, "MemeticAlgorithmSolver", memetic.Name())
}

func TestEngineSolverRejectsEmptyRoster(t *testing.T) {
	cm := constraint.NewManager()
	s := solver.NewEngineSolver(cm, solver.EngineConfig{})
	ctx := constraint.NewContext(uuid.New(), "2026-04-06", "2026-04-07")

	result, err := s.Solve(context.Background(), ctx)
	require.Error(t, err)
	assert.False(t, result.Success)
}

func TestEngineSolverNoRequirementsSucceedsTrivially(t *testing.T) {
	cm := constraint.NewManager()
	s := solver.NewEngineSolver(cm, solver.EngineConfig{})
	ctx := newSchedulingContext(t, 2, 2)
	ctx.Requirements = nil

	result, err := s.Solve(context.Background(), ctx)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Assignments)
}

func TestEngineSolverILSProducesFeasibleSchedule(t *testing.T) {
	cm := constraint.NewManager()
	s := solver.NewEngineSolver(cm, solver.EngineConfig{
		Mode:              solver.EngineModeILS,
		Threads:           1,
		RngSeed:           5,
		RestartAfter:      10,
		AcceptWorseRate:   0.05,
		TraceRecordPeriod: 5,
	})
	ctx := newSchedulingContext(t, 3, 3)

	solveCtx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	result, err := s.Solve(solveCtx, ctx)
	require.NoError(t, err)
	require.NotNil(t, result.Statistics)

	assert.Equal(t, 3, result.Statistics.TotalRequirements)
	assert.Equal(t, result.Statistics.TotalRequirements, result.Statistics.FilledRequirements, "one employee per day is enough to fill a 1-min-employee requirement")
	assert.Len(t, ctx.Assignments, len(result.Assignments), "solved assignments must also be recorded back onto the scheduling context")
}

func TestEngineSolverMemeticProducesFeasibleSchedule(t *testing.T) {
	cm := constraint.NewManager()
	s := solver.NewEngineSolver(cm, solver.EngineConfig{
		Mode:           solver.EngineModeMemetic,
		Threads:        1,
		RngSeed:        9,
		PopulationSize: 4,
	})
	ctx := newSchedulingContext(t, 3, 3)

	solveCtx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	result, err := s.Solve(solveCtx, ctx)
	require.NoError(t, err)
	assert.Equal(t, result.Statistics.TotalRequirements, result.Statistics.FilledRequirements)
}

func TestEngineSolverWithProgressiveDescentSeedProducesFeasibleSchedule(t *testing.T) {
	cm := constraint.NewManager()
	s := solver.NewEngineSolver(cm, solver.EngineConfig{
		Mode:                      solver.EngineModeILS,
		Threads:                   1,
		RngSeed:                   7,
		RestartAfter:              10,
		TraceRecordPeriod:         5,
		UseProgressiveDescentSeed: true,
	})
	ctx := newSchedulingContext(t, 3, 3)

	solveCtx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	result, err := s.Solve(solveCtx, ctx)
	require.NoError(t, err)
	assert.Equal(t, result.Statistics.TotalRequirements, result.Statistics.FilledRequirements)
}
