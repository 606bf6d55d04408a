package solver

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/paiban/paiban/pkg/logger"
	"github.com/paiban/paiban/pkg/model"
	"github.com/paiban/paiban/pkg/scheduler/constraint"
	"github.com/paiban/paiban/pkg/scheduler/engine"
)

// EngineMode selects which metaheuristic search EngineSolver runs.
type EngineMode int

const (
	// EngineModeILS runs a pool of Iterated Local Search threads.
	EngineModeILS EngineMode = iota
	// EngineModeMemetic runs a pool of memetic algorithm threads sharing a
	// population.
	EngineModeMemetic
)

// EngineConfig tunes the metaheuristic search. Zero-valued fields fall back
// to the defaults returned by DefaultEngineConfig.
type EngineConfig struct {
	Mode                 EngineMode
	Threads              int
	RngSeed              int64
	PopulationSize       int
	RestartAfter         int
	AcceptWorseRate      float64
	TraceRecordPeriod    int
	DebugVerifyDeltas    bool
	LegacySeedIterations int
	LegacySeedMaxTime    time.Duration
	// UseProgressiveDescentSeed, when set, seeds the search with
	// engine.ConstructionWithProgressiveDescent (a constraint-activation
	// ladder biased VND) instead of plain engine.GreedyConstruction.
	UseProgressiveDescentSeed bool
}

// DefaultEngineConfig returns the engine tuning used when the caller leaves
// EngineConfig at its zero value.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Mode:                 EngineModeILS,
		Threads:              4,
		RngSeed:              42,
		PopulationSize:       12,
		RestartAfter:         200,
		AcceptWorseRate:      0.02,
		TraceRecordPeriod:    50,
		LegacySeedIterations: 0,
		LegacySeedMaxTime:    2 * time.Second,
	}
}

func (c EngineConfig) withDefaults() EngineConfig {
	d := DefaultEngineConfig()
	if c.Threads <= 0 {
		c.Threads = d.Threads
	}
	if c.RngSeed == 0 {
		c.RngSeed = d.RngSeed
	}
	if c.PopulationSize <= 0 {
		c.PopulationSize = d.PopulationSize
	}
	if c.RestartAfter <= 0 {
		c.RestartAfter = d.RestartAfter
	}
	if c.AcceptWorseRate == 0 {
		c.AcceptWorseRate = d.AcceptWorseRate
	}
	if c.TraceRecordPeriod <= 0 {
		c.TraceRecordPeriod = d.TraceRecordPeriod
	}
	return c
}

// EngineSolver adapts the engine package's Iterated Local Search / memetic
// algorithm pools to the Solver interface, so callers can pick it via the
// same entry point they use for GreedySolver.
type EngineSolver struct {
	constraintManager *constraint.Manager
	logger            *logger.SchedulerLogger
	cfg               EngineConfig
}

// NewEngineSolver creates a metaheuristic solver backed by cm.
func NewEngineSolver(cm *constraint.Manager, cfg EngineConfig) *EngineSolver {
	return &EngineSolver{
		constraintManager: cm,
		logger:            logger.NewSchedulerLogger(),
		cfg:               cfg.withDefaults(),
	}
}

// Name returns the solver name.
func (s *EngineSolver) Name() string {
	if s.cfg.Mode == EngineModeMemetic {
		return "MemeticAlgorithmSolver"
	}
	return "IteratedLocalSearchSolver"
}

// Solve builds an engine.Problem from schedCtx and runs the configured
// metaheuristic search until ctx is cancelled or its deadline elapses,
// returning the best solution found translated back into model.Assignments.
func (s *EngineSolver) Solve(ctx context.Context, schedCtx *constraint.Context) (*Result, error) {
	startTime := time.Now()
	s.logger.StartSchedule(schedCtx.OrgID.String(), len(schedCtx.Employees), countDays(schedCtx.StartDate, schedCtx.EndDate))

	result := &Result{
		Assignments: make([]*model.Assignment, 0),
		Statistics:  &Statistics{},
		Success:     false,
	}

	if len(schedCtx.Employees) == 0 {
		return result, fmt.Errorf("没有可用员工")
	}
	if len(schedCtx.Shifts) == 0 {
		return result, fmt.Errorf("没有可用班次")
	}
	if len(schedCtx.Requirements) == 0 {
		result.Success = true
		result.Message = "没有排班需求"
		result.Duration = time.Since(startTime)
		return result, nil
	}

	period, err := model.NewSchedulingPeriod(schedCtx.StartDate, schedCtx.EndDate)
	if err != nil {
		return result, err
	}

	shiftIndex := make(map[string]int, len(schedCtx.Shifts))
	for i, sh := range schedCtx.Shifts {
		shiftIndex[sh.ID.String()] = i
	}

	demand := make([][]int, len(schedCtx.Shifts))
	for i := range demand {
		demand[i] = make([]int, period.Size())
	}
	dayIndex := make(map[string]int, period.Size())
	for d := 0; d < period.Size(); d++ {
		dayIndex[period.Date(d)] = d
	}
	for _, req := range schedCtx.Requirements {
		si, ok := shiftIndex[req.ShiftID.String()]
		if !ok {
			continue
		}
		di, ok := dayIndex[req.Date]
		if !ok {
			continue
		}
		demand[si][di] += req.MinEmployees
	}

	problem, err := engine.NewConstraintManagerProblem(engine.ManagerProblemConfig{
		OrgID:     schedCtx.OrgID,
		Employees: schedCtx.Employees,
		Shifts:    schedCtx.Shifts,
		Period:    period,
		Demand:    demand,
		Manager:   s.constraintManager,
	})
	if err != nil {
		return result, err
	}

	blockSizes := []int{1, 2, 3}

	start := engine.GreedyConstruction(problem)
	if s.cfg.UseProgressiveDescentSeed {
		seedRNG := rand.New(rand.NewSource(s.cfg.RngSeed))
		seedVND, err := engine.NewVariableNeighborhoodDescent(blockSizes, engine.FirstImproving, seedRNG)
		if err != nil {
			return result, err
		}
		progressive, err := engine.ConstructionWithProgressiveDescent(problem, seedVND, seedRNG)
		if err != nil {
			return result, err
		}
		start = progressive
	}

	tracer := engine.NewTracer(false, s.cfg.TraceRecordPeriod)

	var best *engine.Solution

	switch s.cfg.Mode {
	case EngineModeMemetic:
		seeds := make([]*engine.Solution, 0, 4)
		seeds = append(seeds, start)
		for i := 1; i < 4; i++ {
			rng := rand.New(rand.NewSource(s.cfg.RngSeed + int64(i)))
			seed, err := engine.FastBlockConstruction(problem, rng)
			if err != nil {
				return result, err
			}
			seeds = append(seeds, seed)
		}
		poolCfg := engine.MemeticPoolConfig{
			OrgID:             schedCtx.OrgID.String(),
			Threads:           s.cfg.Threads,
			GlobalSeed:        s.cfg.RngSeed,
			BlockSizes:        blockSizes,
			Policy:            engine.FirstImproving,
			MutationRate:      0.1,
			NoReturnCacheSize: 64,
			PopulationSize:    s.cfg.PopulationSize,
			PoolStrategy:      engine.ReplaceInWorstSet,
			WorstSetFraction:  0.3,
		}
		found, _, err := engine.RunMemeticAlgorithmPool(ctx, seeds, poolCfg, tracer)
		if err != nil {
			return result, err
		}
		best = found
	default:
		poolCfg := engine.WorkerPoolConfig{
			OrgID:                schedCtx.OrgID.String(),
			Threads:              s.cfg.Threads,
			GlobalSeed:           s.cfg.RngSeed,
			BlockSizes:           blockSizes,
			Policy:               engine.FirstImproving,
			PerturbationSteps:    3,
			RestartAfter:         s.cfg.RestartAfter,
			AcceptWorseRate:      s.cfg.AcceptWorseRate,
			NoReturnCacheSize:    64,
			LegacySeedIterations: s.cfg.LegacySeedIterations,
			LegacySeedMaxTime:    s.cfg.LegacySeedMaxTime,
			DebugVerifyDeltas:    s.cfg.DebugVerifyDeltas,
		}
		found, _, err := engine.RunIteratedLocalSearchPool(ctx, problem, start, poolCfg, tracer)
		if err != nil {
			return result, err
		}
		best = found
	}

	assignments := problem.Assignments(best)
	for _, a := range assignments {
		schedCtx.AddAssignment(a)
	}
	result.Assignments = assignments
	result.ConstraintResult = s.constraintManager.Evaluate(schedCtx)
	result.Success = result.ConstraintResult.IsValid
	result.Duration = time.Since(startTime)

	filledRequirements := 0
	assignedPerReq := make(map[string]int)
	for _, a := range assignments {
		key := a.ShiftID.String() + "-" + a.Date
		assignedPerReq[key]++
	}
	for _, req := range schedCtx.Requirements {
		key := req.ShiftID.String() + "-" + req.Date
		if assignedPerReq[key] >= req.MinEmployees {
			filledRequirements++
		}
	}

	var totalHours float64
	employeeHours := make(map[string]float64)
	for _, a := range assignments {
		h := a.WorkingHours()
		totalHours += h
		employeeHours[a.EmployeeID.String()] += h
	}
	activeEmployees := 0
	for _, h := range employeeHours {
		if h > 0 {
			activeEmployees++
		}
	}

	result.Statistics.TotalAssignments = len(assignments)
	result.Statistics.FilledRequirements = filledRequirements
	result.Statistics.TotalRequirements = len(schedCtx.Requirements)
	if len(schedCtx.Requirements) > 0 {
		result.Statistics.FillRate = float64(filledRequirements) / float64(len(schedCtx.Requirements)) * 100
	}
	result.Statistics.TotalHours = totalHours
	if activeEmployees > 0 {
		result.Statistics.AvgHoursPerEmployee = totalHours / float64(activeEmployees)
	}
	result.Statistics.Iterations = len(tracer.BestFoundTrace())

	s.logger.ScheduleComplete(schedCtx.OrgID.String(), result.Duration, result.ConstraintResult.Score)

	if !result.Success {
		result.Message = fmt.Sprintf("存在 %d 个硬约束违反", len(result.ConstraintResult.HardViolations))
	} else {
		result.Message = fmt.Sprintf("排班成功，满足率 %.1f%%", result.Statistics.FillRate)
	}

	return result, nil
}
