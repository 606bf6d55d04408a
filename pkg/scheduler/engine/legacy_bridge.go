package engine

import (
	"context"
	"time"

	"github.com/paiban/paiban/pkg/model"
	"github.com/paiban/paiban/pkg/scheduler/constraint"
	"github.com/paiban/paiban/pkg/scheduler/optimizer"
)

// managerScoreEvaluator adapts a constraint.Manager to
// optimizer.ConstraintEvaluator so the teacher's original simulated
// annealing loop scores candidates against the same constraint catalog the
// engine itself uses, rather than its own ad hoc scoring.
type managerScoreEvaluator struct {
	problem *ManagerProblem
}

func (e *managerScoreEvaluator) Evaluate(assignments []*model.Assignment, employees []*model.Employee, shifts []*model.Shift) (float64, []string) {
	period := e.problem.cfg.Period
	ctx := constraint.NewContext(e.problem.cfg.OrgID, period.Date(0), period.Date(period.Size()-1))
	ctx.SetEmployees(employees)
	ctx.SetShifts(shifts)
	ctx.SetAssignments(assignments)

	result := e.problem.cfg.Manager.Evaluate(ctx)
	messages := make([]string, 0, len(result.HardViolations)+len(result.SoftViolations))
	for _, v := range result.HardViolations {
		messages = append(messages, v.Message)
	}
	for _, v := range result.SoftViolations {
		messages = append(messages, v.Message)
	}
	return float64(result.TotalPenalty), messages
}

// RunLegacyAnnealingBridge runs the teacher's original simulated-annealing
// local search (NeighborhoodGenerator + TabuList, unchanged) for a bounded
// number of iterations starting from start, and returns its result
// re-encoded as an engine Solution. It is not a replacement for the ILS or
// memetic search: it exists to give the pre-existing NeighborhoodGenerator
// and TabuList types a genuine caller. The ILS worker runs it once on
// thread 0's starting solution, before that thread's first descent.
func RunLegacyAnnealingBridge(problem *ManagerProblem, start *Solution, iterations int, maxTime time.Duration) (*Solution, error) {
	if iterations <= 0 {
		return start.Clone(), nil
	}
	if maxTime <= 0 {
		maxTime = 2 * time.Second
	}

	ctx := problem.buildContext(start)
	seed := &optimizer.Solution{Assignments: ctx.Assignments}

	cfg := optimizer.DefaultOptConfig()
	cfg.MaxIterations = iterations
	cfg.MaxTime = maxTime
	cfg.StopOnPlateau = true

	lso := optimizer.NewLocalSearchOptimizer(cfg, &managerScoreEvaluator{problem: problem})

	result, err := lso.Optimize(context.Background(), seed, problem.cfg.Employees, problem.cfg.Shifts)
	if err != nil {
		return nil, err
	}

	return problem.decodeAssignments(start, result.Assignments), nil
}
