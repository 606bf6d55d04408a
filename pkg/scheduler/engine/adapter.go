package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/paiban/paiban/pkg/model"
	"github.com/paiban/paiban/pkg/scheduler/constraint"
)

// ManagerProblemConfig describes everything NewConstraintManagerProblem
// needs to present a constraint.Manager and a roster of employees/shifts
// as an engine.Problem.
type ManagerProblemConfig struct {
	OrgID     uuid.UUID
	Employees []*model.Employee
	Shifts    []*model.Shift
	Contracts []*model.Contract
	Period    model.SchedulingPeriod
	// Demand[shiftIndex][dayIndex] is the headcount required for that
	// shift on that day.
	Demand  [][]int
	Manager *constraint.Manager
}

// ManagerProblem adapts a constraint.Manager and the surrounding roster
// data into the engine's Problem facade. Employees, shifts and days are
// addressed by dense indices into the Employees/Shifts slices and the
// scheduling period respectively; the uuid/object-space constraint.Manager
// is only consulted through the per-constraint adapters below.
type ManagerProblem struct {
	cfg ManagerProblemConfig
}

// NewConstraintManagerProblem validates cfg and returns a ready-to-use
// Problem. It returns an error rather than panicking on malformed input
// since it typically runs at request time against caller-supplied data.
func NewConstraintManagerProblem(cfg ManagerProblemConfig) (*ManagerProblem, error) {
	if cfg.Manager == nil {
		return nil, InvalidArgument("manager", "must not be nil")
	}
	if len(cfg.Employees) == 0 {
		return nil, InvalidArgument("employees", "must not be empty")
	}
	if len(cfg.Shifts) == 0 {
		return nil, InvalidArgument("shifts", "must not be empty")
	}
	days := cfg.Period.Size()
	if days <= 0 {
		return nil, InvalidArgument("period", "must span at least one day")
	}
	if len(cfg.Demand) != len(cfg.Shifts) {
		return nil, InvalidArgument("demand", "must have one row per shift")
	}
	for _, row := range cfg.Demand {
		if len(row) != days {
			return nil, InvalidArgument("demand", "each row must have one column per day")
		}
	}
	return &ManagerProblem{cfg: cfg}, nil
}

func (p *ManagerProblem) Employees() []*model.Employee       { return p.cfg.Employees }
func (p *ManagerProblem) Shifts() []*model.Shift              { return p.cfg.Shifts }
func (p *ManagerProblem) Contracts() []*model.Contract        { return p.cfg.Contracts }
func (p *ManagerProblem) Period() model.SchedulingPeriod      { return p.cfg.Period }
func (p *ManagerProblem) Demand(shiftIndex, dayIndex int) int { return p.cfg.Demand[shiftIndex][dayIndex] }

// MaxConstraintsRankIndex reports two ranks: rank 0 is hard constraints,
// rank 1 is soft constraints, mirroring the Manager's own hard-before-soft
// ordering.
func (p *ManagerProblem) MaxConstraintsRankIndex() int { return 1 }

// Constraints returns rank 0 (hard) or rank 1 (soft) constraints wrapped
// as engine.Constraint adapters.
func (p *ManagerProblem) Constraints(rankIndex int) []Constraint {
	var category constraint.Category
	switch rankIndex {
	case 0:
		category = constraint.CategoryHard
	case 1:
		category = constraint.CategorySoft
	default:
		return nil
	}
	raw := p.cfg.Manager.GetByCategory(category)
	out := make([]Constraint, len(raw))
	for i, c := range raw {
		out[i] = &managerConstraintAdapter{constraint: c, problem: p}
	}
	return out
}

// buildContext renders a Solution as a full constraint.Context: every
// assigned cell becomes a model.Assignment. It is rebuilt on every call
// rather than incrementally maintained, trading some CPU for a stateless,
// trivially-correct-and-thread-safe adapter — Problem is shared read-only
// across every search thread, so caching mutable per-solution state on it
// would need its own synchronization and would thrash across threads
// working on unrelated Solution instances anyway.
func (p *ManagerProblem) buildContext(s *Solution) *constraint.Context {
	period := p.cfg.Period
	ctx := constraint.NewContext(p.cfg.OrgID, period.Date(0), period.Date(period.Size()-1))
	ctx.SetEmployees(p.cfg.Employees)
	ctx.SetShifts(p.cfg.Shifts)

	var assignments []*model.Assignment
	for day := 0; day < s.Days(); day++ {
		date := period.Date(day)
		for e := 0; e < s.Employees(); e++ {
			shiftIdx := s.Assignment(day, e)
			if shiftIdx == Unassigned {
				continue
			}
			assignments = append(assignments, p.newAssignment(e, shiftIdx, date))
		}
	}
	ctx.SetAssignments(assignments)
	return ctx
}

// Assignments flattens a Solution produced against this problem into the
// model.Assignment list callers outside the engine package deal in — the
// inverse of decodeAssignments.
func (p *ManagerProblem) Assignments(s *Solution) []*model.Assignment {
	period := p.cfg.Period
	var assignments []*model.Assignment
	for day := 0; day < s.Days(); day++ {
		date := period.Date(day)
		for e := 0; e < s.Employees(); e++ {
			shiftIdx := s.Assignment(day, e)
			if shiftIdx == Unassigned {
				continue
			}
			assignments = append(assignments, p.newAssignment(e, shiftIdx, date))
		}
	}
	return assignments
}

// decodeAssignments rebuilds an engine Solution with the same dimensions as
// start from a flat, possibly-reordered model.Assignment list. Assignments
// whose employee/shift/date no longer resolve to a known index, or that
// would double-book an employee already filled earlier in the list, are
// silently dropped — the caller (RunLegacyAnnealingBridge) treats the
// result as a diversified seed, not a guaranteed-feasible solution.
func (p *ManagerProblem) decodeAssignments(start *Solution, assignments []*model.Assignment) *Solution {
	employeeIndex := make(map[uuid.UUID]int, len(p.cfg.Employees))
	for i, e := range p.cfg.Employees {
		employeeIndex[e.ID] = i
	}
	shiftIndex := make(map[uuid.UUID]int, len(p.cfg.Shifts))
	for i, s := range p.cfg.Shifts {
		shiftIndex[s.ID] = i
	}
	dayIndex := make(map[string]int, p.cfg.Period.Size())
	for d := 0; d < p.cfg.Period.Size(); d++ {
		dayIndex[p.cfg.Period.Date(d)] = d
	}

	decoded := start.Clone()
	for day := 0; day < decoded.Days(); day++ {
		for e := 0; e < decoded.Employees(); e++ {
			if cur := decoded.Assignment(day, e); cur != Unassigned {
				decoded.ReleaseUnassigned(day, cur)
				decoded.SetAssignment(day, e, Unassigned)
			}
		}
	}

	for _, a := range assignments {
		employeeIdx, ok := employeeIndex[a.EmployeeID]
		if !ok {
			continue
		}
		shiftIdx, ok := shiftIndex[a.ShiftID]
		if !ok {
			continue
		}
		dayIdx, ok := dayIndex[a.Date]
		if !ok {
			continue
		}
		if decoded.Assignment(dayIdx, employeeIdx) != Unassigned {
			continue
		}
		decoded.SetAssignment(dayIdx, employeeIdx, shiftIdx)
		decoded.ConsumeUnassigned(dayIdx, shiftIdx)
	}

	FullEvaluation(decoded)
	return decoded
}

// newAssignment builds a model.Assignment for the given employee/shift/date
// triple, resolving the shift's HH:MM start/end times onto that date.
func (p *ManagerProblem) newAssignment(employeeIndex, shiftIndex int, date string) *model.Assignment {
	emp := p.cfg.Employees[employeeIndex]
	shift := p.cfg.Shifts[shiftIndex]

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		day = time.Time{}
	}
	start := parseTimeOnDate(day, shift.StartTime)
	end := parseTimeOnDate(day, shift.EndTime)
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}

	return &model.Assignment{
		BaseModel:  model.BaseModel{ID: uuid.New()},
		OrgID:      p.cfg.OrgID,
		EmployeeID: emp.ID,
		ShiftID:    shift.ID,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		Position:   emp.Position,
		Status:     "scheduled",
	}
}

func parseTimeOnDate(date time.Time, timeStr string) time.Time {
	t, err := time.Parse("15:04", timeStr)
	if err != nil {
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}

// managerConstraintAdapter wraps one constraint.Constraint as an
// engine.Constraint; it is stateless so the same instance is reused across
// every evaluator returned by GetEvaluator.
type managerConstraintAdapter struct {
	constraint constraint.Constraint
	problem    *ManagerProblem
}

func (a *managerConstraintAdapter) GetEvaluator(Problem) ConstraintEvaluator {
	return &managerConstraintEvaluator{constraint: a.constraint, problem: a.problem}
}

// managerConstraintEvaluator is the per-constraint, per-Problem evaluator
// the engine drives. It never holds solution-specific state between calls.
type managerConstraintEvaluator struct {
	constraint constraint.Constraint
	problem    *ManagerProblem
}

// Evaluate returns the constraint's absolute penalty over the whole
// Solution.
func (e *managerConstraintEvaluator) Evaluate(s *Solution) int {
	ctx := e.problem.buildContext(s)
	_, penalty, _ := e.constraint.Evaluate(ctx)
	return penalty
}

// SwapMoveCostDifference computes the constraint's penalty on the touched
// assignments before and after the move and returns the difference. Only
// the two swapped employees' assignments across the move's day window are
// re-evaluated; this is exact for per-employee constraints (rest periods,
// hour limits, consecutive-day limits, preferences) and an approximation
// for cross-employee constraints (coverage balance, team-together) that a
// caller running in debug mode should cross-check against FullEvaluation.
func (e *managerConstraintEvaluator) SwapMoveCostDifference(s *Solution, m SwapMove) int {
	before := e.problem.buildContext(s)
	beforeCost := e.windowCost(before, s, m.Employee1Index, m.Employee2Index, m.StartDayIndex, m.EndDayIndex())

	after := m.Applied(s)
	afterCtx := e.problem.buildContext(after)
	afterCost := e.windowCost(afterCtx, after, m.Employee1Index, m.Employee2Index, m.StartDayIndex, m.EndDayIndex())

	return afterCost - beforeCost
}

func (e *managerConstraintEvaluator) windowCost(ctx *constraint.Context, s *Solution, employee1, employee2, startDay, endDay int) int {
	total := 0
	period := e.problem.cfg.Period
	for day := startDay; day <= endDay; day++ {
		date := period.Date(day)
		for _, employeeIndex := range [2]int{employee1, employee2} {
			shiftIdx := s.Assignment(day, employeeIndex)
			if shiftIdx == Unassigned {
				continue
			}
			assignment := e.problem.newAssignment(employeeIndex, shiftIdx, date)
			_, penalty := e.constraint.EvaluateAssignment(ctx, assignment)
			total += penalty
		}
	}
	return total
}

// ConstraintSatisfactionDifference reports how many of the touched
// assignments flip from violating to satisfying the constraint (and vice
// versa) as a result of the move.
func (e *managerConstraintEvaluator) ConstraintSatisfactionDifference(s *Solution, m SwapMove) (int, int) {
	before := e.problem.buildContext(s)
	after := m.Applied(s)
	afterCtx := e.problem.buildContext(after)

	period := e.problem.cfg.Period
	newlySatisfied, newlyUnsatisfied := 0, 0

	for day := m.StartDayIndex; day <= m.EndDayIndex(); day++ {
		date := period.Date(day)
		for _, employeeIndex := range [2]int{m.Employee1Index, m.Employee2Index} {
			beforeShift := s.Assignment(day, employeeIndex)
			afterShift := after.Assignment(day, employeeIndex)

			beforeValid := true
			if beforeShift != Unassigned {
				beforeValid, _ = e.constraint.EvaluateAssignment(before, e.problem.newAssignment(employeeIndex, beforeShift, date))
			}
			afterValid := true
			if afterShift != Unassigned {
				afterValid, _ = e.constraint.EvaluateAssignment(afterCtx, e.problem.newAssignment(employeeIndex, afterShift, date))
			}

			switch {
			case !beforeValid && afterValid:
				newlySatisfied++
			case beforeValid && !afterValid:
				newlyUnsatisfied++
			}
		}
	}
	return newlySatisfied, newlyUnsatisfied
}

// EstimatedAssignmentCost evaluates a single tentative assignment without
// mutating the Solution, for use by the construction operators' candidate
// ranking. Assignments that would violate the constraint are penalized
// beyond their raw penalty so hard violations are never preferred over a
// merely expensive but feasible candidate.
func (e *managerConstraintEvaluator) EstimatedAssignmentCost(s *Solution, employeeIndex, shiftIndex, dayIndex int) int {
	ctx := e.problem.buildContext(s)
	date := e.problem.cfg.Period.Date(dayIndex)
	candidate := e.problem.newAssignment(employeeIndex, shiftIndex, date)
	valid, penalty := e.constraint.EvaluateAssignment(ctx, candidate)
	if !valid {
		penalty += 1_000_000
	}
	return penalty
}

func (e *managerConstraintEvaluator) employeePreferences(employeeIndex int) *model.EmployeePreferences {
	emp := e.problem.cfg.Employees[employeeIndex]
	return emp.Preferences
}

// HasPreferredAssignment reports whether the employee has a standing
// day-of-week preference for dayIndex.
func (e *managerConstraintEvaluator) HasPreferredAssignment(dayIndex, employeeIndex int) bool {
	prefs := e.employeePreferences(employeeIndex)
	if prefs == nil {
		return false
	}
	weekday := e.problem.cfg.Period.DayOfWeek(dayIndex)
	for _, d := range prefs.PreferredDays {
		if d == weekday {
			return true
		}
	}
	return false
}

// HasUnwantedAssignment reports whether the employee has a standing
// day-of-week aversion to dayIndex.
func (e *managerConstraintEvaluator) HasUnwantedAssignment(dayIndex, employeeIndex int) bool {
	prefs := e.employeePreferences(employeeIndex)
	if prefs == nil {
		return false
	}
	weekday := e.problem.cfg.Period.DayOfWeek(dayIndex)
	for _, d := range prefs.AvoidDays {
		if d == weekday {
			return true
		}
	}
	return false
}

// IsPreferredAssignment reports whether the employee has listed the given
// shift's code among their preferred shifts.
func (e *managerConstraintEvaluator) IsPreferredAssignment(dayIndex, employeeIndex, shiftIndex int) bool {
	prefs := e.employeePreferences(employeeIndex)
	if prefs == nil {
		return false
	}
	shift := e.problem.cfg.Shifts[shiftIndex]
	for _, code := range prefs.PreferredShifts {
		if code == shift.Code {
			return true
		}
	}
	return false
}
