package swap

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/paiban/paiban/pkg/model"
	"github.com/paiban/paiban/pkg/scheduler/constraint"
)

func newSwapTestContext() (*constraint.Context, *model.Employee, *model.Employee, *model.Assignment) {
	orgID := uuid.New()
	ctx := constraint.NewContext(orgID, "2026-02-02", "2026-02-08")

	source := &model.Employee{BaseModel: model.BaseModel{ID: uuid.New()}, Name: "源员工", Status: "active"}
	target := &model.Employee{BaseModel: model.BaseModel{ID: uuid.New()}, Name: "目标员工", Status: "active"}
	ctx.SetEmployees([]*model.Employee{source, target})

	start := time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC)
	assignment := &model.Assignment{
		BaseModel:  model.BaseModel{ID: uuid.New()},
		OrgID:      orgID,
		EmployeeID: source.ID,
		Date:       "2026-02-02",
		StartTime:  start,
		EndTime:    start.Add(8 * time.Hour),
	}
	ctx.SetAssignments([]*model.Assignment{assignment})

	return ctx, source, target, assignment
}

func TestEvaluateSwapRejectsInactiveTargetEmployee(t *testing.T) {
	ctx, _, target, assignment := newSwapTestContext()
	target.Status = "inactive"

	evaluator := NewSwapEvaluator(nil)
	result := evaluator.EvaluateSwap(ctx, &SwapRequest{SourceAssignment: assignment, TargetEmployee: target})

	if result.Feasible {
		t.Fatalf("expected swap to an inactive employee to be infeasible")
	}
}

func TestEvaluateSwapAcceptsAvailableTargetEmployee(t *testing.T) {
	ctx, _, target, assignment := newSwapTestContext()

	evaluator := NewSwapEvaluator(nil)
	result := evaluator.EvaluateSwap(ctx, &SwapRequest{SourceAssignment: assignment, TargetEmployee: target})

	if !result.Feasible {
		t.Fatalf("expected swap to an available employee to be feasible, issues: %+v", result.Issues)
	}
	if result.Impact.TargetEmployeeImpact.HoursChange <= 0 {
		t.Fatalf("target employee should gain hours, got %f", result.Impact.TargetEmployeeImpact.HoursChange)
	}
}

func TestEvaluateSwapRejectsNilRequestFields(t *testing.T) {
	ctx, _, target, _ := newSwapTestContext()
	evaluator := NewSwapEvaluator(nil)

	result := evaluator.EvaluateSwap(ctx, &SwapRequest{TargetEmployee: target})
	if result.Feasible {
		t.Fatalf("a request without a source assignment must never be feasible")
	}
}

func TestCanSwapMirrorsEvaluateSwapFeasibility(t *testing.T) {
	ctx, _, target, assignment := newSwapTestContext()
	evaluator := NewSwapEvaluator(nil)

	ok, reason := evaluator.CanSwap(ctx, &SwapRequest{SourceAssignment: assignment, TargetEmployee: target})
	if !ok || reason != "" {
		t.Fatalf("expected a feasible swap with no reason, got ok=%v reason=%q", ok, reason)
	}

	target.Status = "inactive"
	ok, reason = evaluator.CanSwap(ctx, &SwapRequest{SourceAssignment: assignment, TargetEmployee: target})
	if ok || reason == "" {
		t.Fatalf("expected an infeasible swap with a reason, got ok=%v reason=%q", ok, reason)
	}
}
