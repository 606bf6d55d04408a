package swap

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/paiban/paiban/pkg/model"
	"github.com/paiban/paiban/pkg/scheduler/constraint"
)

func TestRecommendSwapTargetsExcludesSourceAndInactiveEmployees(t *testing.T) {
	orgID := uuid.New()
	ctx := constraint.NewContext(orgID, "2026-02-02", "2026-02-08")

	source := &model.Employee{BaseModel: model.BaseModel{ID: uuid.New()}, Name: "源员工", Status: "active"}
	inactive := &model.Employee{BaseModel: model.BaseModel{ID: uuid.New()}, Name: "离职员工", Status: "inactive"}
	available := &model.Employee{BaseModel: model.BaseModel{ID: uuid.New()}, Name: "可用员工", Status: "active"}
	ctx.SetEmployees([]*model.Employee{source, inactive, available})

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

	recommender := NewRecommender(nil)
	recs := recommender.RecommendSwapTargets(ctx, assignment, &RecommendOptions{
		MaxRecommendations: 5,
		MinScore:           0,
	})

	if len(recs) != 1 {
		t.Fatalf("expected exactly one recommendation (the available employee), got %d", len(recs))
	}
	if recs[0].TargetEmployee.ID != available.ID {
		t.Fatalf("expected recommendation to target %s, got %s", available.ID, recs[0].TargetEmployee.ID)
	}
	if recs[0].Rank != 1 {
		t.Fatalf("expected the sole recommendation to be ranked 1, got %d", recs[0].Rank)
	}
}

func TestFindBestSwapMatchReturnsNilWhenEmployeeHasNoAssignmentOnDate(t *testing.T) {
	orgID := uuid.New()
	ctx := constraint.NewContext(orgID, "2026-02-02", "2026-02-08")

	emp := &model.Employee{BaseModel: model.BaseModel{ID: uuid.New()}, Status: "active"}
	ctx.SetEmployees([]*model.Employee{emp})
	ctx.SetAssignments(nil)

	recommender := NewRecommender(nil)
	if got := recommender.FindBestSwapMatch(ctx, emp.ID, "2026-02-02"); got != nil {
		t.Fatalf("expected no match for an employee with no assignment on that date, got %+v", got)
	}
}
