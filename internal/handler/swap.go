// Package handler 提供API处理器
package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/paiban/paiban/pkg/model"
	"github.com/paiban/paiban/pkg/scheduler/constraint"
	"github.com/paiban/paiban/pkg/swap"
)

// SwapEvaluateRequest 换班评估请求
type SwapEvaluateRequest struct {
	OrgID            string               `json:"org_id"`
	StartDate        string               `json:"start_date"`
	EndDate          string               `json:"end_date"`
	Employees        []*model.Employee    `json:"employees"`
	Shifts           []*model.Shift       `json:"shifts"`
	Requirements     []*model.ShiftRequirement `json:"requirements"`
	Assignments      []*model.Assignment  `json:"assignments"`
	SourceAssignment *model.Assignment    `json:"source_assignment"`
	TargetEmployeeID string               `json:"target_employee_id"`
}

// SwapEvaluateResponse 换班评估响应
type SwapEvaluateResponse struct {
	Success bool                  `json:"success"`
	Data    *swap.SwapEvaluation  `json:"data,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// SwapRecommendResponse 换班推荐响应
type SwapRecommendResponse struct {
	Success bool                   `json:"success"`
	Data    []swap.Recommendation  `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

func buildSwapContext(req *SwapEvaluateRequest) (*constraint.Context, error) {
	orgID, err := uuid.Parse(req.OrgID)
	if err != nil {
		return nil, err
	}
	ctx := constraint.NewContext(orgID, req.StartDate, req.EndDate)
	ctx.SetEmployees(req.Employees)
	ctx.SetShifts(req.Shifts)
	ctx.Requirements = req.Requirements
	ctx.SetAssignments(req.Assignments)
	return ctx, nil
}

func findEmployeeByID(employees []*model.Employee, id string) *model.Employee {
	for _, e := range employees {
		if e.ID.String() == id {
			return e
		}
	}
	return nil
}

// SwapEvaluateHandler 换班可行性评估 API
func SwapEvaluateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SwapEvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	ctx, err := buildSwapContext(&req)
	if err != nil {
		sendJSONError(w, "Invalid org_id: "+err.Error(), http.StatusBadRequest)
		return
	}

	targetEmp := findEmployeeByID(req.Employees, req.TargetEmployeeID)
	if req.SourceAssignment == nil || targetEmp == nil {
		sendJSONError(w, "source_assignment and target_employee_id are required", http.StatusBadRequest)
		return
	}

	log.Printf("接收换班评估请求: org_id=%s, source_assignment=%s, target_employee=%s",
		req.OrgID, req.SourceAssignment.ID, req.TargetEmployeeID)

	evaluator := swap.NewSwapEvaluator(nil)
	result := evaluator.EvaluateSwap(ctx, &swap.SwapRequest{
		SourceAssignment: req.SourceAssignment,
		TargetEmployee:   targetEmp,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SwapEvaluateResponse{Success: true, Data: result})
}

// SwapRecommendHandler 换班目标推荐 API
func SwapRecommendHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SwapEvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	ctx, err := buildSwapContext(&req)
	if err != nil {
		sendJSONError(w, "Invalid org_id: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.SourceAssignment == nil {
		sendJSONError(w, "source_assignment is required", http.StatusBadRequest)
		return
	}

	log.Printf("接收换班推荐请求: org_id=%s, source_assignment=%s", req.OrgID, req.SourceAssignment.ID)

	recommender := swap.NewRecommender(nil)
	recommendations := recommender.RecommendSwapTargets(ctx, req.SourceAssignment, swap.DefaultRecommendOptions())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SwapRecommendResponse{Success: true, Data: recommendations})
}
