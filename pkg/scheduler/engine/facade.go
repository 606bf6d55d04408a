package engine

import "github.com/paiban/paiban/pkg/model"

// Problem 是引擎对排班问题数据的最小抽象视图。具体的问题描述、
// 持久化与导入导出都在引擎之外；引擎只通过这个接口读取。
type Problem interface {
	Employees() []*model.Employee
	Shifts() []*model.Shift
	Contracts() []*model.Contract
	Period() model.SchedulingPeriod
	// Demand 返回某天某班次的需求人数。
	Demand(shiftIndex, dayIndex int) int
	// Constraints 返回某一阶（rank）上的全部约束，rank 0 最硬。
	Constraints(rankIndex int) []Constraint
	// MaxConstraintsRankIndex 返回最大的阶索引。
	MaxConstraintsRankIndex() int
}

// Constraint 是引擎眼中完全不透明的多态约束：引擎从不对具体类型做判断，
// 只请求一个绑定到当前问题的求值器。
type Constraint interface {
	GetEvaluator(p Problem) ConstraintEvaluator
}

// ConstraintEvaluator 是单个约束对一个具体 Problem 的求值能力。
type ConstraintEvaluator interface {
	// Evaluate 返回该约束在整个 Solution 上的绝对代价，用于构造完成后
	// 的基线评估，以及在扰动/交叉等非增量操作之后重新计算评估值。
	Evaluate(s *Solution) int
	// SwapMoveCostDifference 返回移动后代价减去移动前代价（越负越好）。
	SwapMoveCostDifference(s *Solution, m SwapMove) int
	// ConstraintSatisfactionDifference 返回移动引起的 [新满足数, 新违反数]。
	ConstraintSatisfactionDifference(s *Solution, m SwapMove) (newlySatisfied, newlyUnsatisfied int)
	// EstimatedAssignmentCost 用于贪心构造时对候选分配的估价，越低越优先。
	EstimatedAssignmentCost(s *Solution, employeeIndex, shiftIndex, dayIndex int) int
	HasPreferredAssignment(dayIndex, employeeIndex int) bool
	HasUnwantedAssignment(dayIndex, employeeIndex int) bool
	IsPreferredAssignment(dayIndex, employeeIndex, shiftIndex int) bool
}
