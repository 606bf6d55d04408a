package engine

// Unassigned 标记矩阵单元格"无人值班"的哨兵值。
const Unassigned = -1

// Evaluation 是按约束阶（rank）索引的非负整数向量，字典序比较，index 0 最硬。
type Evaluation []int

// NewEvaluation 创建长度为 n、全零的评估向量。
func NewEvaluation(n int) Evaluation {
	return make(Evaluation, n)
}

// Clone 返回一份深拷贝。
func (e Evaluation) Clone() Evaluation {
	out := make(Evaluation, len(e))
	copy(out, e)
	return out
}

// Compare 按字典序比较两个评估向量：负数表示 e 更优，0 表示相等，正数表示 e 更差。
func (e Evaluation) Compare(other Evaluation) int {
	n := len(e)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		if e[i] != other[i] {
			return e[i] - other[i]
		}
	}
	return len(e) - len(other)
}

// Less 报告 e 是否严格优于 other。
func (e Evaluation) Less(other Evaluation) bool { return e.Compare(other) < 0 }

// Equal 报告两个评估向量是否逐分量相等。
func (e Evaluation) Equal(other Evaluation) bool {
	if len(e) != len(other) {
		return false
	}
	for i := range e {
		if e[i] != other[i] {
			return false
		}
	}
	return true
}

// IsZero 报告评估向量是否全零（用于 biased 邻域的"仅改进"判断）。
func (e Evaluation) IsZero() bool {
	for _, v := range e {
		if v != 0 {
			return false
		}
	}
	return true
}

// Add 返回 e + delta，逐分量相加，对越界的分量不做截断。
func (e Evaluation) Add(delta Evaluation) Evaluation {
	out := make(Evaluation, len(e))
	for i := range e {
		out[i] = e[i]
		if i < len(delta) {
			out[i] += delta[i]
		}
	}
	return out
}

// Sub 返回 e - other，逐分量相减。
func (e Evaluation) Sub(other Evaluation) Evaluation {
	n := len(e)
	if len(other) > n {
		n = len(other)
	}
	out := make(Evaluation, n)
	for i := 0; i < n; i++ {
		var a, b int
		if i < len(e) {
			a = e[i]
		}
		if i < len(other) {
			b = other[i]
		}
		out[i] = a - b
	}
	return out
}

// Solution 是一张时间表：(日, 员工) -> 班次索引的矩阵，加上尚未覆盖的需求
// 多重集合以及对应 Problem 的引用。一个 Solution 在其生命周期内只被一个
// 搜索线程（或 SolutionPool）拥有和修改。
type Solution struct {
	problem Problem

	days      int
	employees int
	shifts    int

	// assignments[day][employee] = shiftIndex 或 Unassigned
	assignments [][]int

	// unassigned[day][shiftIndex] = 该班次在该天尚未覆盖的需求数
	unassigned [][]int

	evaluation Evaluation
	evaluated  bool

	violations      []ViolationRef
	violationsCached bool
}

// ViolationRef 是对某次约束违反的最小引用，足够重建人类可读的解释留给
// 引擎之外的上层去做；引擎本身不产出解释文本。
type ViolationRef struct {
	RankIndex      int
	ConstraintIdx  int
	EmployeeIndex  int
	DayIndex       int
}

// NewEmptySolution 创建一个所有格子均未分配、需求全部挂起的解。
func NewEmptySolution(p Problem) *Solution {
	days := p.Period().Size()
	employees := len(p.Employees())
	numShifts := len(p.Shifts())

	s := &Solution{
		problem:   p,
		days:      days,
		employees: employees,
		shifts:    numShifts,
	}

	s.assignments = make([][]int, days)
	s.unassigned = make([][]int, days)
	for d := 0; d < days; d++ {
		row := make([]int, employees)
		for e := range row {
			row[e] = Unassigned
		}
		s.assignments[d] = row

		demandRow := make([]int, numShifts)
		for shiftIdx := 0; shiftIdx < numShifts; shiftIdx++ {
			demandRow[shiftIdx] = p.Demand(shiftIdx, d)
		}
		s.unassigned[d] = demandRow
	}
	return s
}

// Problem 返回引用的问题数据。
func (s *Solution) Problem() Problem { return s.problem }

// Days 返回排班周期天数。
func (s *Solution) Days() int { return s.days }

// Employees 返回员工数量。
func (s *Solution) Employees() int { return s.employees }

// NumShifts 返回班次种类数。
func (s *Solution) NumShifts() int { return s.shifts }

// Assignment 返回某天某员工的班次索引，Unassigned 表示当天未排班。
func (s *Solution) Assignment(day, employee int) int {
	return s.assignments[day][employee]
}

// SetAssignment 直接设置矩阵单元格，调用方负责维护 unassigned 计数的一致性。
// 供构造/扰动算子在明确知道如何同步 unassigned 时使用；常规移动应优先用
// SwapMove.Apply。
func (s *Solution) SetAssignment(day, employee, shiftIndex int) {
	s.assignments[day][employee] = shiftIndex
	s.InvalidateEvaluation()
}

// UnassignedCount 返回某天某班次尚未覆盖的需求数。
func (s *Solution) UnassignedCount(day, shiftIndex int) int {
	return s.unassigned[day][shiftIndex]
}

// ConsumeUnassigned 消耗一个未分配的名额（demand -1），用于构造算子。
func (s *Solution) ConsumeUnassigned(day, shiftIndex int) {
	if s.unassigned[day][shiftIndex] > 0 {
		s.unassigned[day][shiftIndex]--
	}
}

// ReleaseUnassigned 归还一个未分配名额（demand +1），用于移除分配时。
func (s *Solution) ReleaseUnassigned(day, shiftIndex int) {
	s.unassigned[day][shiftIndex]++
}

// HasUnassignedDemand 报告某天是否还有任何班次存在未满足需求。
func (s *Solution) HasUnassignedDemand(day int) bool {
	for _, c := range s.unassigned[day] {
		if c > 0 {
			return true
		}
	}
	return false
}

// AnyUnassignedDemand 报告整个排班周期内是否还有未满足的需求。
func (s *Solution) AnyUnassignedDemand() bool {
	for d := 0; d < s.days; d++ {
		if s.HasUnassignedDemand(d) {
			return true
		}
	}
	return false
}

// InvalidateEvaluation 清除缓存的评估与违反列表。
func (s *Solution) InvalidateEvaluation() {
	s.evaluated = false
	s.evaluation = nil
	s.violationsCached = false
	s.violations = nil
}

// Evaluated 报告评估缓存是否仍然有效。
func (s *Solution) Evaluated() bool { return s.evaluated }

// CachedEvaluation 返回缓存的评估值；调用方必须先检查 Evaluated()。
func (s *Solution) CachedEvaluation() Evaluation { return s.evaluation }

// SetCachedEvaluation 缓存一次完整评估的结果。
func (s *Solution) SetCachedEvaluation(e Evaluation) {
	s.evaluation = e
	s.evaluated = true
}

// Clone 深拷贝分配状态与未分配计数，但共享 Problem 引用。
func (s *Solution) Clone() *Solution {
	out := &Solution{
		problem:   s.problem,
		days:      s.days,
		employees: s.employees,
		shifts:    s.shifts,
	}
	out.assignments = make([][]int, s.days)
	out.unassigned = make([][]int, s.days)
	for d := 0; d < s.days; d++ {
		out.assignments[d] = append([]int(nil), s.assignments[d]...)
		out.unassigned[d] = append([]int(nil), s.unassigned[d]...)
	}
	if s.evaluated {
		out.evaluation = s.evaluation.Clone()
		out.evaluated = true
	}
	return out
}

// AssignmentsEqual 报告两个解是否在矩阵层面逐格相等（用于池内去重，
// 比较指针身份是不够的，交叉算子能生成内容相同但地址不同的解）。
func (s *Solution) AssignmentsEqual(other *Solution) bool {
	if s.days != other.days || s.employees != other.employees {
		return false
	}
	for d := 0; d < s.days; d++ {
		for e := 0; e < s.employees; e++ {
			if s.assignments[d][e] != other.assignments[d][e] {
				return false
			}
		}
	}
	return true
}

// EmployeeShiftOnDay 是一个便利的只读视图，邻域/扰动算子经常需要。
func (s *Solution) EmployeeShiftOnDay(employee, day int) int {
	return s.assignments[day][employee]
}

// FullEvaluation 对 Solution 做一次完整的绝对求值（非增量），按约束阶
// 分组求和。构造完成后的基线评估、以及扰动/交叉等非 SwapMove 操作之后
// 都必须走这条路径重建评估缓存。
func FullEvaluation(s *Solution) Evaluation {
	evaluators := rankedEvaluators(s.problem)
	eval := NewEvaluation(len(evaluators))
	for rank, rankEvaluators := range evaluators {
		sum := 0
		for _, ev := range rankEvaluators {
			sum += ev.Evaluate(s)
		}
		eval[rank] = sum
	}
	s.SetCachedEvaluation(eval)
	return eval
}
