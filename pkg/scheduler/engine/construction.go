package engine

import "math/rand"

// weightedCandidateCost 把各阶约束对某个候选分配的估价汇总成一个可比较的
// 标量：阶越靠前（越硬）权重越大，近似字典序优先级，只用于构造阶段挑选
// 候选，不作为最终评估。
func weightedCandidateCost(evaluatorsByRank [][]ConstraintEvaluator, s *Solution, employeeIndex, shiftIndex, dayIndex int) int {
	total := 0
	numRanks := len(evaluatorsByRank)
	for rank, evaluators := range evaluatorsByRank {
		weight := numRanks - rank
		for _, ev := range evaluators {
			total += weight * ev.EstimatedAssignmentCost(s, employeeIndex, shiftIndex, dayIndex)
		}
	}
	return total
}

// candidateEmployees 返回某天当前尚未排班的员工索引列表。
func candidateEmployees(s *Solution, dayIndex int) []int {
	var out []int
	for e := 0; e < s.Employees(); e++ {
		if s.Assignment(dayIndex, e) == Unassigned {
			out = append(out, e)
		}
	}
	return out
}

// fillSlot 把给定候选员工分配到某天某班次，并消耗一个未分配名额。
func fillSlot(s *Solution, employeeIndex, shiftIndex, dayIndex int) {
	s.SetAssignment(dayIndex, employeeIndex, shiftIndex)
	s.ConsumeUnassigned(dayIndex, shiftIndex)
}

// firstUnassignedDemand 找到一个仍有未分配需求的 (日, 班次)。提供 rng 时
// 从随机起点开始环绕扫描天数，并在该天内随机挑选一个仍缺口的班次；不提供
// rng 时按天数与班次索引的固定顺序扫描，保证结果可复现。
func firstUnassignedDemand(s *Solution, rng *rand.Rand) (day, shiftIdx int, ok bool) {
	days, numShifts := s.Days(), s.NumShifts()
	if rng == nil {
		for d := 0; d < days; d++ {
			for sh := 0; sh < numShifts; sh++ {
				if s.UnassignedCount(d, sh) > 0 {
					return d, sh, true
				}
			}
		}
		return 0, 0, false
	}

	start := rng.Intn(days)
	for i := 0; i < days; i++ {
		d := (start + i) % days
		var open []int
		for sh := 0; sh < numShifts; sh++ {
			if s.UnassignedCount(d, sh) > 0 {
				open = append(open, sh)
			}
		}
		if len(open) > 0 {
			return d, open[rng.Intn(len(open))], true
		}
	}
	return 0, 0, false
}

// findUnassignedEmployee 在某一天上挑选一个尚未排班的员工索引，提供 rng 时
// 从随机起点开始环绕搜索，不提供 rng 时按索引顺序搜索。
func findUnassignedEmployee(s *Solution, day int, rng *rand.Rand) (int, bool) {
	n := s.Employees()
	if rng == nil {
		for e := 0; e < n; e++ {
			if s.Assignment(day, e) == Unassigned {
				return e, true
			}
		}
		return 0, false
	}

	start := rng.Intn(n)
	for i := 0; i < n; i++ {
		e := (start + i) % n
		if s.Assignment(day, e) == Unassigned {
			return e, true
		}
	}
	return 0, false
}

// FastBlockConstruction 反复挑选一个仍有未分配需求的 (日, 班次)，为其找到
// 一名当天尚未排班的员工，再向前排一个长度在 [1, 7] 的区块（天数模 D
// 环绕）：区块内的每一天，只要该员工当天仍未排班且该班次需求未满，就消耗
// 一个名额把他排进去。不提供 rng 时退化为逐天逐班次顺序扫描、固定区块长度
// 1 的确定性构造。若某个需求槽位再也找不到可用员工，返回
// NoFeasibleSolution。
func FastBlockConstruction(p Problem, rng *rand.Rand) (*Solution, error) {
	s := NewEmptySolution(p)

	for {
		day, shiftIdx, ok := firstUnassignedDemand(s, rng)
		if !ok {
			break
		}

		emp, ok := findUnassignedEmployee(s, day, rng)
		if !ok {
			return nil, NoFeasibleSolution("no employee available for remaining demand")
		}

		blockLen := 1
		if rng != nil {
			blockLen = 1 + rng.Intn(7)
		}

		for i := 0; i < blockLen; i++ {
			d := (day + i) % s.Days()
			if s.Assignment(d, emp) != Unassigned {
				continue
			}
			if s.UnassignedCount(d, shiftIdx) <= 0 {
				continue
			}
			fillSlot(s, emp, shiftIdx, d)
		}
	}
	return s, nil
}

// GreedyConstruction 逐天、逐班次地为每个未覆盖的槽位在全部候选员工中
// 挑选加权估价最低者，直到该槽位的需求被满足或再无候选可分配。
func GreedyConstruction(p Problem) *Solution {
	s := NewEmptySolution(p)
	evaluators := rankedEvaluators(p)

	for day := 0; day < s.Days(); day++ {
		for shiftIdx := 0; shiftIdx < s.NumShifts(); shiftIdx++ {
			for s.UnassignedCount(day, shiftIdx) > 0 {
				candidates := candidateEmployees(s, day)
				if len(candidates) == 0 {
					break
				}
				best := candidates[0]
				bestCost := weightedCandidateCost(evaluators, s, best, shiftIdx, day)
				for _, e := range candidates[1:] {
					cost := weightedCandidateCost(evaluators, s, e, shiftIdx, day)
					if cost < bestCost {
						best, bestCost = e, cost
					}
				}
				fillSlot(s, best, shiftIdx, day)
			}
		}
	}
	return s
}

// MultistartGreedyConstruction 运行多次带随机候选顺序的贪心构造（通过对
// 平局候选做随机扰动产生多样性），保留评估最优的一个结果。evaluate 由
// 调用方提供，通常是对全部约束阶做一次完整求值。
func MultistartGreedyConstruction(p Problem, starts int, rng *rand.Rand, evaluate func(*Solution) Evaluation) *Solution {
	if starts < 1 {
		starts = 1
	}
	var best *Solution
	var bestEval Evaluation

	for i := 0; i < starts; i++ {
		candidate := greedyConstructionWithTieBreak(p, rng)
		eval := evaluate(candidate)
		if best == nil || eval.Less(bestEval) {
			best, bestEval = candidate, eval
		}
	}
	return best
}

// greedyConstructionWithTieBreak 与 GreedyConstruction 相同，但候选列表
// 在每个槽位被随机打乱后再比较代价，为多次启动的贪心构造引入多样性。
func greedyConstructionWithTieBreak(p Problem, rng *rand.Rand) *Solution {
	s := NewEmptySolution(p)
	evaluators := rankedEvaluators(p)

	for day := 0; day < s.Days(); day++ {
		for shiftIdx := 0; shiftIdx < s.NumShifts(); shiftIdx++ {
			for s.UnassignedCount(day, shiftIdx) > 0 {
				candidates := candidateEmployees(s, day)
				if len(candidates) == 0 {
					break
				}
				if rng != nil {
					rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
				}
				best := candidates[0]
				bestCost := weightedCandidateCost(evaluators, s, best, shiftIdx, day)
				for _, e := range candidates[1:] {
					cost := weightedCandidateCost(evaluators, s, e, shiftIdx, day)
					if cost < bestCost {
						best, bestCost = e, cost
					}
				}
				fillSlot(s, best, shiftIdx, day)
			}
		}
	}
	return s
}

// rankedConstraint 把一条约束和它所属的阶绑在一起，用于构造激活队列时
// 记得激活后应归入 activeByRank 的哪个阶。
type rankedConstraint struct {
	rank int
	c    Constraint
}

// buildDisabledConstraintQueue 枚举除阶 0（硬覆盖约束）以外的全部约束，
// 按阶从低到高排列，阶内顺序在提供 rng 时随机打乱——对应"其余约束从
// 禁用状态开始，阶内顺序随机"的要求。
func buildDisabledConstraintQueue(p Problem, rng *rand.Rand) []rankedConstraint {
	var queue []rankedConstraint
	for rank := 1; rank <= p.MaxConstraintsRankIndex(); rank++ {
		cs := append([]Constraint(nil), p.Constraints(rank)...)
		if rng != nil {
			rng.Shuffle(len(cs), func(i, j int) { cs[i], cs[j] = cs[j], cs[i] })
		}
		for _, c := range cs {
			queue = append(queue, rankedConstraint{rank: rank, c: c})
		}
	}
	return queue
}

// ConstructionWithProgressiveDescent 用 FastBlockConstruction 生成起点，
// 然后沿着一条约束激活阶梯收敛：只有阶 0（硬覆盖约束）一开始处于激活
// 状态，其余约束全部禁用；每一轮对当前激活集合运行偏置 VND 直到局部最优，
// 再激活队列中下一条禁用约束（阶从低到高），重复直到没有禁用约束剩下。
func ConstructionWithProgressiveDescent(p Problem, vnd *VariableNeighborhoodDescent, rng *rand.Rand) (*Solution, error) {
	s, err := FastBlockConstruction(p, rng)
	if err != nil {
		return nil, err
	}

	vectorLen := p.MaxConstraintsRankIndex() + 1
	active := map[int][]Constraint{0: p.Constraints(0)}
	disabled := buildDisabledConstraintQueue(p, rng)

	if err := vnd.RunBiased(s, active, vectorLen); err != nil {
		return nil, err
	}

	for len(disabled) > 0 {
		next := disabled[0]
		disabled = disabled[1:]
		active[next.rank] = append(active[next.rank], next.c)
		if err := vnd.RunBiased(s, active, vectorLen); err != nil {
			return nil, err
		}
	}
	return s, nil
}
