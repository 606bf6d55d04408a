package engine

import (
	"math/rand"

	lru "github.com/hashicorp/golang-lru/v2"
)

// moveKey 是 SwapMove 的规范化签名（员工对无序），用于 NoReturnFilter 的
// 最近移动记忆。
type moveKey struct {
	lowEmployee, highEmployee int
	startDay, blockSize       int
}

func keyOf(m SwapMove) moveKey {
	lo, hi := m.Employee1Index, m.Employee2Index
	if lo > hi {
		lo, hi = hi, lo
	}
	return moveKey{lowEmployee: lo, highEmployee: hi, startDay: m.StartDayIndex, blockSize: m.BlockSize}
}

// NoReturnFilter 记住最近应用过的若干次移动，拒绝立即复原它们——
// GuidedSwapPerturbation 用它避免在几步内把刚做的交换原样撤销。
type NoReturnFilter struct {
	recent *lru.Cache[moveKey, struct{}]
}

// NewNoReturnFilter 创建一个容量为 size 的最近移动缓存。
func NewNoReturnFilter(size int) (*NoReturnFilter, error) {
	if size < 1 {
		return nil, InvalidArgument("size", "must be >= 1")
	}
	cache, err := lru.New[moveKey, struct{}](size)
	if err != nil {
		return nil, IllegalState(err.Error())
	}
	return &NoReturnFilter{recent: cache}, nil
}

// Allow 实现 SwapMoveFilter：最近被记录过的移动签名不被允许。
func (f *NoReturnFilter) Allow(m SwapMove) bool {
	_, seen := f.recent.Get(keyOf(m))
	return !seen
}

// Record 把一次已应用的移动加入最近记忆。
func (f *NoReturnFilter) Record(m SwapMove) {
	f.recent.Add(keyOf(m), struct{}{})
}

// minSlotExchanges 是 floor(strength * employees * days) + 1：一次扰动调用
// 至少要改变多少个格子才算完成。
func minSlotExchanges(strength float64, employees, days int) int {
	return int(strength*float64(employees)*float64(days)) + 1
}

// exchangePerturbationMaxAttempts 给 ExchangePerturbation 的主循环设一个
// 安全上限：退化问题（例如所有员工每天都排同一班次）下三元轮换永远不会
// 产生真实差异，没有它循环会不终止。
const exchangePerturbationMaxAttempts = 10000

// countChangedCells 统计 s 与 original 相比有多少个 (日,员工) 格子的分配
// 不同，驱动扰动算子对"离输入解的距离"的停止条件。
func countChangedCells(s, original *Solution) int {
	count := 0
	for d := 0; d < s.Days(); d++ {
		row, originalRow := s.assignments[d], original.assignments[d]
		for e := range row {
			if row[e] != originalRow[e] {
				count++
			}
		}
	}
	return count
}

// ExchangePerturbation 直到 s 相对其起始状态至少有
// minSlotExchanges(strength, E, D) 个格子发生变化为止：每一步抽取一个区块
// 大小与起始日，再挑选三名互不相同的员工（尽量挑选在起始日分配不同班次
// 的三人），对区块内每一天做一次三元轮换（e1<-e3, e2<-e1, e3<-e2）。距离
// 按与原始输入的净差异计算，而不是累加每一步的改动次数，因为后续的轮换
// 有可能把早前改动过的格子转回原值。
func ExchangePerturbation(s *Solution, strength float64, maxBlockSize int, rng *rand.Rand) error {
	if s.Employees() < 3 {
		return InvalidArgument("employees", "exchange perturbation requires at least 3 employees")
	}
	if strength < 0 {
		return InvalidArgument("strength", "must not be negative")
	}
	if maxBlockSize < 1 {
		maxBlockSize = 1
	}
	if maxBlockSize > s.Days() {
		maxBlockSize = s.Days()
	}

	target := minSlotExchanges(strength, s.Employees(), s.Days())
	original := s.Clone()

	for attempt := 0; attempt < exchangePerturbationMaxAttempts; attempt++ {
		if countChangedCells(s, original) >= target {
			break
		}

		blockSize := 1 + rng.Intn(maxBlockSize)
		startDay := rng.Intn(s.Days() - blockSize + 1)

		e1, e2, e3 := threeDistinctEmployeesDifferingOnDay(s, startDay, rng)

		for d := startDay; d < startDay+blockSize; d++ {
			row := s.assignments[d]
			row[e1], row[e2], row[e3] = row[e3], row[e1], row[e2]
		}
		s.InvalidateEvaluation()
	}
	return nil
}

// threeDistinctEmployeesDifferingOnDay 挑选三名互不相同的员工索引，并在
// 可能的情况下重新抽取第三人，直到三人在 day 这天的班次不完全相同为止
// （最多尝试 employees 次，问题退化时放弃）。
func threeDistinctEmployeesDifferingOnDay(s *Solution, day int, rng *rand.Rand) (int, int, int) {
	n := s.Employees()
	e1 := rng.Intn(n)
	e2 := rng.Intn(n)
	for e2 == e1 {
		e2 = rng.Intn(n)
	}
	e3 := rng.Intn(n)
	for e3 == e1 || e3 == e2 {
		e3 = rng.Intn(n)
	}

	for attempt := 0; attempt < n; attempt++ {
		a, b, c := s.Assignment(day, e1), s.Assignment(day, e2), s.Assignment(day, e3)
		if !(a == b && b == c) {
			break
		}
		candidate := rng.Intn(n)
		if candidate != e1 && candidate != e2 {
			e3 = candidate
		}
	}
	return e1, e2, e3
}

// RuinAndRecreateProcedure 随机把一部分(日,员工)格子的分配撤回未分配桶
// （"ruin"），再用贪心构造把因此产生的缺口重新填满（"recreate"）。
// fraction 是被撤回格子占全部格子的比例，取值应在 (0, 1) 之间。
func RuinAndRecreateProcedure(s *Solution, fraction float64, rng *rand.Rand) error {
	if fraction <= 0 || fraction >= 1 {
		return InvalidArgument("fraction", "must be between 0 and 1 exclusive")
	}

	total := s.Days() * s.Employees()
	toRuin := int(float64(total) * fraction)
	if toRuin < 1 {
		toRuin = 1
	}

	perm := rng.Perm(total)
	for i := 0; i < toRuin && i < total; i++ {
		idx := perm[i]
		day := idx / s.Employees()
		emp := idx % s.Employees()
		shiftIdx := s.Assignment(day, emp)
		if shiftIdx == Unassigned {
			continue
		}
		s.SetAssignment(day, emp, Unassigned)
		s.ReleaseUnassigned(day, shiftIdx)
	}

	recreateGreedily(s)
	return nil
}

// recreateGreedily 填补 Solution 中所有仍未覆盖的需求，复用构造阶段的
// 加权估价挑选逻辑。
func recreateGreedily(s *Solution) {
	evaluators := rankedEvaluators(s.Problem())
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
}

// GuidedSwapPerturbation 重复选择并应用移动，直到 s 相对其起始状态至少有
// targetChanges 个格子发生变化：在满足度邻域（过滤掉 filter 拒绝的移动）中，
// 优先选择能带来新满足（nb_newly_satisfied > 0）的移动里最好的一个——按新
// 满足数降序、新违反数升序的字典序比较；如果没有任何移动能带来新满足，退
// 而求其次选第一个会改变解的移动（altering move）。每次应用后把该移动记入
// filter 防止被立刻撤销。距离按与原始输入的净差异计算，因为后续的移动有
// 可能把早前改动过的格子转回原值。
func GuidedSwapPerturbation(s *Solution, targetChanges, blockSize int, filter *NoReturnFilter, rng *rand.Rand) error {
	if targetChanges < 1 {
		return InvalidArgument("targetChanges", "must be >= 1")
	}

	original := s.Clone()
	for countChangedCells(s, original) < targetChanges {
		nb, err := NewSwapConstraintSatisfactionNeighborhood(s, blockSize, filter.Allow, rng)
		if err != nil {
			return err
		}

		var bestSatisfying, fallbackAltering SwapMove
		haveSatisfying, haveFallback := false, false
		bestSatisfied, bestUnsatisfied := 0, 0

		for {
			delta, move, ok := nb.NextNeighborEvaluation()
			if !ok {
				break
			}
			if delta.NewlySatisfied > 0 {
				better := !haveSatisfying ||
					delta.NewlySatisfied > bestSatisfied ||
					(delta.NewlySatisfied == bestSatisfied && delta.NewlyUnsatisfied < bestUnsatisfied)
				if better {
					bestSatisfying, bestSatisfied, bestUnsatisfied, haveSatisfying = move, delta.NewlySatisfied, delta.NewlyUnsatisfied, true
				}
				continue
			}
			if !haveFallback && move.ModifyAssignment(s) {
				fallbackAltering, haveFallback = move, true
			}
		}

		var chosen SwapMove
		switch {
		case haveSatisfying:
			chosen = bestSatisfying
		case haveFallback:
			chosen = fallbackAltering
		default:
			return nil
		}

		chosen.Apply(s)
		filter.Record(chosen)
	}
	return nil
}

// MixedPerturbationProcedure 以 50/50 的概率在每次调用时执行
// RuinAndRecreateProcedure 或 ExchangePerturbation 之一，为 ILS 的扰动
// 阶段提供多样性。
func MixedPerturbationProcedure(s *Solution, filter *NoReturnFilter, rng *rand.Rand) error {
	if rng.Float64() < 0.5 {
		return RuinAndRecreateProcedure(s, 0.05, rng)
	}
	return ExchangePerturbation(s, 0.03, 3, rng)
}
