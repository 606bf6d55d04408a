package engine

import "math/rand"

// DefaultCrossoverBlockLengths 是未提供 blockLengths 时使用的区块长度集合。
var DefaultCrossoverBlockLengths = []int{1, 5, 7}

// recomputeUnassigned 按 Problem 的需求重新计算每个 (日,班次) 的未分配计数，
// 使其与当前 assignments 矩阵一致。BlockCrossover 直接整列覆盖分配之后，
// 原有的未分配计数不再正确反映实际覆盖情况，必须重新推导。
func recomputeUnassigned(s *Solution) {
	for day := 0; day < s.days; day++ {
		counts := make([]int, s.shifts)
		for e := 0; e < s.employees; e++ {
			if shiftIdx := s.assignments[day][e]; shiftIdx != Unassigned {
				counts[shiftIdx]++
			}
		}
		for shiftIdx := 0; shiftIdx < s.shifts; shiftIdx++ {
			remaining := s.problem.Demand(shiftIdx, day) - counts[shiftIdx]
			if remaining < 0 {
				remaining = 0
			}
			s.unassigned[day][shiftIdx] = remaining
		}
	}
}

// BlockCrossover 从 parentA 的完整克隆出发，按天从左到右交替"保留 P1"与
// "复制 P2"两种区块，区块长度从 blockLengths（为空时使用
// DefaultCrossoverBlockLengths）中均匀随机抽取；处于"复制"区块时，该区块
// 内每一天的整列分配被 parentB 对应列无条件覆盖。产出的子代可能不满足
// 覆盖需求——按照约定，这是调用方的责任，调用方应随后调用贪心构造补齐
// 缺口。
func BlockCrossover(parentA, parentB *Solution, blockLengths []int, rng *rand.Rand) (*Solution, error) {
	if parentA.Problem() != parentB.Problem() {
		return nil, InvalidArgument("parentB", "must reference the same problem as parentA")
	}
	if len(blockLengths) == 0 {
		blockLengths = DefaultCrossoverBlockLengths
	}

	child := parentA.Clone()
	days := child.Days()

	keepP1 := true
	for day := 0; day < days; {
		length := blockLengths[rng.Intn(len(blockLengths))]
		end := day + length
		if end > days {
			end = days
		}

		if !keepP1 {
			for d := day; d < end; d++ {
				copy(child.assignments[d], parentB.assignments[d])
			}
		}

		day = end
		keepP1 = !keepP1
	}

	recomputeUnassigned(child)
	child.InvalidateEvaluation()
	return child, nil
}
