package engine

import "math/rand"

// ImprovementPolicy 选择邻域内部如何挑选下一步：第一个改进解还是最优解。
type ImprovementPolicy int

const (
	FirstImproving ImprovementPolicy = iota
	BestImproving
)

// VariableNeighborhoodDescent 在一组区块大小（由小到大的"梯子"）之间轮换：
// 在当前区块大小上找不到改进移动时前进到下一级，一旦某一级产生了改进就
// 退回最小的区块大小重新开始，直到所有级别都再也找不到改进为止。
type VariableNeighborhoodDescent struct {
	blockSizes []int
	policy     ImprovementPolicy
	rng        *rand.Rand
}

// NewVariableNeighborhoodDescent 创建一个 VND 实例。blockSizes 必须非空且
// 严格递增。
func NewVariableNeighborhoodDescent(blockSizes []int, policy ImprovementPolicy, rng *rand.Rand) (*VariableNeighborhoodDescent, error) {
	if len(blockSizes) == 0 {
		return nil, InvalidArgument("blockSizes", "must contain at least one block size")
	}
	for i := 1; i < len(blockSizes); i++ {
		if blockSizes[i] <= blockSizes[i-1] {
			return nil, InvalidArgument("blockSizes", "must be strictly increasing")
		}
	}
	return &VariableNeighborhoodDescent{blockSizes: blockSizes, policy: policy, rng: rng}, nil
}

// Run 就地对 s 做局部下降直到在所有区块大小上都没有改进，返回最终评估值。
func (v *VariableNeighborhoodDescent) Run(s *Solution, baseEvaluation Evaluation) (Evaluation, error) {
	current := baseEvaluation
	k := 0
	for k < len(v.blockSizes) {
		improved, next, err := v.exploreOnce(s, current, v.blockSizes[k])
		if err != nil {
			return nil, err
		}
		if improved {
			current = next
			k = 0
			continue
		}
		k++
	}
	return current, nil
}

func (v *VariableNeighborhoodDescent) exploreOnce(s *Solution, current Evaluation, blockSize int) (bool, Evaluation, error) {
	nb, err := NewSwapNeighborhood(s, blockSize, current, true, v.rng)
	if err != nil {
		return false, nil, err
	}

	switch v.policy {
	case BestImproving:
		eval, ok := nb.GetBestNeighborEvaluation()
		if !ok {
			return false, nil, nil
		}
		if err := nb.MoveToLastEvaluatedNeighbor(); err != nil {
			return false, nil, err
		}
		return true, eval, nil
	default: // FirstImproving
		for {
			eval, ok := nb.NextNeighborEvaluation()
			if !ok {
				return false, nil, nil
			}
			if eval.Less(current) {
				if err := nb.MoveToLastEvaluatedNeighbor(); err != nil {
					return false, nil, err
				}
				return true, eval, nil
			}
		}
	}
}

// RunBiased 是 VND 的偏置形式：只对 activeByRank 中列出的约束求增量，
// 在 delta 相对零向量改进时才移动，其余逻辑（梯子、重启）与 Run 相同。
func (v *VariableNeighborhoodDescent) RunBiased(s *Solution, activeByRank map[int][]Constraint, vectorLen int) error {
	k := 0
	for k < len(v.blockSizes) {
		improved, err := v.exploreBiasedOnce(s, activeByRank, vectorLen, v.blockSizes[k])
		if err != nil {
			return err
		}
		if improved {
			k = 0
			continue
		}
		k++
	}
	return nil
}

func (v *VariableNeighborhoodDescent) exploreBiasedOnce(s *Solution, activeByRank map[int][]Constraint, vectorLen, blockSize int) (bool, error) {
	nb, err := NewBiasedSwapNeighborhood(s, blockSize, activeByRank, vectorLen, true, v.rng)
	if err != nil {
		return false, err
	}

	zero := NewEvaluation(vectorLen)
	switch v.policy {
	case BestImproving:
		if _, ok := nb.GetBestNeighborEvaluation(); !ok {
			return false, nil
		}
		return true, nb.MoveToLastEvaluatedNeighbor()
	default: // FirstImproving
		for {
			delta, ok := nb.NextNeighborEvaluation()
			if !ok {
				return false, nil
			}
			if delta.Less(zero) {
				return true, nb.MoveToLastEvaluatedNeighbor()
			}
		}
	}
}
