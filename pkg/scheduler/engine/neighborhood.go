package engine

import "math/rand"

// swapMoveEnumerator 按 spec §4.1 描述的方式遍历某个区块大小下的全部交换移动：
// 维护一个起始日队列，队空时抽取下一天（有随机源则随机，否则按序），
// 并为该天压入全部 employee1<employee2 的配对。
type swapMoveEnumerator struct {
	blockSize int
	rng       *rand.Rand

	dayOrder []int
	dayPos   int

	pairs   [][2]int
	pairPos int
}

func newSwapMoveEnumerator(days, employees, blockSize int, rng *rand.Rand) (*swapMoveEnumerator, error) {
	if blockSize < 1 {
		return nil, InvalidArgument("blockSize", "must be >= 1")
	}
	if blockSize > days {
		return nil, InvalidArgument("blockSize", "must not exceed the number of days")
	}
	if employees < 2 {
		return nil, InvalidArgument("employees", "swap neighborhood requires at least 2 employees")
	}

	numStarts := days - blockSize + 1
	order := make([]int, numStarts)
	for i := range order {
		order[i] = i
	}
	if rng != nil {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	return &swapMoveEnumerator{blockSize: blockSize, rng: rng, dayOrder: order}, nil
}

// count 返回该枚举器会产生的移动总数（不考虑过滤器）。
func (e *swapMoveEnumerator) count(employees int) int {
	pairsPerDay := employees * (employees - 1) / 2
	return len(e.dayOrder) * pairsPerDay
}

func (e *swapMoveEnumerator) next(employees int) (SwapMove, bool) {
	for {
		if e.pairPos < len(e.pairs) {
			p := e.pairs[e.pairPos]
			e.pairPos++
			day := e.dayOrder[e.dayPos-1]
			return SwapMove{Employee1Index: p[0], Employee2Index: p[1], StartDayIndex: day, BlockSize: e.blockSize}, true
		}
		if e.dayPos >= len(e.dayOrder) {
			return SwapMove{}, false
		}
		e.dayPos++
		e.pairs = e.pairs[:0]
		for i := 0; i < employees; i++ {
			for j := i + 1; j < employees; j++ {
				e.pairs = append(e.pairs, [2]int{i, j})
			}
		}
		if e.rng != nil {
			e.rng.Shuffle(len(e.pairs), func(i, j int) { e.pairs[i], e.pairs[j] = e.pairs[j], e.pairs[i] })
		}
		e.pairPos = 0
	}
}

// rankedEvaluators 按约束阶分组的求值器，从 Problem 一次性构建。
func rankedEvaluators(p Problem) [][]ConstraintEvaluator {
	maxRank := p.MaxConstraintsRankIndex()
	out := make([][]ConstraintEvaluator, maxRank+1)
	for rank := 0; rank <= maxRank; rank++ {
		for _, c := range p.Constraints(rank) {
			out[rank] = append(out[rank], c.GetEvaluator(p))
		}
	}
	return out
}

// flatEvaluators 把所有阶的约束求值器展平成一个列表（满足-违反邻域不区分阶）。
func flatEvaluators(p Problem) []ConstraintEvaluator {
	var out []ConstraintEvaluator
	for rank := 0; rank <= p.MaxConstraintsRankIndex(); rank++ {
		for _, c := range p.Constraints(rank) {
			out = append(out, c.GetEvaluator(p))
		}
	}
	return out
}

// SwapNeighborhood 是交换邻域的完整代价形式：每个候选移动的评估是应用
// 该移动后的完整 Evaluation（spec §4.1 第一种形式）。
type SwapNeighborhood struct {
	origin *Solution
	evals  [][]ConstraintEvaluator
	enum   *swapMoveEnumerator

	baseEvaluation Evaluation
	onlyImproving  bool

	lastMove       SwapMove
	lastEvaluation Evaluation
	hasLast        bool
}

// NewSwapNeighborhood 创建一个完整交换邻域。baseEvaluation 是 origin 当前的
// 评估值；rng 为 nil 表示按顺序枚举。
func NewSwapNeighborhood(origin *Solution, blockSize int, baseEvaluation Evaluation, onlyImproving bool, rng *rand.Rand) (*SwapNeighborhood, error) {
	enum, err := newSwapMoveEnumerator(origin.Days(), origin.Employees(), blockSize, rng)
	if err != nil {
		return nil, err
	}
	return &SwapNeighborhood{
		origin:         origin,
		evals:          rankedEvaluators(origin.Problem()),
		enum:           enum,
		baseEvaluation: baseEvaluation,
		onlyImproving:  onlyImproving,
	}, nil
}

func (n *SwapNeighborhood) evaluateMove(m SwapMove) Evaluation {
	delta := make(Evaluation, len(n.evals))
	for rank, evaluators := range n.evals {
		sum := 0
		for _, ev := range evaluators {
			sum += ev.SwapMoveCostDifference(n.origin, m)
		}
		delta[rank] = sum
	}
	return n.baseEvaluation.Add(delta)
}

// NextNeighborEvaluation 返回下一个候选移动的评估，枚举耗尽时返回 (nil, false)。
func (n *SwapNeighborhood) NextNeighborEvaluation() (Evaluation, bool) {
	move, ok := n.enum.next(n.origin.Employees())
	if !ok {
		return nil, false
	}
	eval := n.evaluateMove(move)
	n.lastMove = move
	n.lastEvaluation = eval
	n.hasLast = true
	return eval.Clone(), true
}

// MoveToLastEvaluatedNeighbor 把 origin 就地改为上一次评估的邻居，并重置枚举。
func (n *SwapNeighborhood) MoveToLastEvaluatedNeighbor() error {
	if !n.hasLast {
		return NoSuchNeighbor("no neighbor has been evaluated yet")
	}
	n.lastMove.Apply(n.origin)
	n.origin.SetCachedEvaluation(n.lastEvaluation)
	n.baseEvaluation = n.lastEvaluation
	n.hasLast = false
	enum, err := newSwapMoveEnumerator(n.origin.Days(), n.origin.Employees(), n.enum.blockSize, n.enum.rng)
	if err != nil {
		return err
	}
	n.enum = enum
	return nil
}

// GetLastEvaluatedNeighbor 返回应用了上一次评估移动的克隆，origin 本身不变。
func (n *SwapNeighborhood) GetLastEvaluatedNeighbor() (*Solution, error) {
	if !n.hasLast {
		return nil, NoSuchNeighbor("no neighbor has been evaluated yet")
	}
	clone := n.lastMove.Applied(n.origin)
	clone.SetCachedEvaluation(n.lastEvaluation)
	return clone, nil
}

// GetBestNeighborEvaluation 扫描邻域剩余部分，返回最优评估；先遇到的并列
// 最优者获胜。onlyImproving 时只考虑严格优于 baseEvaluation 的移动。
func (n *SwapNeighborhood) GetBestNeighborEvaluation() (Evaluation, bool) {
	var best Evaluation
	var bestMove SwapMove
	found := false
	for {
		move, ok := n.enum.next(n.origin.Employees())
		if !ok {
			break
		}
		eval := n.evaluateMove(move)
		if n.onlyImproving && !eval.Less(n.baseEvaluation) {
			continue
		}
		if !found || eval.Less(best) {
			best, bestMove, found = eval, move, true
		}
	}
	if !found {
		return nil, false
	}
	n.lastMove = bestMove
	n.lastEvaluation = best
	n.hasLast = true
	return best.Clone(), true
}

// MoveToBestNeighbor 找到并应用最优邻居；没有候选（或 onlyImproving 下没有
// 改进）时返回 false 且 origin 不变。
func (n *SwapNeighborhood) MoveToBestNeighbor() (bool, error) {
	if _, ok := n.GetBestNeighborEvaluation(); !ok {
		return false, nil
	}
	if err := n.MoveToLastEvaluatedNeighbor(); err != nil {
		return false, err
	}
	return true, nil
}

// BiasedSwapNeighborhood 是交换邻域的偏置形式：只对调用方给定的一组活跃约束
// 求增量，产出的是 delta 向量而非完整 Evaluation（spec §4.1 第二种形式）。
type BiasedSwapNeighborhood struct {
	origin        *Solution
	activeByRank  map[int][]ConstraintEvaluator
	vectorLen     int
	enum          *swapMoveEnumerator
	onlyImproving bool

	lastMove  SwapMove
	lastDelta Evaluation
	hasLast   bool
}

// NewBiasedSwapNeighborhood 创建一个仅对 activeByRank 中列出的约束求差的邻域。
// vectorLen 通常是 Problem.MaxConstraintsRankIndex()+1，未激活的阶在 delta
// 中恒为 0。
func NewBiasedSwapNeighborhood(origin *Solution, blockSize int, activeByRank map[int][]Constraint, vectorLen int, onlyImproving bool, rng *rand.Rand) (*BiasedSwapNeighborhood, error) {
	enum, err := newSwapMoveEnumerator(origin.Days(), origin.Employees(), blockSize, rng)
	if err != nil {
		return nil, err
	}
	evals := make(map[int][]ConstraintEvaluator, len(activeByRank))
	for rank, cs := range activeByRank {
		for _, c := range cs {
			evals[rank] = append(evals[rank], c.GetEvaluator(origin.Problem()))
		}
	}
	return &BiasedSwapNeighborhood{
		origin:        origin,
		activeByRank:  evals,
		vectorLen:     vectorLen,
		enum:          enum,
		onlyImproving: onlyImproving,
	}, nil
}

func (n *BiasedSwapNeighborhood) evaluateMove(m SwapMove) Evaluation {
	delta := make(Evaluation, n.vectorLen)
	for rank, evaluators := range n.activeByRank {
		if rank >= n.vectorLen {
			continue
		}
		sum := 0
		for _, ev := range evaluators {
			sum += ev.SwapMoveCostDifference(n.origin, m)
		}
		delta[rank] = sum
	}
	return delta
}

// NextNeighborEvaluation 返回下一个候选移动的 delta 向量。
func (n *BiasedSwapNeighborhood) NextNeighborEvaluation() (Evaluation, bool) {
	move, ok := n.enum.next(n.origin.Employees())
	if !ok {
		return nil, false
	}
	delta := n.evaluateMove(move)
	n.lastMove, n.lastDelta, n.hasLast = move, delta, true
	return delta.Clone(), true
}

// MoveToLastEvaluatedNeighbor 应用上一次评估的移动并重置枚举。
func (n *BiasedSwapNeighborhood) MoveToLastEvaluatedNeighbor() error {
	if !n.hasLast {
		return NoSuchNeighbor("no neighbor has been evaluated yet")
	}
	n.lastMove.Apply(n.origin)
	n.origin.InvalidateEvaluation()
	n.hasLast = false
	enum, err := newSwapMoveEnumerator(n.origin.Days(), n.origin.Employees(), n.enum.blockSize, n.enum.rng)
	if err != nil {
		return err
	}
	n.enum = enum
	return nil
}

// GetLastEvaluatedNeighbor 返回应用了上一次移动的克隆，origin 不变。
func (n *BiasedSwapNeighborhood) GetLastEvaluatedNeighbor() (*Solution, error) {
	if !n.hasLast {
		return nil, NoSuchNeighbor("no neighbor has been evaluated yet")
	}
	return n.lastMove.Applied(n.origin), nil
}

// GetBestNeighborEvaluation 返回字典序最优的 delta；onlyImproving 时只考虑
// 严格优于零向量的移动（即 delta.Less(zero)）。
func (n *BiasedSwapNeighborhood) GetBestNeighborEvaluation() (Evaluation, bool) {
	zero := NewEvaluation(n.vectorLen)
	var best Evaluation
	var bestMove SwapMove
	found := false
	for {
		move, ok := n.enum.next(n.origin.Employees())
		if !ok {
			break
		}
		delta := n.evaluateMove(move)
		if n.onlyImproving && !delta.Less(zero) {
			continue
		}
		if !found || delta.Less(best) {
			best, bestMove, found = delta, move, true
		}
	}
	if !found {
		return nil, false
	}
	n.lastMove, n.lastDelta, n.hasLast = bestMove, best, true
	return best.Clone(), true
}

// MoveToBestNeighbor 找到并应用最优偏置邻居。
func (n *BiasedSwapNeighborhood) MoveToBestNeighbor() (bool, error) {
	if _, ok := n.GetBestNeighborEvaluation(); !ok {
		return false, nil
	}
	if err := n.MoveToLastEvaluatedNeighbor(); err != nil {
		return false, err
	}
	return true, nil
}

// SatisfactionDelta 是移动对一组约束造成的满足状态变化计数。
type SatisfactionDelta struct {
	NewlySatisfied   int
	NewlyUnsatisfied int
}

// SwapMoveFilter 是对候选移动的任意谓词，返回 true 表示该移动可被枚举。
// 用于实现类似禁忌表的机制（spec §4.1 第三种形式）。
type SwapMoveFilter func(SwapMove) bool

// SwapConstraintSatisfactionNeighborhood 只关心移动新满足/新违反了多少个
// 约束，不关心代价大小（spec §4.1 第三种形式），供 GuidedSwapPerturbation 使用。
type SwapConstraintSatisfactionNeighborhood struct {
	origin *Solution
	evals  []ConstraintEvaluator
	enum   *swapMoveEnumerator
	filter SwapMoveFilter

	lastMove  SwapMove
	lastDelta SatisfactionDelta
	hasLast   bool
}

// NewSwapConstraintSatisfactionNeighborhood 创建一个满足度邻域，filter 为
// nil 表示不过滤任何移动。
func NewSwapConstraintSatisfactionNeighborhood(origin *Solution, blockSize int, filter SwapMoveFilter, rng *rand.Rand) (*SwapConstraintSatisfactionNeighborhood, error) {
	enum, err := newSwapMoveEnumerator(origin.Days(), origin.Employees(), blockSize, rng)
	if err != nil {
		return nil, err
	}
	return &SwapConstraintSatisfactionNeighborhood{
		origin: origin,
		evals:  flatEvaluators(origin.Problem()),
		enum:   enum,
		filter: filter,
	}, nil
}

func (n *SwapConstraintSatisfactionNeighborhood) evaluateMove(m SwapMove) SatisfactionDelta {
	var d SatisfactionDelta
	for _, ev := range n.evals {
		sat, unsat := ev.ConstraintSatisfactionDifference(n.origin, m)
		d.NewlySatisfied += sat
		d.NewlyUnsatisfied += unsat
	}
	return d
}

// NextNeighborEvaluation 跳过被 filter 拒绝的移动，返回下一个允许的移动
// 及其满足度 delta。
func (n *SwapConstraintSatisfactionNeighborhood) NextNeighborEvaluation() (SatisfactionDelta, SwapMove, bool) {
	for {
		move, ok := n.enum.next(n.origin.Employees())
		if !ok {
			return SatisfactionDelta{}, SwapMove{}, false
		}
		if n.filter != nil && !n.filter(move) {
			continue
		}
		delta := n.evaluateMove(move)
		n.lastMove, n.lastDelta, n.hasLast = move, delta, true
		return delta, move, true
	}
}

// MoveToLastEvaluatedNeighbor 应用上一次评估的移动并重置枚举。
func (n *SwapConstraintSatisfactionNeighborhood) MoveToLastEvaluatedNeighbor() error {
	if !n.hasLast {
		return NoSuchNeighbor("no neighbor has been evaluated yet")
	}
	n.lastMove.Apply(n.origin)
	n.hasLast = false
	enum, err := newSwapMoveEnumerator(n.origin.Days(), n.origin.Employees(), n.enum.blockSize, n.enum.rng)
	if err != nil {
		return err
	}
	n.enum = enum
	return nil
}

// GetLastEvaluatedNeighbor 返回应用了上一次移动的克隆，origin 不变。
func (n *SwapConstraintSatisfactionNeighborhood) GetLastEvaluatedNeighbor() (*Solution, error) {
	if !n.hasLast {
		return nil, NoSuchNeighbor("no neighbor has been evaluated yet")
	}
	return n.lastMove.Applied(n.origin), nil
}
