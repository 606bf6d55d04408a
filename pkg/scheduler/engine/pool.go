package engine

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/paiban/paiban/pkg/logger"
)

// InsertionStrategy selects how a full SolutionPool decides which member to
// evict when a new candidate arrives.
type InsertionStrategy int

const (
	// ReplaceNext evicts the next slot in round-robin order regardless of
	// its quality, favoring population turnover and diversity.
	ReplaceNext InsertionStrategy = iota
	// ReplaceOneOfWorst evicts the single worst member, and only if the
	// candidate actually improves on it.
	ReplaceOneOfWorst
	// ReplaceInWorstSet picks uniformly at random among the bottom
	// worstSetFraction of the population (by evaluation) and evicts it,
	// again only if the candidate improves on the evicted member.
	ReplaceInWorstSet
)

// SolutionPool is a fixed-capacity, duplicate-free population of solutions
// used by the memetic algorithm. Membership is safe for concurrent use:
// multiple worker threads insert candidates and sample parents concurrently.
type SolutionPool struct {
	mu sync.Mutex

	capacity         int
	strategy         InsertionStrategy
	worstSetFraction float64
	rng              *rand.Rand
	logger           *logger.EngineLogger

	solutions   []*Solution
	evaluations []Evaluation
	nextReplace int
}

// NewSolutionPool creates an empty pool. worstSetFraction only matters for
// ReplaceInWorstSet and must be in (0, 1].
func NewSolutionPool(capacity int, strategy InsertionStrategy, worstSetFraction float64, rng *rand.Rand) (*SolutionPool, error) {
	if capacity < 1 {
		return nil, InvalidArgument("capacity", "must be >= 1")
	}
	if strategy == ReplaceInWorstSet && (worstSetFraction <= 0 || worstSetFraction > 1) {
		return nil, InvalidArgument("worstSetFraction", "must be in (0, 1] for ReplaceInWorstSet")
	}
	return &SolutionPool{
		capacity:         capacity,
		strategy:         strategy,
		worstSetFraction: worstSetFraction,
		rng:              rng,
		logger:           logger.NewEngineLogger(),
	}, nil
}

// Len returns the current population size.
func (p *SolutionPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.solutions)
}

// isDuplicate reports whether candidate already exists in the pool.
// Evaluation equality alone is not sufficient — two different assignment
// matrices can tie on cost — so both the evaluation and the full
// assignment matrix must match.
func (p *SolutionPool) isDuplicate(candidate *Solution, eval Evaluation) bool {
	for i, s := range p.solutions {
		if p.evaluations[i].Equal(eval) && s.AssignmentsEqual(candidate) {
			return true
		}
	}
	return false
}

// Insert attempts to add candidate to the pool, reporting whether it was
// actually inserted (false on duplicate, or on a rejected replacement under
// ReplaceOneOfWorst/ReplaceInWorstSet when the candidate does not improve
// on the member it would have evicted).
func (p *SolutionPool) Insert(candidate *Solution, eval Evaluation) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isDuplicate(candidate, eval) {
		return false
	}

	if len(p.solutions) < p.capacity {
		p.solutions = append(p.solutions, candidate.Clone())
		p.evaluations = append(p.evaluations, eval.Clone())
		p.logger.PoolEvent("insert", len(p.solutions), eval)
		return true
	}

	switch p.strategy {
	case ReplaceNext:
		idx := p.nextReplace % len(p.solutions)
		p.nextReplace++
		p.solutions[idx] = candidate.Clone()
		p.evaluations[idx] = eval.Clone()
		p.logger.PoolEvent("replace_next", len(p.solutions), eval)
		return true

	case ReplaceOneOfWorst:
		idx := p.worstIndex()
		if !eval.Less(p.evaluations[idx]) {
			return false
		}
		p.solutions[idx] = candidate.Clone()
		p.evaluations[idx] = eval.Clone()
		p.logger.PoolEvent("replace_worst", len(p.solutions), eval)
		return true

	case ReplaceInWorstSet:
		set := p.worstSet()
		if len(set) == 0 {
			return false
		}
		idx := set[p.rng.Intn(len(set))]
		if !eval.Less(p.evaluations[idx]) {
			return false
		}
		p.solutions[idx] = candidate.Clone()
		p.evaluations[idx] = eval.Clone()
		p.logger.PoolEvent("replace_worst_set", len(p.solutions), eval)
		return true
	}
	return false
}

// worstIndex returns the index of the lexicographically largest (worst)
// evaluation. Must be called with mu held.
func (p *SolutionPool) worstIndex() int {
	worst := 0
	for i := 1; i < len(p.evaluations); i++ {
		if p.evaluations[worst].Less(p.evaluations[i]) {
			worst = i
		}
	}
	return worst
}

// worstSet returns the indices of the bottom worstSetFraction of the
// population by evaluation (ties broken by index order). Must be called
// with mu held.
func (p *SolutionPool) worstSet() []int {
	n := len(p.evaluations)
	if n == 0 {
		return nil
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return p.evaluations[order[j]].Less(p.evaluations[order[i]])
	})
	setSize := int(float64(n) * p.worstSetFraction)
	if setSize < 1 {
		setSize = 1
	}
	if setSize > n {
		setSize = n
	}
	return order[:setSize]
}

// RandomMember returns a uniformly random pool member, used by the memetic
// worker's GET_SOLUTION state.
func (p *SolutionPool) RandomMember() (*Solution, Evaluation, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.solutions) == 0 {
		return nil, nil, false
	}
	idx := p.rng.Intn(len(p.solutions))
	return p.solutions[idx].Clone(), p.evaluations[idx].Clone(), true
}

// TwoDistinctRandomMembers returns two distinct random members for
// crossover, or false if the pool has fewer than 2 members.
func (p *SolutionPool) TwoDistinctRandomMembers() (*Solution, Evaluation, *Solution, Evaluation, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.solutions) < 2 {
		return nil, nil, nil, nil, false
	}
	i := p.rng.Intn(len(p.solutions))
	j := p.rng.Intn(len(p.solutions))
	for j == i {
		j = p.rng.Intn(len(p.solutions))
	}
	return p.solutions[i].Clone(), p.evaluations[i].Clone(), p.solutions[j].Clone(), p.evaluations[j].Clone(), true
}

// Best returns the pool's lexicographically smallest member.
func (p *SolutionPool) Best() (*Solution, Evaluation, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.solutions) == 0 {
		return nil, nil, false
	}
	best := 0
	for i := 1; i < len(p.evaluations); i++ {
		if p.evaluations[i].Less(p.evaluations[best]) {
			best = i
		}
	}
	return p.solutions[best].Clone(), p.evaluations[best].Clone(), true
}
