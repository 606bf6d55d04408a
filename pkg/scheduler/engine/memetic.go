package engine

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/paiban/paiban/internal/metrics"
	"github.com/paiban/paiban/pkg/logger"
)

// memeticState enumerates the three states a memetic algorithm thread
// cycles through on every full pass of NextStep.
type memeticState int

const (
	stateGetSolution memeticState = iota
	stateMutation
	stateLocalSearch
)

// MemeticAlgorithmWorker implements the population-based counterpart to
// IteratedLocalSearchWorker: instead of descending a single private
// solution, it repeatedly samples two parents from a SolutionPool shared
// across threads, crosses them, optionally mutates the child, descends it
// with VND, and offers it back to the pool. One call to NextStep advances
// exactly one of the three states, so a driver loop can interleave
// cancellation checks between states rather than only between full cycles.
type MemeticAlgorithmWorker struct {
	pool         *SolutionPool
	vnd          *VariableNeighborhoodDescent
	filter       *NoReturnFilter
	rng          *rand.Rand
	mutationRate float64
	blockLengths []int

	state   memeticState
	parentA *Solution
	parentB *Solution
	child   *Solution

	bestFound      *Solution
	bestEvaluation Evaluation
}

// NewMemeticAlgorithmWorker creates a worker bound to a shared pool.
// mutationRate is the probability, per child, of applying a perturbation
// before local search. blockLengths is forwarded to BlockCrossover; nil
// falls back to DefaultCrossoverBlockLengths.
func NewMemeticAlgorithmWorker(pool *SolutionPool, vnd *VariableNeighborhoodDescent, filter *NoReturnFilter, mutationRate float64, blockLengths []int, rng *rand.Rand) (*MemeticAlgorithmWorker, error) {
	if pool == nil {
		return nil, InvalidArgument("pool", "must not be nil")
	}
	if mutationRate < 0 || mutationRate > 1 {
		return nil, InvalidArgument("mutationRate", "must be in [0, 1]")
	}
	return &MemeticAlgorithmWorker{pool: pool, vnd: vnd, filter: filter, mutationRate: mutationRate, blockLengths: blockLengths, rng: rng}, nil
}

// Init inserts the given starting solutions into the shared pool (each
// fully evaluated first) and seeds this worker's private best-found with
// the best member currently in the pool.
func (w *MemeticAlgorithmWorker) Init(solutions ...*Solution) error {
	if len(solutions) == 0 {
		return InvalidArgument("solutions", "at least one starting solution is required")
	}
	for _, s := range solutions {
		eval := FullEvaluation(s)
		w.pool.Insert(s, eval)
	}
	if best, eval, ok := w.pool.Best(); ok {
		w.bestFound = best
		w.bestEvaluation = eval
	}
	w.state = stateGetSolution
	return nil
}

// NextStep advances one state of the GET_SOLUTION/MUTATION/LOCAL_SEARCH
// cycle. It reports true only on the LOCAL_SEARCH state when the
// descended child improves this worker's private best-found.
func (w *MemeticAlgorithmWorker) NextStep() (bool, error) {
	switch w.state {
	case stateGetSolution:
		return false, w.doGetSolution()
	case stateMutation:
		return false, w.doMutation()
	case stateLocalSearch:
		return w.doLocalSearch()
	default:
		return false, IllegalState("unknown memetic algorithm state")
	}
}

func (w *MemeticAlgorithmWorker) doGetSolution() error {
	a, _, b, _, ok := w.pool.TwoDistinctRandomMembers()
	if !ok {
		single, _, ok2 := w.pool.RandomMember()
		if !ok2 {
			return IllegalState("solution pool is empty")
		}
		a, b = single, single.Clone()
	}
	w.parentA, w.parentB = a, b

	child, err := BlockCrossover(w.parentA, w.parentB, w.blockLengths, w.rng)
	if err != nil {
		return err
	}
	// BlockCrossover only alternates blocks between the two parents; it is
	// the caller's responsibility to close whatever coverage gaps that opens.
	recreateGreedily(child)
	w.child = child
	w.state = stateMutation
	return nil
}

func (w *MemeticAlgorithmWorker) doMutation() error {
	if w.rng.Float64() < w.mutationRate {
		if err := MixedPerturbationProcedure(w.child, w.filter, w.rng); err != nil {
			return err
		}
	}
	w.state = stateLocalSearch
	return nil
}

func (w *MemeticAlgorithmWorker) doLocalSearch() (bool, error) {
	eval := FullEvaluation(w.child)
	descended, err := w.vnd.Run(w.child, eval)
	if err != nil {
		return false, err
	}

	w.pool.Insert(w.child, descended)

	improved := false
	if w.bestEvaluation == nil || descended.Less(w.bestEvaluation) {
		w.bestFound = w.child.Clone()
		w.bestEvaluation = descended.Clone()
		improved = true
	}

	w.state = stateGetSolution
	return improved, nil
}

// IsDone always reports false: the memetic algorithm runs until an
// external stop condition tells the driver loop to stop calling NextStep.
func (w *MemeticAlgorithmWorker) IsDone() bool { return false }

// Result returns a clone of this worker's private best-found solution.
func (w *MemeticAlgorithmWorker) Result() *Solution {
	if w.bestFound == nil {
		return nil
	}
	return w.bestFound.Clone()
}

// BestEvaluation returns a copy of the evaluation of Result().
func (w *MemeticAlgorithmWorker) BestEvaluation() Evaluation {
	if w.bestEvaluation == nil {
		return nil
	}
	return w.bestEvaluation.Clone()
}

// runMemeticThread drives one MemeticAlgorithmWorker on the calling
// goroutine until ctx is cancelled, publishing improvements into the
// shared best-found store and tracer.
func runMemeticThread(ctx context.Context, threadIndex int, w *MemeticAlgorithmWorker, store *SharedBestFound, tracer *Tracer, pollInterval time.Duration, seed int64, orgID string) error {
	engineLog := logger.NewEngineLogger()
	engineLog.WorkerStarted(threadIndex, seed)

	lastPoll := time.Now()
	cycles := 0
	for {
		select {
		case <-ctx.Done():
			publishMemetic(w, store, tracer, threadIndex, cycles, orgID)
			engineLog.WorkerStopped(threadIndex, cycles, nil)
			return nil
		default:
		}

		improved, err := w.NextStep()
		if err != nil {
			publishMemetic(w, store, tracer, threadIndex, cycles, orgID)
			engineLog.WorkerStopped(threadIndex, cycles, err)
			return err
		}
		if w.state == stateGetSolution {
			cycles++
			store.AddIterations(1)
			metrics.RecordOptimizerIteration("memetic")
		}

		if improved || time.Since(lastPoll) >= pollInterval {
			publishMemetic(w, store, tracer, threadIndex, cycles, orgID)
			lastPoll = time.Now()
		}
	}
}

func publishMemetic(w *MemeticAlgorithmWorker, store *SharedBestFound, tracer *Tracer, threadIndex, cycles int, orgID string) {
	best := w.Result()
	eval := w.BestEvaluation()
	if best == nil || eval == nil {
		return
	}
	if store.TryUpdate(best, eval) {
		tracer.RecordBestFound(threadIndex, cycles, eval)
		for rank, value := range eval {
			metrics.SetEngineBestEvaluation(orgID, rank, value)
		}
	}
}

// MemeticPoolConfig configures a pool of memetic algorithm threads sharing
// one SolutionPool and one SharedBestFound store.
type MemeticPoolConfig struct {
	OrgID             string
	Threads           int
	GlobalSeed        int64
	BlockSizes        []int
	Policy            ImprovementPolicy
	MutationRate      float64
	// CrossoverBlockLengths is forwarded to BlockCrossover; nil falls back
	// to DefaultCrossoverBlockLengths.
	CrossoverBlockLengths []int
	NoReturnCacheSize     int
	PopulationSize        int
	PoolStrategy          InsertionStrategy
	WorstSetFraction      float64
	PollInterval          time.Duration
}

// RunMemeticAlgorithmPool seeds a shared SolutionPool with startingSolutions
// and runs cfg.Threads memetic algorithm threads against it concurrently
// until ctx is cancelled, returning the best solution found.
func RunMemeticAlgorithmPool(ctx context.Context, startingSolutions []*Solution, cfg MemeticPoolConfig, tracer *Tracer) (*Solution, Evaluation, error) {
	if len(startingSolutions) == 0 {
		return nil, nil, InvalidArgument("startingSolutions", "at least one starting solution is required")
	}
	threads := cfg.Threads
	if threads < 1 {
		threads = 1
	}
	if tracer == nil {
		tracer = NewTracer(false, 1)
	}

	poolRNG := rand.New(rand.NewSource(cfg.GlobalSeed))
	pool, err := NewSolutionPool(cfg.PopulationSize, cfg.PoolStrategy, cfg.WorstSetFraction, poolRNG)
	if err != nil {
		return nil, nil, err
	}

	baseline := FullEvaluation(startingSolutions[0].Clone())
	store := NewSharedBestFound(startingSolutions[0], baseline)
	for _, s := range startingSolutions {
		pool.Insert(s, FullEvaluation(s.Clone()))
	}

	var wg sync.WaitGroup
	errs := make(chan error, threads)
	metrics.SetEngineActiveThreads(cfg.OrgID, threads)
	defer metrics.SetEngineActiveThreads(cfg.OrgID, 0)

	for t := 0; t < threads; t++ {
		wg.Add(1)
		go func(threadIndex int) {
			defer wg.Done()
			seed := cfg.GlobalSeed + int64(threadIndex) + 1
			rng := rand.New(rand.NewSource(seed))

			vnd, err := NewVariableNeighborhoodDescent(cfg.BlockSizes, cfg.Policy, rng)
			if err != nil {
				errs <- err
				return
			}
			filter, err := NewNoReturnFilter(cfg.NoReturnCacheSize)
			if err != nil {
				errs <- err
				return
			}
			worker, err := NewMemeticAlgorithmWorker(pool, vnd, filter, cfg.MutationRate, cfg.CrossoverBlockLengths, rng)
			if err != nil {
				errs <- err
				return
			}
			if best, eval, ok := pool.Best(); ok {
				worker.bestFound = best
				worker.bestEvaluation = eval
			}
			worker.state = stateGetSolution

			if err := runMemeticThread(ctx, threadIndex, worker, store, tracer, cfg.PollInterval, seed, cfg.OrgID); err != nil {
				errs <- err
			}
		}(t)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}

	best, eval := store.Snapshot()
	return best, eval, nil
}
