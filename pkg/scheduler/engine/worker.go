package engine

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/paiban/paiban/internal/metrics"
	"github.com/paiban/paiban/pkg/logger"
)

// SharedBestFound is the mutex-protected cell every search thread publishes
// into. Threads never read each other's private state directly — the only
// cross-thread communication is a deep-copy handoff through here, so a
// thread mutating its own working solution can never alias another
// thread's data.
type SharedBestFound struct {
	mu         sync.Mutex
	best       *Solution
	evaluation Evaluation

	iterations int64
	startedAt  time.Time
}

// NewSharedBestFound seeds the shared cell with a starting solution and its
// evaluation.
func NewSharedBestFound(initial *Solution, evaluation Evaluation) *SharedBestFound {
	return &SharedBestFound{
		best:       initial.Clone(),
		evaluation: evaluation.Clone(),
		startedAt:  time.Now(),
	}
}

// TryUpdate replaces the shared best if candidate strictly improves on it.
// candidate and evaluation are deep-copied in; the caller's copies remain
// theirs to keep mutating.
func (b *SharedBestFound) TryUpdate(candidate *Solution, evaluation Evaluation) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.best == nil || evaluation.Less(b.evaluation) {
		b.best = candidate.Clone()
		b.evaluation = evaluation.Clone()
		return true
	}
	return false
}

// Snapshot returns a deep copy of the current shared best and its
// evaluation.
func (b *SharedBestFound) Snapshot() (*Solution, Evaluation) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.best.Clone(), b.evaluation.Clone()
}

// AddIterations atomically accumulates the iteration count across threads.
func (b *SharedBestFound) AddIterations(n int64) { atomic.AddInt64(&b.iterations, n) }

// Iterations returns the total iteration count across all threads so far.
func (b *SharedBestFound) Iterations() int64 { return atomic.LoadInt64(&b.iterations) }

// Elapsed returns the time since the shared store was created.
func (b *SharedBestFound) Elapsed() time.Duration { return time.Since(b.startedAt) }

// IteratedLocalSearchWorker drives one IteratedLocalSearch instance on a
// dedicated goroutine, polling a stop condition and publishing improvements
// into a SharedBestFound at a bounded rate rather than after every step.
type IteratedLocalSearchWorker struct {
	threadIndex  int
	orgID        string
	ils          *IteratedLocalSearch
	store        *SharedBestFound
	tracer       *Tracer
	pollInterval time.Duration
	logger       *logger.EngineLogger
}

// NewIteratedLocalSearchWorker creates a worker. pollInterval of zero
// defaults to 500ms, matching the shared-state publication cadence used
// across the pack's worker-pool examples. orgID only labels the exported
// Prometheus-style metrics and may be empty.
func NewIteratedLocalSearchWorker(threadIndex int, orgID string, ils *IteratedLocalSearch, store *SharedBestFound, tracer *Tracer, pollInterval time.Duration) *IteratedLocalSearchWorker {
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	return &IteratedLocalSearchWorker{
		threadIndex:  threadIndex,
		orgID:        orgID,
		ils:          ils,
		store:        store,
		tracer:       tracer,
		pollInterval: pollInterval,
		logger:       logger.NewEngineLogger(),
	}
}

// Run initializes the underlying ILS from start and steps it until ctx is
// cancelled. It always publishes once more before returning so the shared
// store reflects this thread's final state.
func (w *IteratedLocalSearchWorker) Run(ctx context.Context, start *Solution, seed int64) error {
	w.logger.WorkerStarted(w.threadIndex, seed)

	if err := w.ils.Init(start); err != nil {
		w.logger.WorkerStopped(w.threadIndex, 0, err)
		return err
	}
	w.publish()

	lastPoll := time.Now()
	var runErr error
	for {
		select {
		case <-ctx.Done():
			w.publish()
			w.logger.WorkerStopped(w.threadIndex, w.ils.Iteration(), nil)
			return nil
		default:
		}

		improved, err := w.ils.NextStep()
		if err != nil {
			runErr = err
			break
		}
		w.store.AddIterations(1)
		metrics.RecordOptimizerIteration("ils")
		w.tracer.RecordIteration(w.threadIndex, w.ils.Iteration(), w.ils.currentEvaluation)

		if improved || time.Since(lastPoll) >= w.pollInterval {
			w.publish()
			lastPoll = time.Now()
		}
	}

	w.publish()
	w.logger.WorkerStopped(w.threadIndex, w.ils.Iteration(), runErr)
	return runErr
}

func (w *IteratedLocalSearchWorker) publish() {
	best := w.ils.Result()
	eval := w.ils.BestEvaluation()
	if best == nil || eval == nil {
		return
	}
	if w.store.TryUpdate(best, eval) {
		w.tracer.RecordBestFound(w.threadIndex, w.ils.Iteration(), eval)
		w.logger.BestFoundUpdate(w.threadIndex, w.ils.Iteration(), []int(eval))
		for rank, value := range eval {
			metrics.SetEngineBestEvaluation(w.orgID, rank, value)
		}
	}
}

// WorkerPoolConfig configures a pool of IteratedLocalSearch threads sharing
// one best-found store.
type WorkerPoolConfig struct {
	OrgID             string
	Threads           int
	GlobalSeed        int64
	BlockSizes        []int
	Policy            ImprovementPolicy
	PerturbationSteps int
	RestartAfter      int
	AcceptWorseRate   float64
	NoReturnCacheSize int
	PollInterval      time.Duration

	// LegacySeedIterations, when > 0 and problem is a *ManagerProblem, runs
	// the legacy simulated-annealing bridge (see legacy_bridge.go) on
	// thread 0's starting solution before its first descent, so the pool
	// does not always restart every thread from the exact same
	// construction heuristic output.
	LegacySeedIterations int
	LegacySeedMaxTime    time.Duration

	// DebugVerifyDeltas enables IteratedLocalSearch.SetDebugVerifyDeltas on
	// every thread; see its doc comment for the cost/benefit trade-off.
	DebugVerifyDeltas bool
}

// RunIteratedLocalSearchPool launches cfg.Threads independent ILS workers,
// each with its own RNG seeded from GlobalSeed+threadIndex and its own
// private working solution cloned from start, and returns the best solution
// found across all of them once ctx is cancelled.
func RunIteratedLocalSearchPool(ctx context.Context, problem Problem, start *Solution, cfg WorkerPoolConfig, tracer *Tracer) (*Solution, Evaluation, error) {
	threads := cfg.Threads
	if threads < 1 {
		threads = 1
	}
	if tracer == nil {
		tracer = NewTracer(false, 1)
	}

	baseline := FullEvaluation(start.Clone())
	store := NewSharedBestFound(start, baseline)

	var wg sync.WaitGroup
	errs := make(chan error, threads)
	metrics.SetEngineActiveThreads(cfg.OrgID, threads)
	defer metrics.SetEngineActiveThreads(cfg.OrgID, 0)

	for t := 0; t < threads; t++ {
		wg.Add(1)
		go func(threadIndex int) {
			defer wg.Done()
			seed := cfg.GlobalSeed + int64(threadIndex)
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
			ils, err := NewIteratedLocalSearch(problem, vnd, filter, cfg.PerturbationSteps, cfg.RestartAfter, cfg.AcceptWorseRate, rng)
			if err != nil {
				errs <- err
				return
			}
			if cfg.DebugVerifyDeltas {
				ils.SetDebugVerifyDeltas(true)
			}

			threadStart := start.Clone()
			if threadIndex == 0 && cfg.LegacySeedIterations > 0 {
				if mp, ok := problem.(*ManagerProblem); ok {
					if seeded, err := RunLegacyAnnealingBridge(mp, threadStart, cfg.LegacySeedIterations, cfg.LegacySeedMaxTime); err == nil {
						threadStart = seeded
					}
				}
			}

			worker := NewIteratedLocalSearchWorker(threadIndex, cfg.OrgID, ils, store, tracer, cfg.PollInterval)
			if err := worker.Run(ctx, threadStart, seed); err != nil {
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
