package engine

import (
	"math/rand"

	"github.com/paiban/paiban/pkg/logger"
)

// IteratedLocalSearch implements the accept/perturb/restart state machine:
// a local optimum is perturbed, re-descended with VND, and either accepted
// as the new current solution or rejected; if no improvement over the
// running restart segment is found within restartAfter iterations, the
// search restarts from a fresh FastBlockConstruction solution and a new
// segment begins.
type IteratedLocalSearch struct {
	problem Problem
	vnd     *VariableNeighborhoodDescent
	filter  *NoReturnFilter
	rng     *rand.Rand

	perturbationSteps int
	restartAfter      int
	// acceptWorseRate is the probability (0..1) of accepting a
	// non-improving perturbed-and-descended solution as the new current
	// solution instead of reverting to lastAccepted.
	acceptWorseRate float64

	currentSolution   *Solution
	currentEvaluation Evaluation

	overallBestFound      *Solution
	overallBestEvaluation Evaluation

	restartBestFound          *Solution
	restartBestEvaluation     Evaluation
	restartBestFoundIteration int

	lastAcceptedSolution   *Solution
	lastAcceptedEvaluation Evaluation

	currentIteration int
	initialized      bool

	// debugVerifyDeltas, when set, recomputes each descended solution's
	// evaluation from scratch via FullEvaluation and logs a warning if it
	// disagrees with the incrementally-maintained one. Off by default: the
	// recompute costs as much as a full construction pass per iteration.
	debugVerifyDeltas bool
	debugLogger       *logger.EngineLogger
}

// NewIteratedLocalSearch builds an ILS operator around the given VND,
// no-return filter (shared with GuidedSwapPerturbation) and RNG.
func NewIteratedLocalSearch(problem Problem, vnd *VariableNeighborhoodDescent, filter *NoReturnFilter, perturbationSteps, restartAfter int, acceptWorseRate float64, rng *rand.Rand) (*IteratedLocalSearch, error) {
	if perturbationSteps < 1 {
		return nil, InvalidArgument("perturbationSteps", "must be >= 1")
	}
	if restartAfter < 1 {
		return nil, InvalidArgument("restartAfter", "must be >= 1")
	}
	return &IteratedLocalSearch{
		problem:           problem,
		vnd:               vnd,
		filter:            filter,
		rng:               rng,
		perturbationSteps: perturbationSteps,
		restartAfter:      restartAfter,
		acceptWorseRate:   acceptWorseRate,
	}, nil
}

// SetDebugVerifyDeltas toggles the full-recompute cross-check described on
// the debugVerifyDeltas field.
func (ils *IteratedLocalSearch) SetDebugVerifyDeltas(enabled bool) {
	ils.debugVerifyDeltas = enabled
	if enabled && ils.debugLogger == nil {
		ils.debugLogger = logger.NewEngineLogger()
	}
}

// Init seeds the search from a single starting solution, descending it to
// a local optimum before iteration begins.
func (ils *IteratedLocalSearch) Init(solutions ...*Solution) error {
	if len(solutions) == 0 || solutions[0] == nil {
		return InvalidArgument("solutions", "at least one starting solution is required")
	}

	start := solutions[0].Clone()
	baseline := FullEvaluation(start)
	descended, err := ils.vnd.Run(start, baseline)
	if err != nil {
		return err
	}

	ils.currentSolution = start
	ils.currentEvaluation = descended

	ils.overallBestFound = start.Clone()
	ils.overallBestEvaluation = descended.Clone()

	ils.restartBestFound = start.Clone()
	ils.restartBestEvaluation = descended.Clone()
	ils.restartBestFoundIteration = 0

	ils.lastAcceptedSolution = start.Clone()
	ils.lastAcceptedEvaluation = descended.Clone()

	ils.currentIteration = 0
	ils.initialized = true
	return nil
}

// NextStep performs one perturb-descend-accept cycle and reports whether
// the overall best-found solution improved.
func (ils *IteratedLocalSearch) NextStep() (bool, error) {
	if !ils.initialized {
		return false, IllegalState("IteratedLocalSearch.Init must be called before NextStep")
	}

	candidate := ils.currentSolution.Clone()
	if err := MixedPerturbationProcedure(candidate, ils.filter, ils.rng); err != nil {
		return false, err
	}
	perturbedEvaluation := FullEvaluation(candidate)

	descended, err := ils.vnd.Run(candidate, perturbedEvaluation)
	if err != nil {
		return false, err
	}

	if ils.debugVerifyDeltas {
		recomputed := FullEvaluation(candidate.Clone())
		if !recomputed.Equal(descended) {
			ils.debugLogger.DeltaMismatch(0, ils.currentIteration, descended, recomputed)
		}
	}

	ils.currentIteration++
	improvedOverall := false

	if descended.Less(ils.overallBestEvaluation) {
		ils.overallBestFound = candidate.Clone()
		ils.overallBestEvaluation = descended.Clone()
		improvedOverall = true
	}

	if descended.Less(ils.restartBestEvaluation) {
		ils.restartBestFound = candidate.Clone()
		ils.restartBestEvaluation = descended.Clone()
		ils.restartBestFoundIteration = ils.currentIteration
	}

	accept := descended.Less(ils.currentEvaluation)
	if !accept && ils.acceptWorseRate > 0 && ils.rng.Float64() < ils.acceptWorseRate {
		accept = true
	}
	if accept {
		ils.currentSolution = candidate
		ils.currentEvaluation = descended
		ils.lastAcceptedSolution = candidate.Clone()
		ils.lastAcceptedEvaluation = descended.Clone()
	}

	if ils.currentIteration-ils.restartBestFoundIteration > ils.restartAfter {
		// Stagnated past the restart segment: abandon this trajectory
		// entirely and diversify from a fresh construction rather than
		// just reverting to what the segment already found.
		fresh, err := FastBlockConstruction(ils.problem, ils.rng)
		if err != nil {
			return improvedOverall, err
		}
		freshEvaluation := FullEvaluation(fresh)

		ils.currentSolution = fresh
		ils.currentEvaluation = freshEvaluation
		ils.lastAcceptedSolution = fresh.Clone()
		ils.lastAcceptedEvaluation = freshEvaluation.Clone()
		ils.restartBestFound = fresh.Clone()
		ils.restartBestEvaluation = freshEvaluation.Clone()
		ils.restartBestFoundIteration = ils.currentIteration
	} else if ils.currentSolution.AssignmentsEqual(ils.restartBestFound) {
		// Current already collapsed onto the segment's best: reseed from
		// it explicitly so the next perturbation starts from restartBestFound
		// rather than drifting on whatever candidate happened to tie it.
		ils.currentSolution = ils.restartBestFound.Clone()
		ils.currentEvaluation = ils.restartBestEvaluation.Clone()
		ils.lastAcceptedSolution = ils.currentSolution.Clone()
		ils.lastAcceptedEvaluation = ils.currentEvaluation.Clone()
	}

	return improvedOverall, nil
}

// IsDone always reports false: ILS runs until an external stop condition
// (iteration budget, deadline) tells the worker to stop calling NextStep.
func (ils *IteratedLocalSearch) IsDone() bool { return false }

// Result returns a clone of the best solution found so far.
func (ils *IteratedLocalSearch) Result() *Solution {
	if ils.overallBestFound == nil {
		return nil
	}
	return ils.overallBestFound.Clone()
}

// BestEvaluation returns a copy of the evaluation of Result().
func (ils *IteratedLocalSearch) BestEvaluation() Evaluation {
	if ils.overallBestEvaluation == nil {
		return nil
	}
	return ils.overallBestEvaluation.Clone()
}

// Iteration returns the number of perturb-descend cycles completed.
func (ils *IteratedLocalSearch) Iteration() int { return ils.currentIteration }
