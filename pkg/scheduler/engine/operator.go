package engine

// Operator is the common stepping protocol shared by every long-running
// search procedure in this package (IteratedLocalSearch, MemeticAlgorithm).
// A worker drives an Operator one step at a time so it can interleave
// cancellation checks, tracing, and shared-state publication between steps
// instead of blocking inside a single opaque call.
type Operator interface {
	// Init prepares the operator with one or more starting solutions.
	// For single-solution procedures only the first argument is used.
	Init(solutions ...*Solution) error

	// NextStep advances the operator by exactly one unit of work and
	// reports whether it made any change. A false result without IsDone
	// being true indicates a step that found nothing to improve.
	NextStep() (bool, error)

	// IsDone reports whether the operator has reached a terminal state
	// and further NextStep calls would be no-ops.
	IsDone() bool

	// Result returns the operator's current best-found solution. Safe to
	// call between steps; it never returns a solution under mutation.
	Result() *Solution
}

// RunToCompletion repeatedly steps op until IsDone reports true or stop
// returns true, whichever happens first. stop is polled before every step
// so cancellation is checked at single-step granularity.
func RunToCompletion(op Operator, stop func() bool) error {
	for !op.IsDone() {
		if stop != nil && stop() {
			return nil
		}
		if _, err := op.NextStep(); err != nil {
			return err
		}
	}
	return nil
}
