package engine

import (
	"sync"
	"time"
)

// TraceEvent is one recorded point in a search run: which thread produced
// it, the iteration counter at that point, the evaluation observed, and
// how long after the run started it happened.
type TraceEvent struct {
	ThreadIndex int
	Iteration   int
	Evaluation  Evaluation
	Elapsed     time.Duration
}

// Tracer accumulates two kinds of trace: every time a thread publishes a
// new overall best-found solution (always recorded, cheap and small), and
// optionally a full iteration-by-iteration trace sampled every
// recordPeriod iterations (expensive, opt-in, meant for offline analysis
// rather than production runs).
type Tracer struct {
	mu        sync.Mutex
	startTime time.Time

	bestFound []TraceEvent

	recordFull   bool
	recordPeriod int
	full         []TraceEvent
}

// NewTracer creates a tracer. When recordFull is false, RecordIteration is
// a no-op; recordPeriod controls sampling density when it is true (every
// recordPeriod-th call is kept, the rest discarded).
func NewTracer(recordFull bool, recordPeriod int) *Tracer {
	if recordPeriod < 1 {
		recordPeriod = 1
	}
	return &Tracer{
		startTime:    time.Now(),
		recordFull:   recordFull,
		recordPeriod: recordPeriod,
	}
}

// RecordBestFound appends an entry to the best-found trace.
func (t *Tracer) RecordBestFound(threadIndex, iteration int, eval Evaluation) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bestFound = append(t.bestFound, TraceEvent{
		ThreadIndex: threadIndex,
		Iteration:   iteration,
		Evaluation:  eval.Clone(),
		Elapsed:     time.Since(t.startTime),
	})
}

// RecordIteration appends an entry to the full iteration trace, subject to
// sampling and the recordFull flag.
func (t *Tracer) RecordIteration(threadIndex, iteration int, eval Evaluation) {
	if !t.recordFull {
		return
	}
	if iteration%t.recordPeriod != 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.full = append(t.full, TraceEvent{
		ThreadIndex: threadIndex,
		Iteration:   iteration,
		Evaluation:  eval.Clone(),
		Elapsed:     time.Since(t.startTime),
	})
}

// BestFoundTrace returns a snapshot copy of the best-found trace.
func (t *Tracer) BestFoundTrace() []TraceEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TraceEvent, len(t.bestFound))
	copy(out, t.bestFound)
	return out
}

// FullIterationTrace returns a snapshot copy of the full iteration trace.
func (t *Tracer) FullIterationTrace() []TraceEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TraceEvent, len(t.full))
	copy(out, t.full)
	return out
}

// StagnationDuration reports how long it has been since the last
// best-found update, used by stop conditions that give up after a plateau.
func (t *Tracer) StagnationDuration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.bestFound) == 0 {
		return time.Since(t.startTime)
	}
	last := t.bestFound[len(t.bestFound)-1]
	return time.Since(t.startTime) - last.Elapsed
}
