package tripPlan

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// State is the lifecycle of one invocation.
type State int32

const (
	StateIdle State = iota
	StateRequesting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Invocation is the handle returned by GenerateTripPlan. Succeeded and Failed
// are terminal.
type Invocation struct {
	id      uuid.UUID
	state   atomic.Int32
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
	outcome types.GenerationOutcome
}

func newInvocation(id uuid.UUID, cancel context.CancelFunc) *Invocation {
	return &Invocation{id: id, cancel: cancel, done: make(chan struct{})}
}

func (i *Invocation) ID() uuid.UUID { return i.id }

func (i *Invocation) State() State { return State(i.state.Load()) }

// Cancel abandons the outbound call. The invocation still finishes, with a
// failure outcome, unless it already completed.
func (i *Invocation) Cancel() { i.cancel() }

// Done is closed once the outcome is available.
func (i *Invocation) Done() <-chan struct{} { return i.done }

// Outcome returns the result and true once Done is closed.
func (i *Invocation) Outcome() (types.GenerationOutcome, bool) {
	select {
	case <-i.done:
		return i.outcome, true
	default:
		return types.GenerationOutcome{}, false
	}
}

func (i *Invocation) start() {
	i.state.CompareAndSwap(int32(StateIdle), int32(StateRequesting))
}

// finish records the outcome. Only the first call has any effect.
func (i *Invocation) finish(outcome types.GenerationOutcome) bool {
	first := false
	i.once.Do(func() {
		first = true
		i.outcome = outcome
		if outcome.Succeeded() {
			i.state.Store(int32(StateSucceeded))
		} else {
			i.state.Store(int32(StateFailed))
		}
		close(i.done)
	})
	return first
}
