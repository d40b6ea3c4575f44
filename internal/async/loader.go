// Package async tracks the lifecycle of a view's outstanding fetch.
package async

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Status is the state of a Loader.
type Status string

const (
	Idle    Status = "idle"
	Loading Status = "loading"
	Success Status = "success"
	Failed  Status = "failed"
)

// State is a snapshot of a Loader. Value is only meaningful on Success.
type State[T any] struct {
	Status Status `json:"status"`
	Value  T      `json:"value"`
}

// Loader runs fetches for one view and keeps the latest result while the
// view is mounted. Results that arrive after Unmount are dropped.
type Loader[T any] struct {
	mu      sync.Mutex
	state   State[T]
	mounted bool
	wg      sync.WaitGroup
	logger  *zap.Logger
	onApply func(State[T])
}

// NewLoader returns a mounted, idle loader.
func NewLoader[T any](logger *zap.Logger) *Loader[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader[T]{
		state:   State[T]{Status: Idle},
		mounted: true,
		logger:  logger,
	}
}

// OnApply registers a hook called, under the loader's lock, every time a
// state transition is applied.
func (l *Loader[T]) OnApply(fn func(State[T])) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onApply = fn
}

// Run moves the loader to Loading and executes fn on its own goroutine.
// Calling Run while a fetch is outstanding starts another one; whichever
// finishes last wins. Errors are logged and surface only as Failed.
func (l *Loader[T]) Run(ctx context.Context, fn func(context.Context) (T, error)) {
	var zero T
	l.dispatch(State[T]{Status: Loading, Value: zero})

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		value, err := fn(ctx)
		if err != nil {
			l.logger.Warn("async load failed", zap.Error(err))
			l.dispatch(State[T]{Status: Failed, Value: zero})
			return
		}
		l.dispatch(State[T]{Status: Success, Value: value})
	}()
}

// Reset returns a mounted loader to Idle.
func (l *Loader[T]) Reset() {
	var zero T
	l.dispatch(State[T]{Status: Idle, Value: zero})
}

func (l *Loader[T]) dispatch(s State[T]) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.mounted {
		return
	}
	l.state = s
	if l.onApply != nil {
		l.onApply(s)
	}
}

// Snapshot returns the current state.
func (l *Loader[T]) Snapshot() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Unmount stops applying results. Outstanding fetches keep running; their
// results are discarded.
func (l *Loader[T]) Unmount() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mounted = false
}

// Mounted reports whether results are still applied.
func (l *Loader[T]) Mounted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mounted
}

// Wait blocks until every fetch started by Run has returned.
func (l *Loader[T]) Wait() {
	l.wg.Wait()
}
