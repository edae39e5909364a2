package engine

import (
	"context"
	"fmt"
	"sync"
)

// Fake is an in-memory engine used for tests and dry runs. Scalar outputs are
// produced by an optional SolveFunc hook from the current parameter values;
// without a hook every evaluation reports a missing expression, which
// exercises the penalty path end to end.
type Fake struct {
	mu sync.Mutex

	// SolveFunc computes the scalar outputs for the current parameters.
	// Returning an error wrapping ErrSolveFailed simulates a solver failure.
	SolveFunc func(params map[string]float64) (map[string]float64, error)

	params  map[string]float64
	outputs map[string]float64

	solveCalls int
	saveCalls  int
	closed     bool
}

// NewFake creates a fake engine with an empty parameter store.
func NewFake() *Fake {
	return &Fake{
		params:  make(map[string]float64),
		outputs: make(map[string]float64),
	}
}

// SetParameter stores the value in the in-memory parameter table.
func (f *Fake) SetParameter(name string, value float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	f.params[name] = value
	return nil
}

// Solve invokes SolveFunc with a copy of the current parameters.
func (f *Fake) Solve(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f.solveCalls++
	f.outputs = make(map[string]float64)

	if f.SolveFunc == nil {
		return nil
	}
	outputs, err := f.SolveFunc(f.snapshotLocked())
	if err != nil {
		return err
	}
	for name, v := range outputs {
		f.outputs[name] = v
	}
	return nil
}

// Evaluate returns a scalar produced by the last solve.
func (f *Fake) Evaluate(name string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, ErrClosed
	}
	v, ok := f.outputs[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrExpressionNotFound, name)
	}
	return v, nil
}

// Parameters returns a copy of the parameter table.
func (f *Fake) Parameters() (map[string]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, ErrClosed
	}
	return f.snapshotLocked(), nil
}

// Save records the save call; the fake has nothing to persist.
func (f *Fake) Save() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	f.saveCalls++
	return nil
}

// Close marks the session closed. Subsequent calls are no-ops.
func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// SolveCalls reports how many solves were triggered.
func (f *Fake) SolveCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.solveCalls
}

// SaveCalls reports how many saves were requested.
func (f *Fake) SaveCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saveCalls
}

// Closed reports whether the session was torn down.
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Fake) snapshotLocked() map[string]float64 {
	snapshot := make(map[string]float64, len(f.params))
	for name, v := range f.params {
		snapshot[name] = v
	}
	return snapshot
}
