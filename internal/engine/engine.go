package engine

import (
	"context"
	"errors"
)

// Engine is the narrow scripting surface of the external simulation tool.
// One Engine holds one long-lived model session; it is never accessed
// concurrently. Solve failures and unknown expressions are recoverable and
// reported through the sentinel errors below; anything else is fatal to the
// session.
type Engine interface {
	// SetParameter sets a named scalar parameter in the model.
	SetParameter(name string, value float64) error

	// Solve runs the configured study. A solver failure is reported as an
	// error wrapping ErrSolveFailed.
	Solve(ctx context.Context) error

	// Evaluate evaluates a named scalar expression against the last solution.
	// A missing expression is reported as an error wrapping
	// ErrExpressionNotFound, not a session fault.
	Evaluate(name string) (float64, error)

	// Parameters lists the model's named parameters and their current values.
	Parameters() (map[string]float64, error)

	// Save persists the model file.
	Save() error

	// Close releases the session. Safe to call more than once.
	Close() error
}

var (
	// ErrSolveFailed indicates the engine reported a solver failure for the
	// current parameter set. Recoverable: the trial is penalized, the session
	// lives on.
	ErrSolveFailed = errors.New("engine solve failed")

	// ErrExpressionNotFound indicates a scalar expression could not be
	// evaluated. Recoverable per metric.
	ErrExpressionNotFound = errors.New("expression not found")

	// ErrNoModelFile indicates no candidate model file exists in the search
	// directory. Fatal; the CLI maps it to a distinct exit code.
	ErrNoModelFile = errors.New("no model file found")

	// ErrClosed indicates the engine session has already been torn down.
	ErrClosed = errors.New("engine session closed")
)
