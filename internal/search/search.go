package search

import "context"

// Objective is the scalar cost function supplied by the trial evaluator.
// Lower values are better; the function itself never fails (invalid trials
// come back as a large penalty value).
type Objective func(ctx context.Context, x []float64) float64

// Result contains the final state of a search.
type Result struct {
	// X is the best point found, in the searched coordinate system.
	X []float64
	// Score is the objective value at X.
	Score float64
	// Iterations counts optimizer iterations; Evaluations counts objective
	// calls, which is the number of trials run.
	Iterations  int
	Evaluations int
	Converged   bool
	Reason      string
}

// Minimizer is a derivative-free optimizer over a fixed-dimension box.
type Minimizer interface {
	// Minimize searches from x0 and returns the best point found. The
	// context cancels the search between evaluations; the best-so-far result
	// is still returned.
	Minimize(ctx context.Context, obj Objective, x0 []float64) (*Result, error)

	// Name returns the optimizer's name.
	Name() string
}
