package search

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// NelderMead is a downhill simplex minimizer. It maintains n+1 points in an
// n-dimensional space and walks the simplex through reflection, expansion,
// contraction, and shrink steps until the simplex collapses below the
// tolerances or the iteration budget runs out.
type NelderMead struct {
	MaxIterations int
	// XTol terminates when the simplex spread in every coordinate falls
	// below it; FTol does the same for the objective spread.
	XTol float64
	FTol float64

	// Standard simplex coefficients; zero values fall back to the defaults
	// (1, 2, 0.5, 0.5).
	Reflection  float64
	Expansion   float64
	Contraction float64
	Shrink      float64
}

// NewNelderMead creates a simplex minimizer with the given budget and
// tolerances.
func NewNelderMead(maxIterations int, xtol, ftol float64) *NelderMead {
	return &NelderMead{
		MaxIterations: maxIterations,
		XTol:          xtol,
		FTol:          ftol,
	}
}

// Name returns the optimizer name.
func (nm *NelderMead) Name() string { return "nelder_mead" }

func (nm *NelderMead) coefficients() (alpha, gamma, rho, sigma float64) {
	alpha, gamma, rho, sigma = nm.Reflection, nm.Expansion, nm.Contraction, nm.Shrink
	if alpha == 0 {
		alpha = 1.0
	}
	if gamma == 0 {
		gamma = 2.0
	}
	if rho == 0 {
		rho = 0.5
	}
	if sigma == 0 {
		sigma = 0.5
	}
	return alpha, gamma, rho, sigma
}

// Minimize runs the simplex search from x0.
func (nm *NelderMead) Minimize(ctx context.Context, obj Objective, x0 []float64) (*Result, error) {
	n := len(x0)
	if n == 0 {
		return nil, fmt.Errorf("empty starting point")
	}
	if nm.MaxIterations <= 0 {
		return nil, fmt.Errorf("max iterations must be positive, got %d", nm.MaxIterations)
	}
	alpha, gamma, rho, sigma := nm.coefficients()

	evaluations := 0
	eval := func(x []float64) float64 {
		evaluations++
		return obj(ctx, x)
	}

	// Initial simplex: x0 plus one vertex per dimension, displaced by a
	// relative step (absolute for zero components).
	const (
		nonZeroStep = 0.05
		zeroStep    = 0.00025
	)
	simplex := make([][]float64, n+1)
	scores := make([]float64, n+1)
	simplex[0] = append([]float64(nil), x0...)
	for i := 1; i <= n; i++ {
		vertex := append([]float64(nil), x0...)
		if vertex[i-1] != 0 {
			vertex[i-1] *= 1 + nonZeroStep
		} else {
			vertex[i-1] = zeroStep
		}
		simplex[i] = vertex
	}
	for i := range simplex {
		scores[i] = eval(simplex[i])
	}

	result := func(iter int, converged bool, reason string) *Result {
		best := 0
		for i := range scores {
			if scores[i] < scores[best] {
				best = i
			}
		}
		return &Result{
			X:           append([]float64(nil), simplex[best]...),
			Score:       scores[best],
			Iterations:  iter,
			Evaluations: evaluations,
			Converged:   converged,
			Reason:      reason,
		}
	}

	for iter := 1; iter <= nm.MaxIterations; iter++ {
		if ctx.Err() != nil {
			return result(iter-1, false, "cancelled"), nil
		}

		sortSimplex(simplex, scores)

		if nm.converged(simplex, scores) {
			return result(iter-1, true, fmt.Sprintf("simplex collapsed below xtol=%g ftol=%g", nm.XTol, nm.FTol)), nil
		}

		// Centroid of all vertices but the worst.
		centroid := make([]float64, n)
		for _, vertex := range simplex[:n] {
			for j, v := range vertex {
				centroid[j] += v
			}
		}
		for j := range centroid {
			centroid[j] /= float64(n)
		}

		worst := simplex[n]
		reflected := affine(centroid, worst, 1+alpha, -alpha)
		fReflected := eval(reflected)

		switch {
		case fReflected < scores[0]:
			// Best so far; try to go further in the same direction.
			expanded := affine(centroid, worst, 1+alpha*gamma, -alpha*gamma)
			if fExpanded := eval(expanded); fExpanded < fReflected {
				simplex[n], scores[n] = expanded, fExpanded
			} else {
				simplex[n], scores[n] = reflected, fReflected
			}
		case fReflected < scores[n-1]:
			simplex[n], scores[n] = reflected, fReflected
		default:
			// Contract toward the better of worst/reflected.
			var contracted []float64
			if fReflected < scores[n] {
				contracted = affine(centroid, reflected, 1-rho, rho)
			} else {
				contracted = affine(centroid, worst, 1-rho, rho)
			}
			fContracted := eval(contracted)
			if fContracted < math.Min(fReflected, scores[n]) {
				simplex[n], scores[n] = contracted, fContracted
			} else {
				// Shrink everything toward the best vertex.
				for i := 1; i <= n; i++ {
					for j := range simplex[i] {
						simplex[i][j] = simplex[0][j] + sigma*(simplex[i][j]-simplex[0][j])
					}
					scores[i] = eval(simplex[i])
				}
			}
		}
	}

	sortSimplex(simplex, scores)
	return result(nm.MaxIterations, false, "max iterations reached"), nil
}

// converged reports whether the simplex spread is below both tolerances.
func (nm *NelderMead) converged(simplex [][]float64, scores []float64) bool {
	maxF := 0.0
	for _, s := range scores[1:] {
		if d := math.Abs(s - scores[0]); d > maxF {
			maxF = d
		}
	}
	maxX := 0.0
	for _, vertex := range simplex[1:] {
		for j, v := range vertex {
			if d := math.Abs(v - simplex[0][j]); d > maxX {
				maxX = d
			}
		}
	}
	return maxF <= nm.FTol && maxX <= nm.XTol
}

// sortSimplex orders vertices and scores together, best first.
func sortSimplex(simplex [][]float64, scores []float64) {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] < scores[idx[b]] })

	sortedSimplex := make([][]float64, len(simplex))
	sortedScores := make([]float64, len(scores))
	for i, j := range idx {
		sortedSimplex[i] = simplex[j]
		sortedScores[i] = scores[j]
	}
	copy(simplex, sortedSimplex)
	copy(scores, sortedScores)
}

// affine computes a*centroid + b*point component-wise.
func affine(centroid, point []float64, a, b float64) []float64 {
	out := make([]float64, len(centroid))
	for j := range out {
		out[j] = a*centroid[j] + b*point[j]
	}
	return out
}
