package search

import (
	"context"
	"fmt"
	"math/rand"
)

// DifferentialEvolution is a rand/1/bin population minimizer over a box. The
// box defaults to the unit cube, which matches searching the normalized
// parameter space.
type DifferentialEvolution struct {
	MaxIterations  int
	PopulationSize int
	// MutationFactor (F) scales the difference vector; CrossoverProb (CR) is
	// the per-component crossover probability.
	MutationFactor float64
	CrossoverProb  float64
	// Low and High bound every component; nil means [0,1].
	Low  []float64
	High []float64
	// Seed makes the run reproducible; zero seeds from the default source.
	Seed int64
	// FTol stops the search once the population's objective spread falls
	// below it; zero disables the check.
	FTol float64
}

// NewDifferentialEvolution creates a DE minimizer with the given budget.
func NewDifferentialEvolution(maxIterations, populationSize int, mutationFactor, crossoverProb float64, seed int64) *DifferentialEvolution {
	return &DifferentialEvolution{
		MaxIterations:  maxIterations,
		PopulationSize: populationSize,
		MutationFactor: mutationFactor,
		CrossoverProb:  crossoverProb,
		Seed:           seed,
	}
}

// Name returns the optimizer name.
func (de *DifferentialEvolution) Name() string { return "differential_evolution" }

func (de *DifferentialEvolution) bounds(n int) (low, high []float64) {
	low, high = de.Low, de.High
	if low == nil {
		low = make([]float64, n)
	}
	if high == nil {
		high = make([]float64, n)
		for i := range high {
			high[i] = 1.0
		}
	}
	return low, high
}

// Minimize evolves a population seeded with x0 plus uniform random members.
func (de *DifferentialEvolution) Minimize(ctx context.Context, obj Objective, x0 []float64) (*Result, error) {
	n := len(x0)
	if n == 0 {
		return nil, fmt.Errorf("empty starting point")
	}
	if de.MaxIterations <= 0 {
		return nil, fmt.Errorf("max iterations must be positive, got %d", de.MaxIterations)
	}
	if de.PopulationSize < 4 {
		return nil, fmt.Errorf("population size must be at least 4, got %d", de.PopulationSize)
	}
	low, high := de.bounds(n)
	if len(low) != n || len(high) != n {
		return nil, fmt.Errorf("bounds dimension mismatch")
	}

	var rng *rand.Rand
	if de.Seed != 0 {
		rng = rand.New(rand.NewSource(de.Seed))
	} else {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	evaluations := 0
	eval := func(x []float64) float64 {
		evaluations++
		return obj(ctx, x)
	}

	// Member 0 is the baseline; the rest sample the box uniformly.
	pop := make([][]float64, de.PopulationSize)
	scores := make([]float64, de.PopulationSize)
	pop[0] = clampTo(append([]float64(nil), x0...), low, high)
	for i := 1; i < de.PopulationSize; i++ {
		member := make([]float64, n)
		for j := range member {
			member[j] = low[j] + rng.Float64()*(high[j]-low[j])
		}
		pop[i] = member
	}
	for i := range pop {
		scores[i] = eval(pop[i])
	}

	best := 0
	for i := range scores {
		if scores[i] < scores[best] {
			best = i
		}
	}

	result := func(iter int, converged bool, reason string) *Result {
		return &Result{
			X:           append([]float64(nil), pop[best]...),
			Score:       scores[best],
			Iterations:  iter,
			Evaluations: evaluations,
			Converged:   converged,
			Reason:      reason,
		}
	}

	trial := make([]float64, n)
	for iter := 1; iter <= de.MaxIterations; iter++ {
		if ctx.Err() != nil {
			return result(iter-1, false, "cancelled"), nil
		}

		for i := range pop {
			a, b, c := de.pickThree(rng, i)

			// rand/1/bin mutation and crossover.
			forced := rng.Intn(n)
			for j := 0; j < n; j++ {
				if j == forced || rng.Float64() < de.CrossoverProb {
					trial[j] = pop[a][j] + de.MutationFactor*(pop[b][j]-pop[c][j])
				} else {
					trial[j] = pop[i][j]
				}
			}
			clampTo(trial, low, high)

			if score := eval(trial); score <= scores[i] {
				copy(pop[i], trial)
				scores[i] = score
				if score < scores[best] {
					best = i
				}
			}
		}

		if de.FTol > 0 {
			minScore, maxScore := scores[0], scores[0]
			for _, s := range scores[1:] {
				if s < minScore {
					minScore = s
				}
				if s > maxScore {
					maxScore = s
				}
			}
			if maxScore-minScore <= de.FTol {
				return result(iter, true, fmt.Sprintf("population converged below ftol=%g", de.FTol)), nil
			}
		}
	}

	return result(de.MaxIterations, false, "max iterations reached"), nil
}

// pickThree draws three distinct population indices, all different from i.
func (de *DifferentialEvolution) pickThree(rng *rand.Rand, i int) (a, b, c int) {
	draw := func(exclude ...int) int {
	retry:
		for {
			v := rng.Intn(de.PopulationSize)
			if v == i {
				continue
			}
			for _, e := range exclude {
				if v == e {
					continue retry
				}
			}
			return v
		}
	}
	a = draw()
	b = draw(a)
	c = draw(a, b)
	return a, b, c
}

// clampTo clips x into the box in place and returns it.
func clampTo(x, low, high []float64) []float64 {
	for j := range x {
		if x[j] < low[j] {
			x[j] = low[j]
		}
		if x[j] > high[j] {
			x[j] = high[j]
		}
	}
	return x
}
