package driver

import (
	"context"
	"fmt"

	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/internal/engine"
	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/internal/search"
	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/internal/trial"
	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/pkg/config"
	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/pkg/geometry"
	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/pkg/logger"
	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/pkg/params"
)

// Result summarizes a completed run.
type Result struct {
	// BestParams is the best physical configuration found.
	BestParams []float64
	// BestScore is its domain score (higher is better).
	BestScore float64
	// ParamNames matches BestParams component for component.
	ParamNames []string
	Search     *search.Result
	Trials     int
	LogPath    string
}

// Run executes one full optimization run: engine session, trial log, search,
// teardown. The engine session is opened once, held for the whole run, and
// released on every exit path. One trial runs at a time.
func Run(ctx context.Context, study *config.Study) (*Result, error) {
	space, err := buildSpace(study)
	if err != nil {
		return nil, err
	}

	eng, err := openEngine(ctx, study)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := eng.Close(); cerr != nil {
			logger.Warn("engine teardown failed", "error", cerr)
		}
	}()

	// Mirror the model's view of its parameters before touching anything;
	// a mismatch here usually means the wrong model file was picked up.
	if modelParams, perr := eng.Parameters(); perr == nil {
		for _, name := range space.Names() {
			if v, ok := modelParams[name]; ok {
				logger.Debug("model parameter", "name", name, "value", v)
			} else {
				logger.Warn("parameter missing from model", "name", name)
			}
		}
	} else {
		logger.Warn("could not list model parameters", "error", perr)
	}

	sink, err := trial.NewCSVSink(study.Log.Path, space.Names())
	if err != nil {
		return nil, err
	}
	defer sink.Close()

	evaluator := trial.NewEvaluator(space, eng, sink, study.Objective, study.Sanity, buildConstraint(study))

	searchResult, err := runSearch(ctx, study, space, evaluator)
	if err != nil {
		return nil, err
	}

	best := searchResult.X
	if study.Optimizer.Normalized {
		best, err = space.Denormalize(best)
		if err != nil {
			return nil, err
		}
	}

	logger.Info("optimization finished",
		"algorithm", study.Optimizer.Algorithm,
		"iterations", searchResult.Iterations,
		"trials", evaluator.Trials(),
		"converged", searchResult.Converged,
		"reason", searchResult.Reason,
		"best_score", -searchResult.Score)
	for i, name := range space.Names() {
		logger.Info("best parameter", "name", name, "value", best[i])
	}

	if err := eng.Save(); err != nil {
		return nil, fmt.Errorf("failed to save model: %w", err)
	}

	return &Result{
		BestParams: best,
		BestScore:  -searchResult.Score,
		ParamNames: space.Names(),
		Search:     searchResult,
		Trials:     evaluator.Trials(),
		LogPath:    study.Log.Path,
	}, nil
}

// buildSpace converts the study's parameter declarations into a Space.
func buildSpace(study *config.Study) (*params.Space, error) {
	specs := make([]params.Spec, len(study.Parameters))
	for i, p := range study.Parameters {
		specs[i] = params.Spec{Name: p.Name, Low: p.Low, High: p.High, Baseline: p.Baseline}
	}
	space, err := params.NewSpace(specs)
	if err != nil {
		return nil, fmt.Errorf("invalid parameter space: %w", err)
	}
	return space, nil
}

// buildConstraint maps the study's constraint block onto the geometric
// corrector; nil when disabled.
func buildConstraint(study *config.Study) *geometry.SphereConstraint {
	c := study.Constraint
	if c == nil || !c.Enabled {
		return nil
	}
	return &geometry.SphereConstraint{
		SpacingParam:     c.SpacingParam,
		RadiusParam:      c.RadiusParam,
		LengthParam:      c.LengthParam,
		OffsetParam:      c.OffsetParam,
		ThickParam:       c.ThickParam,
		EndcapRadParam:   c.EndcapRadParam,
		SphereMult:       c.SphereMult,
		Padded:           c.Variant == config.ConstraintVariantPadded,
		SafetyFactor:     c.SafetyFactor,
		MinMult:          c.MinMult,
		MaxMult:          c.MaxMult,
		IncludeEndcapRad: c.IncludeEndcapRad,
	}
}

// openEngine opens the configured engine session. For the bridge engine this
// locates the model file first; a missing model is reported with
// engine.ErrNoModelFile so the CLI can map it to its distinct exit code.
func openEngine(ctx context.Context, study *config.Study) (engine.Engine, error) {
	switch study.Engine.Type {
	case "fake":
		logger.Info("using surrogate engine, results are synthetic")
		return engine.NewSurrogate(), nil
	case "bridge":
		modelPath, err := engine.FindModelFile(study.Engine.ModelDir, study.Engine.ModelFile, study.Engine.ModelExt)
		if err != nil {
			return nil, err
		}
		return engine.StartBridge(ctx, engine.BridgeConfig{
			Command:   study.Engine.BridgeCommand,
			ModelPath: modelPath,
			Cores:     study.Engine.Cores,
			Version:   study.Engine.Version,
		})
	default:
		return nil, fmt.Errorf("unknown engine type: %s", study.Engine.Type)
	}
}

// runSearch seeds the optimizer at the baseline and runs it against the
// evaluator, in normalized or physical coordinates per the study.
func runSearch(ctx context.Context, study *config.Study, space *params.Space, evaluator *trial.Evaluator) (*search.Result, error) {
	var (
		objective search.Objective
		x0        []float64
	)
	if study.Optimizer.Normalized {
		y0, err := space.Normalize(space.Baseline())
		if err != nil {
			return nil, err
		}
		x0 = y0
		objective = evaluator.EvaluateNormalized
	} else {
		x0 = space.Baseline()
		objective = evaluator.Evaluate
	}

	minimizer, err := buildMinimizer(study)
	if err != nil {
		return nil, err
	}

	logger.Info("starting search",
		"algorithm", minimizer.Name(),
		"dimensions", space.Len(),
		"max_iterations", study.Optimizer.MaxIterations,
		"normalized", study.Optimizer.Normalized)

	return minimizer.Minimize(ctx, objective, x0)
}

// buildMinimizer constructs the configured optimizer.
func buildMinimizer(study *config.Study) (search.Minimizer, error) {
	o := study.Optimizer
	switch o.Algorithm {
	case config.AlgorithmNelderMead:
		return search.NewNelderMead(o.MaxIterations, o.XTol, o.FTol), nil
	case config.AlgorithmDifferentialEvolution:
		de := search.NewDifferentialEvolution(o.MaxIterations, o.PopulationSize, o.MutationFactor, o.CrossoverProb, o.Seed)
		de.FTol = o.FTol
		if !o.Normalized {
			// Physical-space DE needs the real box, not the unit cube.
			low := make([]float64, len(study.Parameters))
			high := make([]float64, len(study.Parameters))
			for i, p := range study.Parameters {
				low[i], high[i] = p.Low, p.High
			}
			de.Low, de.High = low, high
		}
		return de, nil
	default:
		return nil, fmt.Errorf("unknown algorithm: %s", o.Algorithm)
	}
}
