package trial

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/internal/engine"
	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/pkg/config"
	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/pkg/geometry"
	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/pkg/logger"
	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/pkg/objective"
	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/pkg/params"
)

// PenaltyScore is the sentinel substituted for any invalid trial. The domain
// score is framed as higher-is-better, so the sentinel is a large negative
// value; the minimizing optimizer sees its negation.
const PenaltyScore = -1e6

// Evaluator runs one trial per call: feasibility correction, parameter
// injection, solve, metric extraction, scoring, and logging. All engine
// faults are recovered locally as penalty scores so a single bad trial cannot
// abort the search; exactly one record reaches the sink per call, no matter
// which path a trial takes.
type Evaluator struct {
	space      *params.Space
	eng        engine.Engine
	sink       Sink
	objective  objective.Config
	sanity     *config.SanityBounds
	constraint *geometry.SphereConstraint
	log        *slog.Logger

	trials int
}

// NewEvaluator creates a trial evaluator. A nil constraint disables the
// feasibility correction; a nil sanity disables the plausibility bounds.
func NewEvaluator(space *params.Space, eng engine.Engine, sink Sink, obj objective.Config, sanity *config.SanityBounds, constraint *geometry.SphereConstraint) *Evaluator {
	return &Evaluator{
		space:      space,
		eng:        eng,
		sink:       sink,
		objective:  obj,
		sanity:     sanity,
		constraint: constraint,
		log:        logger.Default,
	}
}

// SetLogger sets the evaluator's logger.
func (e *Evaluator) SetLogger(l *slog.Logger) {
	e.log = l
}

// Trials reports how many trials have been evaluated.
func (e *Evaluator) Trials() int {
	return e.trials
}

// EvaluateNormalized maps a unit-cube vector to physical units and evaluates
// it. Vectors the optimizer pushes outside [0,1] denormalize to out-of-bound
// physical values; the engine and the sanity bounds take care of those.
func (e *Evaluator) EvaluateNormalized(ctx context.Context, y []float64) float64 {
	x, err := e.space.Denormalize(y)
	if err != nil {
		// Dimension mismatch is a programming error in the driver, not a
		// recoverable trial fault.
		panic(err)
	}
	return e.Evaluate(ctx, x)
}

// Evaluate runs one trial for the physical vector x and returns the negated
// score for the minimizing optimizer. It never returns an error: solve
// failures, missing metrics, and implausible results all collapse into the
// penalty sentinel, and the trial is logged regardless.
func (e *Evaluator) Evaluate(ctx context.Context, x []float64) float64 {
	e.trials++

	if e.constraint != nil {
		adjusted, modified := e.constraint.Apply(e.space, x)
		if modified {
			e.log.Info("adjusted parameters to satisfy inscribed-sphere constraint",
				"trial", e.trials)
		}
		x = adjusted
	}

	rec := &Record{
		Params:  append([]float64(nil), x...),
		Outcome: OutcomeOK,
	}

	if err := e.runSolve(ctx, x); err != nil {
		e.log.Warn("trial solve failed", "trial", e.trials, "error", err)
		rec.Outcome = OutcomeSolveFailed
		rec.Score = PenaltyScore
		e.emit(rec)
		return -rec.Score
	}

	rec.Depth = e.tryEvaluate(MetricNames[0])
	rec.Offset = e.tryEvaluate(MetricNames[1])
	rec.Power = e.tryEvaluate(MetricNames[2])

	if !rec.Depth.Valid || !rec.Offset.Valid || !rec.Power.Valid {
		e.log.Warn("missing metric, penalizing trial", "trial", e.trials,
			"depth_ok", rec.Depth.Valid, "offset_ok", rec.Offset.Valid, "power_ok", rec.Power.Valid)
		rec.Outcome = OutcomeMetricMissing
		rec.Score = PenaltyScore
		e.emit(rec)
		return -rec.Score
	}

	if reason := e.implausible(rec); reason != "" {
		e.log.Warn("implausible metric, penalizing trial", "trial", e.trials, "reason", reason,
			"depth_eV", rec.Depth.Value, "offset_mm", rec.Offset.Value, "P_est_mW", rec.Power.Value)
		rec.Outcome = OutcomeImplausible
		rec.Score = PenaltyScore
		e.emit(rec)
		return -rec.Score
	}

	rec.Score = e.objective.Score(rec.Depth.Value, rec.Offset.Value, rec.Power.Value)
	e.log.Debug("trial scored", "trial", e.trials, "score", rec.Score,
		"depth_eV", rec.Depth.Value, "offset_mm", rec.Offset.Value, "P_est_mW", rec.Power.Value)
	e.emit(rec)
	return -rec.Score
}

// runSolve pushes every physical parameter into the engine and triggers one
// solve. All failures on this path are recoverable trial faults.
func (e *Evaluator) runSolve(ctx context.Context, x []float64) error {
	for i, name := range e.space.Names() {
		if err := e.eng.SetParameter(name, x[i]); err != nil {
			return err
		}
	}
	return e.eng.Solve(ctx)
}

// tryEvaluate extracts one scalar; a miss invalidates only that metric.
func (e *Evaluator) tryEvaluate(name string) Metric {
	v, err := e.eng.Evaluate(name)
	if err != nil {
		if !errors.Is(err, engine.ErrExpressionNotFound) {
			e.log.Warn("metric evaluation failed", "metric", name, "error", err)
		}
		return Metric{}
	}
	return Metric{Value: v, Valid: true}
}

// implausible checks the configured domain sanity bounds and names the first
// violated one.
func (e *Evaluator) implausible(rec *Record) string {
	if e.sanity == nil {
		return ""
	}
	if rec.Offset.Value > e.sanity.MaxOffsetMM {
		return "offset too high"
	}
	if rec.Depth.Value < e.sanity.MinDepthEV {
		return "depth too low"
	}
	if rec.Power.Value < e.sanity.MinPowerMW {
		return "power implausibly low"
	}
	return ""
}

// emit writes the record to the sink. A sink failure is logged, not
// propagated: the search result is still valid even if a row is lost.
func (e *Evaluator) emit(rec *Record) {
	if err := e.sink.WriteTrial(rec); err != nil {
		e.log.Error("failed to write trial row", "trial", e.trials, "error", err)
	}
}
