package trial

// Outcome tags how a trial concluded. Failure outcomes are recovered locally
// and converted to the penalty score; they never abort the surrounding search.
type Outcome string

const (
	// OutcomeOK means the solve succeeded, all metrics were extracted, and
	// the metrics passed the plausibility bounds.
	OutcomeOK Outcome = "ok"
	// OutcomeSolveFailed means the engine rejected the parameter set or the
	// solver did not converge.
	OutcomeSolveFailed Outcome = "solve_failed"
	// OutcomeMetricMissing means the solve succeeded but at least one
	// required scalar could not be evaluated.
	OutcomeMetricMissing Outcome = "metric_missing"
	// OutcomeImplausible means a metric violated a domain sanity bound.
	OutcomeImplausible Outcome = "implausible"
)

// Metric is one extracted scalar output. Valid is false when the engine could
// not evaluate the expression; the value is then meaningless.
type Metric struct {
	Value float64
	Valid bool
}

// MetricNames is the fixed set of scalar outputs extracted per trial, in log
// column order.
var MetricNames = []string{"depth_eV", "offset_mm", "P_est_mW"}

// Record is the write-once result of a single trial. It is serialized to the
// log exactly once, immediately after the trial, and never mutated afterward.
type Record struct {
	// Params holds the physical parameter vector in space declaration order,
	// after any feasibility correction.
	Params []float64

	Depth  Metric
	Offset Metric
	Power  Metric

	Outcome Outcome
	// Score is the domain score (higher is better); the penalty sentinel for
	// any non-OK outcome.
	Score float64
}
