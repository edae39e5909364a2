package config

import (
	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/pkg/objective"
)

// Study is the complete description of one optimization run: the parameter
// space, the objective, the geometric constraint, the engine session, and the
// optimizer budget.
type Study struct {
	LogLevel   string           `yaml:"log_level,omitempty"`
	Parameters []Parameter      `yaml:"parameters"`
	Objective  objective.Config `yaml:"objective"`
	Sanity     *SanityBounds    `yaml:"sanity,omitempty"`
	Constraint *Constraint      `yaml:"constraint,omitempty"`
	Engine     Engine           `yaml:"engine"`
	Optimizer  Optimizer        `yaml:"optimizer"`
	Log        Log              `yaml:"log"`
}

// Parameter declares one swept parameter with its physical bounds and the
// baseline value used to seed the search.
type Parameter struct {
	Name     string  `yaml:"name"`
	Low      float64 `yaml:"low"`
	High     float64 `yaml:"high"`
	Baseline float64 `yaml:"baseline"`
}

// SanityBounds are domain plausibility thresholds. A trial whose metrics
// violate any of them is forced to the penalty score.
type SanityBounds struct {
	MaxOffsetMM float64 `yaml:"max_offset_mm"`
	MinDepthEV  float64 `yaml:"min_depth_ev"`
	MinPowerMW  float64 `yaml:"min_power_mw"`
}

// Constraint configures the inscribed-sphere feasibility check.
type Constraint struct {
	Enabled bool `yaml:"enabled"`
	// Variant is "fixed" (sphere radius = sphere_mult * rod radius) or
	// "padded" (clamped, safety-padded radius).
	Variant          string  `yaml:"variant,omitempty"`
	SphereMult       float64 `yaml:"sphere_mult,omitempty"`
	SafetyFactor     float64 `yaml:"safety_factor,omitempty"`
	MinMult          float64 `yaml:"min_mult,omitempty"`
	MaxMult          float64 `yaml:"max_mult,omitempty"`
	IncludeEndcapRad bool    `yaml:"include_endcap_rad,omitempty"`

	// Parameter names carrying the geometric roles; defaults cover the rod
	// trap models.
	SpacingParam   string `yaml:"spacing_param,omitempty"`
	RadiusParam    string `yaml:"radius_param,omitempty"`
	LengthParam    string `yaml:"length_param,omitempty"`
	OffsetParam    string `yaml:"offset_param,omitempty"`
	ThickParam     string `yaml:"thick_param,omitempty"`
	EndcapRadParam string `yaml:"endcap_rad_param,omitempty"`
}

// Engine configures the simulation engine session.
type Engine struct {
	// Type selects the engine adapter: "bridge" or "fake".
	Type string `yaml:"type,omitempty"`
	// ModelFile is the preferred model filename looked up in ModelDir.
	ModelFile string `yaml:"model_file,omitempty"`
	// ModelExt is the fallback extension searched when ModelFile is absent.
	ModelExt string `yaml:"model_ext,omitempty"`
	ModelDir string `yaml:"model_dir,omitempty"`
	// BridgeCommand is the external bridge process and its arguments.
	BridgeCommand []string `yaml:"bridge_command,omitempty"`
	Cores         int      `yaml:"cores,omitempty"`
	Version       string   `yaml:"version,omitempty"`
}

// Optimizer configures the derivative-free search.
type Optimizer struct {
	// Algorithm is "nelder_mead" or "differential_evolution".
	Algorithm     string  `yaml:"algorithm,omitempty"`
	MaxIterations int     `yaml:"max_iterations"`
	XTol          float64 `yaml:"xtol,omitempty"`
	FTol          float64 `yaml:"ftol,omitempty"`
	// Normalized searches the unit cube instead of physical units.
	Normalized     bool  `yaml:"normalized,omitempty"`
	PopulationSize int   `yaml:"population_size,omitempty"`
	Seed           int64 `yaml:"seed,omitempty"`
	// MutationFactor and CrossoverProb apply to differential evolution.
	MutationFactor float64 `yaml:"mutation_factor,omitempty"`
	CrossoverProb  float64 `yaml:"crossover_prob,omitempty"`
}

// Log configures the trial log.
type Log struct {
	Path string `yaml:"path,omitempty"`
}

// Algorithm names accepted by Optimizer.Algorithm.
const (
	AlgorithmNelderMead            = "nelder_mead"
	AlgorithmDifferentialEvolution = "differential_evolution"
)

// Constraint variants accepted by Constraint.Variant.
const (
	ConstraintVariantFixed  = "fixed"
	ConstraintVariantPadded = "padded"
)

// DefaultStudy returns the historical ten-parameter rod trap study: bounds,
// baseline, targets, and weights as last tuned against the 3D pole trap model.
func DefaultStudy() *Study {
	s := &Study{
		LogLevel: "info",
		Parameters: []Parameter{
			{Name: "V_rf", Low: 0, High: 1000, Baseline: 300},
			{Name: "V_dc", Low: 0, High: 500, Baseline: 50},
			{Name: "V_endcap", Low: 0, High: 500, Baseline: 10},
			{Name: "rod_spacing", Low: 0.003, High: 0.1, Baseline: 0.005},
			{Name: "rod_radius", Low: 0.0005, High: 0.008, Baseline: 0.002},
			{Name: "rod_length", Low: 0.02, High: 0.1, Baseline: 0.04},
			{Name: "endcap_offset", Low: 0.0, High: 0.01, Baseline: 0.001},
			{Name: "endcap_rad", Low: 0.005, High: 0.01, Baseline: 0.006},
			{Name: "endcap_thick", Low: 0.0001, High: 0.001, Baseline: 0.0005},
			{Name: "f", Low: 1e6, High: 1e8, Baseline: 1e7},
		},
		Objective: objective.DefaultConfig(),
		Sanity: &SanityBounds{
			MaxOffsetMM: 15.0,
			MinDepthEV:  0.0001,
			MinPowerMW:  10.0,
		},
		Constraint: &Constraint{
			Enabled:    true,
			Variant:    ConstraintVariantFixed,
			SphereMult: 20.0,
		},
		Engine: Engine{
			Type:          "bridge",
			ModelFile:     "3d_pole_trap - Copy.mph",
			ModelExt:      ".mph",
			ModelDir:      ".",
			BridgeCommand: []string{"python", "comsol_bridge.py"},
			Cores:         8,
			Version:       "6.3",
		},
		Optimizer: Optimizer{
			Algorithm:     AlgorithmNelderMead,
			MaxIterations: 2000,
			XTol:          1e-9,
			FTol:          1e-9,
			Normalized:    true,
		},
		Log: Log{Path: "optimization_log.csv"},
	}
	applyDefaults(s)
	return s
}
