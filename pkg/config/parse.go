package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/pkg/objective"
)

// ParseStudyYAML parses a Study from YAML bytes, applies defaults, and
// validates it. This is used for APIs where the study is provided as payload
// (not via filesystem).
func ParseStudyYAML(data []byte) (*Study, error) {
	var study Study
	if err := yaml.Unmarshal(data, &study); err != nil {
		return nil, fmt.Errorf("failed to parse study yaml: %w", err)
	}

	applyDefaults(&study)
	if err := validateStudy(&study); err != nil {
		return nil, fmt.Errorf("invalid study: %w", err)
	}

	return &study, nil
}

// ParseStudyYAMLString parses a Study from a YAML string and validates it.
func ParseStudyYAMLString(yamlText string) (*Study, error) {
	return ParseStudyYAML([]byte(yamlText))
}

// applyDefaults fills unset optional fields with the historical defaults.
func applyDefaults(s *Study) {
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.Objective.Epsilon == 0 {
		s.Objective.Epsilon = objective.DefaultEpsilon
	}
	if s.Objective.Form == "" {
		s.Objective.Form = objective.FormRatio
	}
	if s.Objective.PenaltyCap == 0 {
		s.Objective.PenaltyCap = objective.DefaultPenaltyCap
	}
	if s.Constraint != nil {
		applyConstraintDefaults(s.Constraint)
	}
	if s.Engine.Type == "" {
		s.Engine.Type = "bridge"
	}
	if s.Engine.ModelExt == "" {
		s.Engine.ModelExt = ".mph"
	}
	if s.Engine.ModelDir == "" {
		s.Engine.ModelDir = "."
	}
	if s.Optimizer.Algorithm == "" {
		s.Optimizer.Algorithm = AlgorithmNelderMead
	}
	if s.Optimizer.MaxIterations == 0 {
		s.Optimizer.MaxIterations = 2000
	}
	if s.Optimizer.XTol == 0 {
		s.Optimizer.XTol = 1e-9
	}
	if s.Optimizer.FTol == 0 {
		s.Optimizer.FTol = 1e-9
	}
	if s.Optimizer.PopulationSize == 0 {
		s.Optimizer.PopulationSize = 15
	}
	if s.Optimizer.MutationFactor == 0 {
		s.Optimizer.MutationFactor = 0.8
	}
	if s.Optimizer.CrossoverProb == 0 {
		s.Optimizer.CrossoverProb = 0.9
	}
	if s.Log.Path == "" {
		s.Log.Path = "optimization_log.csv"
	}
}

func applyConstraintDefaults(c *Constraint) {
	if c.Variant == "" {
		c.Variant = ConstraintVariantFixed
	}
	if c.SphereMult == 0 {
		c.SphereMult = 20.0
	}
	if c.SafetyFactor == 0 {
		c.SafetyFactor = 1.05
	}
	if c.MinMult == 0 {
		c.MinMult = 5.0
	}
	if c.MaxMult == 0 {
		c.MaxMult = 25.0
	}
	if c.SpacingParam == "" {
		c.SpacingParam = "rod_spacing"
	}
	if c.RadiusParam == "" {
		c.RadiusParam = "rod_radius"
	}
	if c.LengthParam == "" {
		c.LengthParam = "rod_length"
	}
	if c.OffsetParam == "" {
		c.OffsetParam = "endcap_offset"
	}
	if c.ThickParam == "" {
		c.ThickParam = "endcap_thick"
	}
	if c.EndcapRadParam == "" {
		c.EndcapRadParam = "endcap_rad"
	}
}

// DefaultConstraint returns the inscribed-sphere constraint for the rod trap
// models, enabled, with the historical multiplier.
func DefaultConstraint() *Constraint {
	c := &Constraint{Enabled: true}
	applyConstraintDefaults(c)
	return c
}
