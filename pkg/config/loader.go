package config

import (
	"fmt"
	"os"
)

// LoadStudy loads and parses a study file
func LoadStudy(path string) (*Study, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read study file %s: %w", path, err)
	}
	study, err := ParseStudyYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse study file %s: %w", path, err)
	}
	return study, nil
}

// validateStudy performs validation on the study configuration
func validateStudy(s *Study) error {
	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[s.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", s.LogLevel)
	}

	// Validate parameters
	if len(s.Parameters) == 0 {
		return fmt.Errorf("at least one parameter must be defined")
	}
	paramNames := make(map[string]bool)
	for _, p := range s.Parameters {
		if p.Name == "" {
			return fmt.Errorf("parameter name cannot be empty")
		}
		if paramNames[p.Name] {
			return fmt.Errorf("duplicate parameter name: %s", p.Name)
		}
		paramNames[p.Name] = true
		if p.Low >= p.High {
			return fmt.Errorf("parameter %s: low bound %g must be below high bound %g", p.Name, p.Low, p.High)
		}
		if p.Baseline < p.Low || p.Baseline > p.High {
			return fmt.Errorf("parameter %s: baseline %g outside bounds [%g, %g]", p.Name, p.Baseline, p.Low, p.High)
		}
	}

	// Validate objective
	if err := s.Objective.Validate(); err != nil {
		return fmt.Errorf("objective validation failed: %w", err)
	}

	// Validate sanity bounds if present
	if s.Sanity != nil {
		if s.Sanity.MaxOffsetMM <= 0 {
			return fmt.Errorf("sanity max_offset_mm must be positive, got %g", s.Sanity.MaxOffsetMM)
		}
		if s.Sanity.MinDepthEV < 0 {
			return fmt.Errorf("sanity min_depth_ev cannot be negative, got %g", s.Sanity.MinDepthEV)
		}
		if s.Sanity.MinPowerMW < 0 {
			return fmt.Errorf("sanity min_power_mw cannot be negative, got %g", s.Sanity.MinPowerMW)
		}
	}

	// Validate constraint if present
	if s.Constraint != nil {
		if err := validateConstraint(s.Constraint, paramNames); err != nil {
			return fmt.Errorf("constraint validation failed: %w", err)
		}
	}

	// Validate engine
	if s.Engine.Type != "bridge" && s.Engine.Type != "fake" {
		return fmt.Errorf("engine type must be 'bridge' or 'fake', got %s", s.Engine.Type)
	}
	if s.Engine.Type == "bridge" && len(s.Engine.BridgeCommand) == 0 {
		return fmt.Errorf("engine bridge_command is required for the bridge engine")
	}
	if s.Engine.Cores < 0 {
		return fmt.Errorf("engine cores cannot be negative, got %d", s.Engine.Cores)
	}

	// Validate optimizer
	if err := validateOptimizer(&s.Optimizer); err != nil {
		return fmt.Errorf("optimizer validation failed: %w", err)
	}

	return nil
}

// validateConstraint validates the feasibility constraint configuration
func validateConstraint(c *Constraint, paramNames map[string]bool) error {
	if c.Variant != ConstraintVariantFixed && c.Variant != ConstraintVariantPadded {
		return fmt.Errorf("variant must be '%s' or '%s', got %s", ConstraintVariantFixed, ConstraintVariantPadded, c.Variant)
	}
	if c.SphereMult <= 0 {
		return fmt.Errorf("sphere_mult must be positive, got %g", c.SphereMult)
	}
	if c.Variant == ConstraintVariantPadded {
		if c.SafetyFactor < 1 {
			return fmt.Errorf("safety_factor must be at least 1, got %g", c.SafetyFactor)
		}
		if c.MinMult <= 0 || c.MaxMult <= 0 || c.MinMult > c.MaxMult {
			return fmt.Errorf("min_mult and max_mult must be positive with min_mult <= max_mult, got %g and %g", c.MinMult, c.MaxMult)
		}
	}
	if !c.Enabled {
		return nil
	}
	// The four core roles must resolve to declared parameters; thickness and
	// endcap radius are optional.
	for _, role := range []struct{ label, name string }{
		{"spacing_param", c.SpacingParam},
		{"radius_param", c.RadiusParam},
		{"length_param", c.LengthParam},
		{"offset_param", c.OffsetParam},
	} {
		if !paramNames[role.name] {
			return fmt.Errorf("%s references unknown parameter: %s", role.label, role.name)
		}
	}
	return nil
}

// validateOptimizer validates the optimizer configuration
func validateOptimizer(o *Optimizer) error {
	switch o.Algorithm {
	case AlgorithmNelderMead, AlgorithmDifferentialEvolution:
	default:
		return fmt.Errorf("unknown algorithm: %s", o.Algorithm)
	}
	if o.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", o.MaxIterations)
	}
	if o.XTol < 0 || o.FTol < 0 {
		return fmt.Errorf("tolerances cannot be negative")
	}
	if o.Algorithm == AlgorithmDifferentialEvolution {
		if o.PopulationSize < 4 {
			return fmt.Errorf("population_size must be at least 4, got %d", o.PopulationSize)
		}
		if o.MutationFactor <= 0 || o.MutationFactor > 2 {
			return fmt.Errorf("mutation_factor must be in (0, 2], got %g", o.MutationFactor)
		}
		if o.CrossoverProb <= 0 || o.CrossoverProb > 1 {
			return fmt.Errorf("crossover_prob must be in (0, 1], got %g", o.CrossoverProb)
		}
	}
	return nil
}
