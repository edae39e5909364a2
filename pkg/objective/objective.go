package objective

import (
	"fmt"
	"math"
)

// Form selects how the three metric scores are combined.
type Form string

const (
	// FormRatio is the weighted sum of target-normalized ratio scores.
	FormRatio Form = "ratio"
	// FormLogPower replaces the raw power ratio with a log-scaled term and
	// adds capped squared penalties for target violations, keeping the
	// search landscape bounded.
	FormLogPower Form = "log_power"
)

// DefaultEpsilon guards every division against zero denominators.
const DefaultEpsilon = 1e-9

// DefaultPenaltyCap bounds each squared violation penalty in the log-power form.
const DefaultPenaltyCap = 50.0

// Config holds the static targets and weights of the weighted objective.
// It is immutable for the duration of a run and passed explicitly into
// scoring; higher scores are better.
type Config struct {
	DepthTarget  float64 `yaml:"depth_target"`
	OffsetTarget float64 `yaml:"offset_target"`
	PowerTarget  float64 `yaml:"power_target"`

	DepthWeight  float64 `yaml:"depth_weight"`
	OffsetWeight float64 `yaml:"offset_weight"`
	PowerWeight  float64 `yaml:"power_weight"`

	Epsilon    float64 `yaml:"epsilon,omitempty"`
	Form       Form    `yaml:"form,omitempty"`
	PenaltyCap float64 `yaml:"penalty_cap,omitempty"`
}

// DefaultConfig returns the historical targets and weights for the rod trap:
// at least 5 eV of trap depth, ion offset near zero, about 1 W of RF drive.
func DefaultConfig() Config {
	return Config{
		DepthTarget:  5.0,
		OffsetTarget: 0.001,
		PowerTarget:  1000.0,
		DepthWeight:  1.0,
		OffsetWeight: 10.0,
		PowerWeight:  0.8,
		Epsilon:      DefaultEpsilon,
		Form:         FormRatio,
		PenaltyCap:   DefaultPenaltyCap,
	}
}

// Validate checks the configuration for usable targets and weights.
func (c Config) Validate() error {
	if c.DepthTarget <= 0 || c.OffsetTarget <= 0 || c.PowerTarget <= 0 {
		return fmt.Errorf("objective targets must be positive")
	}
	if c.DepthWeight < 0 || c.OffsetWeight < 0 || c.PowerWeight < 0 {
		return fmt.Errorf("objective weights cannot be negative")
	}
	switch c.Form {
	case "", FormRatio, FormLogPower:
	default:
		return fmt.Errorf("unknown objective form: %s", c.Form)
	}
	return nil
}

func (c Config) epsilon() float64 {
	if c.Epsilon > 0 {
		return c.Epsilon
	}
	return DefaultEpsilon
}

func (c Config) penaltyCap() float64 {
	if c.PenaltyCap > 0 {
		return c.PenaltyCap
	}
	return DefaultPenaltyCap
}

// Score combines trap depth (eV), ion positional offset (mm), and estimated
// RF power (mW) into one scalar. Deeper traps, smaller offsets, and lower
// power all increase the score.
func (c Config) Score(depthEV, offsetMM, powerMW float64) float64 {
	if c.Form == FormLogPower {
		return c.scoreLogPower(depthEV, offsetMM, powerMW)
	}
	return c.scoreRatio(depthEV, offsetMM, powerMW)
}

// scoreRatio normalizes each metric against its target and returns the
// weighted sum. The offset and power terms are inverted so smaller values
// score higher, unbounded as the metric approaches zero.
func (c Config) scoreRatio(depthEV, offsetMM, powerMW float64) float64 {
	eps := c.epsilon()

	depthScore := depthEV / (c.DepthTarget + eps)
	offsetScore := (c.OffsetTarget + eps) / (offsetMM + eps)
	powerScore := (c.PowerTarget + eps) / (powerMW + eps)

	return c.DepthWeight*depthScore + c.OffsetWeight*offsetScore + c.PowerWeight*powerScore
}

// scoreLogPower keeps the depth and offset ratio terms but scores power by
// its log-distance from the target, and subtracts squared penalties (each
// capped) when a metric violates its target. The cap keeps a wildly infeasible
// trial from flattening the landscape around it.
func (c Config) scoreLogPower(depthEV, offsetMM, powerMW float64) float64 {
	eps := c.epsilon()
	cap := c.penaltyCap()

	depthScore := depthEV / (c.DepthTarget + eps)
	offsetScore := (c.OffsetTarget + eps) / (offsetMM + eps)

	logDist := math.Abs(math.Log10((powerMW + eps) / (c.PowerTarget + eps)))
	powerScore := 1.0 / (1.0 + logDist)

	score := c.DepthWeight*depthScore + c.OffsetWeight*offsetScore + c.PowerWeight*powerScore

	if depthEV < c.DepthTarget {
		v := (c.DepthTarget - depthEV) / (c.DepthTarget + eps)
		score -= math.Min(cap, v*v)
	}
	if offsetMM > c.OffsetTarget {
		v := (offsetMM - c.OffsetTarget) / (c.OffsetTarget + eps)
		score -= math.Min(cap, v*v)
	}
	if powerMW > c.PowerTarget {
		v := (powerMW - c.PowerTarget) / (c.PowerTarget + eps)
		score -= math.Min(cap, v*v)
	}

	return score
}
