package geometry

import (
	"math"

	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/pkg/params"
	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/pkg/utils"
)

// fitTolerance absorbs floating-point noise in the fit check so that a
// geometry sitting exactly on the sphere surface is treated as feasible.
const fitTolerance = 1e-12

// SphereConstraint keeps the cylindrical pole assembly derived from a trial's
// dimensions inside an enclosing sphere. The cylinder radius is half the rod
// spacing plus the rod radius; its height is the rod length plus twice the
// endcap offset and thickness. When the assembly does not fit, the length-like
// dimensions (spacing, length, endcap offset) are shrunk uniformly by the
// smallest factor that puts the cylinder corner back on the sphere surface.
// The rod radius and all electrical parameters are never touched.
type SphereConstraint struct {
	// Parameter names carrying the geometric roles. ThickParam and
	// EndcapRadParam may be absent from the space; they then contribute zero.
	SpacingParam   string
	RadiusParam    string
	LengthParam    string
	OffsetParam    string
	ThickParam     string
	EndcapRadParam string

	// SphereMult sizes the target sphere as a fixed multiple of the rod
	// radius. Used when Padded is false.
	SphereMult float64

	// Padded switches to the clamped, safety-padded target radius:
	// R = clamp(R_min * SafetyFactor, MinMult * rod_radius, MaxMult * rod_radius).
	Padded       bool
	SafetyFactor float64
	MinMult      float64
	MaxMult      float64

	// IncludeEndcapRad widens the structural radius to
	// max(cyl_radius, endcap_rad) before the fit check.
	IncludeEndcapRad bool
}

// DefaultSphereConstraint returns the constraint as historically applied to
// the rod trap geometry: a sphere of 20 rod radii, endcap radius excluded.
func DefaultSphereConstraint() *SphereConstraint {
	return &SphereConstraint{
		SpacingParam:   "rod_spacing",
		RadiusParam:    "rod_radius",
		LengthParam:    "rod_length",
		OffsetParam:    "endcap_offset",
		ThickParam:     "endcap_thick",
		EndcapRadParam: "endcap_rad",
		SphereMult:     20.0,
	}
}

// Apply checks the inscribed-sphere condition for the physical vector x and
// returns the corrected vector together with a flag reporting whether any
// dimension was changed. The input slice is never mutated. Apply is pure,
// deterministic, and idempotent: re-applying it to its own output is a no-op.
func (c *SphereConstraint) Apply(space *params.Space, x []float64) ([]float64, bool) {
	out := make([]float64, len(x))
	copy(out, x)

	spacing, okSpacing := space.Value(x, c.SpacingParam)
	radius, okRadius := space.Value(x, c.RadiusParam)
	length, okLength := space.Value(x, c.LengthParam)
	offset, okOffset := space.Value(x, c.OffsetParam)
	if !okSpacing || !okRadius || !okLength || !okOffset {
		return out, false
	}

	// Thickness and endcap radius are optional dimensions.
	thick, _ := space.Value(x, c.ThickParam)
	endcapRad, _ := space.Value(x, c.EndcapRadParam)

	cylRadius := spacing/2.0 + radius
	halfHeight := (length + 2.0*(offset+thick)) / 2.0

	structRadius := cylRadius
	if c.IncludeEndcapRad && endcapRad > structRadius {
		structRadius = endcapRad
	}

	// Minimal enclosing-sphere radius required by the current geometry.
	current := math.Sqrt(halfHeight*halfHeight + structRadius*structRadius)

	var target float64
	if c.Padded {
		target = utils.ClampFloat64(current*c.SafetyFactor, c.MinMult*radius, c.MaxMult*radius)
	} else {
		target = c.SphereMult * radius
	}
	if target <= 0 {
		// Degenerate bounds; leave the vector alone.
		return out, false
	}
	if current <= target*(1.0+fitTolerance) {
		return out, false
	}

	scale := c.solveScale(spacing, radius, length, offset, thick, endcapRad, target)
	if scale >= 1.0 {
		return out, false
	}
	modified := false
	for _, name := range []string{c.SpacingParam, c.LengthParam, c.OffsetParam} {
		i := space.Index(name)
		if i < 0 {
			continue
		}
		scaled := x[i] * scale
		if scaled != x[i] {
			out[i] = scaled
			modified = true
		}
	}
	return out, modified
}

// solveScale finds the largest s in [0,1] such that scaling spacing, length,
// and offset by s makes the geometry fit a sphere of radius target. Because
// the rod radius and endcap thickness do not scale, this is the positive root
// of (s*a + b)^2 + (s*c + d)^2 = target^2 with
//
//	a = (length + 2*offset)/2   b = thick
//	c = spacing/2               d = rod radius
//
// rather than the naive ratio target/current, which overshoots and would keep
// triggering small corrections on its own output.
func (c *SphereConstraint) solveScale(spacing, radius, length, offset, thick, endcapRad, target float64) float64 {
	a := (length + 2.0*offset) / 2.0
	b := thick
	cc := spacing / 2.0
	d := radius

	s := quadraticFitScale(a, b, cc, d, target)

	if c.IncludeEndcapRad && endcapRad > s*cc+d {
		// The endcap disc dominates the structural radius and does not scale;
		// only the half height can shrink.
		rem := target*target - endcapRad*endcapRad
		if rem <= b*b || a <= 0 {
			return 0
		}
		s = (math.Sqrt(rem) - b) / a
	}

	return utils.ClampFloat64(s, 0, 1)
}

// quadraticFitScale solves (s*a+b)^2 + (s*c+d)^2 = t^2 for the positive root.
func quadraticFitScale(a, b, c, d, t float64) float64 {
	qa := a*a + c*c
	if qa == 0 {
		// Nothing scalable contributes; scaling cannot change the fit.
		return 1
	}
	qb := a*b + c*d
	qc := b*b + d*d - t*t
	disc := qb*qb - qa*qc
	if disc <= 0 {
		return 0
	}
	return (math.Sqrt(disc) - qb) / qa
}
