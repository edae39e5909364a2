package geometry

import (
	"math"
	"testing"

	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/pkg/params"
)

func trapSpace(t *testing.T) *params.Space {
	t.Helper()
	space, err := params.NewSpace([]params.Spec{
		{Name: "V_rf", Low: 0, High: 1000, Baseline: 300},
		{Name: "rod_spacing", Low: 0.003, High: 0.1, Baseline: 0.005},
		{Name: "rod_radius", Low: 0.0005, High: 0.008, Baseline: 0.002},
		{Name: "rod_length", Low: 0.02, High: 5.0, Baseline: 0.04},
		{Name: "endcap_offset", Low: 0.0, High: 0.01, Baseline: 0.001},
		{Name: "endcap_rad", Low: 0.005, High: 0.01, Baseline: 0.006},
		{Name: "endcap_thick", Low: 0.0001, High: 0.001, Baseline: 0.0005},
	})
	if err != nil {
		t.Fatalf("NewSpace failed: %v", err)
	}
	return space
}

func requiredRadius(space *params.Space, x []float64, includeEndcap bool) float64 {
	spacing, _ := space.Value(x, "rod_spacing")
	radius, _ := space.Value(x, "rod_radius")
	length, _ := space.Value(x, "rod_length")
	offset, _ := space.Value(x, "endcap_offset")
	thick, _ := space.Value(x, "endcap_thick")
	endcapRad, _ := space.Value(x, "endcap_rad")

	cylRadius := spacing/2.0 + radius
	halfHeight := (length + 2.0*(offset+thick)) / 2.0
	structRadius := cylRadius
	if includeEndcap && endcapRad > structRadius {
		structRadius = endcapRad
	}
	return math.Sqrt(halfHeight*halfHeight + structRadius*structRadius)
}

func TestApplyFittingGeometryUnchanged(t *testing.T) {
	space := trapSpace(t)
	c := DefaultSphereConstraint()

	// Baseline: cylinder needs ~0.021m, sphere allows 20*0.002 = 0.04m.
	x := space.Baseline()
	out, modified := c.Apply(space, x)
	if modified {
		t.Errorf("expected fitting geometry to be left alone, got %v", out)
	}
	for i := range x {
		if out[i] != x[i] {
			t.Errorf("component %d changed: %g -> %g", i, x[i], out[i])
		}
	}
}

func TestApplyShrinksOversizedGeometry(t *testing.T) {
	space := trapSpace(t)
	c := DefaultSphereConstraint()

	x := space.Baseline()
	x[space.Index("rod_length")] = 5.0

	out, modified := c.Apply(space, x)
	if !modified {
		t.Fatal("expected oversized geometry to be corrected")
	}

	target := 20.0 * x[space.Index("rod_radius")]
	got := requiredRadius(space, out, false)
	if got > target*(1+1e-9) {
		t.Errorf("corrected geometry still needs radius %g, target %g", got, target)
	}

	// Only length-like dimensions shrink, nothing grows.
	for _, name := range []string{"rod_spacing", "rod_length", "endcap_offset"} {
		i := space.Index(name)
		if out[i] > x[i] {
			t.Errorf("%s grew: %g -> %g", name, x[i], out[i])
		}
	}
	for _, name := range []string{"V_rf", "rod_radius", "endcap_rad", "endcap_thick"} {
		i := space.Index(name)
		if out[i] != x[i] {
			t.Errorf("%s must not change: %g -> %g", name, x[i], out[i])
		}
	}
}

func TestApplyIdempotent(t *testing.T) {
	space := trapSpace(t)
	tests := []struct {
		name string
		c    *SphereConstraint
	}{
		{name: "Fixed", c: DefaultSphereConstraint()},
		{
			name: "Padded",
			c: func() *SphereConstraint {
				c := DefaultSphereConstraint()
				c.Padded = true
				c.SafetyFactor = 1.05
				c.MinMult = 5.0
				c.MaxMult = 25.0
				return c
			}(),
		},
		{
			name: "Endcap included",
			c: func() *SphereConstraint {
				c := DefaultSphereConstraint()
				c.IncludeEndcapRad = true
				return c
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := space.Baseline()
			x[space.Index("rod_length")] = 5.0
			x[space.Index("rod_spacing")] = 0.1

			once, modified := tt.c.Apply(space, x)
			if !modified {
				t.Fatal("expected correction on oversized geometry")
			}
			twice, modifiedAgain := tt.c.Apply(space, once)
			if modifiedAgain {
				t.Errorf("second application changed the vector again: %v -> %v", once, twice)
			}
			for i := range once {
				if twice[i] != once[i] {
					t.Errorf("component %d drifted: %g -> %g", i, once[i], twice[i])
				}
			}
		})
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	space := trapSpace(t)
	c := DefaultSphereConstraint()

	x := space.Baseline()
	x[space.Index("rod_length")] = 5.0
	saved := make([]float64, len(x))
	copy(saved, x)

	c.Apply(space, x)
	for i := range x {
		if x[i] != saved[i] {
			t.Errorf("input mutated at component %d: %g -> %g", i, saved[i], x[i])
		}
	}
}

func TestApplyPaddedClamp(t *testing.T) {
	space := trapSpace(t)
	c := DefaultSphereConstraint()
	c.Padded = true
	c.SafetyFactor = 1.05
	c.MinMult = 5.0
	c.MaxMult = 25.0

	// A geometry needing far more than 25 rod radii is clamped against the
	// max multiple and must be shrunk to fit it.
	x := space.Baseline()
	x[space.Index("rod_length")] = 5.0

	out, modified := c.Apply(space, x)
	if !modified {
		t.Fatal("expected correction against the clamped radius")
	}
	maxTarget := 25.0 * x[space.Index("rod_radius")]
	got := requiredRadius(space, out, false)
	if got > maxTarget*(1+1e-9) {
		t.Errorf("corrected geometry needs radius %g, clamp allows %g", got, maxTarget)
	}
}

func TestApplyEndcapDominantBranch(t *testing.T) {
	space := trapSpace(t)
	c := DefaultSphereConstraint()
	c.IncludeEndcapRad = true
	c.SphereMult = 3.5

	// Target 3.5 * 0.002 = 0.007m, endcap disc radius 0.0065m dominates the
	// shrunken cylinder, so only the half height can give.
	x := space.Baseline()
	x[space.Index("rod_radius")] = 0.002
	x[space.Index("endcap_rad")] = 0.0065
	x[space.Index("rod_length")] = 0.1

	out, modified := c.Apply(space, x)
	if !modified {
		t.Fatal("expected correction")
	}
	got := requiredRadius(space, out, true)
	target := 3.5 * 0.002
	if got > target*(1+1e-9) {
		t.Errorf("corrected geometry needs radius %g, target %g", got, target)
	}
	if out[space.Index("endcap_rad")] != 0.0065 {
		t.Error("endcap radius must not be scaled")
	}
}

func TestApplyMissingRoleParams(t *testing.T) {
	space, err := params.NewSpace([]params.Spec{
		{Name: "V_rf", Low: 0, High: 1000, Baseline: 300},
	})
	if err != nil {
		t.Fatalf("NewSpace failed: %v", err)
	}

	c := DefaultSphereConstraint()
	x := []float64{300}
	out, modified := c.Apply(space, x)
	if modified {
		t.Error("constraint without its role parameters must be a no-op")
	}
	if out[0] != 300 {
		t.Errorf("vector changed: %v", out)
	}
}
