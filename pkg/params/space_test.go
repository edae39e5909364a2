package params

import (
	"math"
	"testing"
)

func testSpecs() []Spec {
	return []Spec{
		{Name: "V_rf", Low: 0, High: 1000, Baseline: 300},
		{Name: "rod_spacing", Low: 0.003, High: 0.1, Baseline: 0.005},
		{Name: "f", Low: 1e6, High: 1e8, Baseline: 1e7},
	}
}

func TestNewSpace(t *testing.T) {
	space, err := NewSpace(testSpecs())
	if err != nil {
		t.Fatalf("NewSpace failed: %v", err)
	}

	if space.Len() != 3 {
		t.Errorf("Expected 3 parameters, got %d", space.Len())
	}

	names := space.Names()
	if names[0] != "V_rf" || names[1] != "rod_spacing" || names[2] != "f" {
		t.Errorf("Names out of declaration order: %v", names)
	}

	if space.Index("rod_spacing") != 1 {
		t.Errorf("Expected index 1 for rod_spacing, got %d", space.Index("rod_spacing"))
	}
	if space.Index("missing") != -1 {
		t.Errorf("Expected -1 for unknown name, got %d", space.Index("missing"))
	}
}

func TestNewSpaceInvalid(t *testing.T) {
	tests := []struct {
		name  string
		specs []Spec
	}{
		{
			name:  "Empty",
			specs: nil,
		},
		{
			name:  "Empty name",
			specs: []Spec{{Name: "", Low: 0, High: 1}},
		},
		{
			name: "Duplicate name",
			specs: []Spec{
				{Name: "V_rf", Low: 0, High: 1},
				{Name: "V_rf", Low: 0, High: 2},
			},
		},
		{
			name:  "Inverted bounds",
			specs: []Spec{{Name: "V_rf", Low: 10, High: 1}},
		},
		{
			name:  "Equal bounds",
			specs: []Spec{{Name: "V_rf", Low: 5, High: 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSpace(tt.specs); err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
		})
	}
}

func TestValue(t *testing.T) {
	space, err := NewSpace(testSpecs())
	if err != nil {
		t.Fatalf("NewSpace failed: %v", err)
	}

	x := []float64{250, 0.004, 2e7}
	v, ok := space.Value(x, "rod_spacing")
	if !ok {
		t.Fatal("expected rod_spacing to resolve")
	}
	if v != 0.004 {
		t.Errorf("Expected 0.004, got %g", v)
	}

	if _, ok := space.Value(x, "missing"); ok {
		t.Error("expected lookup of unknown name to fail")
	}
	if _, ok := space.Value([]float64{250}, "f"); ok {
		t.Error("expected lookup past the vector length to fail")
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	space, err := NewSpace(testSpecs())
	if err != nil {
		t.Fatalf("NewSpace failed: %v", err)
	}

	x := space.Baseline()
	y, err := space.Normalize(x)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	for i, v := range y {
		if v < 0 || v > 1 {
			t.Errorf("component %d normalized outside [0,1]: %g", i, v)
		}
	}

	back, err := space.Denormalize(y)
	if err != nil {
		t.Fatalf("Denormalize failed: %v", err)
	}
	for i := range x {
		if math.Abs(back[i]-x[i]) > 1e-12*math.Abs(x[i]) {
			t.Errorf("component %d round trip mismatch: %g vs %g", i, back[i], x[i])
		}
	}
}

func TestNormalizeEndpoints(t *testing.T) {
	space, err := NewSpace(testSpecs())
	if err != nil {
		t.Fatalf("NewSpace failed: %v", err)
	}

	low, err := space.Normalize([]float64{0, 0.003, 1e6})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	high, err := space.Normalize([]float64{1000, 0.1, 1e8})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	for i := range low {
		if low[i] != 0 {
			t.Errorf("low endpoint %d: expected 0, got %g", i, low[i])
		}
		if math.Abs(high[i]-1) > 1e-15 {
			t.Errorf("high endpoint %d: expected 1, got %g", i, high[i])
		}
	}
}

func TestNormalizeDimensionMismatch(t *testing.T) {
	space, err := NewSpace(testSpecs())
	if err != nil {
		t.Fatalf("NewSpace failed: %v", err)
	}

	if _, err := space.Normalize([]float64{1, 2}); err == nil {
		t.Error("expected error for short vector")
	}
	if _, err := space.Denormalize([]float64{0.5, 0.5, 0.5, 0.5}); err == nil {
		t.Error("expected error for long vector")
	}
}
