package params

import "fmt"

// Spec declares one search parameter: its name, physical bounds, and the
// baseline value the search is seeded from.
type Spec struct {
	Name     string
	Low      float64
	High     float64
	Baseline float64
}

// Space is an ordered set of parameter specs. The order is fixed at
// construction and shared between normalization, solving, and logging.
type Space struct {
	specs []Spec
	index map[string]int
}

// NewSpace creates a parameter space from the given specs.
// Every spec must have Low < High and a unique, non-empty name.
func NewSpace(specs []Spec) (*Space, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("at least one parameter must be defined")
	}
	index := make(map[string]int, len(specs))
	for i, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("parameter %d: name cannot be empty", i)
		}
		if _, dup := index[spec.Name]; dup {
			return nil, fmt.Errorf("duplicate parameter name: %s", spec.Name)
		}
		if spec.Low >= spec.High {
			return nil, fmt.Errorf("parameter %s: low bound %g must be below high bound %g", spec.Name, spec.Low, spec.High)
		}
		index[spec.Name] = i
	}

	copied := make([]Spec, len(specs))
	copy(copied, specs)

	return &Space{specs: copied, index: index}, nil
}

// Len returns the number of parameters in the space.
func (s *Space) Len() int {
	return len(s.specs)
}

// Names returns the parameter names in declaration order.
func (s *Space) Names() []string {
	names := make([]string, len(s.specs))
	for i, spec := range s.specs {
		names[i] = spec.Name
	}
	return names
}

// Specs returns a copy of the parameter specs in declaration order.
func (s *Space) Specs() []Spec {
	copied := make([]Spec, len(s.specs))
	copy(copied, s.specs)
	return copied
}

// Index returns the position of the named parameter, or -1 if unknown.
func (s *Space) Index(name string) int {
	i, ok := s.index[name]
	if !ok {
		return -1
	}
	return i
}

// Value looks up the named component of a physical vector.
func (s *Space) Value(x []float64, name string) (float64, bool) {
	i, ok := s.index[name]
	if !ok || i >= len(x) {
		return 0, false
	}
	return x[i], true
}

// Baseline returns the baseline physical vector in declaration order.
func (s *Space) Baseline() []float64 {
	x := make([]float64, len(s.specs))
	for i, spec := range s.specs {
		x[i] = spec.Baseline
	}
	return x
}

// Normalize maps a physical vector into the unit cube, component-wise:
// y_i = (x_i - low_i) / (high_i - low_i).
func (s *Space) Normalize(x []float64) ([]float64, error) {
	if len(x) != len(s.specs) {
		return nil, fmt.Errorf("expected %d components, got %d", len(s.specs), len(x))
	}
	y := make([]float64, len(x))
	for i, spec := range s.specs {
		y[i] = (x[i] - spec.Low) / (spec.High - spec.Low)
	}
	return y, nil
}

// Denormalize maps a unit-cube vector back into physical units, component-wise:
// x_i = low_i + y_i * (high_i - low_i).
func (s *Space) Denormalize(y []float64) ([]float64, error) {
	if len(y) != len(s.specs) {
		return nil, fmt.Errorf("expected %d components, got %d", len(s.specs), len(y))
	}
	x := make([]float64, len(y))
	for i, spec := range s.specs {
		x[i] = spec.Low + y[i]*(spec.High-spec.Low)
	}
	return x, nil
}
