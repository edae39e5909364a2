package engine

import "math"

// NewSurrogate returns a Fake wired with a crude analytic stand-in for the
// field solver. It exists for dry runs and demos: the shapes are smooth and
// pull the search in plausible directions (more RF voltage deepens the trap,
// asymmetric DC biases push the ion off center, drive power grows with
// voltage), but the numbers mean nothing physically.
func NewSurrogate() *Fake {
	fake := NewFake()
	fake.SolveFunc = func(p map[string]float64) (map[string]float64, error) {
		vrf := p["V_rf"]
		vdc := p["V_dc"]
		vend := p["V_endcap"]
		spacing := p["rod_spacing"]
		radius := p["rod_radius"]
		freq := p["f"]

		r0 := spacing/2.0 + radius
		if r0 <= 0 || vrf <= 0 {
			return nil, ErrSolveFailed
		}

		depth := 2e-5 * vrf * vrf * radius / (r0 * (1.0 + freq/5e7))
		offset := math.Abs(vdc-vend) / (1.0 + 0.05*vrf)
		power := vrf * vrf / (40.0 + freq/1e6)

		return map[string]float64{
			"depth_eV":  depth,
			"offset_mm": offset,
			"P_est_mW":  power,
		}, nil
	}
	return fake
}
