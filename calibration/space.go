// Package calibration fits model parameters to observed call prices.
package calibration

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/bcdannyboy/optionpricer/constraints"
)

// Parameters that are not calibrated are pinned to a deterministic clock.
var pinned = map[string]float64{
	"v0":    1,
	"speed": 0,
	"eta_v": 0,
	"rho":   0,
}

const probabilityClamp = 1e-6

// space is the calibrated subset of a model's schema. Free parameters keep
// schema order.
type space struct {
	model  constraints.Model
	schema []constraints.NamedConstraint
	free   []int
	sweep  int
}

type spaceSpec struct {
	free  []string
	sweep string
}

var spaces = map[constraints.Model]spaceSpec{
	constraints.ModelCGMY:   {free: []string{"c", "g", "m", "y", "sigma"}, sweep: "y"},
	constraints.ModelMerton: {free: []string{"lambda", "mu_l", "sig_l", "sigma"}},
	constraints.ModelHeston: {free: []string{"sigma", "v0", "speed", "eta_v", "rho"}, sweep: "sigma"},
}

func newSpace(m constraints.Model) (*space, error) {
	spec, ok := spaces[m]
	if !ok {
		return nil, constraints.NewFunctionError(m.String())
	}
	s := &space{model: m, schema: constraints.ModelConstraints(m), sweep: -1}
	for i, c := range s.schema {
		for _, name := range spec.free {
			if c.Name == name {
				if name == spec.sweep {
					s.sweep = len(s.free)
				}
				s.free = append(s.free, i)
			}
		}
	}
	return s, nil
}

// FreeParameters names the calibrated parameters of m in vector order.
func FreeParameters(m constraints.Model) ([]string, error) {
	s, err := newSpace(m)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(s.free))
	for i, idx := range s.free {
		names[i] = s.schema[idx].Name
	}
	return names, nil
}

func (s *space) bound(i int) constraints.ConstraintsSchema {
	return s.schema[s.free[i]].Schema
}

// expand fills a reduced vector out to the full schema vector.
func (s *space) expand(x []float64) []float64 {
	full := make([]float64, len(s.schema))
	for i, c := range s.schema {
		full[i] = pinned[c.Name]
	}
	for i, idx := range s.free {
		full[idx] = x[i]
	}
	return full
}

// toUnbounded maps a reduced vector inside the schema box onto R^n.
func (s *space) toUnbounded(x []float64) []float64 {
	z := make([]float64, len(x))
	for i, v := range x {
		b := s.bound(i)
		p := (v - b.Lower) / (b.Upper - b.Lower)
		p = math.Min(math.Max(p, probabilityClamp), 1-probabilityClamp)
		z[i] = math.Log(p / (1 - p))
	}
	return z
}

// fromUnbounded is the logistic inverse of toUnbounded.
func (s *space) fromUnbounded(z []float64) []float64 {
	x := make([]float64, len(z))
	for i, v := range z {
		b := s.bound(i)
		x[i] = b.Lower + (b.Upper-b.Lower)/(1+math.Exp(-v))
	}
	return x
}

func (s *space) mid() []float64 {
	x := make([]float64, len(s.free))
	for i := range x {
		x[i] = s.bound(i).Mid()
	}
	return x
}

// seeds yields starting points: the midpoint, the sweep of one sensitive
// parameter with the rest at midpoint, then uniform draws from rng.
func (s *space) seeds(rng *rand.Rand) func() []float64 {
	var fixed [][]float64
	fixed = append(fixed, s.mid())
	if s.sweep >= 0 {
		for _, u := range []float64{0.25, 0.75} {
			x := s.mid()
			x[s.sweep] = s.bound(s.sweep).Over(u)
			fixed = append(fixed, x)
		}
	}
	return func() []float64 {
		if len(fixed) > 0 {
			x := fixed[0]
			fixed = fixed[1:]
			return x
		}
		x := make([]float64, len(s.free))
		for i := range x {
			x[i] = s.bound(i).Over(rng.Float64())
		}
		return x
	}
}
