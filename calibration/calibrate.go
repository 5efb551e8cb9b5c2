package calibration

import (
	"context"
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"

	"github.com/bcdannyboy/optionpricer/constraints"
	"github.com/bcdannyboy/optionpricer/pricing"
)

const (
	DefaultMaxIterations = 200
	DefaultMaxAttempts   = 100

	// AcceptableCost is the weighted error an attempt must reach.
	AcceptableCost = 1e-4

	lbfgsStore = 7
)

// Attempt reports the outcome of one optimizer run.
type Attempt struct {
	Index int
	Cost  float64
	Err   error
}

type Options struct {
	OptionScale   float64
	MaxIterations int
	MaxAttempts   int
	Seed          uint64
	// InitialGuesses are tried before the default seeds. Each is a reduced
	// vector in FreeParameters order.
	InitialGuesses [][]float64
	OnAttempt      func(Attempt)
}

func (o Options) withDefaults() Options {
	if o.OptionScale <= 0 {
		o.OptionScale = pricing.DefaultOptionScale
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.Seed == 0 {
		o.Seed = 42
	}
	return o
}

// Calibrate fits model m to the quotes in p. Attempts start from the
// supplied guesses, then the default seeds, and stop at the first run whose
// cost is at most AcceptableCost.
func Calibrate(ctx context.Context, m constraints.Model, p *constraints.CalibrationParameters, opts Options) (*constraints.CalibrationResult, error) {
	if err := constraints.CheckCalibrationParameters(p, constraints.Parameter); err != nil {
		return nil, err
	}
	s, err := newSpace(m)
	if err != nil {
		return nil, err
	}
	for _, g := range opts.InitialGuesses {
		if len(g) != len(s.free) {
			return nil, constraints.NewOutOfBounds("Calibration")
		}
	}
	opts = opts.withDefaults()

	obj := newObjective(s, p, opts.OptionScale)
	guesses := opts.InitialGuesses
	next := s.seeds(rand.New(rand.NewSource(opts.Seed)))

	var lastErr error
	failed := 0
	for i := 0; i < opts.MaxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var x0 []float64
		if len(guesses) > 0 {
			x0, guesses = guesses[0], guesses[1:]
		} else {
			x0 = next()
		}

		x, cost, err := minimize(obj, s.toUnbounded(x0), opts.MaxIterations)
		if opts.OnAttempt != nil {
			opts.OnAttempt(Attempt{Index: i, Cost: cost, Err: err})
		}
		if err != nil {
			lastErr = err
			failed++
			continue
		}
		if cost <= AcceptableCost {
			params, err := constraints.FromVector(m, s.expand(x))
			if err != nil {
				return nil, err
			}
			return &constraints.CalibrationResult{Parameters: params, FinalCostValue: cost}, nil
		}
	}
	if failed == opts.MaxAttempts && lastErr != nil {
		return nil, constraints.NewOptimizationError(lastErr.Error())
	}
	return nil, constraints.NewNoConvergence()
}

// minimize runs LBFGS on the unbounded problem and falls back to Nelder-Mead
// when LBFGS fails without reaching an acceptable cost. It returns the
// bounded parameters and their cost.
func minimize(obj *objective, z0 []float64, maxIter int) ([]float64, float64, error) {
	problem := optimize.Problem{
		Func: obj.unboundedCost,
		Grad: func(grad, z []float64) {
			fd.Gradient(grad, obj.unboundedCost, z, &fd.Settings{Formula: fd.Central})
		},
	}
	settings := &optimize.Settings{MajorIterations: maxIter}

	result, err := optimize.Minimize(problem, z0, settings, &optimize.LBFGS{Store: lbfgsStore})
	if result != nil && result.F <= AcceptableCost {
		return obj.space.fromUnbounded(result.X), result.F, nil
	}
	start := z0
	if result != nil && result.F < obj.unboundedCost(z0) {
		start = result.X
	}
	polished, nmErr := optimize.Minimize(optimize.Problem{Func: obj.unboundedCost}, start, settings, &optimize.NelderMead{})
	if polished != nil && (nmErr == nil || polished.F <= AcceptableCost) {
		return obj.space.fromUnbounded(polished.X), polished.F, nil
	}
	if err == nil && result != nil {
		return obj.space.fromUnbounded(result.X), result.F, nil
	}
	if nmErr != nil {
		err = fmt.Errorf("lbfgs: %v; nelder-mead: %w", err, nmErr)
	}
	return nil, 0, err
}
