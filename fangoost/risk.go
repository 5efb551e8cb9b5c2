package fangoost

import (
	"errors"
	"fmt"
	"math"
)

const (
	riskMaxIterations = 100
	riskTolerance     = 1e-7
)

var (
	ErrQuantileRange  = errors.New("quantile must be strictly between 0 and 1")
	ErrRootNotBracket = errors.New("quantile is outside of the truncated distribution")
)

// RiskMetric is the loss-side tail of the log return distribution. Both
// values are reported as positive losses.
type RiskMetric struct {
	ValueAtRisk       float64
	ExpectedShortfall float64
}

// ValueAtRisk finds x with P(X <= x) = alpha and returns -x along with the
// expected shortfall -E[X | X <= x].
func ValueAtRisk(numU int, alpha float64, d Domain, cf CF) (RiskMetric, error) {
	if !(alpha > 0 && alpha < 1) {
		return RiskMetric{}, ErrQuantileRange
	}
	e := newExpansion(numU, d.A, d.B, cf)
	x, err := e.quantile(alpha)
	if err != nil {
		return RiskMetric{}, err
	}
	return RiskMetric{
		ValueAtRisk:       -x,
		ExpectedShortfall: -e.partialMean(x) / alpha,
	}, nil
}

// quantile inverts the series CDF with Newton steps, falling back to
// bisection whenever a step leaves the current bracket.
func (e *expansion) quantile(alpha float64) (float64, error) {
	lo, hi := e.a, e.b
	fLo, fHi := e.cdf(lo)-alpha, e.cdf(hi)-alpha
	if fLo*fHi > 0 {
		return 0, ErrRootNotBracket
	}
	x := 0.5 * (lo + hi)
	for i := 0; i < riskMaxIterations; i++ {
		fx := e.cdf(x) - alpha
		if math.Abs(fx) < riskTolerance {
			return x, nil
		}
		if (fx < 0) == (fLo < 0) {
			lo, fLo = x, fx
		} else {
			hi = x
		}
		next := x - fx/e.density(x)
		if math.IsNaN(next) || next <= lo || next >= hi {
			next = 0.5 * (lo + hi)
		}
		if math.Abs(next-x) < riskTolerance*riskTolerance {
			return next, nil
		}
		x = next
	}
	return 0, fmt.Errorf("quantile did not converge in %d iterations", riskMaxIterations)
}
