// Package fangoost prices options and recovers densities from a
// characteristic function with the Fang-Oosterlee cosine expansion.
//
// Characteristic functions are taken in moment generating form: cf(iω) is the
// Fourier transform of the log return density.
package fangoost

import (
	"math"
	"math/cmplx"
)

// GraphElement is one (x, value) point of a curve.
type GraphElement struct {
	X     float64
	Value float64
}

// expansion holds the cosine coefficients of the density on [a, b]. The
// first coefficient is already halved.
type expansion struct {
	a, b  float64
	u     []float64
	coeff []float64
}

func newExpansion(numU int, a, b float64, cf func(complex128) complex128) *expansion {
	width := b - a
	e := &expansion{
		a:     a,
		b:     b,
		u:     make([]float64, numU),
		coeff: make([]float64, numU),
	}
	for k := 0; k < numU; k++ {
		u := float64(k) * math.Pi / width
		phi := cf(complex(0, u))
		c := 2 / width * real(phi*cmplx.Exp(complex(0, -u*a)))
		if k == 0 {
			c *= 0.5
		}
		e.u[k] = u
		e.coeff[k] = c
	}
	return e
}

// density evaluates the cosine series at x.
func (e *expansion) density(x float64) float64 {
	var sum float64
	for k, c := range e.coeff {
		sum += c * math.Cos(e.u[k]*(x-e.a))
	}
	return sum
}

// cdf integrates the series from a to x.
func (e *expansion) cdf(x float64) float64 {
	s := x - e.a
	sum := e.coeff[0] * s
	for k := 1; k < len(e.coeff); k++ {
		sum += e.coeff[k] * math.Sin(e.u[k]*s) / e.u[k]
	}
	return sum
}

// partialMean integrates y f(y) from a to x.
func (e *expansion) partialMean(x float64) float64 {
	s := x - e.a
	sum := e.coeff[0] * (e.a*s + s*s*0.5)
	for k := 1; k < len(e.coeff); k++ {
		u := e.u[k]
		sin, cos := math.Sincos(u * s)
		sum += e.coeff[k] * ((e.a+s)*sin/u + (cos-1)/(u*u))
	}
	return sum
}

// chi is the integral of e^x cos(u(x-a)) over [a, d].
func chi(u, a, d float64) float64 {
	sin, cos := math.Sincos(u * (d - a))
	return (cos*math.Exp(d) - math.Exp(a) + u*sin*math.Exp(d)) / (1 + u*u)
}

// psi is the integral of cos(u(x-a)) over [a, d].
func psi(u, a, d float64) float64 {
	if u == 0 {
		return d - a
	}
	return math.Sin(u*(d-a)) / u
}
