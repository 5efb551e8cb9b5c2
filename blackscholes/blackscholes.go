// Package blackscholes holds the closed form Black-Scholes price and vega
// and inverts prices to implied volatilities.
package blackscholes

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	maxIterations = 100
	epsilon       = 1e-8

	minVol = 1e-6
	maxVol = 20.0
)

var ErrPriceOutOfBounds = errors.New("price violates no-arbitrage bounds")

var normal = distuv.UnitNormal

func d1d2(S, K, T, r, sigma float64) (float64, float64) {
	sqrtT := math.Sqrt(T)
	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * sqrtT)
	return d1, d1 - sigma*sqrtT
}

// Price returns the European call or put price.
func Price(S, K, T, r, sigma float64, isCall bool) float64 {
	d1, d2 := d1d2(S, K, T, r, sigma)
	if isCall {
		return S*normal.CDF(d1) - K*math.Exp(-r*T)*normal.CDF(d2)
	}
	return K*math.Exp(-r*T)*normal.CDF(-d2) - S*normal.CDF(-d1)
}

// Vega is ∂Price/∂sigma, shared by calls and puts.
func Vega(S, K, T, r, sigma float64) float64 {
	d1, _ := d1d2(S, K, T, r, sigma)
	return S * normal.Prob(d1) * math.Sqrt(T)
}

// Bounds returns the open interval a European price must lie in for an
// implied volatility to exist.
func Bounds(S, K, T, r float64, isCall bool) (float64, float64) {
	pvK := K * math.Exp(-r*T)
	if isCall {
		return math.Max(0, S-pvK), S
	}
	return math.Max(0, pvK-S), pvK
}

// ImpliedVolatility inverts Price. Newton steps on vega are kept inside a
// shrinking bracket and replaced by bisection when they leave it.
func ImpliedVolatility(targetPrice, S, K, T, r float64, isCall bool) (float64, error) {
	if T <= 0 || S <= 0 || K <= 0 {
		return 0, fmt.Errorf("implied volatility undefined for S=%v K=%v T=%v", S, K, T)
	}
	lower, upper := Bounds(S, K, T, r, isCall)
	if !(targetPrice > lower && targetPrice < upper) {
		return 0, fmt.Errorf("%w: %v not in (%v, %v)", ErrPriceOutOfBounds, targetPrice, lower, upper)
	}

	lo, hi := minVol, maxVol
	if Price(S, K, T, r, hi, isCall) < targetPrice || Price(S, K, T, r, lo, isCall) > targetPrice {
		return 0, fmt.Errorf("implied volatility outside [%v, %v]", lo, hi)
	}

	sigma := 0.5 // Initial guess
	for i := 0; i < maxIterations; i++ {
		diff := Price(S, K, T, r, sigma, isCall) - targetPrice
		if math.Abs(diff) < epsilon {
			return sigma, nil
		}
		if diff > 0 {
			hi = sigma
		} else {
			lo = sigma
		}

		next := sigma - diff/Vega(S, K, T, r, sigma)
		if math.IsNaN(next) || next <= lo || next >= hi {
			next = 0.5 * (lo + hi)
		}
		if hi-lo < epsilon*epsilon {
			return next, nil
		}
		sigma = next
	}
	return 0, fmt.Errorf("implied volatility did not converge in %d iterations", maxIterations)
}
