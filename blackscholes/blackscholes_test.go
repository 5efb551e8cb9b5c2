package blackscholes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceKnownValue(t *testing.T) {
	// Hull, Options Futures and Other Derivatives, example 15.6
	assert.InDelta(t, 4.76, Price(42, 40, 0.5, 0.1, 0.2, true), 5e-3)
	assert.InDelta(t, 0.81, Price(42, 40, 0.5, 0.1, 0.2, false), 5e-3)
}

func TestPutCallParity(t *testing.T) {
	S, K, T, r, sigma := 100.0, 95.0, 0.75, 0.03, 0.25
	call := Price(S, K, T, r, sigma, true)
	put := Price(S, K, T, r, sigma, false)
	assert.InDelta(t, S-K*math.Exp(-r*T), call-put, 1e-10)
}

func TestVegaAgainstFiniteDifference(t *testing.T) {
	S, K, T, r, sigma := 100.0, 110.0, 0.5, 0.01, 0.3
	const h = 1e-5
	for _, isCall := range []bool{true, false} {
		vega := (Price(S, K, T, r, sigma+h, isCall) - Price(S, K, T, r, sigma-h, isCall)) / (2 * h)
		assert.InDelta(t, vega, Vega(S, K, T, r, sigma), 1e-5, "call=%v", isCall)
	}
}

func TestImpliedVolatilityRoundTrip(t *testing.T) {
	S, T, r := 100.0, 0.6, 0.02
	for _, sigma := range []float64{0.1, 0.2, 0.6, 1.5} {
		for _, K := range []float64{85, 100, 115} {
			for _, isCall := range []bool{true, false} {
				price := Price(S, K, T, r, sigma, isCall)
				iv, err := ImpliedVolatility(price, S, K, T, r, isCall)
				require.NoError(t, err, "sigma=%v K=%v call=%v", sigma, K, isCall)
				assert.InDelta(t, sigma, iv, 1e-5, "sigma=%v K=%v call=%v", sigma, K, isCall)
			}
		}
	}
}

func TestImpliedVolatilityRejectsArbitrage(t *testing.T) {
	S, K, T, r := 100.0, 90.0, 1.0, 0.05

	_, err := ImpliedVolatility(S+1, S, K, T, r, true)
	assert.ErrorIs(t, err, ErrPriceOutOfBounds)

	intrinsic := S - K*math.Exp(-r*T)
	_, err = ImpliedVolatility(intrinsic-0.01, S, K, T, r, true)
	assert.ErrorIs(t, err, ErrPriceOutOfBounds)

	_, err = ImpliedVolatility(-0.5, S, K, T, r, false)
	assert.ErrorIs(t, err, ErrPriceOutOfBounds)

	_, err = ImpliedVolatility(1, S, K, 0, r, false)
	assert.Error(t, err)
}
