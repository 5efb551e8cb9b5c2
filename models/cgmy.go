package models

import (
	"math"
	"math/cmplx"
)

// Y within this distance of 0 or 1 uses the limiting form of the exponent.
const cgmyLimitTolerance = 1e-8

type CGMYModel struct {
	C     float64
	G     float64
	M     float64
	Y     float64
	Sigma float64
}

func NewCGMYModel(c, g, m, y, sigma float64) *CGMYModel {
	return &CGMYModel{C: c, G: g, M: m, Y: y, Sigma: sigma}
}

// cgmyHalf integrates (e^{zx} - 1 - zx) against one side of the CGMY Lévy
// measure, written in terms of w = base ∓ z with base the side's decay rate.
func cgmyHalf(w complex128, base, c, y float64) complex128 {
	if c == 0 {
		return 0
	}
	cb := complex(base, 0)
	switch {
	case math.Abs(y-1) < cgmyLimitTolerance:
		return complex(c, 0) * (w*cmplx.Log(w) - complex(base*math.Log(base), 0) + (cb-w)*complex(1+math.Log(base), 0))
	case math.Abs(y) < cgmyLimitTolerance:
		return complex(-c, 0) * (cmplx.Log(w/cb) + (cb-w)/cb)
	}
	cy := complex(y, 0)
	f := cmplx.Pow(w, cy) - complex(math.Pow(base, y), 0) + (cb-w)*complex(y*math.Pow(base, y-1), 0)
	return complex(c*math.Gamma(-y), 0) * f
}

func (m *CGMYModel) positiveJumps(z complex128) complex128 {
	return cgmyHalf(complex(m.M, 0)-z, m.M, m.C, m.Y)
}

func (m *CGMYModel) negativeJumps(z complex128) complex128 {
	return cgmyHalf(complex(m.G, 0)+z, m.G, m.C, m.Y)
}

func (m *CGMYModel) diffusion(u complex128) complex128 {
	return complex(m.Sigma*m.Sigma*0.5, 0) * u * u
}

// LevyExponent is log E[exp(u X_1)] up to a linear term.
func (m *CGMYModel) LevyExponent(u complex128) complex128 {
	return m.diffusion(u) + m.positiveJumps(u) + m.negativeJumps(u)
}

// DiffusionVol is the standard deviation of the log return over maturity.
func (m *CGMYModel) DiffusionVol(maturity float64) float64 {
	var jumps float64
	if m.C != 0 {
		jumps = m.C * math.Gamma(2-m.Y) * (math.Pow(m.M, m.Y-2) + math.Pow(m.G, m.Y-2))
	}
	return math.Sqrt((m.Sigma*m.Sigma + jumps) * maturity)
}

// TimeChangeCF is the risk-neutral CF of CGMY run on a CIR clock.
func (m *CGMYModel) TimeChangeCF(maturity, rate float64, tc TimeChange) CF {
	return timeChangedCF(maturity, rate, m.LevyExponent, m.Sigma, tc)
}
