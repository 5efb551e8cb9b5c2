package models

import (
	"math"
	"math/cmplx"
)

type HestonModel struct {
	Sigma float64 // Square root of the long run variance
	V0    float64 // Initial variance
	Speed float64 // Mean reversion speed of variance
	EtaV  float64 // Volatility of variance
	Rho   float64 // Correlation between asset returns and variance
}

func NewHestonModel(sigma, v0, speed, etaV, rho float64) *HestonModel {
	return &HestonModel{
		Sigma: sigma,
		V0:    v0,
		Speed: speed,
		EtaV:  etaV,
		Rho:   rho,
	}
}

func (h *HestonModel) CF(maturity, rate float64) CF {
	longRun := h.Speed * h.Sigma * h.Sigma
	drift := complex(rate*maturity, 0)
	return func(u complex128) complex128 {
		psi := -(u*u - u) * 0.5
		kappa := complex(h.Speed, 0) - complex(h.EtaV*h.Rho, 0)*u
		return cmplx.Exp(u*drift + cirLogMGF(psi, longRun, kappa, h.EtaV, maturity, h.V0))
	}
}

func (h *HestonModel) Spread(maturity float64) float64 {
	return h.Sigma * math.Sqrt(maturity)
}
