package models

import (
	"math"
	"math/cmplx"
)

type MertonJumpDiffusion struct {
	Sigma  float64 // Volatility of the diffusion
	Lambda float64 // Jump intensity
	MuL    float64 // Mean jump size
	SigL   float64 // Jump size volatility
}

func NewMertonJumpDiffusion(sigma, lambda, muL, sigL float64) *MertonJumpDiffusion {
	return &MertonJumpDiffusion{
		Sigma:  sigma,
		Lambda: lambda,
		MuL:    muL,
		SigL:   sigL,
	}
}

func (m *MertonJumpDiffusion) LevyExponent(u complex128) complex128 {
	jump := cmplx.Exp(u*complex(m.MuL, 0)+u*u*complex(m.SigL*m.SigL*0.5, 0)) - 1
	return complex(m.Sigma*m.Sigma*0.5, 0)*u*u + complex(m.Lambda, 0)*jump
}

func (m *MertonJumpDiffusion) JumpDiffusionVol(maturity float64) float64 {
	return math.Sqrt((m.Sigma*m.Sigma + m.Lambda*(m.MuL*m.MuL+m.SigL*m.SigL)) * maturity)
}

func (m *MertonJumpDiffusion) TimeChangeCF(maturity, rate float64, tc TimeChange) CF {
	return timeChangedCF(maturity, rate, m.LevyExponent, m.Sigma, tc)
}
