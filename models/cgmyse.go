package models

import (
	"math"
	"math/cmplx"
)

// DefaultSelfExcitingSteps is the RK4 grid used for the CGMYSE Riccati system.
const DefaultSelfExcitingSteps = 256

const (
	// maxSelfExcitingSteps caps the refined grid of a stiff system.
	maxSelfExcitingSteps = 1 << 17
	// rk4Stability stays inside the RK4 stability region |λ dt| < 2.78.
	rk4Stability  = 2.5
	stiffnessStep = 1e-6
)

// CGMYSEModel is CGMY run on a self-exciting clock: the activity rate mean
// reverts to one at Speed and jumps by EtaV*|x| whenever the asset jumps
// down by x.
type CGMYSEModel struct {
	CGMYModel
	V0    float64
	Speed float64
	EtaV  float64
	Steps int
}

func NewCGMYSEModel(c, g, m, y, sigma, v0, speed, etaV float64, steps int) *CGMYSEModel {
	return &CGMYSEModel{
		CGMYModel: CGMYModel{C: c, G: g, M: m, Y: y, Sigma: sigma},
		V0:        v0,
		Speed:     speed,
		EtaV:      etaV,
		Steps:     steps,
	}
}

// CF solves dB/dτ = ψ_c(u, B) - speed B, dA/dτ = speed B with RK4 and
// returns exp(urT + A(T) + B(T) v0). Small G with EtaV > 0 makes the system
// stiff near B = 0, so the grid is refined per u until |∂rhs/∂B| dt is stable.
func (m *CGMYSEModel) CF(maturity, rate float64) CF {
	steps := m.Steps
	if steps <= 0 {
		steps = DefaultSelfExcitingSteps
	}
	psi1 := m.LevyExponent(1)
	speed := complex(m.Speed, 0)
	etaV := complex(m.EtaV, 0)
	drift := complex(rate*maturity, 0)

	return func(u complex128) complex128 {
		fixed := m.diffusion(u) + m.positiveJumps(u) - u*psi1
		rhs := func(b complex128) complex128 {
			return fixed + m.negativeJumps(u-etaV*b) - speed*b
		}
		n := steps
		lam := cmplx.Abs(rhs(complex(stiffnessStep, 0))-rhs(0)) / stiffnessStep
		if lam*maturity > rk4Stability*float64(n) {
			n = int(math.Min(math.Ceil(lam*maturity/rk4Stability), maxSelfExcitingSteps))
		}
		dt := complex(maturity/float64(n), 0)
		var a, b complex128
		for i := 0; i < n; i++ {
			b1 := b
			k1 := rhs(b1)
			b2 := b + dt*0.5*k1
			k2 := rhs(b2)
			b3 := b + dt*0.5*k2
			k3 := rhs(b3)
			b4 := b + dt*k3
			k4 := rhs(b4)
			a += speed * dt * (b1 + 2*b2 + 2*b3 + b4) / 6
			b += dt * (k1 + 2*k2 + 2*k3 + k4) / 6
		}
		return cmplx.Exp(u*drift + a + b*complex(m.V0, 0))
	}
}
