package models

import (
	"math/cmplx"
)

// CF is a characteristic function of the log return in moment generating
// form: it is evaluated at u = iω, CF(0) = 1 and CF(1) = exp(rT). Values
// are pure closures and safe for concurrent use.
type CF func(u complex128) complex128

// TimeChange is a CIR activity rate dv = speed(1-v)dt + etaV sqrt(v) dW that
// runs the Lévy clock. Rho correlates dW with the diffusion of the asset.
type TimeChange struct {
	V0    float64
	Speed float64
	EtaV  float64
	Rho   float64
}

// NoTimeChange leaves the Lévy clock at calendar time.
var NoTimeChange = TimeChange{V0: 1.0}

const kappaTolerance = 1e-12

// cirLogMGF returns log E[exp(-psi * ∫_0^t v_s ds)] for
// dv = (a - kappa v)dt + sigma sqrt(v) dW, v(0) = v0.
func cirLogMGF(psi complex128, a float64, kappa complex128, sigma, t, v0 float64) complex128 {
	if psi == 0 {
		return 0
	}
	ct := complex(t, 0)
	ca := complex(a, 0)
	if sigma == 0 {
		if cmplx.Abs(kappa) < kappaTolerance {
			return -psi * complex(v0*t+a*t*t*0.5, 0)
		}
		integral := ca/kappa*ct + (complex(v0, 0)-ca/kappa)*(1-cmplx.Exp(-kappa*ct))/kappa
		return -psi * integral
	}
	s2 := sigma * sigma
	delta := cmplx.Sqrt(kappa*kappa + 2*psi*complex(s2, 0))
	e := cmplx.Exp(-delta * ct)
	b := 2 * psi * (1 - e) / (delta + kappa + (delta-kappa)*e)
	c := complex(a/s2, 0) * (2*cmplx.Log(1-(delta-kappa)*(1-e)/(2*delta)) + (delta-kappa)*ct)
	return -b*complex(v0, 0) - c
}

// timeChangedCF runs a Lévy process with exponent psi on the TimeChange
// clock and adds the risk-neutral drift. sigma is the diffusion volatility the
// leverage acts on.
func timeChangedCF(maturity, rate float64, psi func(complex128) complex128, sigma float64, tc TimeChange) CF {
	psi1 := psi(1)
	drift := complex(rate*maturity, 0)
	return func(u complex128) complex128 {
		compensated := psi(u) - u*psi1
		kappa := complex(tc.Speed, 0) - complex(tc.EtaV*tc.Rho*sigma, 0)*u
		return cmplx.Exp(u*drift + cirLogMGF(-compensated, tc.Speed, kappa, tc.EtaV, maturity, tc.V0))
	}
}
