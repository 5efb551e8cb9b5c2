package pricing

import (
	"math"

	"github.com/bcdannyboy/optionpricer/constraints"
	"github.com/bcdannyboy/optionpricer/fangoost"
	"github.com/bcdannyboy/optionpricer/models"
)

const (
	DefaultOptionScale  = 10.0
	DefaultDensityScale = 5.0

	// minSpread keeps the truncation domain open when the spread statistic
	// is zero: maturity 0, or a model whose volatility parameters (sigma,
	// C, lambda, v0) are all zero so that the log return is deterministic.
	minSpread = 1e-3

	// maturityStep is the relative step of the central difference in T
	// behind MaturityCF.
	maturityStep = 1e-4
)

// Instance is a characteristic function plus the volatility-like statistic
// that sizes its truncation domain.
type Instance struct {
	CF fangoost.CF
	// MaturityCF is ∂CF/∂T, nil at zero maturity.
	MaturityCF fangoost.CF
	Spread     float64
}

type builder func(p constraints.CFParameters, maturity, rate float64) Instance

var registry = map[constraints.Model]builder{
	constraints.ModelCGMY:   cgmyInstance,
	constraints.ModelMerton: mertonInstance,
	constraints.ModelHeston: hestonInstance,
	constraints.ModelCGMYSE: cgmyseInstance,
}

func cgmyInstance(p constraints.CFParameters, maturity, rate float64) Instance {
	v := p.(constraints.CGMYParameters)
	m := models.NewCGMYModel(v.C, v.G, v.M, v.Y, v.Sigma)
	tc := models.TimeChange{V0: v.V0, Speed: v.Speed, EtaV: v.EtaV, Rho: v.Rho}
	return Instance{
		CF:     fangoost.CF(m.TimeChangeCF(maturity, rate, tc)),
		Spread: m.DiffusionVol(maturity),
	}
}

func mertonInstance(p constraints.CFParameters, maturity, rate float64) Instance {
	v := p.(constraints.MertonParameters)
	m := models.NewMertonJumpDiffusion(v.Sigma, v.Lambda, v.MuL, v.SigL)
	tc := models.TimeChange{V0: v.V0, Speed: v.Speed, EtaV: v.EtaV, Rho: v.Rho}
	return Instance{
		CF:     fangoost.CF(m.TimeChangeCF(maturity, rate, tc)),
		Spread: m.JumpDiffusionVol(maturity),
	}
}

func hestonInstance(p constraints.CFParameters, maturity, rate float64) Instance {
	v := p.(constraints.HestonParameters)
	m := models.NewHestonModel(v.Sigma, v.V0, v.Speed, v.EtaV, v.Rho)
	return Instance{
		CF:     fangoost.CF(m.CF(maturity, rate)),
		Spread: m.Spread(maturity),
	}
}

func cgmyseInstance(p constraints.CFParameters, maturity, rate float64) Instance {
	v := p.(constraints.CGMYSEParameters)
	m := models.NewCGMYSEModel(v.C, v.G, v.M, v.Y, v.Sigma, v.V0, v.Speed, v.EtaV, models.DefaultSelfExcitingSteps)
	return Instance{
		CF:     fangoost.CF(m.CF(maturity, rate)),
		Spread: m.DiffusionVol(maturity),
	}
}

// Dispatch validates p against its model schema and builds its
// characteristic function. No CF is built for out of range parameters.
func Dispatch(p constraints.CFParameters, maturity, rate float64) (Instance, error) {
	if p == nil {
		return Instance{}, constraints.NewNoExist("cf_parameters")
	}
	if err := constraints.CheckCFParameters(p); err != nil {
		return Instance{}, err
	}
	build, ok := registry[p.Model()]
	if !ok {
		return Instance{}, constraints.NewFunctionError(p.Model().String())
	}
	if name := singularParameter(p); name != "" {
		return Instance{}, constraints.NewOutOfBounds(name)
	}
	inst := build(p, maturity, rate)
	if math.IsNaN(inst.Spread) || math.IsInf(inst.Spread, 0) {
		return Instance{}, constraints.NewOutOfBounds("cf_parameters")
	}
	if inst.Spread < minSpread {
		inst.Spread = minSpread
	}
	if maturity > 0 {
		h := maturity * maturityStep
		up, down := build(p, maturity+h, rate).CF, build(p, maturity-h, rate).CF
		inst.MaturityCF = func(u complex128) complex128 {
			return (up(u) - down(u)) / complex(2*h, 0)
		}
	}
	return inst, nil
}

// singularParameter names a parameter sitting on a pole of the CGMY Lévy
// measure inside the closed schema box: Y = 2 where Γ(-Y) diverges, and
// G = 0 or M = 0 where the tail has no exponential damping. The check only
// applies while C > 0.
func singularParameter(p constraints.CFParameters) string {
	var c, g, m, y float64
	switch v := p.(type) {
	case constraints.CGMYParameters:
		c, g, m, y = v.C, v.G, v.M, v.Y
	case constraints.CGMYSEParameters:
		c, g, m, y = v.C, v.G, v.M, v.Y
	default:
		return ""
	}
	switch {
	case c == 0:
		return ""
	case y >= 2:
		return "y"
	case g <= 0:
		return "g"
	case m <= 0:
		return "m"
	}
	return ""
}

// PricingDomain is the option truncation range. It reaches the max strike
// asset*exp(optionScale*spread), expressed by its log moneyness.
func PricingDomain(optionScale, spread float64) fangoost.Domain {
	return fangoost.Centered(optionScale * spread)
}

// DensityBound is the half width of the density and risk domain.
func DensityBound(densityScale, spread float64) float64 {
	return spread * densityScale
}
