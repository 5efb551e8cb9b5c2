package constraints

// ConstraintsSchema describes the admissible range of a single parameter.
type ConstraintsSchema struct {
	Lower       float64 `json:"lower"`
	Upper       float64 `json:"upper"`
	Types       string  `json:"types"`
	Description string  `json:"description"`
}

// NamedConstraint pairs a schema with the parameter name it applies to.
type NamedConstraint struct {
	Name   string
	Schema ConstraintsSchema
}

// Mid returns the midpoint of the range.
func (c ConstraintsSchema) Mid() float64 {
	return (c.Upper + c.Lower) * 0.5
}

// Over maps u in [0, 1] onto the range.
func (c ConstraintsSchema) Over(u float64) float64 {
	return c.Lower + (c.Upper-c.Lower)*u
}

const (
	typeFloat = "float"
	typeInt   = "int"
)

const (
	descSigma = "Volatility of diffusion component of asset process"
	descV0    = "Initial value of the time-change diffusion"
	descSpeed = "Rate at which time-change diffusion reverts to mean"
	descEtaV  = "Volatility of time-change diffusion"
	descRho   = "Correlation between asset and time-change diffusions"
)

type ParameterConstraints struct {
	Rate     ConstraintsSchema `json:"rate"`
	Asset    ConstraintsSchema `json:"asset"`
	Maturity ConstraintsSchema `json:"maturity"`
	NumU     ConstraintsSchema `json:"num_u"`
	Quantile ConstraintsSchema `json:"quantile"`
}

type MertonConstraints struct {
	Lambda ConstraintsSchema `json:"lambda"`
	MuL    ConstraintsSchema `json:"mu_l"`
	SigL   ConstraintsSchema `json:"sig_l"`
	Sigma  ConstraintsSchema `json:"sigma"`
	V0     ConstraintsSchema `json:"v0"`
	Speed  ConstraintsSchema `json:"speed"`
	EtaV   ConstraintsSchema `json:"eta_v"`
	Rho    ConstraintsSchema `json:"rho"`
}

type CGMYConstraints struct {
	C     ConstraintsSchema `json:"c"`
	G     ConstraintsSchema `json:"g"`
	M     ConstraintsSchema `json:"m"`
	Y     ConstraintsSchema `json:"y"`
	Sigma ConstraintsSchema `json:"sigma"`
	V0    ConstraintsSchema `json:"v0"`
	Speed ConstraintsSchema `json:"speed"`
	EtaV  ConstraintsSchema `json:"eta_v"`
	Rho   ConstraintsSchema `json:"rho"`
}

type HestonConstraints struct {
	Sigma ConstraintsSchema `json:"sigma"`
	V0    ConstraintsSchema `json:"v0"`
	Speed ConstraintsSchema `json:"speed"`
	EtaV  ConstraintsSchema `json:"eta_v"`
	Rho   ConstraintsSchema `json:"rho"`
}

type CGMYSEConstraints struct {
	C     ConstraintsSchema `json:"c"`
	G     ConstraintsSchema `json:"g"`
	M     ConstraintsSchema `json:"m"`
	Y     ConstraintsSchema `json:"y"`
	Sigma ConstraintsSchema `json:"sigma"`
	V0    ConstraintsSchema `json:"v0"`
	Speed ConstraintsSchema `json:"speed"`
	EtaV  ConstraintsSchema `json:"eta_v"`
}

// Envelope, Merton, CGMY, Heston and CGMYSE schemas. These are never mutated.
var (
	Parameter = ParameterConstraints{
		Rate:     ConstraintsSchema{0.0, 0.4, typeFloat, "Annualized risk-free interest rate"},
		Asset:    ConstraintsSchema{0.0, 1000000.0, typeFloat, "Underlying asset"},
		Maturity: ConstraintsSchema{0.0, 1000000.0, typeFloat, "Time in years till option expiration"},
		NumU: ConstraintsSchema{5.0, 10.0, typeInt,
			"Exponent for the precision of the numeric inversion.  For example, 8 represents 2^8=256."},
		Quantile: ConstraintsSchema{0.0, 1.0, typeFloat,
			"Quantile of (risk-neutral) distribution of the underlying asset.  For example, 0.05 would map to a 95% VaR."},
	}

	Merton = MertonConstraints{
		Lambda: ConstraintsSchema{0.0, 2.0, typeFloat, "Annualized frequency of jumps for the asset process"},
		MuL:    ConstraintsSchema{-1.0, 1.0, typeFloat, "Mean jump size"},
		SigL:   ConstraintsSchema{0.0, 2.0, typeFloat, "Volatility of jump size"},
		Sigma:  ConstraintsSchema{0.0, 1.0, typeFloat, descSigma},
		V0:     ConstraintsSchema{0.2, 1.8, typeFloat, descV0},
		Speed:  ConstraintsSchema{0.0, 3.0, typeFloat, descSpeed},
		EtaV:   ConstraintsSchema{0.0, 3.0, typeFloat, descEtaV},
		Rho:    ConstraintsSchema{-1.0, 1.0, typeFloat, descRho},
	}

	CGMY = CGMYConstraints{
		C:     ConstraintsSchema{0.0, 2.0, typeFloat, "Parameter C from CGMY, controls overall level of jump frequency"},
		G:     ConstraintsSchema{0.0, 20.0, typeFloat, "Parameter G from CGMY, controls rate of decay for left side of asset distribution"},
		M:     ConstraintsSchema{0.0, 20.0, typeFloat, "Parameter M from CGMY, controls rate of decay for right side of asset distribution"},
		Y:     ConstraintsSchema{-1.0, 2.0, typeFloat, "Parameter Y from CGMY, characterizes fine structure of jumps"},
		Sigma: ConstraintsSchema{0.0, 1.0, typeFloat, descSigma},
		V0:    ConstraintsSchema{0.2, 1.8, typeFloat, descV0},
		Speed: ConstraintsSchema{0.0, 3.0, typeFloat, descSpeed},
		EtaV:  ConstraintsSchema{0.0, 3.0, typeFloat, descEtaV},
		Rho:   ConstraintsSchema{-1.0, 1.0, typeFloat, descRho},
	}

	Heston = HestonConstraints{
		Sigma: ConstraintsSchema{0.0, 1.0, typeFloat, "Square root of mean of variance process"},
		V0:    ConstraintsSchema{0.001, 1.5, typeFloat, "Square root of initial value of the instantaneous variance"},
		Speed: ConstraintsSchema{0.0, 3.0, typeFloat, "Rate at which variance reverts to mean"},
		EtaV:  ConstraintsSchema{0.0, 3.0, typeFloat, "Vol of vol: volatility of instantaneous variance"},
		Rho:   ConstraintsSchema{-1.0, 1.0, typeFloat, "Correlation between asset and variance diffusions"},
	}

	CGMYSE = CGMYSEConstraints{
		C:     CGMY.C,
		G:     CGMY.G,
		M:     CGMY.M,
		Y:     CGMY.Y,
		Sigma: CGMY.Sigma,
		V0:    CGMY.V0,
		Speed: CGMY.Speed,
		EtaV:  ConstraintsSchema{0.0, 3.0, typeFloat, "Self-excitation: jump in activity per unit of downward jump"},
	}
)

func (c MertonConstraints) ToVector() []NamedConstraint {
	return []NamedConstraint{
		{"lambda", c.Lambda},
		{"mu_l", c.MuL},
		{"sig_l", c.SigL},
		{"sigma", c.Sigma},
		{"v0", c.V0},
		{"speed", c.Speed},
		{"eta_v", c.EtaV},
		{"rho", c.Rho},
	}
}

func (c CGMYConstraints) ToVector() []NamedConstraint {
	return []NamedConstraint{
		{"c", c.C},
		{"g", c.G},
		{"m", c.M},
		{"y", c.Y},
		{"sigma", c.Sigma},
		{"v0", c.V0},
		{"speed", c.Speed},
		{"eta_v", c.EtaV},
		{"rho", c.Rho},
	}
}

func (c HestonConstraints) ToVector() []NamedConstraint {
	return []NamedConstraint{
		{"sigma", c.Sigma},
		{"v0", c.V0},
		{"speed", c.Speed},
		{"eta_v", c.EtaV},
		{"rho", c.Rho},
	}
}

func (c CGMYSEConstraints) ToVector() []NamedConstraint {
	return []NamedConstraint{
		{"c", c.C},
		{"g", c.G},
		{"m", c.M},
		{"y", c.Y},
		{"sigma", c.Sigma},
		{"v0", c.V0},
		{"speed", c.Speed},
		{"eta_v", c.EtaV},
	}
}

// ModelConstraints returns the positional schema of a model.
func ModelConstraints(m Model) []NamedConstraint {
	switch m {
	case ModelCGMY:
		return CGMY.ToVector()
	case ModelMerton:
		return Merton.ToVector()
	case ModelHeston:
		return Heston.ToVector()
	case ModelCGMYSE:
		return CGMYSE.ToVector()
	}
	return nil
}

// ParameterRanges returns the schema served for a model name. Unknown names
// get the envelope schema.
func ParameterRanges(name string) interface{} {
	m, err := ParseModel(name)
	if err != nil {
		return Parameter
	}
	switch m {
	case ModelCGMY:
		return CGMY
	case ModelMerton:
		return Merton
	case ModelHeston:
		return Heston
	case ModelCGMYSE:
		return CGMYSE
	}
	return Parameter
}
