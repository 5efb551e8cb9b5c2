package fangoost

import (
	"math"
	"math/cmplx"
)

// CF is a characteristic function in moment generating form.
type CF func(u complex128) complex128

// Domain is the truncation range of the log return x = ln(S_T / S_0).
type Domain struct {
	A, B float64
}

// Centered is the range [-halfWidth, halfWidth] of log returns. For a
// domain reaching strike K the half width is ln(K/S), kept in log space
// because K itself overflows for wide domains.
func Centered(halfWidth float64) Domain {
	return Domain{A: -halfWidth, B: halfWidth}
}

type pricer struct {
	exp      *expansion
	asset    float64
	rate     float64
	maturity float64
	discount float64
}

func newPricer(numU int, asset, rate, maturity float64, d Domain, cf CF) *pricer {
	return &pricer{
		exp:      newExpansion(numU, d.A, d.B, cf),
		asset:    asset,
		rate:     rate,
		maturity: maturity,
		discount: math.Exp(-rate * maturity),
	}
}

// putSums returns Σ' F_k ψ_k and Σ' F_k χ_k for the put payoff region
// x <= ln(K/S), or ok=false when that region misses the domain.
func (p *pricer) putSums(coeff []float64, strike float64) (psiSum, chiSum float64, ok bool) {
	e := p.exp
	x0 := math.Log(p.asset / strike)
	d := math.Min(e.b, -x0)
	if d <= e.a {
		return 0, 0, false
	}
	for k, c := range coeff {
		psiSum += c * psi(e.u[k], e.a, d)
		chiSum += c * chi(e.u[k], e.a, d)
	}
	return psiSum, chiSum, true
}

// putPrice is e^{-rT} E[(K - S_T)^+] with S_T = S e^x.
func (p *pricer) putPrice(strike float64) float64 {
	psiSum, chiSum, ok := p.putSums(p.exp.coeff, strike)
	if !ok {
		return 0
	}
	return p.discount * (strike*psiSum - p.asset*chiSum)
}

func (p *pricer) callPrice(strike float64) float64 {
	return p.putPrice(strike) + p.asset - strike*p.discount
}

func (p *pricer) putDelta(strike float64) float64 {
	_, chiSum, ok := p.putSums(p.exp.coeff, strike)
	if !ok {
		return 0
	}
	return -p.discount * chiSum
}

func (p *pricer) callDelta(strike float64) float64 {
	return p.putDelta(strike) + 1
}

// gamma is shared by puts and calls: e^{-rT} K f(ln(K/S)) / S^2.
func (p *pricer) gamma(strike float64) float64 {
	x := math.Log(strike / p.asset)
	if x <= p.exp.a || x >= p.exp.b {
		return 0
	}
	return p.discount * strike * p.exp.density(x) / (p.asset * p.asset)
}

// maturityCoeff returns ∂F_k/∂T from dcf, the maturity derivative of the
// characteristic function.
func (p *pricer) maturityCoeff(dcf CF) []float64 {
	e := p.exp
	out := make([]float64, len(e.coeff))
	if p.maturity <= 0 || dcf == nil {
		return out
	}
	width := e.b - e.a
	for k, u := range e.u {
		c := 2 / width * real(dcf(complex(0, u))*cmplx.Exp(complex(0, -u*e.a)))
		if k == 0 {
			c *= 0.5
		}
		if !math.IsNaN(c) {
			out[k] = c
		}
	}
	return out
}

// putTheta is -∂P/∂T.
func (p *pricer) putTheta(strike float64, dcoeff []float64) float64 {
	psiSum, chiSum, ok := p.putSums(dcoeff, strike)
	price := p.putPrice(strike)
	if !ok {
		return p.rate * price
	}
	return p.rate*price - p.discount*(strike*psiSum-p.asset*chiSum)
}

func (p *pricer) callTheta(strike float64, dcoeff []float64) float64 {
	return p.putTheta(strike, dcoeff) - p.rate*strike*p.discount
}

func (p *pricer) graph(strikes []float64, f func(strike float64) float64) []GraphElement {
	out := make([]GraphElement, len(strikes))
	for i, k := range strikes {
		out[i] = GraphElement{X: k, Value: f(k)}
	}
	return out
}

func PutPrice(numU int, asset float64, strikes []float64, rate, maturity float64, d Domain, cf CF) []GraphElement {
	p := newPricer(numU, asset, rate, maturity, d, cf)
	return p.graph(strikes, p.putPrice)
}

func CallPrice(numU int, asset float64, strikes []float64, rate, maturity float64, d Domain, cf CF) []GraphElement {
	p := newPricer(numU, asset, rate, maturity, d, cf)
	return p.graph(strikes, p.callPrice)
}

func PutDelta(numU int, asset float64, strikes []float64, rate, maturity float64, d Domain, cf CF) []GraphElement {
	p := newPricer(numU, asset, rate, maturity, d, cf)
	return p.graph(strikes, p.putDelta)
}

func CallDelta(numU int, asset float64, strikes []float64, rate, maturity float64, d Domain, cf CF) []GraphElement {
	p := newPricer(numU, asset, rate, maturity, d, cf)
	return p.graph(strikes, p.callDelta)
}

// Gamma is identical for puts and calls.
func Gamma(numU int, asset float64, strikes []float64, rate, maturity float64, d Domain, cf CF) []GraphElement {
	p := newPricer(numU, asset, rate, maturity, d, cf)
	return p.graph(strikes, p.gamma)
}

// PutTheta needs dcf = ∂cf/∂T alongside cf. A nil dcf drops the
// distribution term and leaves only discounting.
func PutTheta(numU int, asset float64, strikes []float64, rate, maturity float64, d Domain, cf, dcf CF) []GraphElement {
	p := newPricer(numU, asset, rate, maturity, d, cf)
	dcoeff := p.maturityCoeff(dcf)
	return p.graph(strikes, func(k float64) float64 { return p.putTheta(k, dcoeff) })
}

func CallTheta(numU int, asset float64, strikes []float64, rate, maturity float64, d Domain, cf, dcf CF) []GraphElement {
	p := newPricer(numU, asset, rate, maturity, d, cf)
	dcoeff := p.maturityCoeff(dcf)
	return p.graph(strikes, func(k float64) float64 { return p.callTheta(k, dcoeff) })
}
