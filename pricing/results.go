package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/bcdannyboy/optionpricer/constraints"
	"github.com/bcdannyboy/optionpricer/fangoost"
)

// GraphElement is the public point shape of every curve. IV is only set for
// price selectors when implied volatility was requested.
type GraphElement struct {
	AtPoint float64  `json:"at_point"`
	Value   float64  `json:"value"`
	IV      *float64 `json:"iv,omitempty"`
}

type RiskMetric struct {
	ValueAtRisk       float64 `json:"value_at_risk"`
	ExpectedShortfall float64 `json:"expected_shortfall"`
}

// ErrNonFinite reports a NaN or infinite result. It is a server fault, never
// a client error, and such values are never serialized.
var ErrNonFinite = errors.New("non-finite result")

type optionFunc func(numU int, asset float64, strikes []float64, rate, maturity float64, d fangoost.Domain, inst Instance) []fangoost.GraphElement

type cfFunc func(numU int, asset float64, strikes []float64, rate, maturity float64, d fangoost.Domain, cf fangoost.CF) []fangoost.GraphElement

type thetaFunc func(numU int, asset float64, strikes []float64, rate, maturity float64, d fangoost.Domain, cf, dcf fangoost.CF) []fangoost.GraphElement

func withCF(f cfFunc) optionFunc {
	return func(numU int, asset float64, strikes []float64, rate, maturity float64, d fangoost.Domain, inst Instance) []fangoost.GraphElement {
		return f(numU, asset, strikes, rate, maturity, d, inst.CF)
	}
}

func withMaturityCF(f thetaFunc) optionFunc {
	return func(numU int, asset float64, strikes []float64, rate, maturity float64, d fangoost.Domain, inst Instance) []fangoost.GraphElement {
		return f(numU, asset, strikes, rate, maturity, d, inst.CF, inst.MaturityCF)
	}
}

var optionFuncs = map[Sensitivity]optionFunc{
	PutPrice:  withCF(fangoost.PutPrice),
	CallPrice: withCF(fangoost.CallPrice),
	PutDelta:  withCF(fangoost.PutDelta),
	CallDelta: withCF(fangoost.CallDelta),
	PutGamma:  withCF(fangoost.Gamma),
	CallGamma: withCF(fangoost.Gamma),
	PutTheta:  withMaturityCF(fangoost.PutTheta),
	CallTheta: withMaturityCF(fangoost.CallTheta),
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func checkFinite(graph []GraphElement) error {
	for _, g := range graph {
		if !finite(g.Value) {
			return fmt.Errorf("%w: %v at %v", ErrNonFinite, g.Value, g.AtPoint)
		}
	}
	return nil
}

func toGraph(points []fangoost.GraphElement) []GraphElement {
	out := make([]GraphElement, len(points))
	for i, p := range points {
		out[i] = GraphElement{AtPoint: p.X, Value: p.Value}
	}
	return out
}

// OptionResults prices strikes for a per-strike selector. numU is the grid
// size, not its exponent.
func OptionResults(sel Sensitivity, includeIV bool, p constraints.CFParameters, optionScale float64, numU int, asset, maturity, rate float64, strikes []float64) ([]GraphElement, error) {
	f, ok := optionFuncs[sel]
	if !ok {
		return nil, constraints.NewFunctionError(sel.String())
	}
	if !(asset > 0) {
		return nil, constraints.NewOutOfBounds("asset")
	}
	inst, err := Dispatch(p, maturity, rate)
	if err != nil {
		return nil, err
	}
	graph := toGraph(f(numU, asset, strikes, rate, maturity, PricingDomain(optionScale, inst.Spread), inst))
	if err := checkFinite(graph); err != nil {
		return nil, err
	}
	if includeIV && sel.IsPrice() {
		if err := attachImpliedVolatility(graph, asset, rate, maturity, sel.IsCall()); err != nil {
			return nil, err
		}
	}
	return graph, nil
}

// DensityResults samples the log return density on [-x_max, x_max].
func DensityResults(p constraints.CFParameters, densityScale float64, numU int, maturity, rate float64) ([]GraphElement, error) {
	inst, err := Dispatch(p, maturity, rate)
	if err != nil {
		return nil, err
	}
	graph := toGraph(fangoost.Density(numU, DensityBound(densityScale, inst.Spread), inst.CF))
	if err := checkFinite(graph); err != nil {
		return nil, err
	}
	return graph, nil
}

func RiskMeasureResults(p constraints.CFParameters, densityScale float64, numU int, maturity, rate, quantile float64) (RiskMetric, error) {
	inst, err := Dispatch(p, maturity, rate)
	if err != nil {
		return RiskMetric{}, err
	}
	xMax := DensityBound(densityScale, inst.Spread)
	risk, err := fangoost.ValueAtRisk(numU, quantile, fangoost.Domain{A: -xMax, B: xMax}, inst.CF)
	if err != nil {
		return RiskMetric{}, constraints.NewValueAtRiskError(err.Error())
	}
	if !finite(risk.ValueAtRisk) || !finite(risk.ExpectedShortfall) {
		return RiskMetric{}, fmt.Errorf("%w: risk metric %+v", ErrNonFinite, risk)
	}
	return RiskMetric{ValueAtRisk: risk.ValueAtRisk, ExpectedShortfall: risk.ExpectedShortfall}, nil
}

// Inputs gathers everything Evaluate may need. Fields a selector does not
// use are ignored.
type Inputs struct {
	Params       constraints.CFParameters
	IncludeIV    bool
	OptionScale  float64
	DensityScale float64
	NumU         int
	Asset        float64
	Maturity     float64
	Rate         float64
	Strikes      []float64
	Quantile     float64
}

// Result holds either a graph or a risk metric.
type Result struct {
	Graph []GraphElement
	Risk  *RiskMetric
}

// Evaluate routes every selector to exactly one computation.
func Evaluate(sel Sensitivity, in Inputs) (Result, error) {
	switch {
	case sel.IsOption():
		graph, err := OptionResults(sel, in.IncludeIV, in.Params, in.OptionScale, in.NumU, in.Asset, in.Maturity, in.Rate, in.Strikes)
		return Result{Graph: graph}, err
	case sel == Density:
		graph, err := DensityResults(in.Params, in.DensityScale, in.NumU, in.Maturity, in.Rate)
		return Result{Graph: graph}, err
	case sel == RiskMeasure:
		risk, err := RiskMeasureResults(in.Params, in.DensityScale, in.NumU, in.Maturity, in.Rate, in.Quantile)
		if err != nil {
			return Result{}, err
		}
		return Result{Risk: &risk}, nil
	}
	return Result{}, constraints.NewFunctionError(sel.String())
}
