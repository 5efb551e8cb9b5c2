package calibration

import (
	"math"

	"github.com/bcdannyboy/optionpricer/constraints"
	"github.com/bcdannyboy/optionpricer/fangoost"
	"github.com/bcdannyboy/optionpricer/pricing"
)

// costWeight scales the mean squared error before it is compared with
// AcceptableCost.
const costWeight = 15.0

type maturitySlice struct {
	maturity float64
	strikes  []float64
	prices   []float64
}

type objective struct {
	space       *space
	asset       float64
	rate        float64
	numU        int
	optionScale float64
	slices      []maturitySlice
	count       int
}

func newObjective(s *space, p *constraints.CalibrationParameters, optionScale float64) *objective {
	o := &objective{
		space:       s,
		asset:       p.Asset,
		rate:        p.Rate,
		numU:        p.GridSize(),
		optionScale: optionScale,
	}
	for _, m := range p.OptionData {
		sl := maturitySlice{maturity: m.Maturity}
		for _, q := range m.OptionData {
			sl.strikes = append(sl.strikes, q.Strike)
			sl.prices = append(sl.prices, q.Price)
		}
		o.count += len(sl.strikes)
		o.slices = append(o.slices, sl)
	}
	return o
}

// cost is the weighted mean squared error of model call prices for a reduced
// parameter vector. Each maturity sizes its own pricing domain.
func (o *objective) cost(x []float64) float64 {
	params, err := constraints.FromVector(o.space.model, o.space.expand(x))
	if err != nil {
		return math.Inf(1)
	}
	var sum float64
	for _, sl := range o.slices {
		inst, err := pricing.Dispatch(params, sl.maturity, o.rate)
		if err != nil {
			return math.Inf(1)
		}
		domain := pricing.PricingDomain(o.optionScale, inst.Spread)
		for i, g := range fangoost.CallPrice(o.numU, o.asset, sl.strikes, o.rate, sl.maturity, domain, inst.CF) {
			d := g.Value - sl.prices[i]
			sum += d * d
		}
	}
	if math.IsNaN(sum) {
		return math.Inf(1)
	}
	return costWeight * sum / float64(o.count)
}

// unboundedCost evaluates cost at the logistic image of z.
func (o *objective) unboundedCost(z []float64) float64 {
	return o.cost(o.space.fromUnbounded(z))
}
