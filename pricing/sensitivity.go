// Package pricing turns validated model parameters into characteristic
// functions and maps requested sensitivities onto the Fourier-cosine engine.
package pricing

import (
	"fmt"

	"github.com/bcdannyboy/optionpricer/constraints"
)

// Sensitivity selects what a pricing request computes.
type Sensitivity int

const (
	PutPrice Sensitivity = iota
	CallPrice
	PutDelta
	CallDelta
	PutGamma
	CallGamma
	PutTheta
	CallTheta
	Density
	RiskMeasure
)

// selectors is the only place route segments are mapped to sensitivities.
// Density and risk requests carry no option type and arrive as "density_"
// and "riskmetric_".
var selectors = map[string]Sensitivity{
	"put_price":   PutPrice,
	"call_price":  CallPrice,
	"put_delta":   PutDelta,
	"call_delta":  CallDelta,
	"put_gamma":   PutGamma,
	"call_gamma":  CallGamma,
	"put_theta":   PutTheta,
	"call_theta":  CallTheta,
	"density_":    Density,
	"riskmetric_": RiskMeasure,
}

var sensitivityNames = [...]string{
	PutPrice:    "put_price",
	CallPrice:   "call_price",
	PutDelta:    "put_delta",
	CallDelta:   "call_delta",
	PutGamma:    "put_gamma",
	CallGamma:   "call_gamma",
	PutTheta:    "put_theta",
	CallTheta:   "call_theta",
	Density:     "density_",
	RiskMeasure: "riskmetric_",
}

// ParseSensitivity resolves "<optionType>_<sensitivity>". Unknown
// combinations are a FunctionError naming the combined key.
func ParseSensitivity(optionType, sensitivity string) (Sensitivity, error) {
	key := fmt.Sprintf("%s_%s", optionType, sensitivity)
	s, ok := selectors[key]
	if !ok {
		return 0, constraints.NewFunctionError(key)
	}
	return s, nil
}

func (s Sensitivity) String() string {
	if s < 0 || int(s) >= len(sensitivityNames) {
		return fmt.Sprintf("Sensitivity(%d)", int(s))
	}
	return sensitivityNames[s]
}

// Sensitivities lists every selector in declaration order.
func Sensitivities() []Sensitivity {
	out := make([]Sensitivity, 0, len(sensitivityNames))
	for s := range sensitivityNames {
		out = append(out, Sensitivity(s))
	}
	return out
}

// IsOption reports whether s is priced per strike.
func (s Sensitivity) IsOption() bool {
	return s >= PutPrice && s <= CallTheta
}

// IsPrice reports whether s produces prices that can be inverted to an
// implied volatility.
func (s Sensitivity) IsPrice() bool {
	return s == PutPrice || s == CallPrice
}

func (s Sensitivity) IsCall() bool {
	switch s {
	case CallPrice, CallDelta, CallGamma, CallTheta:
		return true
	}
	return false
}
