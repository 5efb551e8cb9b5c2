package constraints

import (
	"strings"

	"github.com/xhhuango/json"
)

type Model int

const (
	ModelCGMY Model = iota
	ModelMerton
	ModelHeston
	ModelCGMYSE
)

var modelNames = [...]string{
	ModelCGMY:   "cgmy",
	ModelMerton: "merton",
	ModelHeston: "heston",
	ModelCGMYSE: "cgmyse",
}

func (m Model) String() string {
	if m < 0 || int(m) >= len(modelNames) {
		return "unknown"
	}
	return modelNames[m]
}

// Models lists every known model in declaration order.
func Models() []Model {
	return []Model{ModelCGMY, ModelMerton, ModelHeston, ModelCGMYSE}
}

// ParseModel maps a wire name to a Model.
func ParseModel(name string) (Model, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for i, n := range modelNames {
		if n == lower {
			return Model(i), nil
		}
	}
	return 0, NewFunctionError(name)
}

// NamedValue is one (value, name) pair of a parameter vector.
type NamedValue struct {
	Value float64
	Name  string
}

// CFParameters is the parameter set of exactly one model.
type CFParameters interface {
	Model() Model
	ToVector() []NamedValue
	isCFParameters()
}

type CGMYParameters struct {
	C     float64 `json:"c"`
	G     float64 `json:"g"`
	M     float64 `json:"m"`
	Y     float64 `json:"y"`
	Sigma float64 `json:"sigma"`
	V0    float64 `json:"v0"`
	Speed float64 `json:"speed"`
	EtaV  float64 `json:"eta_v"`
	Rho   float64 `json:"rho"`
}

type MertonParameters struct {
	Lambda float64 `json:"lambda"`
	MuL    float64 `json:"mu_l"`
	SigL   float64 `json:"sig_l"`
	Sigma  float64 `json:"sigma"`
	V0     float64 `json:"v0"`
	Speed  float64 `json:"speed"`
	EtaV   float64 `json:"eta_v"`
	Rho    float64 `json:"rho"`
}

type HestonParameters struct {
	Sigma float64 `json:"sigma"`
	V0    float64 `json:"v0"`
	Speed float64 `json:"speed"`
	EtaV  float64 `json:"eta_v"`
	Rho   float64 `json:"rho"`
}

type CGMYSEParameters struct {
	C     float64 `json:"c"`
	G     float64 `json:"g"`
	M     float64 `json:"m"`
	Y     float64 `json:"y"`
	Sigma float64 `json:"sigma"`
	V0    float64 `json:"v0"`
	Speed float64 `json:"speed"`
	EtaV  float64 `json:"eta_v"`
}

func (CGMYParameters) Model() Model   { return ModelCGMY }
func (MertonParameters) Model() Model { return ModelMerton }
func (HestonParameters) Model() Model { return ModelHeston }
func (CGMYSEParameters) Model() Model { return ModelCGMYSE }

func (CGMYParameters) isCFParameters()   {}
func (MertonParameters) isCFParameters() {}
func (HestonParameters) isCFParameters() {}
func (CGMYSEParameters) isCFParameters() {}

func (p CGMYParameters) ToVector() []NamedValue {
	return []NamedValue{
		{p.C, "c"},
		{p.G, "g"},
		{p.M, "m"},
		{p.Y, "y"},
		{p.Sigma, "sigma"},
		{p.V0, "v0"},
		{p.Speed, "speed"},
		{p.EtaV, "eta_v"},
		{p.Rho, "rho"},
	}
}

func (p MertonParameters) ToVector() []NamedValue {
	return []NamedValue{
		{p.Lambda, "lambda"},
		{p.MuL, "mu_l"},
		{p.SigL, "sig_l"},
		{p.Sigma, "sigma"},
		{p.V0, "v0"},
		{p.Speed, "speed"},
		{p.EtaV, "eta_v"},
		{p.Rho, "rho"},
	}
}

func (p HestonParameters) ToVector() []NamedValue {
	return []NamedValue{
		{p.Sigma, "sigma"},
		{p.V0, "v0"},
		{p.Speed, "speed"},
		{p.EtaV, "eta_v"},
		{p.Rho, "rho"},
	}
}

func (p CGMYSEParameters) ToVector() []NamedValue {
	return []NamedValue{
		{p.C, "c"},
		{p.G, "g"},
		{p.M, "m"},
		{p.Y, "y"},
		{p.Sigma, "sigma"},
		{p.V0, "v0"},
		{p.Speed, "speed"},
		{p.EtaV, "eta_v"},
	}
}

// FromVector rebuilds typed parameters from a vector in schema order. A
// vector of the wrong length is reported as OutOfBounds("Calibration").
func FromVector(m Model, x []float64) (CFParameters, error) {
	if len(x) != len(ModelConstraints(m)) {
		return nil, NewOutOfBounds("Calibration")
	}
	switch m {
	case ModelCGMY:
		return CGMYParameters{C: x[0], G: x[1], M: x[2], Y: x[3], Sigma: x[4], V0: x[5], Speed: x[6], EtaV: x[7], Rho: x[8]}, nil
	case ModelMerton:
		return MertonParameters{Lambda: x[0], MuL: x[1], SigL: x[2], Sigma: x[3], V0: x[4], Speed: x[5], EtaV: x[6], Rho: x[7]}, nil
	case ModelHeston:
		return HestonParameters{Sigma: x[0], V0: x[1], Speed: x[2], EtaV: x[3], Rho: x[4]}, nil
	case ModelCGMYSE:
		return CGMYSEParameters{C: x[0], G: x[1], M: x[2], Y: x[3], Sigma: x[4], V0: x[5], Speed: x[6], EtaV: x[7]}, nil
	}
	return nil, NewFunctionError(m.String())
}

// Serialized parameters always carry their model discriminant.

func (p CGMYParameters) MarshalJSON() ([]byte, error) {
	type plain CGMYParameters
	return json.Marshal(struct {
		Model string `json:"model"`
		plain
	}{ModelCGMY.String(), plain(p)})
}

func (p MertonParameters) MarshalJSON() ([]byte, error) {
	type plain MertonParameters
	return json.Marshal(struct {
		Model string `json:"model"`
		plain
	}{ModelMerton.String(), plain(p)})
}

func (p HestonParameters) MarshalJSON() ([]byte, error) {
	type plain HestonParameters
	return json.Marshal(struct {
		Model string `json:"model"`
		plain
	}{ModelHeston.String(), plain(p)})
}

func (p CGMYSEParameters) MarshalJSON() ([]byte, error) {
	type plain CGMYSEParameters
	return json.Marshal(struct {
		Model string `json:"model"`
		plain
	}{ModelCGMYSE.String(), plain(p)})
}

// OptionParameters is the pricing, density and risk request envelope. NumU is
// the exponent of the Fourier grid size.
type OptionParameters struct {
	Maturity     float64      `json:"maturity"`
	Rate         float64      `json:"rate"`
	Asset        *float64     `json:"asset,omitempty"`
	Strikes      []float64    `json:"strikes,omitempty"`
	Quantile     *float64     `json:"quantile,omitempty"`
	NumU         int          `json:"num_u"`
	CFParameters CFParameters `json:"cf_parameters"`
}

// GridSize expands the num_u exponent.
func (p *OptionParameters) GridSize() int {
	return 1 << uint(p.NumU)
}

func (p *OptionParameters) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeOptionParameters(data, "")
	if err != nil {
		return err
	}
	*p = *decoded
	return nil
}

type OptionData struct {
	Strike float64 `json:"strike"`
	Price  float64 `json:"price"`
}

type OptionDataMaturity struct {
	Maturity   float64      `json:"maturity"`
	OptionData []OptionData `json:"option_data"`
}

type CalibrationParameters struct {
	Rate       float64              `json:"rate"`
	Asset      float64              `json:"asset"`
	NumU       int                  `json:"num_u"`
	OptionData []OptionDataMaturity `json:"option_data"`
}

func (p *CalibrationParameters) GridSize() int {
	return 1 << uint(p.NumU)
}

// CalibrationResult is what the calibrator returns to clients.
type CalibrationResult struct {
	Parameters     CFParameters `json:"parameters"`
	FinalCostValue float64      `json:"final_cost_value"`
}

func (r *CalibrationResult) UnmarshalJSON(data []byte) error {
	var wire struct {
		Parameters     json.RawMessage `json:"parameters"`
		FinalCostValue float64         `json:"final_cost_value"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return NewJSONError(err.Error())
	}
	params, err := DecodeCFParameters(wire.Parameters, "")
	if err != nil {
		return err
	}
	r.Parameters = params
	r.FinalCostValue = wire.FinalCostValue
	return nil
}
