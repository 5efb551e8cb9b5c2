package constraints

import (
	"fmt"
	"sort"

	"github.com/xhhuango/json"
)

const discriminant = "model"

// DecodeCFParameters decodes one parameter set. The model is taken from the
// payload's "model" field, then from pathModel, then from the unique model
// whose field set matches the payload keys.
func DecodeCFParameters(data []byte, pathModel string) (CFParameters, error) {
	if len(data) == 0 {
		return nil, NewJSONError("missing field `cf_parameters`")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, NewJSONError(err.Error())
	}
	model, err := resolveModel(fields, pathModel)
	if err != nil {
		return nil, err
	}
	delete(fields, discriminant)

	schema := ModelConstraints(model)
	values := make([]float64, len(schema))
	for i, c := range schema {
		raw, ok := fields[c.Name]
		if !ok {
			return nil, NewJSONError(fmt.Sprintf("missing field `%s`", c.Name))
		}
		if err := json.Unmarshal(raw, &values[i]); err != nil {
			return nil, NewJSONError(fmt.Sprintf("field `%s`: %s", c.Name, err.Error()))
		}
		delete(fields, c.Name)
	}
	if extra := sortedKeys(fields); len(extra) > 0 {
		return nil, NewJSONError(fmt.Sprintf("unknown field `%s` for model %s", extra[0], model))
	}
	return FromVector(model, values)
}

func resolveModel(fields map[string]json.RawMessage, pathModel string) (Model, error) {
	fromPath, pathErr := ParseModel(pathModel)

	if raw, ok := fields[discriminant]; ok {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return 0, NewJSONError(fmt.Sprintf("field `model`: %s", err.Error()))
		}
		tagged, err := ParseModel(name)
		if err != nil {
			return 0, err
		}
		if pathErr == nil && tagged != fromPath {
			return 0, NewJSONError(fmt.Sprintf("cf_parameters model %s does not match route model %s", tagged, fromPath))
		}
		return tagged, nil
	}
	if pathErr == nil {
		return fromPath, nil
	}

	var matches []Model
	for _, m := range Models() {
		if sameFields(fields, ModelConstraints(m)) {
			matches = append(matches, m)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	return 0, NewFunctionError(pathModel)
}

func sameFields(fields map[string]json.RawMessage, schema []NamedConstraint) bool {
	if len(fields) != len(schema) {
		return false
	}
	for _, c := range schema {
		if _, ok := fields[c.Name]; !ok {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func requireFields(fields map[string]json.RawMessage, names ...string) error {
	for _, name := range names {
		if _, ok := fields[name]; !ok {
			return NewJSONError(fmt.Sprintf("missing field `%s`", name))
		}
	}
	return nil
}

// DecodeOptionParameters decodes a pricing/density/risk request body.
func DecodeOptionParameters(data []byte, pathModel string) (*OptionParameters, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, NewJSONError(err.Error())
	}
	if err := requireFields(fields, "maturity", "rate", "num_u", "cf_parameters"); err != nil {
		return nil, err
	}

	var wire struct {
		Maturity     float64         `json:"maturity"`
		Rate         float64         `json:"rate"`
		Asset        *float64        `json:"asset"`
		Strikes      []float64       `json:"strikes"`
		Quantile     *float64        `json:"quantile"`
		NumU         int             `json:"num_u"`
		CFParameters json.RawMessage `json:"cf_parameters"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, NewJSONError(err.Error())
	}
	params, err := DecodeCFParameters(wire.CFParameters, pathModel)
	if err != nil {
		return nil, err
	}
	return &OptionParameters{
		Maturity:     wire.Maturity,
		Rate:         wire.Rate,
		Asset:        wire.Asset,
		Strikes:      wire.Strikes,
		Quantile:     wire.Quantile,
		NumU:         wire.NumU,
		CFParameters: params,
	}, nil
}

// DecodeCalibrationParameters decodes a calibration request body.
func DecodeCalibrationParameters(data []byte) (*CalibrationParameters, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, NewJSONError(err.Error())
	}
	if err := requireFields(fields, "rate", "asset", "num_u", "option_data"); err != nil {
		return nil, err
	}
	var p CalibrationParameters
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, NewJSONError(err.Error())
	}
	return &p, nil
}
