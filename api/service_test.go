package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhhuango/json"

	"github.com/bcdannyboy/optionpricer/calibration"
	"github.com/bcdannyboy/optionpricer/constraints"
	"github.com/bcdannyboy/optionpricer/pricing"
)

var sigL = math.Sqrt(0.05)

func mertonBody(t *testing.T, overrides map[string]interface{}) []byte {
	t.Helper()
	body := map[string]interface{}{
		"maturity": 0.5,
		"rate":     0.1,
		"asset":    38.0,
		"strikes":  []float64{35},
		"quantile": 0.05,
		"num_u":    8,
		"cf_parameters": map[string]interface{}{
			"lambda": 1.0, "mu_l": -0.025, "sig_l": sigL, "sigma": sigL,
			"v0": 1.0, "speed": 0.0, "eta_v": 0.0, "rho": 0.0,
		},
	}
	for k, v := range overrides {
		if v == nil {
			delete(body, k)
			continue
		}
		body[k] = v
	}
	b, err := json.Marshal(body)
	require.NoError(t, err)
	return b
}

func newTestService() *Service {
	return NewService(DefaultSettings(), nil)
}

func TestParameterRanges(t *testing.T) {
	s := newTestService()

	out, err := s.ParameterRanges("heston")
	require.NoError(t, err)
	var heston map[string]constraints.ConstraintsSchema
	require.NoError(t, json.Unmarshal(out, &heston))
	assert.Equal(t, constraints.Heston.Sigma, heston["sigma"])
	assert.Len(t, heston, 5)

	out, err = s.ParameterRanges("nothing")
	require.NoError(t, err)
	var envelope map[string]constraints.ConstraintsSchema
	require.NoError(t, json.Unmarshal(out, &envelope))
	assert.Equal(t, 5.0, envelope["num_u"].Lower)
	assert.Equal(t, "int", envelope["num_u"].Types)
}

func TestCalculatorPriceWithIV(t *testing.T) {
	out, err := newTestService().Calculator("merton", "call", "price", true, mertonBody(t, nil))
	require.NoError(t, err)

	var graph []pricing.GraphElement
	require.NoError(t, json.Unmarshal(out, &graph))
	require.Len(t, graph, 1)
	assert.Equal(t, 35.0, graph[0].AtPoint)
	assert.InDelta(t, 5.9713, graph[0].Value, 1e-4)
	require.NotNil(t, graph[0].IV)
}

func TestCalculatorOmitsIVWhenNotRequested(t *testing.T) {
	out, err := newTestService().Calculator("merton", "put", "delta", true, mertonBody(t, nil))
	require.NoError(t, err)
	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &raw))
	require.Len(t, raw, 1)
	assert.NotContains(t, raw[0], "iv")
	assert.Contains(t, raw[0], "at_point")
	assert.Contains(t, raw[0], "value")
}

func TestCalculatorErrors(t *testing.T) {
	tests := []struct {
		name        string
		model       string
		option      string
		sensitivity string
		body        func(t *testing.T) []byte
		want        string
	}{
		{"malformed", "merton", "call", "price", func(*testing.T) []byte { return []byte("{") }, ""},
		{"selector", "merton", "call", "vega", func(t *testing.T) []byte { return mertonBody(t, nil) }, "Function indicator call_vega does not exist."},
		{"rate", "merton", "call", "price", func(t *testing.T) []byte { return mertonBody(t, map[string]interface{}{"rate": 0.5}) }, "Parameter rate out of bounds."},
		{"num_u", "merton", "call", "price", func(t *testing.T) []byte { return mertonBody(t, map[string]interface{}{"num_u": 11}) }, "Parameter num_u out of bounds."},
		{"strikes missing", "merton", "call", "price", func(t *testing.T) []byte { return mertonBody(t, map[string]interface{}{"strikes": nil}) }, "Parameter strikes does not exist."},
		{"strikes empty", "merton", "call", "price", func(t *testing.T) []byte { return mertonBody(t, map[string]interface{}{"strikes": []float64{}}) }, "Parameter strikes does not exist."},
		{"asset missing", "merton", "call", "price", func(t *testing.T) []byte { return mertonBody(t, map[string]interface{}{"asset": nil}) }, "Parameter asset does not exist."},
		{"envelope before strikes", "merton", "call", "price", func(t *testing.T) []byte {
			return mertonBody(t, map[string]interface{}{"maturity": -1, "strikes": nil})
		}, "Parameter maturity out of bounds."},
		{"model parameter", "merton", "call", "price", func(t *testing.T) []byte {
			return mertonBody(t, map[string]interface{}{"cf_parameters": map[string]interface{}{
				"lambda": 5.0, "mu_l": 0.0, "sig_l": 0.1, "sigma": 0.2, "v0": 1.0, "speed": 0.0, "eta_v": 0.0, "rho": 0.0,
			}})
		}, "Parameter lambda out of bounds."},
		{"cgmy pole", "cgmy", "call", "price", func(t *testing.T) []byte {
			return mertonBody(t, map[string]interface{}{"cf_parameters": map[string]interface{}{
				"c": 1.0, "g": 5.0, "m": 5.0, "y": 2.0, "sigma": 0.2, "v0": 1.0, "speed": 0.0, "eta_v": 0.0, "rho": 0.0,
			}})
		}, "Parameter y out of bounds."},
		{"unknown model", "vasicek", "call", "price", func(t *testing.T) []byte {
			return mertonBody(t, map[string]interface{}{"cf_parameters": map[string]interface{}{"a": 1.0}})
		}, "Function indicator vasicek does not exist."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestService().Calculator(tt.model, tt.option, tt.sensitivity, false, tt.body(t))
			require.Error(t, err)
			pe, ok := constraints.AsParameterError(err)
			require.True(t, ok, "%T %v", err, err)
			if tt.want == "" {
				assert.Equal(t, constraints.JSONError, pe.Kind)
				return
			}
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestDensity(t *testing.T) {
	out, err := newTestService().Density("merton", mertonBody(t, map[string]interface{}{"strikes": nil, "asset": nil}))
	require.NoError(t, err)
	var graph []pricing.GraphElement
	require.NoError(t, json.Unmarshal(out, &graph))
	assert.Len(t, graph, 128)
}

func TestRiskMetric(t *testing.T) {
	s := newTestService()
	out, err := s.RiskMetric("merton", mertonBody(t, nil))
	require.NoError(t, err)
	var risk map[string]float64
	require.NoError(t, json.Unmarshal(out, &risk))
	assert.Contains(t, risk, "value_at_risk")
	assert.Greater(t, risk["expected_shortfall"], risk["value_at_risk"])

	_, err = s.RiskMetric("merton", mertonBody(t, map[string]interface{}{"quantile": nil}))
	assert.EqualError(t, err, "Parameter quantile does not exist.")

	_, err = s.RiskMetric("merton", mertonBody(t, map[string]interface{}{"quantile": 1.5}))
	assert.EqualError(t, err, "Parameter quantile out of bounds.")
}

func midpointMertonQuotes(t *testing.T) []byte {
	t.Helper()
	mid := constraints.MertonParameters{Lambda: 1, MuL: 0, SigL: 1, Sigma: 0.5, V0: 1}
	strikes := []float64{80, 90, 100, 110, 120}
	graph, err := pricing.OptionResults(pricing.CallPrice, false, mid, pricing.DefaultOptionScale, 1<<6, 100, 1, 0.02, strikes)
	require.NoError(t, err)
	var quotes []map[string]float64
	for _, g := range graph {
		quotes = append(quotes, map[string]float64{"strike": g.AtPoint, "price": g.Value})
	}
	body, err := json.Marshal(map[string]interface{}{
		"rate":        0.02,
		"asset":       100.0,
		"num_u":       6,
		"option_data": []map[string]interface{}{{"maturity": 1.0, "option_data": quotes}},
	})
	require.NoError(t, err)
	return body
}

func TestCalibrator(t *testing.T) {
	s := newTestService()
	attempts := 0
	s.OnCalibrationAttempt(func(calibration.Attempt) { attempts++ })

	out, err := s.Calibrator(context.Background(), "merton", midpointMertonQuotes(t))
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)

	var res constraints.CalibrationResult
	require.NoError(t, json.Unmarshal(out, &res))
	assert.Equal(t, constraints.ModelMerton, res.Parameters.Model())
	assert.LessOrEqual(t, res.FinalCostValue, 1e-8)
	got := res.Parameters.(constraints.MertonParameters)
	assert.InDelta(t, 1.0, got.Lambda, 0.01)
	assert.InDelta(t, 0.5, got.Sigma, 0.01)
}

func TestCalibratorErrors(t *testing.T) {
	s := newTestService()
	_, err := s.Calibrator(context.Background(), "cgmyse", midpointMertonQuotes(t))
	assert.EqualError(t, err, "Function indicator cgmyse does not exist.")

	_, err = s.Calibrator(context.Background(), "black", midpointMertonQuotes(t))
	assert.EqualError(t, err, "Function indicator black does not exist.")

	_, err = s.Calibrator(context.Background(), "merton", []byte(`{"rate": 0.1}`))
	assert.EqualError(t, err, "missing field `asset`")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Calibrator(ctx, "merton", midpointMertonQuotes(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestErrorResponse(t *testing.T) {
	status, body := ErrorResponse(constraints.NewOutOfBounds("rate"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"err":"Parameter rate out of bounds."}`, string(body))

	status, body = ErrorResponse(fmt.Errorf("wrapped: %w", constraints.NewNoConvergence()))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"err":"Root does not exist for implied volatility"}`, string(body))

	status, body = ErrorResponse(fmt.Errorf("%w at 100", pricing.ErrNonFinite))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"err":"internal server error"}`, string(body))

	status, body = ErrorResponse(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"err":"internal server error"}`, string(body))
}

func TestParseIncludeIV(t *testing.T) {
	for in, want := range map[string]bool{"": false, "true": true, "false": false, "1": true, "0": false} {
		got, err := ParseIncludeIV(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseIncludeIV("maybe")
	pe, ok := constraints.AsParameterError(err)
	require.True(t, ok)
	assert.Equal(t, constraints.JSONError, pe.Kind)
	assert.Contains(t, err.Error(), "include_implied_volatility")
}
