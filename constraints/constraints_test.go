package constraints_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhhuango/json"

	"github.com/bcdannyboy/optionpricer/constraints"
)

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{constraints.NewOutOfBounds("rate"), "Parameter rate out of bounds."},
		{constraints.NewNoExist("strikes"), "Parameter strikes does not exist."},
		{constraints.NewFunctionError("x_y"), "Function indicator x_y does not exist."},
		{constraints.NewNoConvergence(), "Root does not exist for implied volatility"},
		{constraints.NewValueAtRiskError("bad quantile"), "bad quantile"},
		{constraints.NewJSONError("unexpected end"), "unexpected end"},
		{constraints.NewOptimizationError("infeasible"), "infeasible"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.err.Error())
	}
}

func TestEnvelope(t *testing.T) {
	body, err := json.Marshal(constraints.NewNoExist("hello").Envelope())
	require.NoError(t, err)
	assert.JSONEq(t, `{"err":"Parameter hello does not exist."}`, string(body))
}

func TestCheckBoundaries(t *testing.T) {
	c := constraints.ConstraintsSchema{Lower: 0, Upper: 1, Types: "float", Description: "hello"}

	assert.NoError(t, constraints.Check(0, c, "x"))
	assert.NoError(t, constraints.Check(1, c, "x"))
	assert.NoError(t, constraints.Check(0.5, c, "x"))

	for _, v := range []float64{-1e-12, 1.0000001, math.NaN(), math.Inf(1)} {
		err := constraints.Check(v, c, "x")
		require.Error(t, err)
		pe, ok := constraints.AsParameterError(err)
		require.True(t, ok)
		assert.Equal(t, constraints.OutOfBounds, pe.Kind)
		assert.Equal(t, "x", pe.Detail)
	}
}

func TestCheckOptional(t *testing.T) {
	c := constraints.ConstraintsSchema{Lower: 0, Upper: 1}
	assert.NoError(t, constraints.CheckOptional(nil, c, "x"))
	v := 0.5
	assert.NoError(t, constraints.CheckOptional(&v, c, "x"))
	v = 2
	assert.EqualError(t, constraints.CheckOptional(&v, c, "x"), "Parameter x out of bounds.")
}

func TestCheckCFParametersFirstViolation(t *testing.T) {
	p := constraints.MertonParameters{
		Lambda: 3, MuL: 5, SigL: 0.2, Sigma: 0.2, V0: 1, Speed: 0, EtaV: 0, Rho: 0,
	}
	assert.EqualError(t, constraints.CheckCFParameters(p), "Parameter lambda out of bounds.")

	p.Lambda = 1
	assert.EqualError(t, constraints.CheckCFParameters(p), "Parameter mu_l out of bounds.")

	p.MuL = -0.1
	assert.NoError(t, constraints.CheckCFParameters(p))

	h := constraints.HestonParameters{Sigma: 0.2, V0: 0.0001, Speed: 1, EtaV: 0.5, Rho: -0.5}
	assert.EqualError(t, constraints.CheckCFParameters(h), "Parameter v0 out of bounds.")
}

func TestCheckOptionParametersOrder(t *testing.T) {
	asset := -1.0
	q := 2.0
	p := &constraints.OptionParameters{Maturity: -1, Rate: 1, Asset: &asset, NumU: 4, Quantile: &q}
	assert.EqualError(t, constraints.CheckOptionParameters(p, constraints.Parameter), "Parameter asset out of bounds.")

	asset = 100
	assert.EqualError(t, constraints.CheckOptionParameters(p, constraints.Parameter), "Parameter maturity out of bounds.")

	p.Maturity = 1
	assert.EqualError(t, constraints.CheckOptionParameters(p, constraints.Parameter), "Parameter rate out of bounds.")

	p.Rate = 0.05
	assert.EqualError(t, constraints.CheckOptionParameters(p, constraints.Parameter), "Parameter num_u out of bounds.")

	p.NumU = 11
	assert.EqualError(t, constraints.CheckOptionParameters(p, constraints.Parameter), "Parameter num_u out of bounds.")

	p.NumU = 8
	assert.EqualError(t, constraints.CheckOptionParameters(p, constraints.Parameter), "Parameter quantile out of bounds.")

	p.Quantile = nil
	p.Asset = nil
	assert.NoError(t, constraints.CheckOptionParameters(p, constraints.Parameter))
}

func TestCheckStrikes(t *testing.T) {
	assert.EqualError(t, constraints.CheckStrikes(nil), "Parameter strikes does not exist.")
	assert.EqualError(t, constraints.CheckStrikes([]float64{}), "Parameter strikes does not exist.")
	assert.EqualError(t, constraints.CheckStrikes([]float64{50, 0}), "Parameter strikes out of bounds.")
	assert.NoError(t, constraints.CheckStrikes([]float64{50, 100}))
}

func TestGridSize(t *testing.T) {
	for e := 5; e <= 10; e++ {
		p := constraints.OptionParameters{NumU: e}
		assert.Equal(t, int(math.Pow(2, float64(e))), p.GridSize())
	}
	p := constraints.OptionParameters{NumU: 8}
	assert.Equal(t, 256, p.GridSize())
}

func TestSchemaVectorsMatchParameterVectors(t *testing.T) {
	params := []constraints.CFParameters{
		constraints.CGMYParameters{},
		constraints.MertonParameters{},
		constraints.HestonParameters{},
		constraints.CGMYSEParameters{},
	}
	for _, p := range params {
		schema := constraints.ModelConstraints(p.Model())
		vec := p.ToVector()
		require.Len(t, vec, len(schema), p.Model().String())
		for i := range vec {
			assert.Equal(t, schema[i].Name, vec[i].Name)
			assert.LessOrEqual(t, schema[i].Schema.Lower, schema[i].Schema.Upper)
		}
	}
}

func TestFromVectorArity(t *testing.T) {
	_, err := constraints.FromVector(constraints.ModelHeston, []float64{1, 2, 3})
	assert.EqualError(t, err, "Parameter Calibration out of bounds.")

	p, err := constraints.FromVector(constraints.ModelHeston, []float64{0.2, 0.04, 1.5, 0.5, -0.7})
	require.NoError(t, err)
	assert.Equal(t, constraints.HestonParameters{Sigma: 0.2, V0: 0.04, Speed: 1.5, EtaV: 0.5, Rho: -0.7}, p)
}

func TestParseModel(t *testing.T) {
	for _, m := range constraints.Models() {
		got, err := constraints.ParseModel(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	got, err := constraints.ParseModel("Heston")
	require.NoError(t, err)
	assert.Equal(t, constraints.ModelHeston, got)

	_, err = constraints.ParseModel("vg")
	assert.EqualError(t, err, "Function indicator vg does not exist.")
}

func TestParameterRanges(t *testing.T) {
	body, err := json.Marshal(constraints.ParameterRanges("heston"))
	require.NoError(t, err)
	var ranges map[string]constraints.ConstraintsSchema
	require.NoError(t, json.Unmarshal(body, &ranges))
	assert.Len(t, ranges, 5)
	assert.Equal(t, 0.001, ranges["v0"].Lower)
	assert.Equal(t, "Square root of mean of variance process", ranges["sigma"].Description)

	body, err = json.Marshal(constraints.ParameterRanges("nothing"))
	require.NoError(t, err)
	ranges = nil
	require.NoError(t, json.Unmarshal(body, &ranges))
	assert.Equal(t, "int", ranges["num_u"].Types)
	assert.Equal(t, 0.4, ranges["rate"].Upper)
}
