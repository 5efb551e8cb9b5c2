// Package api implements the service operations independently of any
// transport. Every operation takes raw request bytes and returns the JSON
// response body or an error; ErrorResponse turns errors into the client
// envelope.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/xhhuango/json"
	"go.uber.org/zap"

	"github.com/bcdannyboy/optionpricer/calibration"
	"github.com/bcdannyboy/optionpricer/constraints"
	"github.com/bcdannyboy/optionpricer/pricing"
)

type Settings struct {
	OptionScale            float64
	DensityScale           float64
	CalibrationMaxIter     int
	CalibrationMaxAttempts int
}

func DefaultSettings() Settings {
	return Settings{
		OptionScale:            pricing.DefaultOptionScale,
		DensityScale:           pricing.DefaultDensityScale,
		CalibrationMaxIter:     calibration.DefaultMaxIterations,
		CalibrationMaxAttempts: calibration.DefaultMaxAttempts,
	}
}

type Service struct {
	settings Settings
	logger   *zap.Logger
	// onAttempt observes calibration attempts, e.g. for metrics.
	onAttempt func(calibration.Attempt)
}

func NewService(settings Settings, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{settings: settings, logger: logger}
}

// OnCalibrationAttempt registers an observer for calibration attempts.
func (s *Service) OnCalibrationAttempt(f func(calibration.Attempt)) {
	s.onAttempt = f
}

// ParameterRanges serves the schema of a model, or the envelope schema for
// unknown names.
func (s *Service) ParameterRanges(model string) ([]byte, error) {
	return json.Marshal(constraints.ParameterRanges(model))
}

// IncludeIVQuery is the calculator query flag that attaches implied
// volatilities to price results.
const IncludeIVQuery = "include_implied_volatility"

// ParseIncludeIV reads the IncludeIVQuery value. Absent means false; any
// other value must parse as a bool.
func ParseIncludeIV(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, constraints.NewJSONError(fmt.Sprintf("invalid %s %q", IncludeIVQuery, v))
	}
	return b, nil
}

// Calculator prices strikes for one option sensitivity. Checks run in the
// order body, selector, envelope, strikes, asset, model parameters.
func (s *Service) Calculator(model, optionType, sensitivity string, includeIV bool, body []byte) ([]byte, error) {
	p, err := constraints.DecodeOptionParameters(body, model)
	if err != nil {
		return nil, err
	}
	sel, err := pricing.ParseSensitivity(optionType, sensitivity)
	if err != nil {
		return nil, err
	}
	if !sel.IsOption() {
		return nil, constraints.NewFunctionError(sel.String())
	}
	if err := constraints.CheckOptionParameters(p, constraints.Parameter); err != nil {
		return nil, err
	}
	if err := constraints.CheckStrikes(p.Strikes); err != nil {
		return nil, err
	}
	if p.Asset == nil {
		return nil, constraints.NewNoExist("asset")
	}
	graph, err := pricing.OptionResults(sel, includeIV, p.CFParameters, s.settings.OptionScale, p.GridSize(), *p.Asset, p.Maturity, p.Rate, p.Strikes)
	if err != nil {
		return nil, err
	}
	return json.Marshal(graph)
}

func (s *Service) Density(model string, body []byte) ([]byte, error) {
	p, err := constraints.DecodeOptionParameters(body, model)
	if err != nil {
		return nil, err
	}
	if err := constraints.CheckOptionParameters(p, constraints.Parameter); err != nil {
		return nil, err
	}
	graph, err := pricing.DensityResults(p.CFParameters, s.settings.DensityScale, p.GridSize(), p.Maturity, p.Rate)
	if err != nil {
		return nil, err
	}
	return json.Marshal(graph)
}

func (s *Service) RiskMetric(model string, body []byte) ([]byte, error) {
	p, err := constraints.DecodeOptionParameters(body, model)
	if err != nil {
		return nil, err
	}
	if err := constraints.CheckOptionParameters(p, constraints.Parameter); err != nil {
		return nil, err
	}
	if p.Quantile == nil {
		return nil, constraints.NewNoExist("quantile")
	}
	risk, err := pricing.RiskMeasureResults(p.CFParameters, s.settings.DensityScale, p.GridSize(), p.Maturity, p.Rate, *p.Quantile)
	if err != nil {
		return nil, err
	}
	return json.Marshal(risk)
}

// Calibrator fits the model named in the route to call quotes.
func (s *Service) Calibrator(ctx context.Context, model string, body []byte) ([]byte, error) {
	m, err := constraints.ParseModel(model)
	if err != nil {
		return nil, err
	}
	if _, err := calibration.FreeParameters(m); err != nil {
		return nil, err
	}
	p, err := constraints.DecodeCalibrationParameters(body)
	if err != nil {
		return nil, err
	}
	logger := s.logger.With(zap.String("model", m.String()))
	res, err := calibration.Calibrate(ctx, m, p, calibration.Options{
		OptionScale:   s.settings.OptionScale,
		MaxIterations: s.settings.CalibrationMaxIter,
		MaxAttempts:   s.settings.CalibrationMaxAttempts,
		OnAttempt: func(a calibration.Attempt) {
			logger.Debug("calibration attempt",
				zap.Int("attempt", a.Index),
				zap.Float64("cost", a.Cost),
				zap.Error(a.Err),
			)
			if s.onAttempt != nil {
				s.onAttempt(a)
			}
		},
	})
	if err != nil {
		return nil, err
	}
	logger.Info("calibration finished", zap.Float64("final_cost_value", res.FinalCostValue))
	return json.Marshal(res)
}

const internalError = "internal server error"

// ErrorResponse maps err to a status code and a {"err": ...} body. Domain
// errors are client errors; anything else is reported generically.
func ErrorResponse(err error) (int, []byte) {
	env := constraints.Envelope{Err: internalError}
	status := http.StatusInternalServerError
	if pe, ok := constraints.AsParameterError(err); ok {
		env = pe.Envelope()
		status = http.StatusBadRequest
	}
	body, mErr := json.Marshal(env)
	if mErr != nil {
		return http.StatusInternalServerError, []byte(`{"err":"` + internalError + `"}`)
	}
	return status, body
}
