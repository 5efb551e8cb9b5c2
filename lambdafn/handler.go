// Package lambdafn serves the api.Service behind an API Gateway proxy
// integration.
package lambdafn

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/bcdannyboy/optionpricer/api"
	"github.com/bcdannyboy/optionpricer/constraints"
)

type Handler struct {
	svc    *api.Service
	logger *zap.Logger
}

func NewHandler(svc *api.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// Handle routes on the operation segment following the model in the request
// path; path parameters carry model, option_type and sensitivity.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	body, err := h.route(ctx, req)
	if err != nil {
		status, envelope := api.ErrorResponse(err)
		h.logger.Warn("request rejected",
			zap.String("path", req.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
		return response(status, envelope), nil
	}
	return response(http.StatusOK, body), nil
}

func (h *Handler) route(ctx context.Context, req events.APIGatewayProxyRequest) ([]byte, error) {
	model := req.PathParameters["model"]
	raw := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return nil, constraints.NewJSONError(err.Error())
		}
		raw = decoded
	}

	switch operation(req.Path, model) {
	case "parameters":
		return h.svc.ParameterRanges(model)
	case "calculator":
		includeIV, err := api.ParseIncludeIV(req.QueryStringParameters[api.IncludeIVQuery])
		if err != nil {
			return nil, err
		}
		return h.svc.Calculator(model, req.PathParameters["option_type"], req.PathParameters["sensitivity"], includeIV, raw)
	case "density":
		return h.svc.Density(model, raw)
	case "riskmetric":
		return h.svc.RiskMetric(model, raw)
	case "calibrator":
		return h.svc.Calibrator(ctx, model, raw)
	}
	return nil, constraints.NewFunctionError(strings.Trim(req.Path, "/"))
}

// operation returns the path segment after the model segment.
func operation(path, model string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i := 0; i+1 < len(segments); i++ {
		if segments[i] == model {
			return segments[i+1]
		}
	}
	return ""
}

func response(status int, body []byte) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}
}
