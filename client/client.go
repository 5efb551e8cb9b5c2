// Package client is a Go client for the pricing service HTTP API.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xhhuango/json"

	"github.com/bcdannyboy/optionpricer/constraints"
	"github.com/bcdannyboy/optionpricer/pricing"
)

// APIError is a non-200 response. Message is the server's {"err"} text.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	version    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// New returns a client for the service at baseURL serving routes under
// /<version>.
func New(baseURL, version string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		version:    version,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ParameterRanges(ctx context.Context, model string) (map[string]constraints.ConstraintsSchema, error) {
	out := map[string]constraints.ConstraintsSchema{}
	err := c.do(ctx, http.MethodGet, c.path(model, "parameters", "parameter_ranges"), nil, &out)
	return out, err
}

func (c *Client) Calculator(ctx context.Context, optionType, sensitivity string, includeIV bool, p *constraints.OptionParameters) ([]pricing.GraphElement, error) {
	u := c.path(p.CFParameters.Model().String(), "calculator", optionType, sensitivity) +
		"?include_implied_volatility=" + strconv.FormatBool(includeIV)
	var out []pricing.GraphElement
	err := c.do(ctx, http.MethodPost, u, p, &out)
	return out, err
}

func (c *Client) Density(ctx context.Context, p *constraints.OptionParameters) ([]pricing.GraphElement, error) {
	var out []pricing.GraphElement
	err := c.do(ctx, http.MethodPost, c.path(p.CFParameters.Model().String(), "density"), p, &out)
	return out, err
}

func (c *Client) RiskMetric(ctx context.Context, p *constraints.OptionParameters) (*pricing.RiskMetric, error) {
	out := &pricing.RiskMetric{}
	if err := c.do(ctx, http.MethodPost, c.path(p.CFParameters.Model().String(), "riskmetric"), p, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Calibrate(ctx context.Context, m constraints.Model, p *constraints.CalibrationParameters) (*constraints.CalibrationResult, error) {
	out := &constraints.CalibrationResult{}
	if err := c.do(ctx, http.MethodPost, c.path(m.String(), "calibrator", "call"), p, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) path(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.baseURL + "/" + c.version + "/" + strings.Join(escaped, "/")
}

func (c *Client) do(ctx context.Context, method, u string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	r, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	r.Header.Add("Accept", "application/json")
	if in != nil {
		r.Header.Add("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	responseData, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response data: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var env constraints.Envelope
		if json.Unmarshal(responseData, &env) != nil || env.Err == "" {
			env.Err = strings.TrimSpace(string(responseData))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: env.Err}
	}
	if err := json.Unmarshal(responseData, out); err != nil {
		return fmt.Errorf("failed to unmarshal response data: %w", err)
	}
	return nil
}
