package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhhuango/json"

	"github.com/bcdannyboy/optionpricer/api"
)

const mertonRequest = `{
	"maturity": 0.5, "rate": 0.1, "asset": 38, "strikes": [35, 40], "quantile": 0.05, "num_u": 8,
	"cf_parameters": {"lambda": 1, "mu_l": -0.025, "sig_l": 0.2236, "sigma": 0.2236,
		"v0": 1, "speed": 0, "eta_v": 0, "rho": 0}
}`

func newTestServer() (*Server, *httptest.Server) {
	s := New(api.NewService(api.DefaultSettings(), nil), "v2", nil, nil)
	return s, httptest.NewServer(s.Handler())
}

func do(t *testing.T, method, url, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestRoutes(t *testing.T) {
	_, ts := newTestServer()
	defer ts.Close()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		check  func(t *testing.T, body string)
	}{
		{"healthz", http.MethodGet, "/healthz", "", 200, func(t *testing.T, body string) {
			assert.JSONEq(t, `{"status":"UP"}`, body)
		}},
		{"ranges", http.MethodGet, "/v2/merton/parameters/parameter_ranges", "", 200, func(t *testing.T, body string) {
			var schema map[string]map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(body), &schema))
			assert.Len(t, schema, 8)
			assert.Equal(t, 2.0, schema["lambda"]["upper"])
		}},
		{"calculator with iv", http.MethodPost, "/v2/merton/calculator/call/price?include_implied_volatility=true", mertonRequest, 200, func(t *testing.T, body string) {
			var graph []map[string]float64
			require.NoError(t, json.Unmarshal([]byte(body), &graph))
			require.Len(t, graph, 2)
			assert.Contains(t, graph[0], "iv")
		}},
		{"calculator bad iv flag", http.MethodPost, "/v2/merton/calculator/call/price?include_implied_volatility=maybe", mertonRequest, 400, func(t *testing.T, body string) {
			assert.Contains(t, body, `invalid include_implied_volatility \"maybe\"`)
		}},
		{"calculator greek", http.MethodPost, "/v2/merton/calculator/put/gamma", mertonRequest, 200, func(t *testing.T, body string) {
			assert.NotContains(t, body, `"iv"`)
		}},
		{"density", http.MethodPost, "/v2/merton/density", mertonRequest, 200, func(t *testing.T, body string) {
			var graph []map[string]float64
			require.NoError(t, json.Unmarshal([]byte(body), &graph))
			assert.Len(t, graph, 128)
		}},
		{"riskmetric", http.MethodPost, "/v2/merton/riskmetric", mertonRequest, 200, func(t *testing.T, body string) {
			assert.Contains(t, body, "value_at_risk")
			assert.Contains(t, body, "expected_shortfall")
		}},
		{"bad selector", http.MethodPost, "/v2/merton/calculator/call/vanna", mertonRequest, 400, func(t *testing.T, body string) {
			assert.JSONEq(t, `{"err":"Function indicator call_vanna does not exist."}`, body)
		}},
		{"bad json", http.MethodPost, "/v2/merton/density", "{", 400, func(t *testing.T, body string) {
			assert.Contains(t, body, `"err"`)
		}},
		{"calibrator unknown model", http.MethodPost, "/v2/cgmyse/calibrator/call", `{}`, 400, func(t *testing.T, body string) {
			assert.JSONEq(t, `{"err":"Function indicator cgmyse does not exist."}`, body)
		}},
		{"wrong version", http.MethodGet, "/v1/merton/parameters/parameter_ranges", "", 404, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, tt.method, ts.URL+tt.path, tt.body)
			assert.Equal(t, tt.status, status, body)
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer()
	defer ts.Close()

	do(t, http.MethodGet, ts.URL+"/v2/heston/parameters/parameter_ranges", "")
	do(t, http.MethodPost, ts.URL+"/v2/merton/calculator/call/vanna", mertonRequest)

	status, body := do(t, http.MethodGet, ts.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `optionpricer_http_requests_total{method="GET",route="/v2/:model/parameters/parameter_ranges",status="200"} 1`)
	assert.Contains(t, body, `route="/v2/:model/calculator/:option_type/:sensitivity",status="400"`)
	assert.Contains(t, body, "optionpricer_http_request_duration_seconds")
}

func TestRunShutsDownOnCancel(t *testing.T) {
	s, ts := newTestServer()
	ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0", time.Second) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
