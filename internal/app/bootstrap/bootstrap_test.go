package bootstrap

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/intake/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 10, 16, 9, 30, 5, 250000000, time.UTC)

func newServer(t *testing.T, args ...string) *httptest.Server {
	t.Helper()
	coreCfg, appCfg, err := loadConfig(zap.NewNop(), append([]string{"--timestamp_location=UTC"}, args...))
	require.NoError(t, err)

	metrics.RegisterDefault(nil)
	h, err := buildHandler(coreCfg, appCfg, zap.NewNop(), func() time.Time { return fixedNow })
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func decode(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	defer res.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func postJSON(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	res, err := http.Post(srv.URL+"/submit", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return res
}

func TestLoadConfig(t *testing.T) {
	coreCfg, appCfg, err := loadConfig(zap.NewNop(), []string{"--service_name=Intake Test", "--timestamp_location=UTC"})
	require.NoError(t, err)

	assert.Equal(t, "Intake Test", appCfg.ServiceName)
	assert.Equal(t, time.UTC, appCfg.Location)
	assert.Equal(t, []string{"*"}, coreCfg.CORS.CORSAllowedOrigins)
}

func TestLoadConfig_Defaults(t *testing.T) {
	_, appCfg, err := loadConfig(zap.NewNop(), nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultServiceName, appCfg.ServiceName)
	assert.Equal(t, time.Local, appCfg.Location)
}

func TestLoadConfig_BadLocation(t *testing.T) {
	_, _, err := loadConfig(zap.NewNop(), []string{"--timestamp_location=Not/AZone"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timestamp_location")
}

func TestSubmit_EndToEnd(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		tag    string
	}{
		{"no data", ``, http.StatusBadRequest, "Missing JSON data"},
		{"empty object", `{}`, http.StatusBadRequest, "Missing JSON data"},
		{"missing name", `{"email":"al@example.com"}`, http.StatusBadRequest, "Missing name field"},
		{"missing email", `{"name":"Al"}`, http.StatusBadRequest, "Missing email field"},
		{"invalid name", `{"name":"A","email":"al@example.com"}`, http.StatusBadRequest, "Invalid name format"},
		{"invalid email", `{"name":"Al","email":"al@example"}`, http.StatusBadRequest, "Invalid email format"},
		{"wrong type", `{"name":true,"email":"al@example.com"}`, http.StatusInternalServerError, `field "name" must be a string, got boolean`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := postJSON(t, srv, tt.body)
			assert.Equal(t, tt.status, res.StatusCode)
			out := decode(t, res)
			assert.Equal(t, false, out["success"])
			assert.Equal(t, tt.tag, out["error"])
		})
	}
}

func TestSubmit_EndToEndSuccess(t *testing.T) {
	srv := newServer(t)

	res := postJSON(t, srv, `{"name":"Al","email":"al@example.com"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "nosniff", res.Header.Get("X-Content-Type-Options"))

	out := decode(t, res)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "Al", out["name"])
	assert.Equal(t, "al@example.com", out["email"])
	assert.Equal(t, "2026-10-16 09:30:05", out["timestamp"])
	assert.Equal(t, "processed", out["status"])

	details := out["details"].(map[string]any)
	assert.Equal(t, float64(2), details["name_length"])
	assert.Equal(t, "example.com", details["email_domain"])
}

func TestHealth_EndToEnd(t *testing.T) {
	srv := newServer(t, "--service_name=Probe")

	res, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	out := decode(t, res)
	assert.Equal(t, map[string]any{
		"status":    "healthy",
		"service":   "Probe",
		"timestamp": "2026-10-16T09:30:05.250000",
	}, out)
}

func TestLandingAndStatic_EndToEnd(t *testing.T) {
	srv := newServer(t)

	res, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), DefaultServiceName)

	res, err = http.Get(srv.URL + "/static/script.js")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestCORSPreflight_EndToEnd(t *testing.T) {
	srv := newServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/submit", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()

	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
}

func TestUnknownRouteAndMethod_EndToEnd(t *testing.T) {
	srv := newServer(t)

	res, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "not_found", decode(t, res)["error"])

	res, err = http.Get(srv.URL + "/submit")
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
	assert.Equal(t, "method_not_allowed", decode(t, res)["error"])
}

func TestMetrics_EndToEnd(t *testing.T) {
	srv := newServer(t)

	postJSON(t, srv, `{"name":"A","email":"a@example.com"}`).Body.Close()

	res, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), `intake_submissions_total{outcome="InvalidName"}`)
	assert.Contains(t, string(body), `http_request_duration_seconds`)
}

func TestMetrics_Disabled(t *testing.T) {
	srv := newServer(t, "--enable_metrics=false")

	res, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
