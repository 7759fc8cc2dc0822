package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/planmesh-api/pkg/config"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:               "0",
			RateLimitPerSecond: 100,
			RateLimitBurst:     100,
			CORSOrigins:        []string{"http://localhost:3000"},
		},
		Storage:       config.StorageConfig{Driver: config.StorageMemory},
		Auth:          config.AuthConfig{SessionSecret: "0123456789abcdef0123456789abcdef", TokenTTL: time.Hour},
		Observability: config.ObservabilityConfig{MetricsEnabled: true},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	deps, err := InitDependencies(context.Background(), cfg, logger)
	require.NoError(t, err)

	srv := httptest.NewServer(SetupRouter(deps))
	t.Cleanup(func() {
		srv.Close()
		deps.Cleanup(context.Background())
	})
	return srv
}

type envelope struct {
	Status    string          `json:"status"`
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
}

func do(t *testing.T, client *http.Client, method, url, body, token string) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp, env
}

func cookieClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, env := do(t, srv.Client(), http.MethodGet, srv.URL+"/health", "", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", env.Status)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, resp.Header.Get("X-Request-ID"), env.RequestID)
	assert.Contains(t, string(env.Data), `"llmConfigured":false`)
}

func TestGenerateItinerary_WithoutKeyIsUnavailable(t *testing.T) {
	srv := newTestServer(t)

	body := `{"origin":"Mumbai","destination":"Tokyo","days":3,"budget":"Moderate","travelers":"Solo","transportMode":"Train"}`
	resp, env := do(t, srv.Client(), http.MethodPost, srv.URL+"/v1/itineraries", body, "")

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "error", env.Status)
}

func TestUnknownMethodIsRejected(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := do(t, srv.Client(), http.MethodDelete, srv.URL+"/v1/trips", "", "")

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestAccountAndTripFlow_CookieSession(t *testing.T) {
	srv := newTestServer(t)
	client := cookieClient(t)

	resp, _ := do(t, client, http.MethodGet, srv.URL+"/v1/auth/me", "", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, client, http.MethodPost, srv.URL+"/v1/auth/signup", `{"email":"ava@x.com","password":"pw","name":"Ava"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, env := do(t, client, http.MethodGet, srv.URL+"/v1/auth/me", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"name":"Ava"`)

	resp, env = do(t, client, http.MethodGet, srv.URL+"/v1/trips", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(env.Data))

	other := cookieClient(t)
	resp, _ = do(t, other, http.MethodGet, srv.URL+"/v1/trips", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "a second browser has no session")

	resp, _ = do(t, client, http.MethodPost, srv.URL+"/v1/auth/logout", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, client, http.MethodGet, srv.URL+"/v1/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAccountFlow_BearerToken(t *testing.T) {
	srv := newTestServer(t)

	resp, env := do(t, srv.Client(), http.MethodPost, srv.URL+"/v1/auth/signup", `{"email":"ben@x.com","password":"pw","name":"Ben"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var auth struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	require.NotEmpty(t, auth.Token)

	resp, env = do(t, srv.Client(), http.MethodGet, srv.URL+"/v1/auth/me", "", auth.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"email":"ben@x.com"`)

	resp, _ = do(t, srv.Client(), http.MethodPut, srv.URL+"/v1/profile", `{"email":"ben@x.com","name":"Benjamin"}`, auth.Token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, srv.Client(), http.MethodGet, srv.URL+"/v1/auth/me", "", "forged")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv.Client(), http.MethodGet, srv.URL+"/health", "", "")

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "planmesh_http_requests_total")
}
