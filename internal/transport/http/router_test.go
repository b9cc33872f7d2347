package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/otp-verify-api/internal/config"
	jwtinfra "github.com/otp-verify-api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		AllowedOrigins: []string{"*"},
		JWTSecret:      "test-secret",
		AccessTokenTTL: time.Hour,
	}
	provider, err := jwtinfra.NewProvider(cfg)
	require.NoError(t, err)
	return NewRouter(cfg, &Deps{JWTProvider: provider})
}

func TestRouter_HealthCheck(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health-check/ping", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "pong")
}

func TestRouter_MethodNotAllowedIsJSON(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/send-otp", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Method not allowed", body["error"])
}

func TestRouter_SessionRequiresAuth(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
