package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/scambait/internal/profile"
	"github.com/hrygo/scambait/plugin/ai"
	"github.com/hrygo/scambait/plugin/ai/engine"
)

func newTestServer(t *testing.T) (*Server, *echo.Echo) {
	t.Helper()

	cfg := &ai.Config{}
	cfg.Detection.SupportedLanguages = []string{"en", "hi"}
	eng, err := engine.New(engine.Options{Config: cfg})
	require.NoError(t, err)

	e := echo.New()
	s := &Server{
		Secret:     "test-key",
		Profile:    profile.Default(),
		echoServer: e,
		engine:     eng,
	}
	s.registerRoutes(e)
	return s, e
}

func TestHealthzIsPublic(t *testing.T) {
	_, e := newTestServer(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMessageRequiresAPIKey(t *testing.T) {
	_, e := newTestServer(t)

	body := `{"sessionId":"sess-1","message":{"sender":"scammer","text":"hello"}}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/message", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/message", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("x-api-key", "wrong-key")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMessageEnvelope(t *testing.T) {
	_, e := newTestServer(t)

	body := `{"sessionId":"sess-1","message":{"sender":"scammer","text":"hello, your parcel is waiting"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/message", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("x-api-key", "test-key")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])

	intel, ok := resp["extractedIntelligence"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"phoneNumbers", "bankAccounts", "upiIds", "phishingLinks", "suspiciousKeywords"} {
		_, present := intel[key]
		assert.True(t, present, "missing intelligence key %s", key)
	}
}

func TestEndUnknownSession(t *testing.T) {
	_, e := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/nope/end", nil)
	req.Header.Set("x-api-key", "test-key")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
