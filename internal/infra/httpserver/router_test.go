package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appanalysis "coderefine/internal/application/analysis"
	domai "coderefine/internal/domain/ai"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeClient struct {
	resp  string
	err   error
	calls int
}

func (f *fakeClient) Review(ctx context.Context, req domai.ReviewRequest) (string, error) {
	f.calls++
	return f.resp, f.err
}

func (f *fakeClient) Name() string { return "fake" }

func newTestServer(client domai.Client) *httptest.Server {
	svc := &appanalysis.Service{
		AI:    client,
		Clock: fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	}
	handler := NewRouter(svc, zap.NewNop(), Options{})
	return httptest.NewServer(handler)
}

func postAnalyze(t *testing.T, server *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(server.URL+"/api/analyze", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp
}

func TestAnalyzeEndpointDemoMode(t *testing.T) {
	server := newTestServer(nil)
	defer server.Close()

	resp := postAnalyze(t, server, `{"code": "for i in range(10): pass"}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, "demo", body["mode"])
	assert.Equal(t, float64(95), body["score"])
	for _, field := range []string{"review", "suggestions", "securityIssues", "complexity"} {
		assert.NotNil(t, body[field], field)
	}
	complexity, ok := body["complexity"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, complexity["time"])
	assert.NotEmpty(t, complexity["space"])
}

func TestAnalyzeEndpointEmptyCode(t *testing.T) {
	client := &fakeClient{}
	server := newTestServer(client)
	defer server.Close()

	resp := postAnalyze(t, server, `{"code": ""}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, client.calls, "empty input must not trigger an outbound call")
}

func TestAnalyzeEndpointMalformedJSON(t *testing.T) {
	server := newTestServer(nil)
	defer server.Close()

	resp := postAnalyze(t, server, `{"code": `)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeEndpointOversizedCode(t *testing.T) {
	server := newTestServer(nil)
	defer server.Close()

	resp := postAnalyze(t, server, `{"code": "`+strings.Repeat("a", 130*1024)+`"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeEndpointBackendFailureStill200(t *testing.T) {
	client := &fakeClient{err: context.DeadlineExceeded}
	server := newTestServer(client)
	defer server.Close()

	resp := postAnalyze(t, server, `{"code": "def f(): pass"}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "demo", body["mode"])
}

func TestStatusEndpoint(t *testing.T) {
	server := newTestServer(nil)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "demo", body["mode"])
}

func TestHistoryEndpointsWithoutRepository(t *testing.T) {
	server := newTestServer(nil)
	defer server.Close()

	for _, path := range []string{"/api/analyses", "/api/analyses/abc", "/api/summary"} {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(nil)
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
