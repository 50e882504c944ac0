package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domai "coderefine/internal/domain/ai"
)

func candidateResponse(text string) string {
	resp := map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"parts": []map[string]any{{"text": text}},
					"role":  "model",
				},
				"finishReason": "STOP",
			},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestReviewSendsGenerateContentRequest(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(candidateResponse(`{"review": "ok"}`)))
	}))
	defer server.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, Model: "gemini-1.5-flash"})

	text, err := c.Review(context.Background(), domai.ReviewRequest{Code: "x = 1", Language: "python"})
	require.NoError(t, err)

	assert.Equal(t, `{"review": "ok"}`, text)
	assert.Equal(t, "/models/gemini-1.5-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "application/json", gotBody.GenerationConfig.ResponseMimeType)
	require.NotNil(t, gotBody.SystemInstruction)
	require.Len(t, gotBody.Contents, 1)
	assert.Contains(t, gotBody.Contents[0].Parts[0].Text, "x = 1")
	assert.Contains(t, gotBody.Contents[0].Parts[0].Text, "python")
}

func TestReviewConcatenatesParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": `{"review":`}, {"text": ` "ok"}`},
				}}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	text, err := c.Review(context.Background(), domai.ReviewRequest{Code: "x = 1"})
	require.NoError(t, err)
	assert.Equal(t, `{"review": "ok"}`, text)
}

func TestReviewQuotaExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exhausted", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	_, err := c.Review(context.Background(), domai.ReviewRequest{Code: "x = 1"})
	assert.ErrorIs(t, err, domai.ErrQuotaExceeded)
}

func TestReviewServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	_, err := c.Review(context.Background(), domai.ReviewRequest{Code: "x = 1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestReviewAPIErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": {"code": 400, "message": "invalid argument", "status": "INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	_, err := c.Review(context.Background(), domai.ReviewRequest{Code: "x = 1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid argument")
}

func TestReviewNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	_, err := c.Review(context.Background(), domai.ReviewRequest{Code: "x = 1"})
	assert.Error(t, err)
}

func TestReviewMissingAPIKey(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL})
	_, err := c.Review(context.Background(), domai.ReviewRequest{Code: "x = 1"})
	assert.ErrorIs(t, err, domai.ErrNotConfigured)
	assert.False(t, called, "no request may leave the process without a key")
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{APIKey: "k"})
	assert.Equal(t, defaultModel, c.model)
	assert.True(t, strings.HasPrefix(c.baseURL, "https://generativelanguage.googleapis.com"))
	assert.Equal(t, maxOutputTokens, c.maxOutputTokens)
}
