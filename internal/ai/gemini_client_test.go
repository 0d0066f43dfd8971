package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGeminiClient("test-key", "gemini-2.5-flash", srv.URL, 5*time.Second)
}

func TestGeminiGenerate(t *testing.T) {
	var captured map[string]any
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{
				"content": {"parts": [{"text": "[{\"title\":"}, {"text": "\"A\"}]"}]},
				"groundingMetadata": {"groundingChunks": [
					{"web": {"uri": "https://example.org/a", "title": "example.org"}},
					{"retrievedContext": {}},
					{"web": {"uri": "https://example.org/b"}}
				]}
			}]
		}`))
	})

	res, err := client.Generate(context.Background(), GenerateRequest{
		SystemInstruction: "system",
		Prompt:            "prompt",
		SearchGrounding:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, `[{"title":"A"}]`, res.Text)
	require.Len(t, res.Citations, 2)
	assert.Equal(t, "https://example.org/a", res.Citations[0].Address)
	assert.Equal(t, "example.org", res.Citations[0].Title)
	assert.Equal(t, "https://example.org/b", res.Citations[1].Address)

	assert.Contains(t, captured, "system_instruction")
	tools, ok := captured["tools"].([]any)
	require.True(t, ok)
	require.Len(t, tools, 1)
	assert.Contains(t, tools[0], "google_search")
}

func TestGeminiGenerateWithoutGrounding(t *testing.T) {
	var captured map[string]any
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"script"}]}}]}`))
	})

	res, err := client.Generate(context.Background(), GenerateRequest{Prompt: "prompt"})
	require.NoError(t, err)
	assert.Equal(t, "script", res.Text)
	assert.Empty(t, res.Citations)
	assert.NotContains(t, captured, "tools")
	assert.NotContains(t, captured, "system_instruction")
}

func TestGeminiGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "api error body",
			status:  http.StatusBadRequest,
			body:    `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`,
			wantMsg: "API key not valid",
		},
		{
			name:    "server error without body",
			status:  http.StatusInternalServerError,
			body:    ``,
			wantMsg: "unexpected status 500",
		},
		{
			name:    "no candidates",
			status:  http.StatusOK,
			body:    `{"candidates":[]}`,
			wantMsg: "no candidates",
		},
		{
			name:    "blocked prompt",
			status:  http.StatusOK,
			body:    `{"promptFeedback":{"blockReason":"SAFETY"}}`,
			wantMsg: "SAFETY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.body != "" {
					w.Header().Set("Content-Type", "application/json")
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Generate(context.Background(), GenerateRequest{Prompt: "p"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestGeminiHasCredential(t *testing.T) {
	assert.True(t, NewGeminiClient("key", "m", "", time.Second).HasCredential())
	assert.False(t, NewGeminiClient("  ", "m", "", time.Second).HasCredential())
}
