package ollama

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient("localhost")
	assert.Error(t, err)

	c, err := NewClient("http://localhost:11434/api/chat")
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestAnalyzeImage(t *testing.T) {
	var got api.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.ChatResponse{
			Model:   got.Model,
			Message: api.Message{Role: "assistant", Content: `[{"label": "dress"}]`},
			Done:    true,
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	img := base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))
	out, err := c.AnalyzeImage(context.Background(), "qwen2.5vl", "find garments", img)
	require.NoError(t, err)
	assert.Equal(t, `[{"label": "dress"}]`, out)

	assert.Equal(t, "qwen2.5vl", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "find garments", got.Messages[0].Content)
	require.Len(t, got.Messages[0].Images, 1)
	assert.Equal(t, "jpeg-bytes", string(got.Messages[0].Images[0]))
}

func TestAnalyzeImageEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.ChatResponse{Message: api.Message{Role: "assistant"}, Done: true})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)
	_, err = c.AnalyzeImage(context.Background(), "m", "p", "")
	assert.ErrorContains(t, err, "empty response")
}

func TestAnalyzeImageBadBase64(t *testing.T) {
	c, err := NewClient("http://127.0.0.1:1")
	require.NoError(t, err)
	_, err = c.AnalyzeImage(context.Background(), "m", "p", "%%%")
	assert.ErrorContains(t, err, "base64")
}
