package openai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/locale-scout/internal/domain"
	"github.com/couchcryptid/locale-scout/internal/observability"
)

// completionReply builds the minimal OpenAI chat completion response body.
func completionReply(content string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			},
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	metrics := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := NewClient("test-key", srv.URL+"/v1", "gpt-4o-mini", 5*time.Second, metrics, logger)
	return c, srv
}

func TestComplete_Success(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(completionReply("Merhaba!")))
	})

	got, err := c.Complete(context.Background(), []domain.Message{
		{Role: domain.RoleSystem, Content: "persona"},
		{Role: domain.RoleUser, Content: "selam"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Merhaba!", got)
}

func TestComplete_BackendError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	})

	_, err := c.Complete(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hi"}})
	assert.ErrorIs(t, err, domain.ErrInferenceUnavailable)
}

func TestInferLocation_Success(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "data:", "image must be sent inline as a data URI")

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(
			completionReply(`{"location": "Safranbolu", "confidence": "medium"}`)))
	})

	guess, err := c.InferLocation(context.Background(), []byte("fake-image-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "Safranbolu", guess.Location)
	assert.Equal(t, domain.ConfidenceMedium, guess.Confidence)
}

func TestInferLocation_FencedReplyAccepted(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(
			completionReply("```json\n{\"location\": \"Mardin\", \"confidence\": \"high\"}\n```")))
	})

	guess, err := c.InferLocation(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "Mardin", guess.Location)
}

func TestInferLocation_NonConformingReply(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(
			completionReply("Bu fotoğraf büyük ihtimalle İstanbul'da çekilmiş.")))
	})

	_, err := c.InferLocation(context.Background(), []byte("img"))
	assert.ErrorIs(t, err, domain.ErrInferenceUnavailable)
}

func TestInferLocation_BackendError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "overloaded"}}`, http.StatusServiceUnavailable)
	})

	_, err := c.InferLocation(context.Background(), []byte("img"))
	assert.ErrorIs(t, err, domain.ErrInferenceUnavailable)
}

func TestParseVisionReply(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    domain.VisionGuess
		wantErr bool
	}{
		{
			name:  "plain object",
			reply: `{"location": "İstanbul", "confidence": "high"}`,
			want:  domain.VisionGuess{Location: "İstanbul", Confidence: domain.ConfidenceHigh},
		},
		{
			name:  "fenced object",
			reply: "```json\n{\"location\": \"Mardin\", \"confidence\": \"low\"}\n```",
			want:  domain.VisionGuess{Location: "Mardin", Confidence: domain.ConfidenceLow},
		},
		{
			name:  "surrounding whitespace",
			reply: "\n  {\"location\": \"Ankara\", \"confidence\": \"medium\"}  \n",
			want:  domain.VisionGuess{Location: "Ankara", Confidence: domain.ConfidenceMedium},
		},
		{name: "trailing prose", reply: `{"location": "Ankara", "confidence": "high"} tahminimce`, wantErr: true},
		{name: "missing location", reply: `{"confidence": "high"}`, wantErr: true},
		{name: "empty location", reply: `{"location": "  ", "confidence": "high"}`, wantErr: true},
		{name: "missing confidence", reply: `{"location": "Ankara"}`, wantErr: true},
		{name: "confidence outside enum", reply: `{"location": "Ankara", "confidence": "certain"}`, wantErr: true},
		{name: "wrong type", reply: `{"location": 42, "confidence": "high"}`, wantErr: true},
		{name: "not json", reply: "İstanbul olabilir", wantErr: true},
		{name: "empty", reply: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVisionReply(tt.reply)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInferenceUnavailable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
