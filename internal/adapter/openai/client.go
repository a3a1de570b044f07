// Package openai wraps an OpenAI-compatible completion backend for both
// vision location inference and chat completion. It implements
// domain.VisionInferrer and domain.Completer.
package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/couchcryptid/locale-scout/internal/domain"
	"github.com/couchcryptid/locale-scout/internal/observability"
)

// visionPrompt constrains the model to a single strict JSON object naming a
// Turkish city or region. Anything else is rejected by parseVisionReply.
const visionPrompt = `Bu görseldeki konumu Türkiye'deki bir şehir veya bölge bazında tespit et.
Yalnızca şu şemaya uyan tek bir JSON nesnesiyle yanıt ver:
{"location": "<şehir veya bölge adı>", "confidence": "high" | "medium" | "low"}
Emin değilsen en olası tahmini ver ve confidence alanını "low" yap.
JSON nesnesinin dışında hiçbir açıklama, kod bloğu veya metin yazma.`

// Client calls an OpenAI-compatible chat completion API.
type Client struct {
	api     *goopenai.Client
	model   string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewClient creates a completion client. baseURL overrides the default API
// endpoint when non-empty (self-hosted gateways, tests).
func NewClient(apiKey, baseURL, model string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		api:     goopenai.NewClientWithConfig(cfg),
		model:   model,
		metrics: metrics,
		logger:  logger,
	}
}

// Complete generates text from an ordered message list.
func (c *Client) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    toAPIMessages(messages),
		Temperature: 0.7,
		MaxTokens:   768,
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %v: %w", err, domain.ErrInferenceUnavailable)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices: %w", domain.ErrInferenceUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}

// InferLocation sends the image inline as a base64 data URI and parses the
// constrained JSON reply. Every failure mode — transport, rate limit, empty
// reply, schema violation — maps to domain.ErrInferenceUnavailable.
func (c *Client) InferLocation(ctx context.Context, image []byte) (domain.VisionGuess, error) {
	req := goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{
				Role: goopenai.ChatMessageRoleUser,
				MultiContent: []goopenai.ChatMessagePart{
					{Type: goopenai.ChatMessagePartTypeText, Text: visionPrompt},
					{
						Type: goopenai.ChatMessagePartTypeImageURL,
						ImageURL: &goopenai.ChatMessageImageURL{
							URL:    dataURI(image),
							Detail: goopenai.ImageURLDetailLow,
						},
					},
				},
			},
		},
		Temperature: 0,
		MaxTokens:   100,
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		c.metrics.VisionRequests.WithLabelValues("error").Inc()
		return domain.VisionGuess{}, fmt.Errorf("vision completion: %v: %w", err, domain.ErrInferenceUnavailable)
	}
	if len(resp.Choices) == 0 {
		c.metrics.VisionRequests.WithLabelValues("error").Inc()
		return domain.VisionGuess{}, fmt.Errorf("vision completion returned no choices: %w", domain.ErrInferenceUnavailable)
	}

	guess, err := parseVisionReply(resp.Choices[0].Message.Content)
	if err != nil {
		c.logger.Warn("vision reply failed schema validation", "error", err)
		c.metrics.VisionRequests.WithLabelValues("invalid").Inc()
		return domain.VisionGuess{}, err
	}

	c.metrics.VisionRequests.WithLabelValues("success").Inc()
	return guess, nil
}

// parseVisionReply validates the model reply against the required schema:
// a single JSON object with a non-empty location and an enum confidence.
// Missing keys, wrong types, and trailing prose all fail uniformly.
func parseVisionReply(reply string) (domain.VisionGuess, error) {
	cleaned := stripCodeFence(strings.TrimSpace(reply))

	var parsed struct {
		Location   string `json:"location"`
		Confidence string `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return domain.VisionGuess{}, fmt.Errorf("vision reply is not a JSON object: %w", domain.ErrInferenceUnavailable)
	}

	location := strings.TrimSpace(parsed.Location)
	if location == "" {
		return domain.VisionGuess{}, fmt.Errorf("vision reply missing location: %w", domain.ErrInferenceUnavailable)
	}
	confidence, ok := domain.ParseConfidence(parsed.Confidence)
	if !ok {
		return domain.VisionGuess{}, fmt.Errorf("vision reply confidence %q not in {high,medium,low}: %w", parsed.Confidence, domain.ErrInferenceUnavailable)
	}

	return domain.VisionGuess{Location: location, Confidence: confidence}, nil
}

// stripCodeFence removes a surrounding markdown code fence, which models emit
// despite instructions. Content inside the fence is left untouched.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func dataURI(image []byte) string {
	return "data:" + http.DetectContentType(image) + ";base64," + base64.StdEncoding.EncodeToString(image)
}

func toAPIMessages(messages []domain.Message) []goopenai.ChatCompletionMessage {
	out := make([]goopenai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		out[i] = goopenai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		}
	}
	return out
}
