package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"recipe-ai-backend/internal/utils"
	"recipe-ai-backend/internal/utils/logger"
	"recipe-ai-backend/internal/utils/metrics"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

const jsonOnlyInstruction = "\n\nIMPORTANT: Return only valid JSON, no other text or formatting."

var (
	ErrNotConfigured = errors.New("llm client not configured")
	ErrEmptyResponse = errors.New("llm returned no choices")
)

// HTTPError is a non-2xx reply from the provider.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("llm provider returned %d: %s", e.StatusCode, e.Body)
}

type (
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	ResponseFormat struct {
		Type string `json:"type"`
	}

	ChatRequest struct {
		Model          string          `json:"model"`
		Messages       []Message       `json:"messages"`
		MaxTokens      int             `json:"max_tokens,omitempty"`
		Temperature    float64         `json:"temperature"`
		ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
	}

	chatResponse struct {
		Choices []struct {
			Message Message `json:"message"`
		} `json:"choices"`
	}

	Config struct {
		APIKey      string
		BaseURL     string
		Model       string
		MaxTokens   int
		Temperature float64
		Timeout     time.Duration
	}
)

func LoadConfig() Config {
	return Config{
		APIKey:      utils.GetConfig("OPENAI_API_KEY"),
		BaseURL:     strings.TrimRight(utils.GetConfig("OPENAI_BASE_URL"), "/"),
		Model:       utils.GetConfig("OPENAI_MODEL"),
		MaxTokens:   utils.GetConfigInt("OPENAI_MAX_TOKENS"),
		Temperature: utils.GetConfigFloat("OPENAI_TEMPERATURE"),
		Timeout:     60 * time.Second,
	}
}

type (
	Client interface {
		// Chat sends req as-is and returns the first choice's content.
		Chat(ctx context.Context, req ChatRequest) (string, error)
		// ChatJSON asks for a JSON object reply. Providers that reject
		// response_format get the request again as plain text.
		ChatJSON(ctx context.Context, req ChatRequest) (string, error)
	}

	client struct {
		cfg     Config
		http    *http.Client
		breaker *gobreaker.CircuitBreaker[string]
		log     *logger.Logger
	}
)

func NewClient(cfg Config, log *logger.Logger) Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	log = log.With("service", "LLMClient")

	settings := gobreaker.Settings{
		Name:        "openai",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Rejected requests say nothing about provider health.
		IsSuccessful: func(err error) bool {
			var httpErr *HTTPError
			if errors.As(err, &httpErr) {
				return httpErr.StatusCode < 500 && httpErr.StatusCode != http.StatusTooManyRequests
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[string](settings),
		log:     log,
	}
}

func (c *client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if c.cfg.APIKey == "" {
		metrics.LLMRequests.WithLabelValues("not_configured").Inc()
		return "", ErrNotConfigured
	}
	c.applyDefaults(&req)

	content, err := c.breaker.Execute(func() (string, error) {
		return c.do(ctx, req)
	})
	switch {
	case err == nil:
		metrics.LLMRequests.WithLabelValues("success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.LLMRequests.WithLabelValues("breaker_open").Inc()
	default:
		metrics.LLMRequests.WithLabelValues("error").Inc()
	}
	return content, err
}

func (c *client) ChatJSON(ctx context.Context, req ChatRequest) (string, error) {
	structured := req
	structured.ResponseFormat = &ResponseFormat{Type: "json_object"}

	content, err := c.Chat(ctx, structured)
	if err == nil || !rejectsResponseFormat(err) {
		return content, err
	}

	c.log.Warn("structured output not supported, retrying as plain text", "model", req.Model, "error", err)
	metrics.LLMRequests.WithLabelValues("fallback").Inc()

	plain := req
	plain.ResponseFormat = nil
	plain.Messages = append([]Message(nil), req.Messages...)
	for i := len(plain.Messages) - 1; i >= 0; i-- {
		if plain.Messages[i].Role == "user" {
			plain.Messages[i].Content += jsonOnlyInstruction
			break
		}
	}
	return c.Chat(ctx, plain)
}

func rejectsResponseFormat(err error) bool {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	if httpErr.StatusCode != http.StatusBadRequest && httpErr.StatusCode != http.StatusUnprocessableEntity {
		return false
	}
	return strings.Contains(httpErr.Body, "response_format") || strings.Contains(httpErr.Body, "json_object")
}

func (c *client) applyDefaults(req *ChatRequest) {
	if req.Model == "" {
		req.Model = c.cfg.Model
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = c.cfg.MaxTokens
	}
	if req.Temperature == 0 {
		req.Temperature = c.cfg.Temperature
	}
}

func (c *client) do(ctx context.Context, req ChatRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("llm read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("llm decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	c.log.Debug("chat completion finished", "model", req.Model, "elapsed_ms", time.Since(start).Milliseconds())
	return parsed.Choices[0].Message.Content, nil
}
