package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	openAIURL          = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel = "gpt-4o-mini"
)

// OpenAICompleter implements Completer with Chat Completions in JSON mode.
type OpenAICompleter struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewOpenAICompleter constructs a completer. An empty model uses the default.
func NewOpenAICompleter(apiKey, model string, timeout time.Duration) (*OpenAICompleter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultOpenAIModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAICompleter{
		apiKey:     apiKey,
		model:      model,
		endpoint:   openAIURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *OpenAICompleter) Name() string { return ProviderOpenAI }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    *float32       `json:"temperature,omitempty"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

const (
	systemPrompt     = "You fill in cover letter data. Reply with one JSON object and nothing else."
	maxResponseBytes = 2 << 20
)

// Complete returns the model's JSON reply for prompt.
func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
	}
	// gpt-5 models reject any temperature other than the default.
	if !isGPT5(c.model) {
		zero := float32(0)
		reqBody.Temperature = &zero
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return "", fmt.Errorf("openai request timeout: %w", err)
		}
		return "", fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("openai read body: %w", err)
	}
	return decodeChat(resp.StatusCode, body)
}

// decodeChat extracts the first choice's content. Quota exhaustion maps to
// ErrQuotaExceeded; ordinary rate limits stay plain errors.
func decodeChat(status int, body []byte) (string, error) {
	var parsed chatResponse
	jsonErr := json.Unmarshal(body, &parsed)
	switch {
	case jsonErr == nil && parsed.Error != nil:
		if parsed.Error.Code == "insufficient_quota" || parsed.Error.Type == "insufficient_quota" {
			return "", fmt.Errorf("%w: %s", ErrQuotaExceeded, parsed.Error.Message)
		}
		return "", fmt.Errorf("openai http status %d: %s (%s)", status, parsed.Error.Message, parsed.Error.Type)
	case status >= http.StatusBadRequest:
		return "", fmt.Errorf("openai http status %d: %s", status, strings.TrimSpace(string(body)))
	case jsonErr != nil:
		return "", fmt.Errorf("openai response parse: %w", jsonErr)
	case len(parsed.Choices) == 0:
		return "", errors.New("openai response missing choices")
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("openai response empty content")
	}
	return content, nil
}

func isGPT5(model string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gpt-5")
}

var _ Completer = (*OpenAICompleter)(nil)
