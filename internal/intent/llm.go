package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const systemPrompt = `You are an intent classifier for a food ordering chat bot.
Select exactly one intent_type from: search_menu, mutate_cart_items, show_cart, checkout, unknown.
Return only a JSON object with these fields:
  "valid": boolean,
  "intent_type": string,
  "items": [{"menu_item_id": string, "quantity": integer, "op": "apply" | "remove"}],
  "query": string,
  "confirmed": boolean,
  "reason": string
Use menu item ids from the provided menu. Use "op": "remove" to take an item out of the cart.
Set "confirmed" to true only when the user explicitly confirms the checkout.`

type LLMConfig struct {
	// URL is the chat completions endpoint of an OpenAI compatible API.
	URL         string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// LLMClassifier asks a chat-completions model for a JSON intent payload.
type LLMClassifier struct {
	cfg    LLMConfig
	client *http.Client
}

func NewLLMClassifier(cfg LLMConfig) (*LLMClassifier, error) {
	if cfg.URL == "" {
		return nil, errors.New("classifier: url is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("classifier: model is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &LLMClassifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *LLMClassifier) Classify(ctx context.Context, req Request) (json.RawMessage, error) {
	user, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("classifier: marshal request: %w", err)
	}

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: string(user)},
		},
		Temperature:    c.cfg.Temperature,
		ResponseFormat: map[string]any{"type": "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("classifier: marshal body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("classifier: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("classifier: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("classifier: decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return nil, errors.New("classifier: empty choices in response")
	}

	return json.RawMessage(out.Choices[0].Message.Content), nil
}

// Close releases idle connections held by the client.
func (c *LLMClassifier) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
