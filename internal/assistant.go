package internal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Assistant answers a conversation. Implementations must be safe to call
// from any goroutine.
type Assistant interface {
	Complete(ctx context.Context, history []Message) (string, error)
}

// AssistantConfig configures the remote messages endpoint
type AssistantConfig struct {
	Endpoint     string        `yaml:"endpoint"`
	Model        string        `yaml:"model"`
	MaxTokens    int           `yaml:"max_tokens"`
	APIVersion   string        `yaml:"api_version"`
	APIKey       string        `yaml:"-"`
	SystemPrompt string        `yaml:"system_prompt"`
	Timeout      time.Duration `yaml:"timeout"` // 0 leaves the transport default
}

// messagesRequest is the wire body of the outbound request
type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []Message `json:"messages"`
}

// messagesResponse keeps only what the reply extraction needs
type messagesResponse struct {
	Content []struct {
		Type string  `json:"type"`
		Text *string `json:"text"`
	} `json:"content"`
}

// MessagesClient posts conversations to a messages-style completion endpoint
type MessagesClient struct {
	config AssistantConfig
	client *resty.Client
}

// NewMessagesClient creates a client for config.Endpoint
func NewMessagesClient(config AssistantConfig) (*MessagesClient, error) {
	if config.Endpoint == "" {
		return nil, errors.New("assistant endpoint is not configured")
	}
	if config.Model == "" {
		return nil, errors.New("assistant model is not configured")
	}

	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if config.APIKey != "" {
		client.SetHeader("x-api-key", config.APIKey)
	}
	if config.APIVersion != "" {
		client.SetHeader("anthropic-version", config.APIVersion)
	}
	if config.Timeout > 0 {
		client.SetTimeout(config.Timeout)
	}

	return &MessagesClient{config: config, client: client}, nil
}

// Complete sends the system prompt and history and returns the reply text.
// Non-2xx statuses return *AssistantError; a body without content[0].text
// returns ErrMalformedResponse.
func (c *MessagesClient) Complete(ctx context.Context, history []Message) (string, error) {
	body := messagesRequest{
		Model:     c.config.Model,
		MaxTokens: c.config.MaxTokens,
		System:    c.config.SystemPrompt,
		Messages:  history,
	}

	var result messagesResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		ForceContentType("application/json").
		Post(c.config.Endpoint)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return "", &AssistantError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	if len(result.Content) == 0 || result.Content[0].Text == nil {
		LogDebug("Unexpected assistant response body: %s", resp.String())
		return "", ErrMalformedResponse
	}
	return *result.Content[0].Text, nil
}
