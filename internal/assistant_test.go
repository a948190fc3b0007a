package internal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAssistantConfig(endpoint string) AssistantConfig {
	return AssistantConfig{
		Endpoint:     endpoint,
		Model:        "claude-sonnet-4-20250514",
		MaxTokens:    1000,
		APIVersion:   "2023-06-01",
		APIKey:       "test-key",
		SystemPrompt: "You are a test persona.",
	}
}

func TestMessagesClient_Complete(t *testing.T) {
	var gotHeaders http.Header
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotHeaders = r.Header.Clone()
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","content":[{"type":"text","text":"He knows React."}]}`))
	}))
	defer server.Close()

	client, err := NewMessagesClient(testAssistantConfig(server.URL))
	require.NoError(t, err)

	history := []Message{
		{Role: RoleAssistant, Content: "Hi!"},
		{Role: RoleUser, Content: "What does he know?"},
	}
	reply, err := client.Complete(context.Background(), history)
	require.NoError(t, err)
	assert.Equal(t, "He knows React.", reply)

	assert.Equal(t, "test-key", gotHeaders.Get("x-api-key"))
	assert.Equal(t, "2023-06-01", gotHeaders.Get("anthropic-version"))
	assert.Contains(t, gotHeaders.Get("Content-Type"), "application/json")

	assert.Equal(t, "claude-sonnet-4-20250514", gotBody["model"])
	assert.Equal(t, float64(1000), gotBody["max_tokens"])
	assert.Equal(t, "You are a test persona.", gotBody["system"])
	messages, ok := gotBody["messages"].([]interface{})
	require.True(t, ok, "messages should be an array")
	require.Len(t, messages, 2)
	assert.Equal(t, map[string]interface{}{"role": "user", "content": "What does he know?"}, messages[1])
	assert.NotContains(t, gotBody, "conversation_id")
}

func TestMessagesClient_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `{"error":{"message":"boom"}}`,
			check: func(t *testing.T, err error) {
				var apiErr *AssistantError
				require.True(t, errors.As(err, &apiErr), "want *AssistantError, got %v", err)
				assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
				assert.Contains(t, apiErr.Body, "boom")
			},
		},
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"error":{"message":"invalid x-api-key"}}`,
			check: func(t *testing.T, err error) {
				var apiErr *AssistantError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
			},
		},
		{
			name:   "empty content",
			status: http.StatusOK,
			body:   `{"content":[]}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrMalformedResponse)
			},
		},
		{
			name:   "content without text",
			status: http.StatusOK,
			body:   `{"content":[{"type":"tool_use"}]}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrMalformedResponse)
			},
		},
		{
			name:   "not json",
			status: http.StatusOK,
			body:   `<html>gateway</html>`,
			check: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewMessagesClient(testAssistantConfig(server.URL))
			require.NoError(t, err)

			reply, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
			assert.Empty(t, reply)
			tt.check(t, err)
		})
	}
}

func TestMessagesClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewMessagesClient(testAssistantConfig(url))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send request")
}

func TestMessagesClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	cfg := testAssistantConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond
	client, err := NewMessagesClient(cfg)
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	assert.Error(t, err)
}

func TestNewMessagesClient_Validation(t *testing.T) {
	_, err := NewMessagesClient(AssistantConfig{Model: "m"})
	assert.Error(t, err, "missing endpoint")

	_, err = NewMessagesClient(AssistantConfig{Endpoint: "http://localhost"})
	assert.Error(t, err, "missing model")
}
