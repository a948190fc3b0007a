package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// APIKeyEnv names the environment variable holding the endpoint credential
const APIKeyEnv = "ANTHROPIC_API_KEY"

// DefaultSystemPrompt is the assistant persona sent with every request
const DefaultSystemPrompt = `You are an AI assistant for Imran Khan's portfolio website (softwarerebel.com). Imran is a Front-End Engineer specializing in React, Vue, TypeScript, StencilJS, and Python.

Key Information:
- Name: Imran Khan
- Role: Front-End Engineer
- Core Skills: React, Vue, TypeScript, StencilJS, Python
- Current Status: Open to freelance projects for Q2 2026
- Tagline: "Let's build something extraordinary together"

Your role:
- Answer questions about Imran's skills, experience, and availability
- Be friendly, professional, and conversational
- If asked about specific projects, mention that the portfolio is being updated with case studies
- Encourage visitors to reach out for freelance opportunities
- If you don't know something specific, be honest and suggest they contact Imran directly
- Keep responses concise but informative (2-4 sentences typically)

Tone: Professional yet approachable, enthusiastic about technology and collaboration.`

// Config is the on-disk configuration (config.yaml)
type Config struct {
	Assistant AssistantSettings `yaml:"assistant"`
	Storage   StorageSettings   `yaml:"storage"`
	LogLevel  string            `yaml:"log_level"`
	Topics    TopicTable        `yaml:"topics,omitempty"`
}

// AssistantSettings configures the remote endpoint and conversation copy
type AssistantSettings struct {
	AssistantConfig `yaml:",inline"`
	Greeting        string `yaml:"greeting"`
	FallbackMessage string `yaml:"fallback_message"`
}

// StorageSettings selects the slot backend
type StorageSettings struct {
	Backend string `yaml:"backend"` // sqlite, bolt, memory
	Path    string `yaml:"path,omitempty"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Assistant: AssistantSettings{
			AssistantConfig: AssistantConfig{
				Endpoint:     "https://api.anthropic.com/v1/messages",
				Model:        "claude-sonnet-4-20250514",
				MaxTokens:    1000,
				APIVersion:   "2023-06-01",
				SystemPrompt: DefaultSystemPrompt,
			},
			Greeting:        DefaultGreeting,
			FallbackMessage: DefaultFallbackMessage,
		},
		Storage:  StorageSettings{Backend: BackendSQLite},
		LogLevel: "warn",
		Topics:   DefaultTopics(),
	}
}

// LoadConfig reads path over the defaults. A missing file is not an error.
// The API key always comes from the environment.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			LogDebug("No config file at %s, using defaults", path)
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, &ParseError{Source: "config", Key: path, Err: err}
			}
		}
	}

	cfg.Assistant.APIKey = os.Getenv(APIKeyEnv)
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendSQLite
	}
	if len(cfg.Topics) == 0 {
		cfg.Topics = DefaultTopics()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values a typo would otherwise turn into runtime failures
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendBolt, BackendMemory:
	default:
		return fmt.Errorf("unsupported storage backend: %s (supported: sqlite, bolt, memory)", c.Storage.Backend)
	}
	if c.Assistant.MaxTokens <= 0 {
		return fmt.Errorf("assistant.max_tokens must be positive, got %d", c.Assistant.MaxTokens)
	}
	if c.Assistant.Timeout < 0 {
		return fmt.Errorf("assistant.timeout must not be negative, got %s", c.Assistant.Timeout)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	for i, rule := range c.Topics {
		if strings.TrimSpace(rule.Label) == "" {
			return fmt.Errorf("topics[%d]: label is empty", i)
		}
	}
	return nil
}

// Save writes the config as YAML, creating parent directories
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
