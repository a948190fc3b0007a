package internal

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when the assistant endpoint answers 2xx
// but the body has no content[0].text
var ErrMalformedResponse = errors.New("malformed assistant response")

// StorageError represents errors accessing the persistent slot
type StorageError struct {
	Backend string // "sqlite", "bolt", "memory"
	Key     string
	Op      string // "open", "read", "write", "delete"
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [%s]: %s %s: %v", e.Backend, e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents errors decoding persisted or imported data
type ParseError struct {
	Source string // "slot", "document", "config"
	Key    string // slot key or file path
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// AssistantError represents a non-success HTTP status from the assistant endpoint
type AssistantError struct {
	StatusCode int
	Body       string
}

func (e *AssistantError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("assistant error (status %d): %s", e.StatusCode, body)
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
