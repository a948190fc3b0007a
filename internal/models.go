package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Role is the author of a transcript message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the live, session-scoped transcript
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// QuestionLogEntry is one persisted question/answer exchange.
// WasHelpful is reserved for feedback and is nil (unknown) at creation.
type QuestionLogEntry struct {
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
	Question   string    `json:"question" yaml:"question"`
	Answer     string    `json:"answer" yaml:"answer"`
	WasHelpful *bool     `json:"wasHelpful" yaml:"wasHelpful"`
}

// NewQuestionLogEntry builds an entry stamped at the given instant, truncated
// to millisecond precision in UTC like the browser's toISOString
func NewQuestionLogEntry(at time.Time, question, answer string) QuestionLogEntry {
	return QuestionLogEntry{
		Timestamp: at.UTC().Truncate(time.Millisecond),
		Question:  question,
		Answer:    answer,
	}
}

// DecodeEntries parses a JSON array of log entries
func DecodeEntries(data []byte) ([]QuestionLogEntry, error) {
	var entries []QuestionLogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse log entries: %w", err)
	}
	if entries == nil {
		// "null" is well-formed JSON but not a collection
		return nil, fmt.Errorf("failed to parse log entries: not an array")
	}
	return entries, nil
}

// EncodeEntries serializes entries compactly for storage
func EncodeEntries(entries []QuestionLogEntry) ([]byte, error) {
	if entries == nil {
		entries = []QuestionLogEntry{}
	}
	return json.Marshal(entries)
}

// DecodeDocument reads an exported (pretty-printed) JSON document
func DecodeDocument(r io.Reader, name string) ([]QuestionLogEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Source: "document", Key: name, Err: err}
	}
	entries, err := DecodeEntries(data)
	if err != nil {
		return nil, &ParseError{Source: "document", Key: name, Err: err}
	}
	return entries, nil
}
