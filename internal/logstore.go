package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// LogStorageKey is the fixed slot key holding the question log
const LogStorageKey = "chatLogs"

// LogStore is the durable, ordered collection of question/answer exchanges.
// It owns every QuestionLogEntry; callers get copies.
type LogStore struct {
	mu   sync.Mutex
	slot Slot
	key  string
}

// NewLogStore creates a LogStore over slot using LogStorageKey
func NewLogStore(slot Slot) *LogStore {
	return &LogStore{slot: slot, key: LogStorageKey}
}

// Append adds entry to the end of the log. Data that does not parse as a
// log collection is treated as empty and overwritten.
func (s *LogStore) Append(entry QuestionLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.slot.Update(s.key, func(current []byte, found bool) ([]byte, error) {
		entries := s.decode(current, found)
		entries = append(entries, entry)
		data, err := EncodeEntries(entries)
		if err != nil {
			return nil, fmt.Errorf("failed to encode log entries: %w", err)
		}
		return data, nil
	})
}

// LoadAll returns the log in insertion order. Missing, unreadable and
// malformed data all yield an empty log.
func (s *LogStore) LoadAll() []QuestionLogEntry {
	data, found, err := s.slot.Get(s.key)
	if err != nil {
		LogWarn("Failed to read question log: %v", err)
		return []QuestionLogEntry{}
	}
	return s.decode(data, found)
}

// Len returns the number of logged exchanges
func (s *LogStore) Len() int {
	return len(s.LoadAll())
}

// Clear deletes the persisted log. Clearing an empty store is not an error.
func (s *LogStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.slot.Delete(s.key); err != nil {
		return fmt.Errorf("failed to clear question log: %w", err)
	}
	LogInfo("Question log cleared")
	return nil
}

// Replace overwrites the log with entries, used when importing an export
func (s *LogStore) Replace(entries []QuestionLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := EncodeEntries(entries)
	if err != nil {
		return fmt.Errorf("failed to encode log entries: %w", err)
	}
	return s.slot.Update(s.key, func([]byte, bool) ([]byte, error) {
		return data, nil
	})
}

// Export writes the full log as an indented JSON document
func (s *LogStore) Export(w io.Writer) error {
	return WriteDocument(w, s.LoadAll())
}

// WriteDocument writes entries as a pretty-printed JSON array
func WriteDocument(w io.Writer, entries []QuestionLogEntry) error {
	if entries == nil {
		entries = []QuestionLogEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// ExportFileName names an export after the UTC calendar date of now
func ExportFileName(now time.Time, extension string) string {
	return fmt.Sprintf("chat-analytics-%s.%s", now.UTC().Format("2006-01-02"), extension)
}

func (s *LogStore) decode(data []byte, found bool) []QuestionLogEntry {
	if !found || len(data) == 0 {
		return []QuestionLogEntry{}
	}
	entries, err := DecodeEntries(data)
	if err != nil {
		LogDebug("Ignoring unparsable question log: %v", &ParseError{Source: "slot", Key: s.key, Err: err})
		return []QuestionLogEntry{}
	}
	return entries
}
