package internal

import (
	"context"
	"sync"
	"time"
)

// testEpoch is a fixed instant used by the test fixtures
var testEpoch = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

// CreateTestEntry creates a log entry asked at testEpoch plus offset
func CreateTestEntry(question, answer string, offset time.Duration) QuestionLogEntry {
	return NewQuestionLogEntry(testEpoch.Add(offset), question, answer)
}

// CreateTestEntries creates one entry per question, a minute apart
func CreateTestEntries(questions ...string) []QuestionLogEntry {
	entries := make([]QuestionLogEntry, 0, len(questions))
	for i, q := range questions {
		entries = append(entries, CreateTestEntry(q, "Answer to: "+q, time.Duration(i)*time.Minute))
	}
	return entries
}

// CreateTestLogStore creates a LogStore over a fresh MemorySlot holding entries
func CreateTestLogStore(entries ...QuestionLogEntry) *LogStore {
	store := NewLogStore(NewMemorySlot())
	for _, e := range entries {
		_ = store.Append(e)
	}
	return store
}

// StubAssistant is a scripted Assistant. Replies and Errs are consumed in
// order; when exhausted it echoes the last user message.
type StubAssistant struct {
	mu       sync.Mutex
	Replies  []string
	Errs     []error
	Calls    [][]Message
	Release  chan struct{} // when set, Complete blocks until it is closed or receives
	Started  chan struct{} // when set, Complete signals here before blocking
	callsIdx int
}

// Complete records history and returns the next scripted reply or error
func (s *StubAssistant) Complete(ctx context.Context, history []Message) (string, error) {
	s.mu.Lock()
	copied := make([]Message, len(history))
	copy(copied, history)
	s.Calls = append(s.Calls, copied)
	i := s.callsIdx
	s.callsIdx++
	release, started := s.Release, s.Started
	s.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i < len(s.Errs) && s.Errs[i] != nil {
		return "", s.Errs[i]
	}
	if i < len(s.Replies) {
		return s.Replies[i], nil
	}
	return "echo: " + history[len(history)-1].Content, nil
}

// CallCount returns how many requests were made
func (s *StubAssistant) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}
