package internal

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"
)

// ClearConfirmationPrompt is shown before the log is erased
const ClearConfirmationPrompt = "Are you sure you want to clear all analytics data? This cannot be undone."

// AnalyticsView is the read side of the log: it loads the store, derives a
// snapshot and filters entries. It never mutates the log except through
// the explicit ClearAll/Import actions.
type AnalyticsView struct {
	mu      sync.RWMutex
	store   *LogStore
	topics  TopicTable
	loc     *time.Location
	entries []QuestionLogEntry
	snap    *Snapshot
}

// NewAnalyticsView creates a view over store. A nil topics table uses
// DefaultTopics; a nil loc groups dates in time.Local.
func NewAnalyticsView(store *LogStore, topics TopicTable, loc *time.Location) *AnalyticsView {
	if topics == nil {
		topics = DefaultTopics()
	}
	if loc == nil {
		loc = time.Local
	}
	v := &AnalyticsView{store: store, topics: topics, loc: loc}
	v.Refresh()
	return v
}

// Refresh reloads the log and recomputes the snapshot from scratch
func (v *AnalyticsView) Refresh() {
	entries := v.store.LoadAll()
	snap, _ := DeriveSnapshot(entries, v.topics, v.loc)

	v.mu.Lock()
	v.entries = entries
	v.snap = snap
	v.mu.Unlock()
}

// Snapshot returns the current statistics, or false when the log is empty
func (v *AnalyticsView) Snapshot() (*Snapshot, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snap, v.snap != nil
}

// Entries returns the loaded log in insertion order
func (v *AnalyticsView) Entries() []QuestionLogEntry {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]QuestionLogEntry, len(v.entries))
	copy(out, v.entries)
	return out
}

// Filter returns entries whose raw question or answer contains term,
// case-insensitively, most recent first. An empty term matches everything.
func (v *AnalyticsView) Filter(term string) []QuestionLogEntry {
	v.mu.RLock()
	defer v.mu.RUnlock()

	needle := strings.ToLower(term)
	out := make([]QuestionLogEntry, 0, len(v.entries))
	for i := len(v.entries) - 1; i >= 0; i-- {
		e := v.entries[i]
		if strings.Contains(strings.ToLower(e.Question), needle) ||
			strings.Contains(strings.ToLower(e.Answer), needle) {
			out = append(out, e)
		}
	}
	return out
}

// Export writes the loaded log as the canonical JSON document
func (v *AnalyticsView) Export(w io.Writer) error {
	return WriteDocument(w, v.Entries())
}

// ClearAll erases the log after confirm approves ClearConfirmationPrompt.
// It reports whether the log was cleared.
func (v *AnalyticsView) ClearAll(confirm func(prompt string) bool) (bool, error) {
	if confirm == nil || !confirm(ClearConfirmationPrompt) {
		return false, nil
	}
	if err := v.store.Clear(); err != nil {
		return false, err
	}

	v.mu.Lock()
	v.entries = []QuestionLogEntry{}
	v.snap = nil
	v.mu.Unlock()
	return true, nil
}

// Import replaces the log with entries and refreshes the view
func (v *AnalyticsView) Import(entries []QuestionLogEntry) error {
	if err := v.store.Replace(entries); err != nil {
		return err
	}
	v.Refresh()
	return nil
}

// Watch refreshes the view whenever the storage file at path changes and
// then calls onChange, until ctx is done
func (v *AnalyticsView) Watch(ctx context.Context, path string, onChange func()) error {
	return WatchFile(ctx, path, DefaultWatchDebounce, func() {
		v.Refresh()
		if onChange != nil {
			onChange()
		}
	})
}
