package export

import (
	"io"

	"github.com/iksnae/chat-analytics/internal"
)

// JSONExporter writes the canonical export document: the whole log as a
// pretty-printed JSON array, re-importable with `import`
type JSONExporter struct{}

// Export exports the log to JSON format
func (e *JSONExporter) Export(entries []internal.QuestionLogEntry, w io.Writer) error {
	return internal.WriteDocument(w, entries)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
