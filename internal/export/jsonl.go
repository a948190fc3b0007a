package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/chat-analytics/internal"
)

// JSONLExporter exports the log in JSONL format (one exchange per line)
type JSONLExporter struct{}

// Export exports the log to JSONL format
func (e *JSONLExporter) Export(entries []internal.QuestionLogEntry, w io.Writer) error {
	enc := json.NewEncoder(w)

	for i, entry := range entries {
		if err := enc.Encode(entry); err != nil {
			return fmt.Errorf("failed to encode entry %d: %w", i, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
