package export

import (
	"io"

	"github.com/iksnae/chat-analytics/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports the log in YAML format
type YAMLExporter struct{}

// Export exports the log to YAML format
func (e *YAMLExporter) Export(entries []internal.QuestionLogEntry, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()
	enc.SetIndent(2)

	if entries == nil {
		entries = []internal.QuestionLogEntry{}
	}
	return enc.Encode(entries)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
