package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iksnae/chat-analytics/internal"
)

// MarkdownExporter exports the log as a readable Markdown report
type MarkdownExporter struct{}

// Export exports the log to Markdown format
func (e *MarkdownExporter) Export(entries []internal.QuestionLogEntry, w io.Writer) error {
	// Header
	_, _ = fmt.Fprintf(w, "# Chat Analytics Log\n\n")
	_, _ = fmt.Fprintf(w, "**Questions:** %d  \n", len(entries))
	if len(entries) > 0 {
		last := entries[len(entries)-1].Timestamp
		_, _ = fmt.Fprintf(w, "**Last updated:** %s\n\n", last.UTC().Format(time.RFC3339))
	} else {
		_, _ = fmt.Fprintf(w, "\n")
	}

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Exchanges\n\n")

	for i, entry := range entries {
		_, _ = fmt.Fprintf(w, "### %d. %s\n\n", i+1, escapeMarkdown(oneLine(entry.Question)))
		_, _ = fmt.Fprintf(w, "*%s*\n\n", entry.Timestamp.UTC().Format(time.RFC3339))
		_, _ = fmt.Fprintf(w, "%s\n\n", escapeMarkdown(entry.Answer))

		// Add horizontal rule after each exchange (except the last one)
		if i < len(entries)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

func oneLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	// Basic escaping - preserve code blocks
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			// Escape markdown syntax outside code blocks
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
