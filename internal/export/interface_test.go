package export

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/iksnae/chat-analytics/internal"
)

func TestNewExporter(t *testing.T) {
	tests := []struct {
		format   string
		wantExt  string
		wantType string
	}{
		{format: "json", wantExt: "json", wantType: "*export.JSONExporter"},
		{format: "jsonl", wantExt: "jsonl", wantType: "*export.JSONLExporter"},
		{format: "md", wantExt: "md", wantType: "*export.MarkdownExporter"},
		{format: "markdown", wantExt: "md", wantType: "*export.MarkdownExporter"},
		{format: "yaml", wantExt: "yaml", wantType: "*export.YAMLExporter"},
		{format: "yml", wantExt: "yaml", wantType: "*export.YAMLExporter"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			exporter, err := NewExporter(tt.format)
			if err != nil {
				t.Fatalf("NewExporter(%q) error = %v", tt.format, err)
			}
			if got := fmt.Sprintf("%T", exporter); got != tt.wantType {
				t.Errorf("NewExporter(%q) = %s, want %s", tt.format, got, tt.wantType)
			}
			if got := exporter.Extension(); got != tt.wantExt {
				t.Errorf("Extension() = %q, want %q", got, tt.wantExt)
			}
		})
	}
}

func TestNewExporter_Unsupported(t *testing.T) {
	for _, format := range []string{"", "xml", "JSON ", "csv"} {
		exporter, err := NewExporter(format)
		if err == nil {
			t.Errorf("NewExporter(%q) = %T, want error", format, exporter)
			continue
		}
		if !strings.Contains(err.Error(), "supported: json, jsonl, md, yaml") {
			t.Errorf("NewExporter(%q) error = %q, should list supported formats", format, err)
		}
	}
}

// Every exporter must accept an empty log without failing
func TestExporters_EmptyLog(t *testing.T) {
	for _, format := range []string{"json", "jsonl", "md", "yaml"} {
		t.Run(format, func(t *testing.T) {
			exporter, _ := NewExporter(format)
			var buf bytes.Buffer
			if err := exporter.Export([]internal.QuestionLogEntry{}, &buf); err != nil {
				t.Errorf("Export(empty) error = %v", err)
			}
		})
	}
}
