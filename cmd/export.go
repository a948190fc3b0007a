package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iksnae/chat-analytics/internal"
	"github.com/iksnae/chat-analytics/internal/export"
	"github.com/spf13/cobra"
)

var (
	format    string
	outputDir string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the question log to a file",
	Long: `Export the question log to chat-analytics-<date>.<ext> in the output directory.

Formats: json (the canonical document accepted by 'import'), jsonl, yaml, md.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Create exporter
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		env, err := openEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		entries := env.store.LoadAll()

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		path := filepath.Join(outputDir, internal.ExportFileName(time.Now(), exporter.Extension()))

		err = internal.ShowProgress(cmd.Context(), fmt.Sprintf("Exporting %d question(s) to %s", len(entries), path), func() error {
			file, err := os.Create(path)
			if err != nil {
				return &internal.ExportError{Format: format, Path: path, Err: err}
			}
			if err := exporter.Export(entries, file); err != nil {
				_ = file.Close()
				return &internal.ExportError{Format: format, Path: path, Err: err}
			}
			if err := file.Close(); err != nil {
				return &internal.ExportError{Format: format, Path: path, Err: err}
			}
			return nil
		})
		if err != nil {
			return err
		}

		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Export complete: %d question(s) exported to %s", len(entries), path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "json", "Export format (json, jsonl, yaml, md)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", ".", "Output directory")
}
