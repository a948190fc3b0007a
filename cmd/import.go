package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/chat-analytics/internal"
	"github.com/spf13/cobra"
)

var importYes bool

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the question log with an exported JSON document",
	Long: `Replace the question log with the entries of a JSON export.

The current log is overwritten, so you are asked to confirm unless --yes is
given or the log is empty.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open import file: %w", err)
		}
		defer file.Close()

		entries, err := internal.DecodeDocument(file, args[0])
		if err != nil {
			return err
		}

		env, err := openEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		view := env.view()
		if current := len(view.Entries()); current > 0 && !importYes {
			prompt := fmt.Sprintf("Replace %d logged question(s) with %d from %s?", current, len(entries), args[0])
			if !confirm(cmd, prompt) {
				fmt.Fprintln(cmd.OutOrStdout(), "Import cancelled")
				return nil
			}
		}

		if err := view.Import(entries); err != nil {
			return fmt.Errorf("failed to import question log: %w", err)
		}
		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Imported %d question(s)", len(entries)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "Replace the log without asking")
}
