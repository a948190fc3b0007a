package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/iksnae/chat-analytics/internal"
	"github.com/spf13/cobra"
)

var clearYes bool

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all logged questions",
	Long:  `Delete the whole question log. This cannot be undone; consider 'export' first.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		approve := func(prompt string) bool { return confirm(cmd, prompt) }
		if clearYes {
			approve = func(string) bool { return true }
		}

		cleared, err := env.view().ClearAll(approve)
		if err != nil {
			return fmt.Errorf("failed to clear question log: %w", err)
		}
		if !cleared {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing was deleted")
			return nil
		}
		internal.PrintSuccess(cmd.OutOrStdout(), "Analytics data cleared")
		return nil
	},
}

// confirm asks a y/N question on the command's input. Anything but an
// explicit yes declines.
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(cmd.OutOrStdout())
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Delete without asking")
}
