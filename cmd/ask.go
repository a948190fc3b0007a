package cmd

import (
	"fmt"
	"strings"

	"github.com/iksnae/chat-analytics/internal"
	"github.com/spf13/cobra"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the assistant a single question",
	Long: `Ask the portfolio assistant one question and print the answer.

The exchange is added to the question log when the assistant answers.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.TrimSpace(strings.Join(args, " "))
		if question == "" {
			return fmt.Errorf("question is empty")
		}

		env, err := openEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		controller, err := newController(env)
		if err != nil {
			return err
		}
		warnMissingAPIKey(cmd, env)
		controller.Open()

		before := env.store.Len()
		reply, _ := send(cmd.Context(), controller, question)
		fmt.Fprintln(cmd.OutOrStdout(), wrapText(reply.Content, 80))

		if env.store.Len() == before {
			internal.LogDebug("Exchange was not added to the question log")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
