package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/chat-analytics/internal"
	"github.com/spf13/cobra"
)

// maxInputLine bounds a single pasted chat line
const maxInputLine = 1024 * 1024

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	replyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135"))
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation with the assistant",
	Long: `Start an interactive conversation with the portfolio assistant.

Every answered question is added to the local question log.

Commands:
  /transcript   Show the conversation so far
  /reset        Dismiss the conversation and start over
  /quit         Leave the chat`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		out := cmd.OutOrStdout()
		controller.Open()
		printReply(out, controller.Transcript()[0])

		scanner := bufio.NewScanner(cmd.InOrStdin())
		scanner.Buffer(make([]byte, 0, 64*1024), maxInputLine)
		for {
			fmt.Fprint(out, promptStyle.Render("> "))
			if !scanner.Scan() {
				fmt.Fprintln(out)
				return scanner.Err()
			}

			line := strings.TrimSpace(scanner.Text())
			switch line {
			case "":
				continue
			case "/quit", "/exit":
				return nil
			case "/reset":
				controller.Reset()
				controller.Open()
				printReply(out, controller.Transcript()[0])
				continue
			case "/transcript":
				printTranscript(out, controller.Transcript())
				continue
			}

			if reply, ok := send(cmd.Context(), controller, line); ok {
				printReply(out, reply)
			}
		}
	},
}

// newController wires the configured assistant endpoint to the question log
func newController(env *environment) (*internal.ConversationController, error) {
	client, err := internal.NewMessagesClient(env.config.Assistant.AssistantConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create assistant client: %w", err)
	}
	return internal.NewConversationController(
		client,
		env.store,
		env.config.Assistant.Greeting,
		env.config.Assistant.FallbackMessage,
	), nil
}

// send shows a spinner while the controller waits for the assistant
func send(ctx context.Context, controller *internal.ConversationController, text string) (internal.Message, bool) {
	var reply internal.Message
	var ok bool
	internal.ShowWaiting(ctx, "Thinking...", func() {
		reply, ok = controller.Send(ctx, text)
	})
	return reply, ok
}

func warnMissingAPIKey(cmd *cobra.Command, env *environment) {
	if env.config.Assistant.APIKey == "" {
		internal.PrintWarning(cmd.ErrOrStderr(), fmt.Sprintf("%s is not set; the assistant endpoint will likely reject requests", internal.APIKeyEnv))
	}
}

func printReply(w io.Writer, msg internal.Message) {
	fmt.Fprintln(w, replyStyle.Render(wrapText(msg.Content, 80)))
	fmt.Fprintln(w)
}

func printTranscript(w io.Writer, transcript []internal.Message) {
	for i, msg := range transcript {
		displayMessage(w, i+1, msg, len(transcript))
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
