package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/chat-analytics/internal"
	"github.com/spf13/cobra"
)

var (
	searchTerm string
	limit      int
)

var (
	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)
)

// logsCmd represents the logs command
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show logged questions, most recent first",
	Long: `Display the question log, most recent first.

--search keeps only exchanges whose question or answer contains the term
(case-insensitive).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		out := cmd.OutOrStdout()
		entries := env.view().Filter(searchTerm)
		if len(entries) == 0 {
			if searchTerm != "" {
				fmt.Fprintf(out, "No questions match %q\n", searchTerm)
			} else {
				fmt.Fprintln(out, "No questions logged yet")
			}
			return nil
		}

		total := len(entries)
		if limit > 0 && limit < total {
			entries = entries[:limit]
		}

		for i, entry := range entries {
			displayEntry(out, i+1, entry, total)
		}

		if limit > 0 && limit < total {
			fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("... (%d more question(s))", total-limit)))
		}
		return nil
	},
}

func displayEntry(w io.Writer, index int, entry internal.QuestionLogEntry, total int) {
	header := userMessageStyle.Render("👤 Question") + " " +
		timestampStyle.Render(fmt.Sprintf("[%d/%d]", index, total)) + " " +
		timestampStyle.Render(entry.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, messageContentStyle.Render(wrapText(strings.TrimSpace(entry.Question), 80)))

	fmt.Fprintln(w, assistantMessageStyle.Render("🤖 Answer"))
	answer := strings.TrimSpace(entry.Answer)
	if answer == "" {
		fmt.Fprintln(w, messageContentStyle.Foreground(lipgloss.Color("240")).Render("(empty answer)"))
	} else {
		fmt.Fprintln(w, messageContentStyle.Render(wrapText(answer, 80)))
	}
	fmt.Fprintln(w)
}

func displayMessage(w io.Writer, index int, msg internal.Message, total int) {
	var actorStyle lipgloss.Style
	var actorLabel string

	switch msg.Role {
	case internal.RoleUser:
		actorStyle = userMessageStyle
		actorLabel = "👤 User"
	case internal.RoleAssistant:
		actorStyle = assistantMessageStyle
		actorLabel = "🤖 Assistant"
	default:
		actorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		actorLabel = fmt.Sprintf("🔧 %s", msg.Role)
	}

	fmt.Fprintln(w, actorStyle.Render(actorLabel)+" "+timestampStyle.Render(fmt.Sprintf("[%d/%d]", index, total)))
	fmt.Fprintln(w, messageContentStyle.Render(wrapText(strings.TrimSpace(msg.Content), 80)))
}

func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	var wrapped []string

	for _, line := range lines {
		if len(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		words := strings.Fields(line)
		currentLine := ""
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				if currentLine != "" {
					wrapped = append(wrapped, currentLine)
				}
				currentLine = word
			} else if currentLine == "" {
				currentLine = word
			} else {
				currentLine += " " + word
			}
		}
		if currentLine != "" {
			wrapped = append(wrapped, currentLine)
		}
	}

	return strings.Join(wrapped, "\n")
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().StringVarP(&searchTerm, "search", "s", "", "Only show exchanges containing this term")
	logsCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Limit number of questions to show")
}
