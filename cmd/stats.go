package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/chat-analytics/internal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	watchStats  bool
	statsOutput string
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135"))
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show analytics over the question log",
	Long: `Summarize the question log: total questions, most asked questions,
topics, average question length and activity per day.

With --watch the summary is redrawn whenever the log changes, for example
while another terminal is running 'chat-analytics chat'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch statsOutput {
		case "text", "json", "yaml":
		default:
			return fmt.Errorf("unsupported output: %s (supported: text, json, yaml)", statsOutput)
		}

		env, err := openEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		out := cmd.OutOrStdout()
		view := env.view()
		if err := renderStats(out, view, statsOutput); err != nil {
			return err
		}
		if !watchStats {
			return nil
		}

		if env.config.Storage.Backend == internal.BackendMemory {
			return fmt.Errorf("--watch needs a file-backed storage backend")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		internal.PrintInfo(cmd.ErrOrStderr(), "Watching for new questions (Ctrl+C to stop)")
		return view.Watch(ctx, env.slotPath, func() {
			if internal.IsTerminal(out) {
				fmt.Fprint(out, "\033[H\033[2J")
			}
			if err := renderStats(out, view, statsOutput); err != nil {
				internal.LogWarn("Failed to render stats: %v", err)
			}
		})
	},
}

func renderStats(w io.Writer, view *internal.AnalyticsView, output string) error {
	snap, ok := view.Snapshot()

	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if !ok {
			return enc.Encode(nil)
		}
		return enc.Encode(snap)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		if !ok {
			return enc.Encode(nil)
		}
		return enc.Encode(snap)
	}

	fmt.Fprintln(w, headerStyle.Render("📊 Chat Analytics"))
	fmt.Fprintln(w)
	if !ok {
		fmt.Fprintln(w, "No analytics data yet. Start a conversation with 'chat-analytics chat'.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "Total questions\t%s\n", countStyle.Render(fmt.Sprint(snap.TotalQuestions)))
	fmt.Fprintf(tw, "Active days\t%s\n", countStyle.Render(fmt.Sprint(snap.ActiveDays())))
	fmt.Fprintf(tw, "Avg question length\t%s\n", countStyle.Render(fmt.Sprintf("%d chars", snap.AverageQuestionLength)))
	fmt.Fprintf(tw, "Last question\t%s\n", dateStyle.Render(snap.LastUpdated.Local().Format("2006-01-02 15:04")))
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Top questions"))
	tw = tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	for i, q := range snap.TopQuestions {
		fmt.Fprintf(tw, "%d.\t%s\t%s\n", i+1, truncate(q.Question, 60), countStyle.Render(fmt.Sprintf("%dx", q.Count)))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(snap.Topics) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, titleStyle.Render("Topics"))
		tw = tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
		for _, topic := range snap.Topics {
			share := snap.Share(topic.Count)
			fmt.Fprintf(tw, "%s\t%s\t%d (%d%%)\n", topic.Topic, barStyle.Render(bar(share, 20)), topic.Count, share)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Questions over time"))
	tw = tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	for _, day := range snap.QuestionsOverTime {
		fmt.Fprintf(tw, "%s\t%d\n", dateStyle.Render(day.Date.Format(internal.DateLayout)), day.Count)
	}
	return tw.Flush()
}

// bar draws percent as a bar of width cells
func bar(percent, width int) string {
	filled := percent * width / 100
	if percent > 0 && filled == 0 {
		filled = 1
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVarP(&watchStats, "watch", "w", false, "Redraw whenever the question log changes")
	statsCmd.Flags().StringVarP(&statsOutput, "output", "o", "text", "Output format (text, json, yaml)")
}
