package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/chat-analytics/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckDetails bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check configuration, storage and assistant settings",
	Long: `Check the health of chat-analytics by verifying:
  • Data directory and config file
  • Storage backend access
  • Question log readability
  • Assistant endpoint settings and API key

No request is sent to the assistant endpoint.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("🔍 Chat Analytics Health Check"))
		fmt.Fprintln(out)

		// Step 1: Resolve paths
		fmt.Fprintln(out, infoStyle.Render("Step 1: Resolving data directory..."))
		paths, err := internal.GetStoragePaths(storagePath)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to resolve data directory:"), err)
			return err
		}
		fmt.Fprintln(out, successStyle.Render("✅ Data directory resolved"))
		detail(out, "Data directory: %s", paths.BasePath)
		fmt.Fprintln(out)

		// Step 2: Config
		fmt.Fprintln(out, infoStyle.Render("Step 2: Loading configuration..."))
		if configPath == "" && !paths.ConfigExists() {
			fmt.Fprintln(out, warningStyle.Render("⚠️  No config file, using defaults"))
			detail(out, "Expected: %s", paths.ConfigPath)
		}
		env, err := openEnvironment()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Setup failed"))
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Error details:")
			fmt.Fprintln(out, err)
			return fmt.Errorf("health check failed: %w", err)
		}
		defer env.Close()
		fmt.Fprintln(out, successStyle.Render("✅ Configuration valid"))
		detail(out, "Log level: %s", env.config.LogLevel)
		detail(out, "Topics: %d", len(env.config.Topics))
		fmt.Fprintln(out)

		// Step 3: Storage
		fmt.Fprintln(out, infoStyle.Render("Step 3: Testing storage backend access..."))
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ %s storage opened", env.config.Storage.Backend)))
		detail(out, "Location: %s", env.slotPath)
		if _, _, err := env.slot.Get(internal.LogStorageKey); err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to read question log:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		count := env.store.Len()
		if count > 0 {
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Found %d logged question(s)", count)))
		} else {
			fmt.Fprintln(out, warningStyle.Render("⚠️  Question log is empty"))
		}
		fmt.Fprintln(out)

		// Step 4: Assistant
		fmt.Fprintln(out, infoStyle.Render("Step 4: Checking assistant settings..."))
		assistant := env.config.Assistant
		detail(out, "Endpoint: %s", assistant.Endpoint)
		detail(out, "Model: %s", assistant.Model)
		keySet := assistant.APIKey != ""
		if keySet {
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ %s is set", internal.APIKeyEnv)))
		} else {
			fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("⚠️  %s is not set", internal.APIKeyEnv)))
		}
		if _, err := internal.NewMessagesClient(assistant.AssistantConfig); err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Assistant client misconfigured:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Fprintln(out)

		// Summary
		fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		fmt.Fprintln(out)
		if keySet {
			fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
		} else {
			fmt.Fprintln(out, warningStyle.Render("⚠️  Storage is working but chat will fail without an API key"))
		}
		fmt.Fprintf(out, "   • Storage: %s\n", env.config.Storage.Backend)
		fmt.Fprintf(out, "   • Questions: %d logged\n", count)
		return nil
	},
}

func detail(w io.Writer, format string, args ...interface{}) {
	if healthcheckDetails {
		fmt.Fprintf(w, "   "+format+"\n", args...)
	}
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckDetails, "details", "d", false, "Show detailed diagnostic information")
}
