package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iksnae/chat-analytics/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	storagePath string
	configPath  string
	backendName string
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chat-analytics",
	Short: "Chat with the portfolio assistant and analyze what visitors ask",
	Long: `A CLI for the portfolio assistant: chat with the remote language model,
keep a local log of every answered question, and explore usage analytics.

Every successful exchange is appended to a local question log. The log can be
summarized, searched, exported, imported and cleared.

Features:
  • Interactive chat and one-shot questions
  • Question statistics: top questions, topics, activity per day
  • Live-updating statistics while the assistant is in use
  • Export in multiple formats (JSON, JSONL, YAML, Markdown)
  • SQLite or bbolt storage

Quick Start:
  chat-analytics chat                     # Start a conversation
  chat-analytics stats                    # Show question analytics
  chat-analytics logs --search react      # Search the question log
  chat-analytics export --format md       # Export as Markdown`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Custom data directory (default ~/.chat-analytics)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default <data-dir>/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "Storage backend override (sqlite, bolt, memory)")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// environment is everything a command needs to reach the question log
type environment struct {
	paths    internal.StoragePaths
	config   *internal.Config
	slotPath string
	slot     internal.Slot
	store    *internal.LogStore
}

// openEnvironment resolves the data directory, loads the config and opens
// the configured storage slot. Callers must Close it.
func openEnvironment() (*environment, error) {
	paths, err := internal.GetStoragePaths(storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get storage paths: %w", err)
	}

	cfg, err := internal.LoadConfig(resolveConfigPath(paths))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level, err := internal.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	internal.SetLogLevel(level)
	internal.SetVerbose(verbose)

	if backendName != "" {
		cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(backendName))
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	slotPath := cfg.Storage.Path
	switch {
	case slotPath == "":
		slotPath = paths.SlotPath(cfg.Storage.Backend)
	case !filepath.IsAbs(slotPath):
		slotPath = filepath.Join(paths.BasePath, slotPath)
	}
	internal.LogDebug("Opening %s storage at %s", cfg.Storage.Backend, slotPath)

	slot, err := internal.OpenSlot(cfg.Storage.Backend, slotPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return &environment{
		paths:    paths,
		config:   cfg,
		slotPath: slotPath,
		slot:     slot,
		store:    internal.NewLogStore(slot),
	}, nil
}

// resolveConfigPath returns --config, or config.yaml in the data directory
func resolveConfigPath(paths internal.StoragePaths) string {
	if configPath != "" {
		return configPath
	}
	return paths.ConfigPath
}

// view creates an analytics view over the question log
func (e *environment) view() *internal.AnalyticsView {
	return internal.NewAnalyticsView(e.store, e.config.Topics, nil)
}

func (e *environment) Close() {
	if err := e.slot.Close(); err != nil {
		internal.LogWarn("Failed to close storage: %v", err)
	}
}
