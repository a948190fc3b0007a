package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/iksnae/chat-analytics/internal"
)

// executeCommand runs rootCmd with args and stdin and returns everything
// written to stdout and stderr. Package flag variables are reset first
// because cobra keeps their values between executions.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	verbose = false
	storagePath = ""
	configPath = ""
	backendName = ""
	searchTerm = ""
	limit = 0
	format = "json"
	outputDir = "."
	importYes = false
	clearYes = false
	watchStats = false
	statsOutput = "text"
	healthcheckDetails = false
	configForce = false

	var walk func(*cobra.Command)
	walk = func(cmd *cobra.Command) {
		for _, name := range []string{"help", "version"} {
			if f := cmd.Flags().Lookup(name); f != nil {
				_ = f.Value.Set("false")
			}
		}
		for _, sub := range cmd.Commands() {
			walk(sub)
		}
	}
	walk(c)
}

// openTestStore opens the SQLite log a command wrote into dir
func openTestStore(t *testing.T, dir string) *internal.LogStore {
	t.Helper()
	slot, err := internal.OpenSQLiteSlot(filepath.Join(dir, "chatlogs.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteSlot() error = %v", err)
	}
	t.Cleanup(func() { _ = slot.Close() })
	return internal.NewLogStore(slot)
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		want    string
	}{
		{
			name: "version flag",
			args: []string{"--version"},
			want: "dev",
		},
		{
			name: "help flag",
			args: []string{"--help"},
			want: "chat-analytics",
		},
		{
			name:    "unknown command",
			args:    []string{"nonexistent-command"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, "", tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.want != "" && !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want it to contain %q", out, tt.want)
			}
		})
	}
}

func TestRootCommand_SubcommandsRegistered(t *testing.T) {
	want := []string{"chat", "ask", "stats", "logs", "export", "import", "clear", "healthcheck", "config"}
	for _, name := range want {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("%s command not registered", name)
		}
	}
}

func TestOpenEnvironment_Backends(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{name: "default sqlite", args: []string{"logs"}},
		{name: "bolt", args: []string{"logs", "--backend", "bolt"}},
		{name: "memory", args: []string{"logs", "--backend", "MEMORY"}},
		{name: "unknown backend", args: []string{"logs", "--backend", "redis"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--storage", t.TempDir()}, tt.args...)
			_, err := executeCommand(t, "", args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("Execute(%v) error = %v, wantErr %v", args, err, tt.wantErr)
			}
		})
	}
}

func TestOpenEnvironment_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "broken.yaml")
	if _, err := executeCommand(t, "", "--storage", dir, "--config", writeFile(t, configFile, "assistant: ["), "logs"); err == nil {
		t.Error("Execute() with a broken config should fail")
	}
}
