package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// SampleLogJSON is a persisted question log spanning two calendar dates,
// stored the way the browser wrote it (compact, millisecond timestamps)
const SampleLogJSON = `[` +
	`{"timestamp":"2025-03-14T10:00:00.000Z","question":"What skills does Imran have?","answer":"React, Vue, TypeScript, StencilJS and Python.","wasHelpful":null},` +
	`{"timestamp":"2025-03-14T11:30:00.000Z","question":"Is he available for freelance work?","answer":"Yes, from Q2 2026.","wasHelpful":null},` +
	`{"timestamp":"2025-03-15T09:15:00.000Z","question":"what skills does imran have? ","answer":"Front-end focused.","wasHelpful":null}` +
	`]`

// CreateSQLiteFixture creates a SQLite database file holding SampleLogJSON
func CreateSQLiteFixture(t *testing.T, dbPath string) {
	t.Helper()
	CreateSQLiteFixtureWithLog(t, dbPath, SampleLogJSON)
}

// CreateSQLiteFixtureWithLog creates a SQLite database file holding logJSON
// under the chatLogs key
func CreateSQLiteFixtureWithLog(t *testing.T, dbPath, logJSON string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS ItemTable (
		key TEXT PRIMARY KEY,
		value BLOB
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	insertSQL := "INSERT OR REPLACE INTO ItemTable (key, value) VALUES (?, ?)"
	if _, err := db.Exec(insertSQL, "chatLogs", []byte(logJSON)); err != nil {
		t.Fatalf("Failed to insert log: %v", err)
	}
}

// CreateConfigFixture writes a config.yaml into dir and returns its path
func CreateConfigFixture(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create config directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("Failed to write config fixture: %v", err)
	}
	return path
}

// CreateMockDataDir creates a data directory with a populated SQLite log
func CreateMockDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	CreateSQLiteFixture(t, filepath.Join(dir, "chatlogs.db"))
	return dir
}
