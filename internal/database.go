package internal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ItemTableSchema is the key/value table the SQLite slot stores into
const ItemTableSchema = `
	CREATE TABLE IF NOT EXISTS ItemTable (
		key TEXT PRIMARY KEY,
		value BLOB
	)`

// OpenDatabase opens (or creates) a SQLite database for read-write use
func OpenDatabase(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: serializes in-process access and keeps :memory: a
	// single database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if _, err := db.Exec(ItemTableSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create ItemTable: %w", err)
	}

	return db, nil
}

// SQLiteSlot stores slot values in the ItemTable of a SQLite database
type SQLiteSlot struct {
	db *sql.DB
}

// OpenSQLiteSlot opens the database at path and wraps it as a Slot
func OpenSQLiteSlot(path string) (*SQLiteSlot, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, &StorageError{Backend: BackendSQLite, Key: path, Op: "open", Err: err}
	}
	return &SQLiteSlot{db: db}, nil
}

// NewSQLiteSlot wraps an already opened database. The ItemTable must exist.
func NewSQLiteSlot(db *sql.DB) *SQLiteSlot {
	return &SQLiteSlot{db: db}
}

// Get reads the value stored under key
func (s *SQLiteSlot) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM ItemTable WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &StorageError{Backend: BackendSQLite, Key: key, Op: "read", Err: err}
	}
	return value, true, nil
}

// Update runs the read-modify-write inside a BEGIN IMMEDIATE transaction,
// which takes the database write lock before the read.
func (s *SQLiteSlot) Update(key string, fn func([]byte, bool) ([]byte, error)) (err error) {
	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return &StorageError{Backend: BackendSQLite, Key: key, Op: "write", Err: err}
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return &StorageError{Backend: BackendSQLite, Key: key, Op: "write", Err: err}
	}
	defer func() {
		if err != nil {
			_, _ = conn.ExecContext(ctx, "ROLLBACK")
		}
	}()

	var current []byte
	found := true
	switch scanErr := conn.QueryRowContext(ctx, "SELECT value FROM ItemTable WHERE key = ?", key).Scan(&current); {
	case errors.Is(scanErr, sql.ErrNoRows):
		found = false
	case scanErr != nil:
		return &StorageError{Backend: BackendSQLite, Key: key, Op: "read", Err: scanErr}
	}

	next, err := fn(current, found)
	if err != nil {
		return err
	}

	if _, err = conn.ExecContext(ctx,
		"INSERT INTO ItemTable (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, next); err != nil {
		return &StorageError{Backend: BackendSQLite, Key: key, Op: "write", Err: err}
	}
	if _, err = conn.ExecContext(ctx, "COMMIT"); err != nil {
		return &StorageError{Backend: BackendSQLite, Key: key, Op: "write", Err: err}
	}
	return nil
}

// Delete removes the row for key
func (s *SQLiteSlot) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM ItemTable WHERE key = ?", key); err != nil {
		return &StorageError{Backend: BackendSQLite, Key: key, Op: "delete", Err: err}
	}
	return nil
}

// Close closes the underlying database
func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}
