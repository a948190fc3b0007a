package internal

import (
	"fmt"
	"os"
	"path/filepath"
)

// StoragePaths holds the resolved locations of the data directory
type StoragePaths struct {
	BasePath   string // data directory (~/.chat-analytics)
	ConfigPath string // config.yaml inside BasePath
}

// DetectStoragePaths resolves the default data directory under the user's home
func DetectStoragePaths() (StoragePaths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return StoragePaths{}, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewStoragePaths(filepath.Join(home, ".chat-analytics")), nil
}

// GetStoragePaths returns paths for customDir, or the detected defaults when empty
func GetStoragePaths(customDir string) (StoragePaths, error) {
	if customDir == "" {
		return DetectStoragePaths()
	}
	abs, err := filepath.Abs(customDir)
	if err != nil {
		return StoragePaths{}, fmt.Errorf("invalid storage path %q: %w", customDir, err)
	}
	return NewStoragePaths(abs), nil
}

// NewStoragePaths builds StoragePaths rooted at base
func NewStoragePaths(base string) StoragePaths {
	return StoragePaths{
		BasePath:   base,
		ConfigPath: filepath.Join(base, "config.yaml"),
	}
}

// SlotPath returns the database file for a storage backend
func (sp StoragePaths) SlotPath(backend string) string {
	switch backend {
	case BackendBolt:
		return filepath.Join(sp.BasePath, "chatlogs.bolt")
	default:
		return filepath.Join(sp.BasePath, "chatlogs.db")
	}
}

// ConfigExists reports whether config.yaml is present
func (sp StoragePaths) ConfigExists() bool {
	_, err := os.Stat(sp.ConfigPath)
	return err == nil
}
