package internal

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce coalesces the burst of writes one append produces
const DefaultWatchDebounce = 200 * time.Millisecond

// WatchFile calls onChange after path is written, created or removed,
// until ctx is done. The parent directory is watched so the file may not
// exist yet; bursts of events within debounce trigger a single call.
func WatchFile(ctx context.Context, path string, debounce time.Duration, onChange func()) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	base := filepath.Base(path)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			// SQLite journals live next to the database file
			name := filepath.Base(event.Name)
			if name != base && name != base+"-journal" && name != base+"-wal" {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			onChange()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			LogWarn("Watcher error: %v", err)
		}
	}
}
