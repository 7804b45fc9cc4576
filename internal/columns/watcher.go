package columns

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces bursts of write events from editors that save in
// multiple steps.
const debounceDelay = 200 * time.Millisecond

// Watch reloads the column source whenever it changes on disk, calling
// onChange with the fresh column list. The parent directory is watched, not
// the file itself, because many editors replace files on save. Blocks until
// ctx is done.
func Watch(ctx context.Context, path string, onChange func([]string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	var debounce *time.Timer
	reload := func() {
		cols, err := Load(abs)
		if err != nil {
			slog.Warn("column source reload failed", "path", abs, "error", err)
			return
		}
		slog.Debug("column source reloaded", "path", abs, "columns", len(cols))
		onChange(cols)
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, reload)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("column watcher error", "error", err)
		}
	}
}
