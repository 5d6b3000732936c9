package preview

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/markupdown/internal/logfields"
)

// setupFileWatcher creates a watcher over every directory below roots.
func setupFileWatcher(roots []string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	for _, root := range roots {
		if err := addDirsRecursive(watcher, root); err != nil {
			_ = watcher.Close()
			return nil, err
		}
	}
	return watcher, nil
}

// handleFileEvent watches new directories and reports whether ev should
// trigger a rebuild.
func handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event) bool {
	if shouldIgnoreEvent(ev.Name) || ev.Op == fsnotify.Chmod {
		return false
	}
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	return true
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	// editor temp and swap files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
