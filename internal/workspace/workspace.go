package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"git.home.luguber.info/inful/markupdown/internal/logfields"
)

// Manager owns a scratch directory, such as the checkout of a cloned
// content source.
type Manager struct {
	baseDir string
	dir     string
}

// NewManager creates a manager placing its directory below baseDir, or the
// system temp directory when baseDir is empty.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// Create creates a fresh markupdown-<timestamp>-* directory below the base
// directory.
func (m *Manager) Create() error {
	if err := os.MkdirAll(m.baseDir, 0o750); err != nil {
		return fmt.Errorf("failed to create base directory: %w", err)
	}
	pattern := fmt.Sprintf("markupdown-%s-*", time.Now().Format("20060102-150405"))
	dir, err := os.MkdirTemp(m.baseDir, pattern)
	if err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}

	m.dir = dir
	slog.Debug("Created scratch directory", logfields.Path(dir))
	return nil
}

// Path returns the managed directory, empty before Create.
func (m *Manager) Path() string {
	return m.dir
}

// Cleanup removes the directory and everything below it.
func (m *Manager) Cleanup() error {
	if m.dir == "" {
		return nil
	}

	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("failed to clean up scratch directory: %w", err)
	}
	slog.Debug("Cleaned up scratch directory", logfields.Path(m.dir))
	m.dir = ""
	return nil
}
