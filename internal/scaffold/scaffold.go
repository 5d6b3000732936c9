// Package scaffold creates a new markupdown project from the bundled example.
package scaffold

import (
	"embed"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/markupdown/internal/foundation/errors"
	"git.home.luguber.info/inful/markupdown/internal/logfields"
	"git.home.luguber.info/inful/markupdown/internal/workspace"
)

//go:embed example
var example embed.FS

// Options configures Init.
type Options struct {
	// Force overwrites files that already exist.
	Force bool
}

// Files returns the example project as a file system rooted at the project directory.
func Files() fs.FS {
	sub, err := fs.Sub(example, "example")
	if err != nil {
		panic(err) // the embedded directory is fixed at compile time
	}
	return sub
}

// Init copies the example project into dir and returns the slash paths
// written. Existing files are kept unless opts.Force is set.
func Init(dir string, opts Options) ([]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to create project directory").
			WithContext("path", dir).
			Build()
	}

	src := Files()
	var written []string
	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		dest := filepath.Join(dir, filepath.FromSlash(p))
		if _, statErr := os.Stat(dest); statErr == nil && !opts.Force {
			slog.Debug("Keeping existing file", logfields.Path(dest))
			return nil
		}
		data, err := fs.ReadFile(src, p)
		if err != nil {
			return err
		}
		if err := workspace.WriteFileAtomic(dest, data, 0o644); err != nil {
			return err
		}
		written = append(written, p)
		return nil
	})
	if err != nil {
		return written, errors.WrapError(err, errors.CategoryFileSystem, "failed to write example project").
			WithContext("path", dir).
			Build()
	}

	slog.Info("Project initialized", logfields.Path(dir), logfields.Count(len(written)))
	return written, nil
}
