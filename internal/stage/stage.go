// Package stage copies source files into the build workspace.
package stage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/markupdown/internal/document"
	"git.home.luguber.info/inful/markupdown/internal/foundation/errors"
	"git.home.luguber.info/inful/markupdown/internal/logfields"
	"git.home.luguber.info/inful/markupdown/internal/workspace"
)

// DefaultPatterns selects every Markdown file below the source root.
var DefaultPatterns = []string{"**/*.md"}

// Options configures one staging pass.
type Options struct {
	// SourceDir is the content root. Relative structure below it is kept.
	SourceDir string
	// Patterns are globs matched against slash paths relative to SourceDir.
	Patterns []string
	// Required turns a missing SourceDir into an error.
	Required bool
	// StampSource records the absolute origin path of each Markdown file
	// under its `source` metadata key.
	StampSource bool
	// Prefix is prepended to every destination path (e.g. "css").
	Prefix string
}

// Stage copies files under opts.SourceDir matching opts.Patterns into ws and
// returns the staged workspace paths in walk order.
func Stage(ctx context.Context, ws *workspace.Workspace, opts Options) ([]string, error) {
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	matcher, err := workspace.NewMatcher(patterns...)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid stage pattern").
			WithContext("patterns", patterns).
			Build()
	}

	src, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve source directory").
			WithContext("path", opts.SourceDir).
			Build()
	}
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		if opts.Required {
			return nil, errors.SourceNotFound("source directory not found").
				WithContext("path", opts.SourceDir).
				Build()
		}
		slog.Debug("Optional source directory missing, skipping", logfields.Path(opts.SourceDir))
		return nil, nil
	}

	files, err := workspace.Walk(src, matcher)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to walk source directory").
			WithContext("path", src).
			Build()
	}

	staged := make([]string, 0, len(files))
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return staged, err
		}
		dest := rel
		if opts.Prefix != "" {
			dest = opts.Prefix + "/" + rel
		}
		origin := filepath.Join(src, filepath.FromSlash(rel))
		if err := copyOne(ws, origin, dest, opts.StampSource); err != nil {
			return staged, err
		}
		staged = append(staged, dest)
	}

	slog.Info("Staged files",
		logfields.Path(opts.SourceDir),
		logfields.Pattern(fmt.Sprint(patterns)),
		logfields.Count(len(staged)))
	return staged, nil
}

func copyOne(ws *workspace.Workspace, origin, dest string, stamp bool) error {
	// #nosec G304 -- origin comes from walking the configured source root.
	data, err := os.ReadFile(origin)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to read source file").
			WithContext("path", origin).
			Build()
	}
	if stamp && document.IsMarkdown(dest) {
		_, err := document.Create(ws, dest, data, origin)
		return err
	}
	if err := ws.WriteFile(dest, data); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to stage file").
			WithContext("path", dest).
			Build()
	}
	slog.Debug("Staged file", logfields.File(dest))
	return nil
}
