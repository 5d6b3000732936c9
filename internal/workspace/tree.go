package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Workspace is a build directory addressed with slash-separated relative paths.
type Workspace struct {
	root string
}

// Open returns a Workspace rooted at dir, creating the directory if needed.
func Open(dir string) (*Workspace, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("create workspace %s: %w", abs, err)
	}
	return &Workspace{root: abs}, nil
}

// Root returns the absolute workspace directory.
func (w *Workspace) Root() string { return w.root }

// Abs converts a workspace-relative slash path to an absolute OS path.
func (w *Workspace) Abs(rel string) string {
	return filepath.Join(w.root, filepath.FromSlash(rel))
}

// Rel converts an absolute OS path inside the workspace to a slash path.
func (w *Workspace) Rel(abs string) (string, error) {
	rel, err := filepath.Rel(w.root, abs)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s is outside workspace %s", abs, w.root)
	}
	return rel, nil
}

// List returns the regular files matching any of patterns, in lexical walk
// order. The result is a snapshot taken before the caller mutates anything.
func (w *Workspace) List(patterns ...string) ([]string, error) {
	m, err := NewMatcher(patterns...)
	if err != nil {
		return nil, err
	}
	return w.ListMatching(m)
}

// ListMatching is List with a precompiled Matcher.
func (w *Workspace) ListMatching(m *Matcher) ([]string, error) {
	return walkMatching(w.root, m)
}

// IsDir reports whether rel names an existing directory.
func (w *Workspace) IsDir(rel string) bool {
	info, err := os.Stat(w.Abs(rel))
	return err == nil && info.IsDir()
}

// Exists reports whether rel names an existing file or directory.
func (w *Workspace) Exists(rel string) bool {
	_, err := os.Stat(w.Abs(rel))
	return err == nil
}

// ReadFile reads the file at rel.
func (w *Workspace) ReadFile(rel string) ([]byte, error) {
	return os.ReadFile(w.Abs(rel))
}

// WriteFile atomically replaces the file at rel.
func (w *Workspace) WriteFile(rel string, data []byte) error {
	return WriteFileAtomic(w.Abs(rel), data, 0o644)
}

// Walk lists regular files below dir (an absolute OS path) that match m,
// as slash paths relative to dir, in lexical order.
func Walk(dir string, m *Matcher) ([]string, error) {
	return walkMatching(dir, m)
}

func walkMatching(dir string, m *Matcher) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == dir {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			if p != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if m.Match(rel) {
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Dir returns the slash directory of rel, "" for root-level files.
func Dir(rel string) string {
	d := path.Dir(rel)
	if d == "." {
		return ""
	}
	return d
}
