// Package site persists the site-wide configuration mapping (site.yaml at
// the workspace root) that stages share.
package site

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/markupdown/internal/foundation/errors"
	"git.home.luguber.info/inful/markupdown/internal/frontmatter"
	"git.home.luguber.info/inful/markupdown/internal/logfields"
	"git.home.luguber.info/inful/markupdown/internal/workspace"
)

// FileName is the site configuration file at the workspace root.
const FileName = "site.yaml"

// Reserved keys.
const (
	KeyTitle           = "title"
	KeyNav             = "nav"
	KeyDefaultTemplate = "default_template"
)

// NavEntry is one site navigation link.
type NavEntry struct {
	Title string `json:"title" yaml:"title"`
	Path  string `json:"path" yaml:"path"`
}

// Config is the site configuration mapping.
type Config struct {
	Fields map[string]any
}

// NewConfig returns an empty configuration.
func NewConfig() *Config {
	return &Config{Fields: map[string]any{}}
}

// Merge overlays delta on top of the configuration, replacing existing keys.
func (c *Config) Merge(delta map[string]any) {
	if c.Fields == nil {
		c.Fields = map[string]any{}
	}
	for k, v := range delta {
		c.Fields[k] = v
	}
}

// Get returns the raw value stored under key.
func (c *Config) Get(key string) (any, bool) {
	v, ok := c.Fields[key]
	return v, ok
}

// Title returns the site title, empty when unset.
func (c *Config) Title() string {
	s, _ := c.Fields[KeyTitle].(string)
	return s
}

// DefaultTemplate returns the template used by documents without their own.
func (c *Config) DefaultTemplate() string {
	s, _ := c.Fields[KeyDefaultTemplate].(string)
	return s
}

// Nav decodes the navigation list. A missing nav is an empty list; any other
// shape than a list of {title, path} mappings is an assertion violation.
func (c *Config) Nav() ([]NavEntry, error) {
	raw, ok := c.Fields[KeyNav]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, navShapeError(fmt.Sprintf("nav is %T, want a list", raw))
	}
	entries := make([]NavEntry, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, navShapeError(fmt.Sprintf("nav[%d] is %T, want a mapping", i, item))
		}
		title, tok := m["title"].(string)
		path, pok := m["path"].(string)
		if !tok || !pok {
			return nil, navShapeError(fmt.Sprintf("nav[%d] needs string title and path", i))
		}
		entries = append(entries, NavEntry{Title: title, Path: path})
	}
	return entries, nil
}

// SetNav replaces the navigation list.
func (c *Config) SetNav(entries []NavEntry) {
	items := make([]any, 0, len(entries))
	for _, e := range entries {
		items = append(items, map[string]any{"title": e.Title, "path": e.Path})
	}
	c.Merge(map[string]any{KeyNav: items})
}

// Keys returns the configured keys in sorted order.
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.Fields))
	for k := range c.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func navShapeError(msg string) error {
	return errors.AssertionViolation(msg).WithContext("file", FileName).Build()
}

// Store loads and saves the configuration of one workspace.
type Store struct {
	path string
}

// NewStore returns the store for the workspace rooted at root.
func NewStore(root string) *Store {
	return &Store{path: filepath.Join(root, FileName)}
}

// ForWorkspace returns the store of ws.
func ForWorkspace(ws *workspace.Workspace) *Store {
	return NewStore(ws.Root())
}

// Path returns the location of site.yaml.
func (s *Store) Path() string { return s.path }

// Load reads site.yaml. A missing file yields an empty configuration.
func (s *Store) Load() (*Config, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewConfig(), nil
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read site config").
			WithContext("path", s.path).
			Build()
	}
	fields, err := frontmatter.ParseYAML(data)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "malformed site config").
			Fatal().
			WithContext("path", s.path).
			Build()
	}
	return &Config{Fields: fields}, nil
}

// Save serializes the full mapping with sorted keys.
func (s *Store) Save(cfg *Config) error {
	data, err := frontmatter.SerializeYAML(cfg.Fields)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to serialize site config").Build()
	}
	if err := workspace.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write site config").
			WithContext("path", s.path).
			Build()
	}
	slog.Debug("Saved site config", logfields.Path(s.path), logfields.Count(len(cfg.Fields)))
	return nil
}

// Update loads the configuration, applies fn and saves the result. Nothing
// is written when fn fails.
func (s *Store) Update(fn func(*Config) error) error {
	cfg, err := s.Load()
	if err != nil {
		return err
	}
	if err := fn(cfg); err != nil {
		return err
	}
	return s.Save(cfg)
}
