// Package config holds the build options of a markupdown project and the
// rules that complete and check them.
package config

import (
	"path/filepath"

	"git.home.luguber.info/inful/markupdown/internal/foundation/normalization"
	"git.home.luguber.info/inful/markupdown/internal/retry"
)

// IndexMode selects how directory indices are written.
type IndexMode string

const (
	IndexModeMetadata IndexMode = "metadata" // children list in front matter
	IndexModeBody     IndexMode = "body"     // rendered listing appended to the body
	IndexModeOff      IndexMode = "off"
)

var indexModes = normalization.New("index mode", map[string]IndexMode{
	"metadata": IndexModeMetadata,
	"body":     IndexModeBody,
	"off":      IndexModeOff,
	"none":     IndexModeOff,
})

// NormalizeIndexMode canonicalizes user input returning empty string if unknown.
func NormalizeIndexMode(raw string) IndexMode {
	m, _ := indexModes.Normalize(raw)
	return m
}

// LinkCheckMode controls post-render link verification.
type LinkCheckMode string

const (
	LinkCheckWarn   LinkCheckMode = "warn"
	LinkCheckStrict LinkCheckMode = "strict"
	LinkCheckOff    LinkCheckMode = "off"
)

var linkCheckModes = normalization.New("link check mode", map[string]LinkCheckMode{
	"warn":   LinkCheckWarn,
	"strict": LinkCheckStrict,
	"off":    LinkCheckOff,
	"none":   LinkCheckOff,
})

// NormalizeLinkCheckMode canonicalizes user input returning empty string if unknown.
func NormalizeLinkCheckMode(raw string) LinkCheckMode {
	m, _ := linkCheckModes.Normalize(raw)
	return m
}

// Config is the complete set of build options.
type Config struct {
	// ProjectDir is the project root. Relative directories below resolve
	// against it.
	ProjectDir string
	// ContentDir holds the source Markdown documents.
	ContentDir string
	// TemplateDir holds the Liquid templates.
	TemplateDir string
	// SiteDir is the workspace the pipeline builds in.
	SiteDir string
	// OutputDir receives rendered pages; empty renders beside the documents.
	OutputDir string

	Patterns    []string
	StampSource bool
	SkipAssets  bool

	TitleQuery string
	IndexMode  IndexMode
	LinkCheck  LinkCheckMode
	Extensions []string
	SafeMode   bool

	// Site defaults seeded into site.yaml when absent.
	SiteTitle       string
	DefaultTemplate string

	// Optional git content source. When set, ContentDir is relative to the clone.
	SourceRepo  string
	SourceRef   string
	SourceToken string
	// CloneRetry governs retries of a failed clone. The zero value selects
	// retry.DefaultPolicy.
	CloneRetry retry.Policy
}

// Resolve returns dir made absolute against the project directory.
func (c *Config) Resolve(dir string) string {
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.ProjectDir, dir)
}

// Load returns a Config with defaults applied to the given overrides.
func Load(overrides Config) (*Config, error) {
	cfg := overrides
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
