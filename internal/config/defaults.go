package config

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/markupdown/internal/retry"
)

const (
	DefaultContentDir      = "pages"
	DefaultTemplateDir     = "templates"
	DefaultSiteDir         = "site"
	DefaultPattern         = "**/*.md"
	DefaultSiteTitle       = "markupdown Example Site"
	DefaultTemplateName    = "layout.liquid"
	DefaultPreviewPort     = 8000
	DefaultRebuildDebounce = "300ms"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// PathsDefaultApplier fills in the project layout.
type PathsDefaultApplier struct{}

func (PathsDefaultApplier) Domain() string { return "paths" }

func (PathsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.ProjectDir == "" {
		cfg.ProjectDir = "."
	}
	abs, err := filepath.Abs(cfg.ProjectDir)
	if err != nil {
		return fmt.Errorf("resolve project dir: %w", err)
	}
	cfg.ProjectDir = abs
	if cfg.ContentDir == "" {
		cfg.ContentDir = DefaultContentDir
	}
	if cfg.TemplateDir == "" {
		cfg.TemplateDir = DefaultTemplateDir
	}
	if cfg.SiteDir == "" {
		cfg.SiteDir = DefaultSiteDir
	}
	if cfg.SourceRepo == "" {
		cfg.ContentDir = cfg.Resolve(cfg.ContentDir)
	}
	cfg.TemplateDir = cfg.Resolve(cfg.TemplateDir)
	cfg.SiteDir = cfg.Resolve(cfg.SiteDir)
	cfg.OutputDir = cfg.Resolve(cfg.OutputDir)
	return nil
}

// StagesDefaultApplier fills in stage options.
type StagesDefaultApplier struct{}

func (StagesDefaultApplier) Domain() string { return "stages" }

func (StagesDefaultApplier) ApplyDefaults(cfg *Config) error {
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = []string{DefaultPattern}
	}
	if cfg.IndexMode == "" {
		cfg.IndexMode = IndexModeMetadata
	} else if m := NormalizeIndexMode(string(cfg.IndexMode)); m != "" {
		cfg.IndexMode = m
	}
	if cfg.CloneRetry == (retry.Policy{}) {
		cfg.CloneRetry = retry.DefaultPolicy()
	}
	if cfg.LinkCheck == "" {
		cfg.LinkCheck = LinkCheckWarn
	} else if m := NormalizeLinkCheckMode(string(cfg.LinkCheck)); m != "" {
		cfg.LinkCheck = m
	}
	return nil
}

// SiteDefaultApplier fills in the values seeded into site.yaml.
type SiteDefaultApplier struct{}

func (SiteDefaultApplier) Domain() string { return "site" }

func (SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.SiteTitle == "" {
		cfg.SiteTitle = DefaultSiteTitle
	}
	if cfg.DefaultTemplate == "" {
		cfg.DefaultTemplate = DefaultTemplateName
	}
	return nil
}

var defaultAppliers = []DefaultApplier{
	PathsDefaultApplier{},
	StagesDefaultApplier{},
	SiteDefaultApplier{},
}

func applyDefaults(cfg *Config) error {
	for _, a := range defaultAppliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("apply %s defaults: %w", a.Domain(), err)
		}
	}
	return nil
}
