// Package nav builds the site-wide navigation list.
package nav

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"git.home.luguber.info/inful/markupdown/internal/document"
	"git.home.luguber.info/inful/markupdown/internal/foundation/errors"
	"git.home.luguber.info/inful/markupdown/internal/logfields"
	"git.home.luguber.info/inful/markupdown/internal/markdown"
	"git.home.luguber.info/inful/markupdown/internal/site"
	"git.home.luguber.info/inful/markupdown/internal/workspace"
)

// Options configures the navigation builder.
type Options struct {
	// Pattern selects candidate documents. Empty means every Markdown file.
	Pattern string
	// Query derives the title of documents without one. Empty selects the
	// first level-1 heading.
	Query string
}

// Reason explains why a document was or was not included.
type Reason string

const (
	ExcludedByFlag Reason = "nav: false"
	IncludedByFlag Reason = "nav: true"
	SiteIndex      Reason = "site index"
	TopLevelIndex  Reason = "top-level index"
	RootPage       Reason = "root page"
	NotEligible    Reason = "not eligible"
)

// Include applies the inclusion rules in precedence order: an explicit
// `nav: false` excludes and `nav: true` includes. Without a flag, indices of
// the root and of first-level directories are included, as are other
// root-level pages. Everything else is excluded.
func Include(doc *document.Document) (bool, Reason) {
	if include, set := doc.NavFlag(); set {
		if include {
			return true, IncludedByFlag
		}
		return false, ExcludedByFlag
	}
	dir := workspace.Dir(doc.Path)
	if doc.IsIndex() && dir == "" {
		return true, SiteIndex
	}
	if doc.IsIndex() && !strings.Contains(dir, "/") {
		return true, TopLevelIndex
	}
	if dir == "" && !doc.IsIndex() {
		return true, RootPage
	}
	return false, NotEligible
}

// Build computes the navigation list from the documents at paths, visited in
// the given order. Entries are deduplicated by title (the later document
// wins) and sorted by title. Untitled documents are named through query.
func Build(ws *workspace.Workspace, paths []string, query *markdown.Query) ([]site.NavEntry, error) {
	byTitle := map[string]site.NavEntry{}
	for _, rel := range paths {
		doc, err := document.Load(ws, rel)
		if err != nil {
			return nil, err
		}
		ok, reason := Include(doc)
		slog.Debug("Navigation candidate", logfields.File(rel), slog.Bool("included", ok), slog.String("reason", string(reason)))
		if !ok {
			continue
		}
		title, err := doc.ResolveTitle(query)
		if err != nil {
			return nil, err
		}
		byTitle[title] = site.NavEntry{Title: title, Path: doc.Link()}
	}

	entries := make([]site.NavEntry, 0, len(byTitle))
	for _, e := range byTitle {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Title < entries[j].Title })
	return entries, nil
}

// Run rebuilds the navigation list of ws and replaces site.nav with it.
func Run(ctx context.Context, ws *workspace.Workspace, store *site.Store, opts Options) ([]site.NavEntry, error) {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = "**/*.md"
	}
	query, err := markdown.CompileQuery(opts.Query)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid title query").
			WithContext("query", opts.Query).
			Build()
	}
	paths, err := ws.List(pattern)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to list documents").Build()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := Build(ws, paths, query)
	if err != nil {
		return nil, err
	}
	err = store.Update(func(cfg *site.Config) error {
		cfg.SetNav(entries)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Navigation built", logfields.Count(len(entries)))
	return entries, nil
}
