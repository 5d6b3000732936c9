// Package title fills in missing document titles.
package title

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/markupdown/internal/document"
	"git.home.luguber.info/inful/markupdown/internal/foundation/errors"
	"git.home.luguber.info/inful/markupdown/internal/logfields"
	"git.home.luguber.info/inful/markupdown/internal/markdown"
	"git.home.luguber.info/inful/markupdown/internal/workspace"
)

// DefaultPattern selects every Markdown document.
const DefaultPattern = "**/*.md"

// Options configures title extraction.
type Options struct {
	// Pattern selects the documents to consider.
	Pattern string
	// Query is a JMESPath expression evaluated over the projected AST.
	// Empty selects the text of the first level-1 heading.
	Query string
}

// Run sets `title` on every matching document that lacks one, from the
// query result or else from the file name. Existing titles are never
// changed. It returns the number of documents updated.
func Run(ctx context.Context, ws *workspace.Workspace, opts Options) (int, error) {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	query, err := markdown.CompileQuery(opts.Query)
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryConfig, "invalid title query").
			WithContext("query", opts.Query).
			Build()
	}

	paths, err := ws.List(pattern)
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryFileSystem, "failed to list documents").
			WithContext("pattern", pattern).
			Build()
	}

	updated := 0
	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		doc, err := document.Load(ws, rel)
		if err != nil {
			return updated, err
		}
		if doc.HasTitle() {
			continue
		}

		title, err := doc.DeriveTitle(query)
		if err != nil {
			return updated, err
		}
		doc.SetTitle(title)
		if err := doc.Save(ws); err != nil {
			return updated, err
		}
		updated++
		slog.Debug("Resolved title", logfields.File(rel), logfields.Title(title))
	}

	slog.Info("Titles resolved", logfields.Count(updated), logfields.Pattern(pattern))
	return updated, nil
}
