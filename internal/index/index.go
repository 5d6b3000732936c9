// Package index derives the child listing of every directory index document.
package index

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"reflect"
	"sort"

	"git.home.luguber.info/inful/markupdown/internal/document"
	"git.home.luguber.info/inful/markupdown/internal/foundation/errors"
	"git.home.luguber.info/inful/markupdown/internal/logfields"
	"git.home.luguber.info/inful/markupdown/internal/markdown"
	"git.home.luguber.info/inful/markupdown/internal/workspace"
)

// Mode selects where the listing is written.
type Mode string

const (
	// ModeMetadata stores the listing under the index's `children` key.
	ModeMetadata Mode = "metadata"
	// ModeBody appends a Markdown "## Index" section to the index body.
	ModeBody Mode = "body"
)

// Marker precedes the generated section in ModeBody. Everything after it is
// replaced on every run.
const Marker = "<!-- markupdown:index -->"

// Options configures the indexer.
type Options struct {
	Mode Mode
	// Query derives the title of children without one, as the title stage
	// does. Empty selects the first level-1 heading.
	Query string
}

// Entry is one child of an index.
type Entry struct {
	Title string
	Path  string
	Dir   bool
	// Href is the link relative to the index's own directory.
	Href string
}

// Run updates every index.md in ws and returns the number of indices written.
func Run(ctx context.Context, ws *workspace.Workspace, opts Options) (int, error) {
	mode := opts.Mode
	if mode == "" {
		mode = ModeMetadata
	}
	if mode != ModeMetadata && mode != ModeBody {
		return 0, errors.ValidationError(fmt.Sprintf("unknown index mode %q", mode)).Build()
	}

	query, err := markdown.CompileQuery(opts.Query)
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryConfig, "invalid title query").
			WithContext("query", opts.Query).
			Build()
	}

	paths, err := ws.List("**/*.md")
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryFileSystem, "failed to list documents").Build()
	}

	written := 0
	for _, rel := range paths {
		if !document.IsIndex(rel) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return written, err
		}
		entries, err := Children(ws, paths, rel, query)
		if err != nil {
			return written, err
		}
		if len(entries) == 0 {
			continue
		}
		changed, err := apply(ws, rel, entries, mode)
		if err != nil {
			return written, err
		}
		if changed {
			written++
		}
		slog.Debug("Indexed directory", logfields.File(rel), logfields.Count(len(entries)))
	}

	slog.Info("Directory indices updated", logfields.Count(written))
	return written, nil
}

// Children computes the sorted listing of the index at indexRel from the
// snapshot paths: sibling documents plus immediate subdirectories that have
// their own index. Children without a title are named through query; their
// files are left untouched.
func Children(ws *workspace.Workspace, paths []string, indexRel string, query *markdown.Query) ([]Entry, error) {
	dir := workspace.Dir(indexRel)
	var entries []Entry
	for _, rel := range paths {
		if rel == indexRel {
			continue
		}
		parent := workspace.Dir(rel)
		isSibling := parent == dir && !document.IsIndex(rel)
		isSubdir := document.IsIndex(rel) && parent != dir && workspace.Dir(parent) == dir
		if !isSibling && !isSubdir {
			continue
		}

		doc, err := document.Load(ws, rel)
		if err != nil {
			return nil, err
		}
		title, err := doc.ResolveTitle(query)
		if err != nil {
			return nil, err
		}
		e := Entry{Title: title, Path: doc.Link(), Dir: isSubdir}
		if isSubdir {
			e.Href = path.Base(parent)
		} else {
			e.Href = path.Base(document.CanonicalPath(rel))
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Title != entries[j].Title {
			return entries[i].Title < entries[j].Title
		}
		return entries[i].Path < entries[j].Path
	})
	return entries, nil
}

func apply(ws *workspace.Workspace, rel string, entries []Entry, mode Mode) (bool, error) {
	doc, err := document.Load(ws, rel)
	if err != nil {
		return false, err
	}

	switch mode {
	case ModeBody:
		body := appendListing(doc.Body, entries)
		if bytes.Equal(body, doc.Body) {
			return false, nil
		}
		doc.Body = body
	default:
		children := make([]any, 0, len(entries))
		for _, e := range entries {
			children = append(children, map[string]any{"title": e.Title, "path": e.Path})
		}
		if reflect.DeepEqual(doc.Metadata[document.KeyChildren], children) {
			return false, nil
		}
		doc.Metadata[document.KeyChildren] = children
	}
	return true, doc.Save(ws)
}

// appendListing replaces any previously generated section with a fresh one.
func appendListing(body []byte, entries []Entry) []byte {
	if i := bytes.Index(body, []byte(Marker)); i >= 0 {
		body = body[:i]
	}
	var b bytes.Buffer
	if trimmed := bytes.TrimRight(body, " \t\r\n"); len(trimmed) > 0 {
		b.Write(trimmed)
		b.WriteString("\n\n")
	}
	b.WriteString(Marker + "\n## Index\n")

	var dirs, files []Entry
	for _, e := range entries {
		if e.Dir {
			dirs = append(dirs, e)
		} else {
			files = append(files, e)
		}
	}
	if len(dirs) > 0 {
		b.WriteString("\n### Directories\n\n")
		for _, e := range dirs {
			fmt.Fprintf(&b, "- [%s](%s)\n", e.Title, e.Href)
		}
	}
	if len(files) > 0 {
		b.WriteString("\n### Files\n\n")
		for _, e := range files {
			fmt.Fprintf(&b, "- [%s](%s)\n", e.Title, e.Href)
		}
	}
	return b.Bytes()
}
