package render

import (
	"net/url"
	"path"
	"strings"

	"git.home.luguber.info/inful/markupdown/internal/document"
	"git.home.luguber.info/inful/markupdown/internal/workspace"
)

// LinkResolver maps a link destination found in doc to the destination
// written to HTML.
type LinkResolver interface {
	ResolveLink(doc *document.Document, dest string) string
}

// LinkResolverFunc adapts a function to LinkResolver.
type LinkResolverFunc func(doc *document.Document, dest string) string

// ResolveLink calls f.
func (f LinkResolverFunc) ResolveLink(doc *document.Document, dest string) string {
	return f(doc, dest)
}

// WorkspaceLinkResolver rewrites internal links to rendered pages.
//
// A destination without a URL scheme or host is internal: a trailing .md is
// stripped, then leading and trailing slashes, and .html is appended unless
// the target is an existing workspace directory, an existing non-Markdown
// file, or already ends in .html. Query and fragment are kept. Fragment-only
// and external links are returned unchanged.
type WorkspaceLinkResolver struct {
	Workspace *workspace.Workspace
}

// ResolveLink implements LinkResolver.
func (r WorkspaceLinkResolver) ResolveLink(doc *document.Document, dest string) string {
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "?") {
		return dest
	}
	if u, err := url.Parse(dest); err != nil || u.Scheme != "" || u.Host != "" {
		return dest
	}

	target, suffix := dest, ""
	if i := strings.IndexAny(dest, "?#"); i >= 0 {
		target, suffix = dest[:i], dest[i:]
	}
	absolute := strings.HasPrefix(target, "/")
	wasMarkdown := strings.HasSuffix(target, ".md")
	target = strings.TrimSuffix(target, ".md")
	target = strings.Trim(target, "/")
	if target == "" {
		return dest
	}

	if !wasMarkdown && r.exists(doc, target, absolute) {
		return target + suffix
	}
	if strings.HasSuffix(target, ".html") {
		return target + suffix
	}
	return target + ".html" + suffix
}

// exists reports whether target names a directory or a non-Markdown file,
// resolved against the workspace root for absolute links and against the
// document's directory otherwise.
func (r WorkspaceLinkResolver) exists(doc *document.Document, target string, absolute bool) bool {
	if r.Workspace == nil {
		return false
	}
	candidate := target
	if !absolute && doc != nil {
		candidate = path.Join(workspace.Dir(doc.Path), target)
	}
	if strings.HasPrefix(path.Clean(candidate), "..") {
		return false
	}
	if r.Workspace.IsDir(candidate) {
		return true
	}
	return !document.IsMarkdown(candidate) && r.Workspace.Exists(candidate)
}
