// Package linkcheck verifies that internal links of rendered pages point
// at files in the output tree.
package linkcheck

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/markupdown/internal/foundation/errors"
	"git.home.luguber.info/inful/markupdown/internal/logfields"
	"git.home.luguber.info/inful/markupdown/internal/workspace"
)

// DefaultPattern selects the pages to check.
const DefaultPattern = "**/*.html"

// Options configures a check.
type Options struct {
	Pattern string
	// Strict turns broken links into a validation error.
	Strict bool
}

// Broken describes an internal link whose target does not exist.
type Broken struct {
	Page   string
	Link   *Link
	Target string
}

// Check scans the pages below root and returns the broken internal links.
// Broken links are logged as warnings; in strict mode a non-empty result is
// also returned as an error.
func Check(ctx context.Context, root string, opts Options) ([]Broken, error) {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	m, err := workspace.NewMatcher(pattern)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid page pattern").
			WithContext("pattern", pattern).
			Build()
	}
	pages, err := workspace.Walk(root, m)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to list pages").
			WithContext("path", root).
			Build()
	}

	var broken []Broken
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return broken, err
		}
		links, err := ExtractLinks(filepath.Join(root, filepath.FromSlash(page)))
		if err != nil {
			return broken, err
		}
		for _, l := range links {
			target, ok := InternalTarget(page, l.URL)
			if !ok || resolves(root, target) {
				continue
			}
			broken = append(broken, Broken{Page: page, Link: l, Target: target})
			slog.Warn("Broken internal link",
				logfields.File(page),
				logfields.URL(l.URL),
				logfields.Path(target))
		}
	}

	if len(broken) > 0 && opts.Strict {
		return broken, errors.ValidationError("broken internal links").
			WithContext("count", len(broken)).
			WithContext("first", broken[0].Page+" -> "+broken[0].Link.URL).
			Build()
	}
	return broken, nil
}

// InternalTarget resolves link, found on page, to a slash path relative to
// the output root. It reports false for links that are not checked:
// external URLs, special schemes, fragments and links escaping the root.
func InternalTarget(page, link string) (string, bool) {
	if link == "" || strings.HasPrefix(link, "#") || strings.HasPrefix(link, "?") {
		return "", false
	}
	u, err := url.Parse(link)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Opaque != "" {
		return "", false
	}
	p := u.Path
	if p == "" {
		return "", false
	}

	var target string
	if strings.HasPrefix(p, "/") {
		target = path.Clean(strings.TrimPrefix(p, "/"))
	} else {
		target = path.Join(workspace.Dir(page), p)
	}
	if target == ".." || strings.HasPrefix(target, "../") {
		return "", false
	}
	if target == "." {
		target = ""
	}
	return target, true
}

// resolves reports whether target is served: an existing file or
// directory, or an extension-less path with a matching .html page.
func resolves(root, target string) bool {
	abs := filepath.Join(root, filepath.FromSlash(target))
	if _, err := os.Stat(abs); err == nil {
		return true
	}
	if path.Ext(target) == "" {
		if _, err := os.Stat(abs + ".html"); err == nil {
			return true
		}
	}
	return false
}
