package document

import (
	"path"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// IndexName is the file name of a directory index.
const IndexName = "index.md"

// IsMarkdown reports whether rel names a Markdown file.
func IsMarkdown(rel string) bool {
	return strings.EqualFold(path.Ext(rel), ".md")
}

// IsIndex reports whether rel names a directory index.
func IsIndex(rel string) bool {
	return path.Base(rel) == IndexName
}

// CanonicalPath strips the extension and collapses an index file to its
// directory:
//
//	guides/index.md → guides
//	guides/setup.md → guides/setup
//	index.md        → ""
func CanonicalPath(rel string) string {
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")
	stem := strings.TrimSuffix(rel, path.Ext(rel))
	if path.Base(stem) == "index" {
		dir := path.Dir(stem)
		if dir == "." {
			return ""
		}
		return dir
	}
	return stem
}

// Link returns the site link for rel: "/" followed by the canonical path.
func Link(rel string) string {
	return "/" + CanonicalPath(rel)
}

// OutputPath returns rel with its extension replaced by .html.
func OutputPath(rel string) string {
	return strings.TrimSuffix(rel, path.Ext(rel)) + ".html"
}

// DefaultTitle derives a title from the file name: the stem with hyphens
// turned into spaces and the first letter upper-cased. The rest of the stem
// keeps its case.
//
//	getting-started.md     → Getting started
//	release-notes/index.md → Index
//	API-notes.md           → API notes
func DefaultTitle(rel string) string {
	base := path.Base(rel)
	stem := strings.TrimSuffix(base, path.Ext(base))
	stem = strings.ReplaceAll(stem, "-", " ")
	if stem == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(stem)
	return cases.Upper(language.Und).String(string(r)) + stem[size:]
}
