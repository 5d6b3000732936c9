package document

import (
	"fmt"
	"os"
	"sync"

	gmast "github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/markupdown/internal/foundation/errors"
	"git.home.luguber.info/inful/markupdown/internal/frontmatter"
	"git.home.luguber.info/inful/markupdown/internal/markdown"
	"git.home.luguber.info/inful/markupdown/internal/workspace"
)

// Reserved metadata keys.
const (
	KeyTitle    = "title"
	KeyNav      = "nav"
	KeyTemplate = "template"
	KeyLayout   = "layout"
	KeyChildren = "children"
	KeySource   = "source"
)

// Document is one Markdown file: metadata, body and a lazily parsed AST.
type Document struct {
	Path     string
	Metadata map[string]any
	Body     []byte

	astOnce sync.Once
	ast     gmast.Node
}

// Parse decodes content read from rel.
func Parse(rel string, content []byte) (*Document, error) {
	meta, body, err := frontmatter.Parse(content)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryMalformedDocument, "malformed front matter").
			Fatal().
			UserAction().
			WithContext("path", rel).
			Build()
	}
	return &Document{
		Path:     rel,
		Metadata: meta,
		Body:     append([]byte(nil), body...),
	}, nil
}

// Load reads and parses the document at rel.
func Load(ws *workspace.Workspace, rel string) (*Document, error) {
	content, err := ws.ReadFile(rel)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapError(err, errors.CategorySourceNotFound, "document not found").
				Fatal().
				WithContext("path", rel).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("path", rel).
			Build()
	}
	return Parse(rel, content)
}

// Bytes renders the on-disk form of the document.
func (d *Document) Bytes() ([]byte, error) {
	out, err := frontmatter.Format(d.Metadata, d.Body)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryMalformedDocument, "failed to serialize front matter").
			WithContext("path", d.Path).
			Build()
	}
	return out, nil
}

// Save writes metadata and body back as one unit.
func (d *Document) Save(ws *workspace.Workspace) error {
	out, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := ws.WriteFile(d.Path, out); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write document").
			WithContext("path", d.Path).
			Build()
	}
	return nil
}

// Create writes content to rel in ws, recording origin under the `source`
// key unless the document already names one.
func Create(ws *workspace.Workspace, rel string, content []byte, origin string) (*Document, error) {
	d, err := Parse(rel, content)
	if err != nil {
		return nil, err
	}
	if _, ok := d.Metadata[KeySource]; !ok && origin != "" {
		d.Metadata[KeySource] = origin
	}
	if err := d.Save(ws); err != nil {
		return nil, err
	}
	return d, nil
}

// AST returns the parsed body. The tree is built on first use and shared
// afterwards; callers must not modify it.
func (d *Document) AST() gmast.Node {
	d.astOnce.Do(func() {
		d.ast = markdown.ParseBody(d.Body)
	})
	return d.ast
}

// Projection returns the AST as plain values for structural queries.
func (d *Document) Projection() []any {
	return markdown.Project(d.AST(), d.Body)
}

// HasTitle reports whether the metadata carries a title.
func (d *Document) HasTitle() bool {
	v, ok := d.Metadata[KeyTitle]
	return ok && v != nil
}

// DeriveTitle computes the title from the body without consulting the
// metadata: the text selected by q, else DefaultTitle of the path.
func (d *Document) DeriveTitle(q *markdown.Query) (string, error) {
	title, ok, err := q.Text(d.Projection())
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryMalformedDocument, "title query failed").
			WithContext("path", d.Path).
			WithContext("query", q.String()).
			Build()
	}
	if ok {
		return title, nil
	}
	return DefaultTitle(d.Path), nil
}

// ResolveTitle returns the metadata title, or the derived title when none is
// set. The document is not modified.
func (d *Document) ResolveTitle(q *markdown.Query) (string, error) {
	if d.HasTitle() {
		return stringValue(d.Metadata[KeyTitle]), nil
	}
	return d.DeriveTitle(q)
}

// SetTitle stores title in the metadata.
func (d *Document) SetTitle(title string) {
	if d.Metadata == nil {
		d.Metadata = map[string]any{}
	}
	d.Metadata[KeyTitle] = title
}

// Template returns the per-document template name, preferring `template`
// over the `layout` alias. Empty when neither is set.
func (d *Document) Template() string {
	for _, key := range []string{KeyTemplate, KeyLayout} {
		if v, ok := d.Metadata[key]; ok && v != nil {
			if s := stringValue(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// NavFlag reports the explicit boolean `nav` value and whether one was
// given. Values of other types, including quoted strings, are not flags.
func (d *Document) NavFlag() (include bool, set bool) {
	v, ok := d.Metadata[KeyNav].(bool)
	return v, ok
}

// IsIndex reports whether the document is its directory's index.
func (d *Document) IsIndex() bool { return IsIndex(d.Path) }

// CanonicalPath is the extension-less, index-collapsed path of the document.
func (d *Document) CanonicalPath() string { return CanonicalPath(d.Path) }

// Link is the site link of the document.
func (d *Document) Link() string { return Link(d.Path) }

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
