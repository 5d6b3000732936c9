// Package render turns workspace documents into HTML pages through Liquid
// templates.
package render

import (
	"context"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/osteele/liquid"

	"git.home.luguber.info/inful/markupdown/internal/document"
	"git.home.luguber.info/inful/markupdown/internal/foundation/errors"
	"git.home.luguber.info/inful/markupdown/internal/logfields"
	"git.home.luguber.info/inful/markupdown/internal/markdown"
	"git.home.luguber.info/inful/markupdown/internal/site"
	"git.home.luguber.info/inful/markupdown/internal/workspace"
)

// TemplateExt is appended to template names that lack it.
const TemplateExt = ".liquid"

// Options configures rendering.
type Options struct {
	// TemplateDir holds the Liquid templates.
	TemplateDir string
	// OutputDir receives the HTML tree. Empty writes beside the documents.
	OutputDir string
	// Extra is overlaid on the site bindings; its values win.
	Extra map[string]any
	// LinkResolver rewrites links. Nil uses WorkspaceLinkResolver.
	LinkResolver LinkResolver
	// Pattern selects the documents to render. Empty means every Markdown file.
	Pattern string
	// Markdown configures the Markdown engine.
	Markdown markdown.Options
}

// Renderer renders documents of one workspace.
type Renderer struct {
	ws        *workspace.Workspace
	opts      Options
	site      map[string]any
	defTpl    string
	engine    *liquid.Engine
	md        *markdown.Engine
	resolver  LinkResolver
	templates map[string]*liquid.Template
}

// New loads the site configuration from store and prepares a Renderer.
func New(ws *workspace.Workspace, store *site.Store, opts Options) (*Renderer, error) {
	cfg, err := store.Load()
	if err != nil {
		return nil, err
	}
	bindings := make(map[string]any, len(cfg.Fields)+len(opts.Extra))
	maps.Copy(bindings, cfg.Fields)
	maps.Copy(bindings, opts.Extra)

	resolver := opts.LinkResolver
	if resolver == nil {
		resolver = WorkspaceLinkResolver{Workspace: ws}
	}
	return &Renderer{
		ws:        ws,
		opts:      opts,
		site:      bindings,
		defTpl:    cfg.DefaultTemplate(),
		engine:    liquid.NewEngine(),
		md:        markdown.NewEngine(opts.Markdown),
		resolver:  resolver,
		templates: map[string]*liquid.Template{},
	}, nil
}

// TemplateName resolves the template of doc: its own `template` (or
// `layout`) key, else the site default, with the .liquid extension ensured.
func (r *Renderer) TemplateName(doc *document.Document) (string, error) {
	name := doc.Template()
	if name == "" {
		name = r.defTpl
	}
	if name == "" {
		return "", errors.TemplateNotSpecified("no template for document").
			WithContext("path", doc.Path).
			Build()
	}
	if !strings.HasSuffix(name, TemplateExt) {
		name += TemplateExt
	}
	return name, nil
}

// Render produces the HTML page of doc without writing it.
func (r *Renderer) Render(doc *document.Document) ([]byte, error) {
	name, err := r.TemplateName(doc)
	if err != nil {
		return nil, err
	}
	tpl, err := r.template(name, doc.Path)
	if err != nil {
		return nil, err
	}

	content, err := r.md.Render(doc.Body, func(dest string) string {
		return r.resolver.ResolveLink(doc, dest)
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryBuild, "failed to render markdown").
			WithContext("path", doc.Path).
			Build()
	}

	out, serr := tpl.Render(liquid.Bindings{
		"content": string(content),
		"page":    doc.Metadata,
		"site":    r.site,
	})
	if serr != nil {
		return nil, errors.WrapError(serr, errors.CategoryBuild, "failed to render template").
			WithContext("path", doc.Path).
			WithContext("template", name).
			Build()
	}
	return out, nil
}

// OutputPath returns where the page of rel is written.
func (r *Renderer) OutputPath(rel string) string {
	if r.opts.OutputDir == "" {
		return r.ws.Abs(document.OutputPath(rel))
	}
	return filepath.Join(r.opts.OutputDir, filepath.FromSlash(document.OutputPath(rel)))
}

// RenderFile renders the document at rel and writes its page.
func (r *Renderer) RenderFile(rel string) (string, error) {
	doc, err := document.Load(r.ws, rel)
	if err != nil {
		return "", err
	}
	out, err := r.Render(doc)
	if err != nil {
		return "", err
	}
	dest := r.OutputPath(rel)
	if err := workspace.WriteFileAtomic(dest, out, 0o644); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to write page").
			WithContext("path", dest).
			Build()
	}
	return dest, nil
}

func (r *Renderer) template(name, docPath string) (*liquid.Template, error) {
	if tpl, ok := r.templates[name]; ok {
		return tpl, nil
	}
	file := filepath.Join(r.opts.TemplateDir, filepath.FromSlash(name))
	// #nosec G304 -- template names come from document metadata inside the template dir.
	source, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.TemplateNotFound("template not found").
				WithContext("template", name).
				WithContext("dir", r.opts.TemplateDir).
				WithContext("path", docPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read template").
			WithContext("template", file).
			Build()
	}
	tpl, serr := r.engine.ParseTemplateLocation(source, file, 1)
	if serr != nil {
		return nil, errors.WrapError(serr, errors.CategoryBuild, "failed to parse template").
			WithContext("template", name).
			Build()
	}
	r.templates[name] = tpl
	return tpl, nil
}

// Run renders every document of ws and returns the number of pages written.
// The first failure aborts the run.
func Run(ctx context.Context, ws *workspace.Workspace, store *site.Store, opts Options) (int, error) {
	if info, err := os.Stat(opts.TemplateDir); err != nil || !info.IsDir() {
		return 0, errors.SourceNotFound("template directory not found").
			WithContext("path", opts.TemplateDir).
			Build()
	}
	r, err := New(ws, store, opts)
	if err != nil {
		return 0, err
	}

	pattern := opts.Pattern
	if pattern == "" {
		pattern = "**/*.md"
	}
	paths, err := ws.List(pattern)
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryFileSystem, "failed to list documents").Build()
	}

	rendered := 0
	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return rendered, err
		}
		dest, err := r.RenderFile(rel)
		if err != nil {
			return rendered, err
		}
		rendered++
		slog.Debug("Rendered page", logfields.File(rel), logfields.Path(dest))
	}

	slog.Info("Pages rendered", logfields.Count(rendered))
	return rendered, nil
}
