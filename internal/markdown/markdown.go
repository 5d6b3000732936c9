package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Options controls how the Markdown engine is assembled.
type Options struct {
	// Extensions lists goldmark extensions by name. Empty selects the
	// default set (gfm, footnote, definitionlist).
	Extensions []string
	// HardWraps renders soft line breaks as <br>.
	HardWraps bool
	// SafeMode drops raw HTML from the output.
	SafeMode bool
}

// Engine parses Markdown bodies and renders them to HTML with link rewriting.
type Engine struct {
	md goldmark.Markdown
}

// NewEngine builds a goldmark engine with the link rewriter installed.
func NewEngine(opts Options) *Engine {
	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
		parser.WithASTTransformers(util.Prioritized(&linkRewriter{}, 100)),
	}

	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parserOptions...),
		goldmark.WithRendererOptions(rendererOptions...),
	}
	if exts := collectExtensions(opts.Extensions); len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}

	return &Engine{md: goldmark.New(engineOptions...)}
}

var defaultEngine = NewEngine(Options{})

// Parse parses body into a goldmark AST without rewriting links.
func (e *Engine) Parse(body []byte) gmast.Node {
	return e.md.Parser().Parse(text.NewReader(body))
}

// Render converts body to HTML. Internal links are passed through resolve;
// a nil resolve leaves every destination untouched.
func (e *Engine) Render(body []byte, resolve ResolveFunc) ([]byte, error) {
	ctx := parser.NewContext()
	if resolve != nil {
		ctx.Set(resolverKey, resolve)
	}

	var buf bytes.Buffer
	if err := e.md.Convert(body, &buf, parser.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseBody parses a Markdown body (front matter already removed) with the
// default engine.
func ParseBody(body []byte) gmast.Node {
	return defaultEngine.Parse(body)
}
