package markdown

import (
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// ResolveFunc maps a link destination as written in Markdown to the
// destination emitted in HTML.
type ResolveFunc func(dest string) string

var resolverKey = parser.NewContextKey()

// linkRewriter rewrites *ast.Link destinations through the ResolveFunc stored
// in the parser context. Images and autolinks are left alone.
type linkRewriter struct{}

func (r *linkRewriter) Transform(doc *gmast.Document, _ text.Reader, pc parser.Context) {
	resolve, ok := pc.Get(resolverKey).(ResolveFunc)
	if !ok || resolve == nil {
		return
	}
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if link, ok := n.(*gmast.Link); ok {
			link.Destination = []byte(resolve(string(link.Destination)))
		}
		return gmast.WalkContinue, nil
	})
}
