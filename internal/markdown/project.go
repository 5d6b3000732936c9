package markdown

import (
	"strings"
	"unicode"

	gmast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// Project converts a goldmark AST into plain Go values (maps, slices,
// strings and float64) so it can be queried with JMESPath.
//
// The result is the list of top-level block nodes. Every node is a map with
// a "type" key, an optional "attrs" map and either "children" (a list of
// nodes) or "raw" (literal text):
//
//	[{"type": "heading", "attrs": {"level": 1}, "children": [{"type": "text", "raw": "Home"}]}]
//
// Numbers are float64 so they compare equal to JSON literals in queries.
func Project(root gmast.Node, source []byte) []any {
	return projectChildren(root, source)
}

func projectChildren(parent gmast.Node, source []byte) []any {
	out := make([]any, 0, parent.ChildCount())
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		for _, n := range projectNode(c, source) {
			out = appendMerged(out, n)
		}
	}
	return out
}

// appendMerged folds consecutive text nodes into one.
func appendMerged(out []any, n map[string]any) []any {
	if n["type"] == "text" && len(out) > 0 {
		if prev, ok := out[len(out)-1].(map[string]any); ok && prev["type"] == "text" {
			prev["raw"] = prev["raw"].(string) + n["raw"].(string)
			return out
		}
	}
	return append(out, n)
}

func projectNode(n gmast.Node, source []byte) []map[string]any {
	switch node := n.(type) {
	case *gmast.Heading:
		return one("heading", map[string]any{"level": float64(node.Level)}, projectChildren(node, source))
	case *gmast.Paragraph, *gmast.TextBlock:
		return one("paragraph", nil, projectChildren(node, source))
	case *gmast.Blockquote:
		return one("block_quote", nil, projectChildren(node, source))
	case *gmast.List:
		attrs := map[string]any{"ordered": node.IsOrdered()}
		if node.IsOrdered() {
			attrs["start"] = float64(node.Start)
		}
		return one("list", attrs, projectChildren(node, source))
	case *gmast.ListItem:
		return one("list_item", nil, projectChildren(node, source))
	case *gmast.ThematicBreak:
		return one("thematic_break", nil, nil)
	case *gmast.FencedCodeBlock:
		attrs := map[string]any{}
		if lang := node.Language(source); len(lang) > 0 {
			attrs["info"] = string(lang)
		}
		return raw("block_code", attrs, string(node.Lines().Value(source)))
	case *gmast.CodeBlock:
		return raw("block_code", nil, string(node.Lines().Value(source)))
	case *gmast.HTMLBlock:
		return raw("block_html", nil, string(node.Lines().Value(source)))
	case *gmast.Text:
		nodes := []map[string]any{{"type": "text", "raw": string(node.Value(source))}}
		switch {
		case node.HardLineBreak():
			nodes = append(nodes, map[string]any{"type": "linebreak"})
		case node.SoftLineBreak():
			nodes = append(nodes, map[string]any{"type": "softbreak"})
		}
		return nodes
	case *gmast.String:
		return raw("text", nil, string(node.Value))
	case *gmast.CodeSpan:
		return raw("codespan", nil, inlineText(node, source))
	case *gmast.Emphasis:
		kind := "emphasis"
		if node.Level >= 2 {
			kind = "strong"
		}
		return one(kind, nil, projectChildren(node, source))
	case *gmast.Link:
		return one("link", linkAttrs(node.Destination, node.Title), projectChildren(node, source))
	case *gmast.Image:
		return one("image", linkAttrs(node.Destination, node.Title), projectChildren(node, source))
	case *gmast.AutoLink:
		url := string(node.URL(source))
		return one("link", map[string]any{"url": url}, []any{map[string]any{"type": "text", "raw": string(node.Label(source))}})
	case *gmast.RawHTML:
		return raw("inline_html", nil, string(node.Segments.Value(source)))
	case *east.Strikethrough:
		return one("strikethrough", nil, projectChildren(node, source))
	default:
		return one(snakeCase(n.Kind().String()), nil, projectChildren(n, source))
	}
}

func one(kind string, attrs map[string]any, children []any) []map[string]any {
	m := map[string]any{"type": kind}
	if len(attrs) > 0 {
		m["attrs"] = attrs
	}
	if children != nil {
		m["children"] = children
	}
	return []map[string]any{m}
}

func raw(kind string, attrs map[string]any, text string) []map[string]any {
	m := map[string]any{"type": kind, "raw": text}
	if len(attrs) > 0 {
		m["attrs"] = attrs
	}
	return []map[string]any{m}
}

func linkAttrs(dest, title []byte) map[string]any {
	attrs := map[string]any{"url": string(dest)}
	if len(title) > 0 {
		attrs["title"] = string(title)
	}
	return attrs
}

func inlineText(n gmast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Value(source))
		case *gmast.String:
			b.Write(t.Value)
		default:
			b.WriteString(inlineText(c, source))
		}
	}
	return b.String()
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
