package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"git.home.luguber.info/inful/markupdown/internal/util/sets"
)

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":            extension.GFM,
	"table":          extension.Table,
	"tables":         extension.Table,
	"strikethrough":  extension.Strikethrough,
	"linkify":        extension.Linkify,
	"autolink":       extension.Linkify,
	"tasklist":       extension.TaskList,
	"footnote":       extension.Footnote,
	"footnotes":      extension.Footnote,
	"definitionlist": extension.DefinitionList,
	"typographer":    extension.Typographer,
	"cjk":            extension.CJK,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
		}
	}

	var extenders []goldmark.Extender
	seen := sets.New[string]()
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || seen.Has(key) {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		extenders = append(extenders, ext)
		seen.Add(key)
	}
	return extenders
}

// KnownExtension reports whether name selects a registered extension.
func KnownExtension(name string) bool {
	_, ok := extensionRegistry[strings.ToLower(strings.TrimSpace(name))]
	return ok
}
