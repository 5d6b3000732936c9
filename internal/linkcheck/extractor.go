package linkcheck

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/markupdown/internal/foundation/errors"
)

// Link is a URL reference found in a rendered page.
type Link struct {
	URL       string // value of the attribute
	Text      string // anchor text or alt text
	Tag       string
	Attribute string
}

// linkAttrs maps the elements that carry references to their attribute.
var linkAttrs = map[string]string{
	"a":      "href",
	"link":   "href",
	"img":    "src",
	"script": "src",
	"video":  "src",
	"audio":  "src",
	"source": "src",
}

// ExtractLinks extracts all links from an HTML file.
func ExtractLinks(htmlPath string) ([]*Link, error) {
	file, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to open HTML file").
			WithContext("html_path", htmlPath).
			Build()
	}
	defer func() {
		_ = file.Close()
	}()

	return ExtractLinksFromReader(file)
}

// ExtractLinksFromReader extracts all links from an HTML reader in document order.
func ExtractLinksFromReader(r io.Reader) ([]*Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").Build()
	}

	var links []*Link
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := linkAttrs[n.Data]; ok {
				if val := getAttr(n, attr); val != "" {
					links = append(links, &Link{
						URL:       val,
						Text:      linkText(n),
						Tag:       n.Data,
						Attribute: attr,
					})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(doc)
	return links, nil
}

func linkText(n *html.Node) string {
	switch n.Data {
	case "a":
		return extractText(n)
	case "img":
		return getAttr(n, "alt")
	case "link":
		return getAttr(n, "rel")
	}
	return ""
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// extractText extracts text content from an HTML node and its children.
func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if s := extractText(c); s != "" {
			if text.Len() > 0 {
				text.WriteByte(' ')
			}
			text.WriteString(s)
		}
	}
	return text.String()
}
