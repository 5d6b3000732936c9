package workspace

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Matcher matches slash-separated relative paths against glob patterns.
//
// `*` stays within one path segment, `**` crosses segments and `{a,b}`
// selects alternatives. A leading `**/` also matches at the root, so
// `**/*.md` matches both `index.md` and `guides/setup.md`.
type Matcher struct {
	patterns []string
	globs    []glob.Glob
}

// NewMatcher compiles patterns. An empty pattern list matches nothing.
func NewMatcher(patterns ...string) (*Matcher, error) {
	m := &Matcher{patterns: patterns}
	for _, p := range patterns {
		for _, variant := range expand(p) {
			g, err := glob.Compile(variant, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
			}
			m.globs = append(m.globs, g)
		}
	}
	return m, nil
}

// Match reports whether rel matches any pattern.
func (m *Matcher) Match(rel string) bool {
	for _, g := range m.globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// Patterns returns the source patterns.
func (m *Matcher) Patterns() []string {
	return append([]string(nil), m.patterns...)
}

func expand(pattern string) []string {
	pattern = strings.TrimPrefix(pattern, "./")
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		return []string{pattern, rest}
	}
	return []string{pattern}
}
