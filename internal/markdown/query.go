package markdown

import (
	"fmt"
	"strings"

	"github.com/jmespath/go-jmespath"
)

// DefaultTitleQuery selects the text of the first level-1 heading.
const DefaultTitleQuery = "([?type=='heading' && attrs.level==`1`])[0].children[0].raw"

// Query is a compiled JMESPath expression over a projected AST.
type Query struct {
	expr string
	jp   *jmespath.JMESPath
}

// CompileQuery compiles expr. An empty expr selects DefaultTitleQuery.
func CompileQuery(expr string) (*Query, error) {
	if strings.TrimSpace(expr) == "" {
		expr = DefaultTitleQuery
	}
	jp, err := jmespath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile query %q: %w", expr, err)
	}
	return &Query{expr: expr, jp: jp}, nil
}

// String returns the source expression.
func (q *Query) String() string { return q.expr }

// Eval evaluates the query against projected data.
func (q *Query) Eval(data any) (any, error) {
	return q.jp.Search(data)
}

// Text evaluates the query and returns its result as trimmed text.
// ok is false when the query selects nothing, a non-string value or only
// whitespace.
func (q *Query) Text(data any) (string, bool, error) {
	v, err := q.Eval(data)
	if err != nil {
		return "", false, err
	}
	s, isString := v.(string)
	if !isString {
		return "", false, nil
	}
	s = strings.TrimSpace(s)
	return s, s != "", nil
}
