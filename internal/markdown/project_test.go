package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func project(src string) []any {
	body := []byte(src)
	return Project(ParseBody(body), body)
}

func TestProject_Heading(t *testing.T) {
	nodes := project("# Home\n\nIntro.\n")
	require.Len(t, nodes, 2)

	h := nodes[0].(map[string]any)
	require.Equal(t, "heading", h["type"])
	require.Equal(t, map[string]any{"level": float64(1)}, h["attrs"])
	require.Equal(t, []any{map[string]any{"type": "text", "raw": "Home"}}, h["children"])

	p := nodes[1].(map[string]any)
	require.Equal(t, "paragraph", p["type"])
}

func TestProject_InlineStructure(t *testing.T) {
	nodes := project("Hello *world* and `code`\n")
	children := nodes[0].(map[string]any)["children"].([]any)
	require.Equal(t, "text", children[0].(map[string]any)["type"])
	require.Equal(t, "Hello ", children[0].(map[string]any)["raw"])
	require.Equal(t, "emphasis", children[1].(map[string]any)["type"])
	require.Equal(t, "codespan", children[3].(map[string]any)["type"])
	require.Equal(t, "code", children[3].(map[string]any)["raw"])
}

func TestProject_CodeAndLists(t *testing.T) {
	nodes := project("```go\nfmt.Println()\n```\n\n1. one\n2. two\n")
	code := nodes[0].(map[string]any)
	require.Equal(t, "block_code", code["type"])
	require.Equal(t, "fmt.Println()\n", code["raw"])
	require.Equal(t, map[string]any{"info": "go"}, code["attrs"])

	list := nodes[1].(map[string]any)
	require.Equal(t, "list", list["type"])
	require.Equal(t, true, list["attrs"].(map[string]any)["ordered"])
	require.Len(t, list["children"], 2)
}

func TestInlineText(t *testing.T) {
	body := []byte("# Hello *brave* world\n")
	root := ParseBody(body)
	require.Equal(t, "Hello brave world", inlineText(root.FirstChild(), body))
}
