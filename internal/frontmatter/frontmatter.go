package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml front matter start delimiter found but closing delimiter is missing")

// Split separates YAML front matter (`---` delimited) from the Markdown body.
//
// If the document does not start with a delimiter line, had is false and body
// is the full input. Both \n and \r\n line endings are recognised.
func Split(content []byte) (header []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte(delimiter + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte(nl + delimiter + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter at EOF without a trailing newline still counts.
		tail := []byte(nl + delimiter)
		if bytes.HasSuffix(content[start:], tail) {
			end := len(content) - len(tail)
			return content[start : end+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	return content[start:end], content[start+idx+len(closeSeq):], true, nil
}

// Parse splits content and decodes the header into a mapping. The blank
// separator lines between header and body are not part of the body.
func Parse(content []byte) (map[string]any, []byte, error) {
	header, body, had, err := Split(content)
	if err != nil {
		return nil, nil, err
	}
	if !had {
		return map[string]any{}, body, nil
	}
	fields, err := ParseYAML(header)
	if err != nil {
		return nil, nil, err
	}
	return fields, trimLeadingBlankLines(body), nil
}

// Format renders fields and body in the on-disk document form:
//
//	---
//	<yaml>
//	---
//
//	<body>
//
// A document without fields is written as its body alone.
func Format(fields map[string]any, body []byte) ([]byte, error) {
	if len(fields) == 0 {
		return body, nil
	}
	header, err := SerializeYAML(fields)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(header)+len(body)+16)
	out = append(out, delimiter+"\n"...)
	out = append(out, header...)
	out = append(out, delimiter+"\n\n"...)
	out = append(out, trimLeadingBlankLines(body)...)
	return out, nil
}

// ParseYAML parses raw YAML front matter (without --- delimiters) into a map.
func ParseYAML(header []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(header)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(header, &fields); err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func trimLeadingBlankLines(body []byte) []byte {
	for {
		switch {
		case bytes.HasPrefix(body, []byte("\r\n")):
			body = body[2:]
		case bytes.HasPrefix(body, []byte("\n")):
			body = body[1:]
		default:
			return body
		}
	}
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
