// Package frontmatter splits and reassembles `---` delimited YAML metadata
// blocks at the head of content files.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrUnterminated indicates the document started with a front-matter
// delimiter but no closing delimiter was found.
var ErrUnterminated = errors.New("front matter opening delimiter found but closing delimiter is missing")

// Document is the result of splitting a content file into its metadata
// block and body. Newline records the newline style of the source so a
// document can be reassembled byte-identically.
type Document struct {
	Meta    []byte
	Body    []byte
	HasMeta bool
	Newline string
}

// Split separates a leading YAML front-matter block from the body.
//
// When the input does not start with a `---` delimiter, HasMeta is false
// and Body is the full input. When the opening delimiter is present but
// never closed, Split returns ErrUnterminated.
func Split(content []byte) (Document, error) {
	doc := Document{Newline: detectNewline(content)}

	open := []byte("---" + doc.Newline)
	if !bytes.HasPrefix(content, open) {
		doc.Body = content
		return doc, nil
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		// Empty block: ---\n---\n
		doc.Meta = []byte{}
		doc.Body = rest[len(open):]
		doc.HasMeta = true
		return doc, nil
	}

	closing := []byte(doc.Newline + "---" + doc.Newline)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		return Document{}, ErrUnterminated
	}

	doc.Meta = rest[:idx+len(doc.Newline)]
	doc.Body = rest[idx+len(closing):]
	doc.HasMeta = true
	return doc, nil
}

// Join reassembles the document. For a document without metadata it
// returns the body unchanged.
func (d Document) Join() []byte {
	if !d.HasMeta {
		return d.Body
	}

	nl := d.Newline
	if nl == "" {
		nl = "\n"
	}
	delim := []byte("---" + nl)

	out := make([]byte, 0, 2*len(delim)+len(d.Meta)+len(d.Body))
	out = append(out, delim...)
	out = append(out, d.Meta...)
	out = append(out, delim...)
	out = append(out, d.Body...)
	return out
}

// Decode parses the raw metadata block (without delimiters) into a map.
// An empty or absent block decodes to an empty map.
func (d Document) Decode() (map[string]any, error) {
	if len(d.Meta) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(d.Meta, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	for i := 0; i < len(content); i++ {
		if content[i] != '\n' {
			continue
		}
		if i > 0 && content[i-1] == '\r' {
			return "\r\n"
		}
		return "\n"
	}
	return "\n"
}
