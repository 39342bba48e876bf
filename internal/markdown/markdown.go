// Package markdown converts Markdown bodies to HTML.
package markdown

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// converter is built once; goldmark.Markdown is safe for concurrent use.
var converter = goldmark.New(
	goldmark.WithRendererOptions(
		// Bodies are authored locally; inline HTML passes through.
		html.WithUnsafe(),
	),
)

// Convert renders a Markdown body (front matter already removed) to HTML.
// Fenced code blocks are emitted as literal text inside <pre><code>.
func Convert(body []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := converter.Convert(body, &buf); err != nil {
		return "", err
	}
	// #nosec G203 -- content is trusted local authorship, conversion output is intentional HTML
	return template.HTML(buf.String()), nil
}
