// Package linkcheck verifies that internal links in a rendered site
// resolve to files in the output tree.
package linkcheck

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Link is one link-like reference extracted from a rendered page.
type Link struct {
	URL        string // the href/src value as written
	Tag        string // HTML tag it came from (a, img, link, script)
	IsInternal bool   // true when the link targets this site
}

// ExtractLinks extracts link references from a rendered HTML file.
func ExtractLinks(htmlPath, baseURL string) ([]Link, error) {
	file, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	return extractFromReader(file, baseURL)
}

func extractFromReader(r io.Reader, baseURL string) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var base *url.URL
	if baseURL != "" {
		base, err = url.Parse(baseURL)
		if err != nil {
			return nil, err
		}
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if link, ok := nodeLink(n, base); ok {
				links = append(links, link)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func nodeLink(n *html.Node, base *url.URL) (Link, bool) {
	var attr string
	switch n.Data {
	case "a", "link":
		attr = "href"
	case "img", "script", "video", "audio", "source":
		attr = "src"
	default:
		return Link{}, false
	}

	value := getAttr(n, attr)
	if value == "" {
		return Link{}, false
	}
	return Link{URL: value, Tag: n.Data, IsInternal: isInternal(value, base)}, true
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// isInternal reports whether a URL targets this site: relative URLs,
// fragments, and absolute URLs on the configured base host.
func isInternal(link string, base *url.URL) bool {
	if strings.HasPrefix(link, "mailto:") || strings.HasPrefix(link, "tel:") {
		return false
	}
	if strings.HasPrefix(link, "#") {
		return true
	}

	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	if u.Scheme == "" && u.Host == "" {
		return true
	}
	return base != nil && u.Host == base.Host
}
