package linkcheck

import (
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
)

// Broken records one internal link that does not resolve to a file in
// the output tree.
type Broken struct {
	Page string // rendered page containing the link
	URL  string // the link as written
}

// Checker verifies internal links across a rendered output directory.
type Checker struct {
	outputDir string
	baseURL   string
}

// NewChecker creates a checker over one rendered output tree.
func NewChecker(outputDir, baseURL string) *Checker {
	return &Checker{outputDir: outputDir, baseURL: baseURL}
}

// Run walks every .html file under the output directory, extracts its
// links, and reports internal links whose target file does not exist.
func (c *Checker) Run() (checkedPages int, broken []Broken, err error) {
	root, err := filepath.Abs(c.outputDir)
	if err != nil {
		return 0, nil, err
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		links, err := ExtractLinks(path, c.baseURL)
		if err != nil {
			return err
		}
		checkedPages++

		for _, link := range links {
			if !link.IsInternal {
				continue
			}
			if c.resolves(link.URL) {
				continue
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			broken = append(broken, Broken{Page: filepath.ToSlash(rel), URL: link.URL})
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return checkedPages, broken, nil
}

// resolves reports whether an internal link maps to an existing file in
// the output tree. Directory-style links resolve through index.html.
func (c *Checker) resolves(link string) bool {
	if strings.HasPrefix(link, "#") {
		return true
	}

	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	path := u.Path
	if path == "" {
		// Fragment or query-only link within the same page.
		return true
	}
	if !strings.HasPrefix(path, "/") {
		// Relative links are resolved per page in a full implementation;
		// accept them rather than report false positives.
		return true
	}

	candidate := filepath.Join(c.outputDir, filepath.FromSlash(strings.TrimPrefix(path, "/")))
	if strings.HasSuffix(path, "/") || filepath.Ext(path) == "" {
		candidate = filepath.Join(candidate, "index.html")
	}
	return fileExists(candidate)
}
