package content

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	sperrors "github.com/atterbury/sitepress/internal/errors"
	"github.com/atterbury/sitepress/internal/frontmatter"
	"github.com/atterbury/sitepress/internal/logfields"
)

// Store enumerates content items from a directory tree. It is read-only
// over its backing storage: enumeration is finite, restartable, and has
// no consumption side effects.
type Store struct {
	dir           string // content root
	postsDir      string // subdirectory holding dated posts (relative to dir)
	defaultLayout string
}

// NewStore creates a store over the given content directory.
func NewStore(dir, postsDir, defaultLayout string) *Store {
	return &Store{dir: dir, postsDir: postsDir, defaultLayout: defaultLayout}
}

// Issue records a per-item parse failure. Issues do not abort enumeration;
// the build reports them together after a full pass.
type Issue struct {
	Path string
	Err  error
}

// List walks the content directory and parses every Markdown file.
// Per-item parse failures are returned as Issues alongside the items that
// parsed cleanly; a non-nil error means the walk itself failed.
func (s *Store) List() ([]Item, []Issue, error) {
	var items []Item
	var issues []Issue

	root, err := filepath.Abs(s.dir)
	if err != nil {
		return nil, nil, err
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !isMarkdown(path) {
			return nil
		}

		raw, err := os.ReadFile(path) // #nosec G304 -- paths come from the configured content tree
		if err != nil {
			return err
		}

		item, perr := s.Parse(path, raw)
		if perr != nil {
			slog.Warn("Skipping unparsable content file", logfields.Path(path), logfields.Error(perr))
			issues = append(issues, Issue{Path: path, Err: perr})
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		item.RelPath = filepath.ToSlash(rel)
		item.Sum = fmt.Sprintf("%x", sha256.Sum256(raw))
		if s.postsDir != "" && strings.HasPrefix(item.RelPath, s.postsDir+"/") {
			item.Kind = KindPost
		}

		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return items, issues, nil
}

// Parse splits a raw content file into front matter and body and builds an
// Item. A metadata block that is present but not well-formed yields a
// MalformedFrontMatter error; a file without a block succeeds with empty
// metadata and the default layout.
func (s *Store) Parse(path string, raw []byte) (Item, error) {
	doc, err := frontmatter.Split(raw)
	if err != nil {
		return Item{}, sperrors.MalformedFrontMatter(path, err)
	}

	fields, err := doc.Decode()
	if err != nil {
		return Item{}, sperrors.MalformedFrontMatter(path, err)
	}

	item := Item{
		Body:       doc.Body,
		SourcePath: path,
		Name:       strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Kind:       KindPage,
		Layout:     s.defaultLayout,
	}
	if err := itemFromFields(&item, fields); err != nil {
		return Item{}, sperrors.MalformedFrontMatter(path, err)
	}
	if err := applyNameDefaults(&item); err != nil {
		return Item{}, sperrors.MalformedFrontMatter(path, err)
	}
	return item, nil
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	default:
		return false
	}
}
