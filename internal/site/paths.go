package site

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/atterbury/sitepress/internal/content"
	sperrors "github.com/atterbury/sitepress/internal/errors"
)

// ResolvePath computes the output path for an item.
//
// An explicit permalink is used verbatim. Otherwise the path is derived
// deterministically: posts become /YYYY/MM/DD/<title-slug>/ and pages
// /<title-slug>/.
func ResolvePath(item content.Item) (string, error) {
	if item.Permalink != "" {
		return item.Permalink, nil
	}

	slug := Slugify(item.Title)
	if slug == "" {
		return "", sperrors.ValidationFailed("title", "slugifies to an empty path").
			WithContext("path", item.SourcePath)
	}

	if item.Kind == content.KindPost {
		if !item.HasDate {
			return "", sperrors.ValidationFailed("date", "posts require a date for permalink derivation").
				WithContext("path", item.SourcePath)
		}
		return "/" + item.Date.Format("2006/01/02") + "/" + slug + "/", nil
	}
	return "/" + slug + "/", nil
}

// OutputFile maps a resolved path to a file inside the output directory.
// Directory-style paths get pretty URLs (<path>/index.html); paths ending
// in .html are written verbatim.
func OutputFile(outputDir, resolved string) string {
	rel := strings.TrimPrefix(resolved, "/")
	if !strings.HasSuffix(resolved, ".html") {
		rel = filepath.Join(rel, "index.html")
	}
	return filepath.Join(outputDir, filepath.FromSlash(rel))
}

// outputKey canonicalizes a resolved path to its output file, slash
// separated. Collision and occupancy checks compare these keys: /about
// and /about/ differ as strings but land on the same file.
func outputKey(resolved string) string {
	return filepath.ToSlash(OutputFile("", resolved))
}

// checkCollisions verifies that every resolved path maps to a unique
// output file. It runs as a pure pre-check before any write occurs; a
// collision halts the build since silently overwriting one item with
// another would be unsafe.
func checkCollisions(resolved map[string]string) error {
	bySource := make(map[string][]string, len(resolved))
	for source, path := range resolved {
		bySource[outputKey(path)] = append(bySource[outputKey(path)], source)
	}

	targets := make([]string, 0, len(bySource))
	for target := range bySource {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	for _, target := range targets {
		sources := bySource[target]
		if len(sources) > 1 {
			sort.Strings(sources)
			return sperrors.PermalinkCollision(target, sources[0], sources[1])
		}
	}
	return nil
}
