// Package content enumerates and parses the content store: a directory of
// Markdown files with optional YAML front matter.
package content

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Kind distinguishes dated posts from standalone pages.
type Kind string

const (
	KindPage Kind = "page"
	KindPost Kind = "post"
)

// Item represents a single page or post: parsed front matter plus body.
// The body is immutable once parsed; the store never writes back.
type Item struct {
	Layout    string
	Title     string
	Permalink string // explicit output path, empty means derive
	Date      time.Time
	HasDate   bool
	Tags      []string
	Draft     bool
	LastMod   time.Time // zero unless git metadata is enabled

	Body []byte // raw Markdown, front matter removed

	// Provenance
	SourcePath string // absolute path to the source file
	RelPath    string // path relative to the content directory
	Name       string // file name without extension
	Kind       Kind
	Sum        string // sha256 of the source bytes, set during discovery

	// Fields carries any front-matter keys beyond the typed ones, for
	// layouts that want them.
	Fields map[string]any
}

var datePrefix = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})-(.+)$`)

// itemFromFields populates the typed Item fields from a decoded front-matter
// map, leaving unrecognized keys in Fields.
func itemFromFields(item *Item, fields map[string]any) error {
	rest := make(map[string]any)
	for k, v := range fields {
		switch k {
		case "layout":
			item.Layout = fmt.Sprint(v)
		case "title":
			item.Title = fmt.Sprint(v)
		case "permalink":
			item.Permalink = fmt.Sprint(v)
		case "draft":
			b, ok := v.(bool)
			if !ok {
				return fmt.Errorf("draft must be a boolean, got %T", v)
			}
			item.Draft = b
		case "date":
			d, err := parseDate(v)
			if err != nil {
				return err
			}
			item.Date = d
			item.HasDate = true
		case "tags":
			tags, err := parseTags(v)
			if err != nil {
				return err
			}
			item.Tags = tags
		default:
			rest[k] = v
		}
	}
	if len(rest) > 0 {
		item.Fields = rest
	}
	return nil
}

// applyNameDefaults derives title and date from the file name when the
// front matter did not provide them. Post file names may carry a
// YYYY-MM-DD- prefix; the remainder becomes the slug source.
func applyNameDefaults(item *Item) error {
	name := item.Name

	if m := datePrefix.FindStringSubmatch(name); m != nil {
		if !item.HasDate {
			d, err := time.Parse("2006-01-02", m[1]+"-"+m[2]+"-"+m[3])
			if err != nil {
				return fmt.Errorf("date prefix in %q: %w", name, err)
			}
			item.Date = d
			item.HasDate = true
		}
		name = m[4]
	}

	if item.Title == "" {
		item.Title = titleCase(name)
	}
	return nil
}

// titleCase converts kebab or snake case names to Title Case:
// getting-started -> Getting Started.
func titleCase(name string) string {
	base := strings.ReplaceAll(name, "_", "-")
	parts := strings.Split(base, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
	}
	return strings.Join(parts, " ")
}

func parseDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, d); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date format %q", d)
	default:
		return time.Time{}, fmt.Errorf("date must be a timestamp or string, got %T", v)
	}
}

func parseTags(v any) ([]string, error) {
	switch tags := v.(type) {
	case nil:
		return nil, nil
	case string:
		// Jekyll also accepts a space separated scalar.
		return strings.Fields(tags), nil
	case []any:
		out := make([]string, 0, len(tags))
		for _, tag := range tags {
			out = append(out, fmt.Sprint(tag))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("tags must be a list, got %T", v)
	}
}
