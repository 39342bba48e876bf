package site

import (
	"bytes"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/atterbury/sitepress/internal/config"
	"github.com/atterbury/sitepress/internal/content"
	sperrors "github.com/atterbury/sitepress/internal/errors"
	"github.com/atterbury/sitepress/internal/layout"
	"github.com/atterbury/sitepress/internal/markdown"
)

// SiteData is the site-wide template context.
type SiteData struct {
	Title       string
	Description string
	BaseURL     string
}

// PageData is the per-page template context.
type PageData struct {
	Title     string
	Permalink string
	Canonical string // absolute link, empty when no base URL is configured
	Date      time.Time
	HasDate   bool
	LastMod   time.Time
	Tags      []string
	Params    map[string]any
}

// renderContext is what layouts execute against.
type renderContext struct {
	Site    SiteData
	Page    PageData
	Content template.HTML
	Pages   []PageData // populated for listing pages only
}

func siteData(cfg *config.Config) SiteData {
	return SiteData{
		Title:       cfg.Site.Title,
		Description: cfg.Site.Description,
		BaseURL:     strings.TrimSuffix(cfg.Site.BaseURL, "/"),
	}
}

func pageData(item content.Item, resolved string, site SiteData) PageData {
	pd := PageData{
		Title:     item.Title,
		Permalink: resolved,
		Date:      item.Date,
		HasDate:   item.HasDate,
		LastMod:   item.LastMod,
		Tags:      item.Tags,
		Params:    item.Fields,
	}
	if site.BaseURL != "" {
		pd.Canonical = site.BaseURL + resolved
	}
	return pd
}

// Render produces the final page for one item: the named layout is looked
// up in the registry, the Markdown body is converted, and item fields and
// body are substituted into the template. Rendering is a pure function of
// (item, registry); repeated calls yield byte-identical output.
func Render(item content.Item, resolved string, reg *layout.Registry, site SiteData) ([]byte, error) {
	tpl, ok := reg.Get(item.Layout)
	if !ok {
		return nil, sperrors.UnknownLayout(item.Layout, item.SourcePath)
	}

	body, err := markdown.Convert(item.Body)
	if err != nil {
		return nil, sperrors.Wrap(err, sperrors.CategoryContent, sperrors.SeverityError, "markdown conversion failed").
			WithContext("path", item.SourcePath)
	}

	ctx := renderContext{
		Site:    site,
		Page:    pageData(item, resolved, site),
		Content: body,
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, ctx); err != nil {
		return nil, sperrors.Wrap(err, sperrors.CategoryLayout, sperrors.SeverityError, "layout execution failed").
			WithContext("layout", item.Layout).
			WithContext("path", item.SourcePath)
	}
	return buf.Bytes(), nil
}

// RenderListing produces the chronological post listing through the list
// layout. Posts are ordered by date descending, ties broken by title
// ascending, independent of render order.
func RenderListing(title string, posts []rendered, reg *layout.Registry, site SiteData) ([]byte, error) {
	tpl, ok := reg.Get("list")
	if !ok {
		return nil, sperrors.UnknownLayout("list", "listing")
	}

	ordered := make([]rendered, len(posts))
	copy(ordered, posts)
	SortPosts(ordered)

	pages := make([]PageData, 0, len(ordered))
	for _, p := range ordered {
		pages = append(pages, pageData(p.item, p.resolved, site))
	}

	ctx := renderContext{
		Site:  site,
		Page:  PageData{Title: title},
		Pages: pages,
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, ctx); err != nil {
		return nil, sperrors.Wrap(err, sperrors.CategoryLayout, sperrors.SeverityError, "listing layout execution failed")
	}
	return buf.Bytes(), nil
}

// rendered pairs an item with its resolved output path.
type rendered struct {
	item     content.Item
	resolved string
}

// SortPosts orders posts newest first, with titles breaking date ties
// ascending lexicographically so listings are deterministic.
func SortPosts(posts []rendered) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].item.Date.Equal(posts[j].item.Date) {
			return posts[i].item.Date.After(posts[j].item.Date)
		}
		return posts[i].item.Title < posts[j].item.Title
	})
}
