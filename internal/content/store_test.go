package content

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	sperrors "github.com/atterbury/sitepress/internal/errors"
)

func newTestStore(dir string) *Store {
	return NewStore(dir, "posts", "default")
}

func writeContent(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParse_FullFrontMatter(t *testing.T) {
	raw := []byte(`---
layout: post
title: "Wiring Slack to AWS"
date: 2023-03-14
tags:
  - aws
  - slack
---
Body text.
`)

	item, err := newTestStore(".").Parse("posts/2023-03-14-wiring-slack.md", raw)
	require.NoError(t, err)
	require.Equal(t, "post", item.Layout)
	require.Equal(t, "Wiring Slack to AWS", item.Title)
	require.True(t, item.HasDate)
	require.Equal(t, 2023, item.Date.Year())
	require.Equal(t, time.March, item.Date.Month())
	require.Equal(t, []string{"aws", "slack"}, item.Tags)
	require.Equal(t, "Body text.\n", string(item.Body))
}

func TestParse_NoFrontMatter_UsesDefaults(t *testing.T) {
	item, err := newTestStore(".").Parse("notes.md", []byte("Just some notes.\n"))
	require.NoError(t, err)
	require.Equal(t, "default", item.Layout)
	require.Equal(t, "Notes", item.Title)
	require.False(t, item.HasDate)
	require.Equal(t, "Just some notes.\n", string(item.Body))
}

func TestParse_UnterminatedFrontMatter_IsMalformed(t *testing.T) {
	raw := []byte("---\nlayout: post\nBody without closing delimiter.\n")

	_, err := newTestStore(".").Parse("bad.md", raw)
	require.Error(t, err)
	require.True(t, sperrors.IsCategory(err, sperrors.CategoryContent))
}

func TestParse_InvalidYAML_IsMalformed(t *testing.T) {
	raw := []byte("---\n: not yaml\n---\nBody.\n")

	_, err := newTestStore(".").Parse("bad.md", raw)
	require.Error(t, err)
	require.True(t, sperrors.IsCategory(err, sperrors.CategoryContent))
}

func TestParse_DatePrefixInFileName(t *testing.T) {
	item, err := newTestStore(".").Parse("2023-01-14-pandas-tricks.md", []byte("Body.\n"))
	require.NoError(t, err)
	require.True(t, item.HasDate)
	require.Equal(t, "2023-01-14", item.Date.Format("2006-01-02"))
	require.Equal(t, "Pandas Tricks", item.Title)
}

func TestParse_FrontMatterDateWinsOverFileName(t *testing.T) {
	raw := []byte("---\ndate: 2024-06-01\n---\nBody.\n")

	item, err := newTestStore(".").Parse("2023-01-14-old.md", raw)
	require.NoError(t, err)
	require.Equal(t, "2024-06-01", item.Date.Format("2006-01-02"))
}

func TestParse_ExtraFieldsPreserved(t *testing.T) {
	raw := []byte("---\ntitle: About\nauthor: Jane\n---\nBody.\n")

	item, err := newTestStore(".").Parse("about.md", raw)
	require.NoError(t, err)
	require.Equal(t, "Jane", item.Fields["author"])
}

func TestList_DiscoversPagesAndPosts(t *testing.T) {
	dir := t.TempDir()
	writeContent(t, dir, "about.md", "---\ntitle: About\npermalink: /about/\n---\nHello.\n")
	writeContent(t, dir, "posts/2023-03-14-b.md", "---\nlayout: post\n---\nB.\n")
	writeContent(t, dir, "assets/style.css", "body {}\n")

	items, issues, err := newTestStore(dir).List()
	require.NoError(t, err)
	require.Empty(t, issues)
	require.Len(t, items, 2)

	byRel := map[string]Item{}
	for _, it := range items {
		byRel[it.RelPath] = it
	}
	require.Equal(t, KindPage, byRel["about.md"].Kind)
	require.Equal(t, KindPost, byRel["posts/2023-03-14-b.md"].Kind)
}

func TestList_CollectsPerItemIssuesAndContinues(t *testing.T) {
	dir := t.TempDir()
	writeContent(t, dir, "good.md", "Fine.\n")
	writeContent(t, dir, "bad.md", "---\nunterminated: true\n")

	items, issues, err := newTestStore(dir).List()
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Len(t, issues, 1)
	require.Contains(t, issues[0].Path, "bad.md")
	require.True(t, sperrors.IsCategory(issues[0].Err, sperrors.CategoryContent))
}

func TestList_IsRestartable(t *testing.T) {
	dir := t.TempDir()
	writeContent(t, dir, "a.md", "A.\n")
	writeContent(t, dir, "b.md", "B.\n")

	store := newTestStore(dir)
	first, _, err := store.List()
	require.NoError(t, err)
	second, _, err := store.List()
	require.NoError(t, err)
	require.Equal(t, first, second)
}
