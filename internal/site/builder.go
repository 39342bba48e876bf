// Package site orchestrates a build pass: discover content, resolve
// output paths, pre-check collisions, render items through their layouts,
// and write the output tree.
package site

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/atterbury/sitepress/internal/config"
	"github.com/atterbury/sitepress/internal/content"
	sperrors "github.com/atterbury/sitepress/internal/errors"
	"github.com/atterbury/sitepress/internal/gitmeta"
	"github.com/atterbury/sitepress/internal/layout"
	"github.com/atterbury/sitepress/internal/logfields"
	"github.com/atterbury/sitepress/internal/metrics"
	"github.com/atterbury/sitepress/internal/state"
)

// Builder runs build passes over one content store and layout registry.
// The registry and configuration are read-only during a pass, and each
// item renders independently, so passes parallelize without locking.
type Builder struct {
	cfg      *config.Config
	store    *content.Store
	registry *layout.Registry
	recorder metrics.Recorder

	stateStore  *state.Store // nil disables incremental skips
	incremental bool
}

// NewBuilder creates a builder with metrics disabled.
func NewBuilder(cfg *config.Config, reg *layout.Registry) *Builder {
	return &Builder{
		cfg:      cfg,
		store:    content.NewStore(cfg.Content.Directory, cfg.Content.PostsDir, cfg.Site.DefaultLayout),
		registry: reg,
		recorder: metrics.NoopRecorder{},
	}
}

// WithRecorder injects a metrics recorder (fluent helper).
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	if r != nil {
		b.recorder = r
	}
	return b
}

// WithState attaches a build-state store, enabling unchanged-source skips
// and stale-output pruning on incremental passes.
func (b *Builder) WithState(s *state.Store) *Builder {
	b.stateStore = s
	return b
}

// Incremental switches the builder to incremental passes: the output
// directory is not cleaned and unchanged sources are skipped.
func (b *Builder) Incremental(on bool) *Builder {
	b.incremental = on
	return b
}

// Build runs one full pass. Per-item failures are collected into the
// report; a non-nil error means the pass halted structurally (walk
// failure, permalink collision, or a write failure).
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	report := newReport()
	slog.Info("Starting build", logfields.BuildID(report.ID), logfields.Output(b.cfg.Output.Directory))

	items, issues, err := b.store.List()
	if err != nil {
		return nil, err
	}
	for _, issue := range issues {
		report.addIssue(issue.Path, issue.Err)
		b.recorder.IncItemsFailed(string(sperrors.GetCategory(issue.Err)))
	}

	items = b.filterDrafts(items)
	b.enrichFromGit(items)

	// Output paths are computed before any write occurs, so collision
	// detection runs as a pure pre-check.
	resolved := make(map[string]string, len(items))
	renderable := make([]rendered, 0, len(items))
	for _, item := range items {
		path, err := ResolvePath(item)
		if err != nil {
			report.addIssue(item.SourcePath, err)
			b.recorder.IncItemsFailed(string(sperrors.GetCategory(err)))
			continue
		}
		resolved[item.SourcePath] = path
		renderable = append(renderable, rendered{item: item, resolved: path})
	}
	if err := checkCollisions(resolved); err != nil {
		return nil, err
	}

	if b.cfg.Output.Clean && !b.incremental {
		if err := cleanDir(b.cfg.Output.Directory); err != nil {
			return nil, sperrors.WriteFailed(b.cfg.Output.Directory, err)
		}
	}

	if err := b.renderAll(ctx, renderable, report); err != nil {
		return nil, err
	}

	if err := b.writeListing(renderable, resolved); err != nil {
		return nil, err
	}

	if err := b.syncState(ctx, renderable); err != nil {
		slog.Warn("Build state sync failed", logfields.Error(err))
	}

	report.Duration = time.Since(report.StartedAt)
	b.recorder.ObserveBuildDuration(report.Duration)
	report.LogSummary()
	return report, nil
}

func (b *Builder) filterDrafts(items []content.Item) []content.Item {
	if b.cfg.Build.Drafts {
		return items
	}
	kept := items[:0]
	for _, item := range items {
		if item.Draft {
			slog.Debug("Excluding draft", logfields.Path(item.SourcePath))
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

// enrichFromGit backfills post dates and last-modified timestamps from
// the content directory's git history when enabled.
func (b *Builder) enrichFromGit(items []content.Item) {
	if !b.cfg.Build.GitMetadata {
		return
	}
	lookup, err := gitmeta.Open(b.cfg.Content.Directory)
	if err != nil {
		if errors.Is(err, gitmeta.ErrNotRepository) {
			slog.Warn("Git metadata enabled but content directory is not a git worktree")
		} else {
			slog.Warn("Git metadata unavailable", logfields.Error(err))
		}
		return
	}

	for i := range items {
		when, ok, err := lookup.LastCommitTime(items[i].SourcePath)
		if err != nil || !ok {
			continue
		}
		items[i].LastMod = when
		if items[i].Kind == content.KindPost && !items[i].HasDate {
			items[i].Date = when
			items[i].HasDate = true
		}
	}
}

// renderAll renders and writes every item through a bounded worker pool.
func (b *Builder) renderAll(ctx context.Context, tasks []rendered, report *Report) error {
	concurrency := b.cfg.Build.RenderConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(tasks) {
		concurrency = len(tasks)
	}
	if concurrency < 1 {
		return nil
	}

	site := siteData(b.cfg)
	work := make(chan rendered)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var fatal error

	worker := func() {
		defer wg.Done()
		for task := range work {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if b.skipUnchanged(ctx, task) {
				mu.Lock()
				report.Skipped++
				mu.Unlock()
				b.recorder.IncPagesSkipped()
				continue
			}

			page, err := Render(task.item, task.resolved, b.registry, site)
			if err != nil {
				mu.Lock()
				report.addIssue(task.item.SourcePath, err)
				mu.Unlock()
				b.recorder.IncItemsFailed(string(sperrors.GetCategory(err)))
				continue
			}

			out := OutputFile(b.cfg.Output.Directory, task.resolved)
			if err := writePage(out, page); err != nil {
				// Keep draining the channel so the send loop never blocks.
				mu.Lock()
				if fatal == nil {
					fatal = err
				}
				mu.Unlock()
				continue
			}

			mu.Lock()
			report.Rendered++
			mu.Unlock()
			b.recorder.IncPagesRendered()
			slog.Debug("Rendered page",
				logfields.Path(task.item.SourcePath),
				logfields.Permalink(task.resolved),
				logfields.Layout(task.item.Layout),
				logfields.Kind(string(task.item.Kind)),
			)
		}
	}

	wg.Add(concurrency)
	for range concurrency {
		go worker()
	}
	for _, task := range tasks {
		select {
		case <-ctx.Done():
			close(work)
			wg.Wait()
			return ctx.Err()
		case work <- task:
		}
	}
	close(work)
	wg.Wait()

	if fatal != nil {
		return fatal
	}
	return ctx.Err()
}

// skipUnchanged reports whether an incremental pass can keep the existing
// output for this item.
func (b *Builder) skipUnchanged(ctx context.Context, task rendered) bool {
	if !b.incremental || b.stateStore == nil {
		return false
	}
	entry, ok, err := b.stateStore.Get(ctx, task.item.SourcePath)
	if err != nil || !ok || entry.ContentHash != task.item.Sum {
		return false
	}
	out := OutputFile(b.cfg.Output.Directory, task.resolved)
	if entry.OutputPath != out {
		return false
	}
	_, statErr := os.Stat(out)
	return statErr == nil
}

// writeListing emits the chronological post listing. It lands at the site
// root unless a page already resolved there, in which case it moves to
// /posts/.
func (b *Builder) writeListing(all []rendered, resolved map[string]string) error {
	posts := make([]rendered, 0, len(all))
	occupied := make(map[string]struct{}, len(resolved))
	for _, r := range all {
		occupied[outputKey(r.resolved)] = struct{}{}
		if r.item.Kind == content.KindPost {
			posts = append(posts, r)
		}
	}
	if len(posts) == 0 {
		return nil
	}

	listingPath := "/"
	if _, taken := occupied[outputKey("/")]; taken {
		listingPath = "/" + b.cfg.Content.PostsDir + "/"
	}
	if _, taken := occupied[outputKey(listingPath)]; taken {
		slog.Warn("Listing path occupied by a content item, skipping listing", logfields.Permalink(listingPath))
		return nil
	}

	page, err := RenderListing(b.cfg.Site.Title, posts, b.registry, siteData(b.cfg))
	if err != nil {
		return err
	}
	out := OutputFile(b.cfg.Output.Directory, listingPath)
	if err := writePage(out, page); err != nil {
		return err
	}
	slog.Info("Generated post listing", logfields.Permalink(listingPath), logfields.Count(len(posts)))
	return nil
}

// syncState records the pass in the build-state store and deletes outputs
// whose sources disappeared since the last pass.
func (b *Builder) syncState(ctx context.Context, tasks []rendered) error {
	if b.stateStore == nil {
		return nil
	}

	keep := make(map[string]struct{}, len(tasks))
	for _, task := range tasks {
		keep[task.item.SourcePath] = struct{}{}
		err := b.stateStore.Put(ctx, state.Entry{
			SourcePath:  task.item.SourcePath,
			ContentHash: task.item.Sum,
			OutputPath:  OutputFile(b.cfg.Output.Directory, task.resolved),
		})
		if err != nil {
			return sperrors.StateError("put", err)
		}
	}

	stale, err := b.stateStore.PruneMissing(ctx, keep)
	if err != nil {
		return sperrors.StateError("prune", err)
	}
	for _, entry := range stale {
		if err := os.Remove(entry.OutputPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("Failed to remove stale output", logfields.Output(entry.OutputPath), logfields.Error(err))
			continue
		}
		slog.Info("Removed stale output", logfields.Output(entry.OutputPath))
	}
	return nil
}

func writePage(path string, page []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return sperrors.WriteFailed(path, err)
	}
	// #nosec G306 -- rendered pages are public assets
	if err := os.WriteFile(path, page, 0o644); err != nil {
		return sperrors.WriteFailed(path, err)
	}
	return nil
}

// cleanDir empties a directory without removing it, so watchers keeping
// the directory open survive a clean build.
func cleanDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
