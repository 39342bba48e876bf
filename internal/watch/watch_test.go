package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShouldIgnore(t *testing.T) {
	require.True(t, shouldIgnore("/content/.hidden.md"))
	require.True(t, shouldIgnore("/content/post.md~"))
	require.True(t, shouldIgnore("/content/.post.md.swp"))
	require.False(t, shouldIgnore("/content/post.md"))
}

func TestRun_InitialBuildThenChangeTriggersRebuild(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("a\n"), 0o644))

	var fullBuilds, incBuilds atomic.Int32
	rebuild := func(_ context.Context, full bool) error {
		if full {
			fullBuilds.Add(1)
		} else {
			incBuilds.Add(1)
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- New([]string{dir}, rebuild).Run(ctx) }()

	// Wait for the initial full build.
	require.Eventually(t, func() bool { return fullBuilds.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	// A content change should produce one debounced incremental rebuild.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("changed\n"), 0o644))
	require.Eventually(t, func() bool { return incBuilds.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

// Changes landing while a rebuild is in flight must coalesce into
// exactly one follow-up pass, not one pass per change.
func TestRun_ChangesDuringBuildCoalesce(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("a\n"), 0o644))

	var incBuilds atomic.Int32
	release := make(chan struct{})
	rebuild := func(_ context.Context, full bool) error {
		if full {
			return nil
		}
		if incBuilds.Add(1) == 1 {
			<-release
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- New([]string{dir}, rebuild).Run(ctx) }()

	// First change starts a rebuild that blocks on release.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("1\n"), 0o644))
	require.Eventually(t, func() bool { return incBuilds.Load() == 1 }, 3*time.Second, 10*time.Millisecond)

	// Further changes while the build is in flight, spaced past the
	// debounce window so each produces its own rebuild request.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("2\n"), 0o644))
	time.Sleep(2 * debounceWindow)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("3\n"), 0o644))
	time.Sleep(2 * debounceWindow)

	close(release)
	require.Eventually(t, func() bool { return incBuilds.Load() == 2 }, 3*time.Second, 10*time.Millisecond)

	// No third pass: the mid-build changes coalesced into one.
	time.Sleep(2 * debounceWindow)
	require.Equal(t, int32(2), incBuilds.Load())

	cancel()
	require.NoError(t, <-done)
}

func TestRun_MissingDirIsSkipped(t *testing.T) {
	dir := t.TempDir()

	var builds atomic.Int32
	rebuild := func(context.Context, bool) error {
		builds.Add(1)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New([]string{dir, filepath.Join(dir, "absent")}, rebuild).Run(ctx)
	}()

	require.Eventually(t, func() bool { return builds.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}
