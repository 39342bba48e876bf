package gitmeta

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func initRepoWithCommit(t *testing.T, when time.Time) (string, string) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	rel := filepath.Join("content", "posts", "hello.md")
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("hello\n"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(filepath.ToSlash(rel))
	require.NoError(t, err)

	sig := &object.Signature{Name: "tester", Email: "tester@example.com", When: when}
	_, err = wt.Commit("add hello", &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)

	return dir, path
}

func TestOpen_NotARepository(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNotRepository))
}

func TestLastCommitTime_ReturnsCommitterTime(t *testing.T) {
	when := time.Date(2023, 3, 14, 9, 30, 0, 0, time.UTC)
	dir, path := initRepoWithCommit(t, when)

	lookup, err := Open(filepath.Join(dir, "content"))
	require.NoError(t, err)

	got, ok, err := lookup.LastCommitTime(path)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, got.Equal(when))
}

func TestLastCommitTime_UncommittedFile(t *testing.T) {
	dir, _ := initRepoWithCommit(t, time.Now())

	fresh := filepath.Join(dir, "content", "new.md")
	require.NoError(t, os.WriteFile(fresh, []byte("new\n"), 0o644))

	lookup, err := Open(dir)
	require.NoError(t, err)

	_, ok, err := lookup.LastCommitTime(fresh)
	require.NoError(t, err)
	require.False(t, ok)
}
