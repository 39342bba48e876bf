// Package gitmeta reads commit metadata for content files when the
// content directory lives inside a git worktree. It is used to backfill
// post dates and expose a last-modified timestamp to layouts.
package gitmeta

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
)

// ErrNotRepository indicates the content directory is not inside a git worktree.
var ErrNotRepository = errors.New("content directory is not inside a git repository")

// Lookup resolves per-file commit metadata against one repository.
type Lookup struct {
	repo *git.Repository
	root string // worktree root
}

// Open locates the repository containing dir, searching parent
// directories the way the git CLI does.
func Open(dir string) (*Lookup, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}
		return nil, err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, err
	}

	return &Lookup{repo: repo, root: wt.Filesystem.Root()}, nil
}

// LastCommitTime returns the committer time of the most recent commit
// touching the given file. The boolean is false when the file has no
// commit history (new, uncommitted files).
func (l *Lookup) LastCommitTime(path string) (time.Time, bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return time.Time{}, false, err
	}
	rel, err := filepath.Rel(l.root, abs)
	if err != nil {
		return time.Time{}, false, err
	}
	rel = filepath.ToSlash(rel)

	iter, err := l.repo.Log(&git.LogOptions{FileName: &rel, Order: git.LogOrderCommitterTime})
	if err != nil {
		return time.Time{}, false, err
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		// io.EOF: no commits touch this path.
		return time.Time{}, false, nil
	}
	return commit.Committer.When, true, nil
}
