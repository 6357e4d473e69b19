package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ApplyGitDates sets LastUpdated on every document to the committer time of
// the most recent commit touching its file. contentDir is the on-disk content
// directory; the enclosing repository is discovered from it. Documents never
// committed keep a zero time. A content directory outside any repository is
// not an error and leaves all dates unset.
func ApplyGitDates(ctx context.Context, idx *Index, contentDir string) error {
	repo, err := git.PlainOpenWithOptions(contentDir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("get worktree: %w", err)
	}
	repoRoot := wt.Filesystem.Root()
	absContent, err := filepath.Abs(contentDir)
	if err != nil {
		return err
	}
	if resolved, err := filepath.EvalSymlinks(absContent); err == nil {
		absContent = resolved
	}
	if resolved, err := filepath.EvalSymlinks(repoRoot); err == nil {
		repoRoot = resolved
	}

	if _, err := repo.Head(); errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil
	} else if err != nil {
		return fmt.Errorf("resolve HEAD: %w", err)
	}

	for _, d := range idx.docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(repoRoot, filepath.Join(absContent, filepath.FromSlash(d.Path)))
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		iter, err := repo.Log(&git.LogOptions{FileName: &name})
		if err != nil {
			return fmt.Errorf("log %s: %w", name, err)
		}
		c, err := iter.Next()
		iter.Close()
		if errors.Is(err, io.EOF) {
			continue
		}
		if err != nil {
			return fmt.Errorf("log %s: %w", name, err)
		}
		d.LastUpdated = c.Committer.When
	}
	return nil
}
