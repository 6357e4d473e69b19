package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, repo *git.Repository, root, rel, body string, when time.Time) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(t, os.WriteFile(full, []byte(body), 0o600))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(rel)
	require.NoError(t, err)
	sig := &object.Signature{Name: "docs", Email: "docs@example.org", When: when}
	_, err = wt.Commit("update "+rel, &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)
}

func TestApplyGitDates(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)

	first := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	second := time.Date(2024, 6, 15, 8, 30, 0, 0, time.UTC)
	commitFile(t, repo, root, "docs/src/content/docs/commands/admin.md", "# Admin\n", first)
	commitFile(t, repo, root, "docs/src/content/docs/commands/bans.md", "# Bans\n", first)
	commitFile(t, repo, root, "docs/src/content/docs/commands/admin.md", "# Admin\n\nUpdated.\n", second)

	contentDir := filepath.Join(root, "docs", "src", "content", "docs")
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "new.md"), []byte("# New\n"), 0o600))

	idx, err := Scan(context.Background(), os.DirFS(contentDir))
	require.NoError(t, err)
	require.NoError(t, ApplyGitDates(context.Background(), idx, contentDir))

	admin, _ := idx.Lookup("commands/admin")
	assert.True(t, admin.LastUpdated.Equal(second), "got %s", admin.LastUpdated)
	bans, _ := idx.Lookup("commands/bans")
	assert.True(t, bans.LastUpdated.Equal(first), "got %s", bans.LastUpdated)
	uncommitted, _ := idx.Lookup("new")
	assert.True(t, uncommitted.LastUpdated.IsZero())
}

func TestApplyGitDatesOutsideRepository(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("# A\n"), 0o600))

	idx, err := Scan(context.Background(), os.DirFS(dir))
	require.NoError(t, err)
	require.NoError(t, ApplyGitDates(context.Background(), idx, dir))
	doc, _ := idx.Lookup("a")
	assert.True(t, doc.LastUpdated.IsZero())
}
