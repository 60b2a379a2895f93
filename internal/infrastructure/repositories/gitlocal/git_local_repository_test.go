//go:build unit

package gitlocal_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autosync/internal/domain/entities"
	"github.com/rios0rios0/autosync/internal/infrastructure/repositories/gitlocal"
)

var author = entities.AuthorSettings{Name: "tester", Email: "tester@localhost"}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// newCommittedRepository initializes dir on "master" and commits the given files.
func newCommittedRepository(t *testing.T, files map[string]string) (*gitlocal.GitLocalRepository, string) {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		writeFile(t, dir, name, content)
	}

	repo := gitlocal.NewLocalRepository(dir)
	require.NoError(t, repo.Init("master"))
	require.NoError(t, repo.StageAll())
	_, err := repo.Commit("initial", author)
	require.NoError(t, err)
	return repo, dir
}

func newBareRemote(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	_, err := git.PlainInit(dir, true)
	require.NoError(t, err)
	return dir
}

func pushInput(force bool) entities.PushInput {
	return entities.PushInput{RemoteName: "origin", Branch: "master", Force: force}
}

func TestGitLocalRepositoryInit(t *testing.T) {
	t.Parallel()

	t.Run("should report version control only after init", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		repo := gitlocal.NewLocalRepository(dir)
		require.False(t, repo.HasVersionControl())

		// when
		err := repo.Init("main")

		// then
		require.NoError(t, err)
		assert.True(t, repo.HasVersionControl())

		opened, openErr := git.PlainOpen(dir)
		require.NoError(t, openErr)
		head, refErr := opened.Storer.Reference(plumbing.HEAD)
		require.NoError(t, refErr)
		assert.Equal(t, plumbing.NewBranchReferenceName("main"), head.Target())
	})
}

func TestGitLocalRepositoryRemotes(t *testing.T) {
	t.Parallel()

	t.Run("should list added remotes by label", func(t *testing.T) {
		t.Parallel()

		// given
		repo := gitlocal.NewLocalRepository(t.TempDir())
		require.NoError(t, repo.Init("master"))

		// when
		require.NoError(t, repo.AddRemote("github", "https://github.com/alice/notes.git"))
		require.NoError(t, repo.AddRemote("gitlab", "https://gitlab.com/alice/notes.git"))
		labels, err := repo.ListRemotes()

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"github", "gitlab"}, labels)
	})

	t.Run("should replace a remote registered under the same label", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		repo := gitlocal.NewLocalRepository(dir)
		require.NoError(t, repo.Init("master"))
		require.NoError(t, repo.AddRemote("origin", "https://old.example/alice/notes.git"))

		// when
		err := repo.AddRemote("origin", "https://new.example/alice/notes.git")

		// then
		require.NoError(t, err)
		opened, openErr := git.PlainOpen(dir)
		require.NoError(t, openErr)
		remote, remoteErr := opened.Remote("origin")
		require.NoError(t, remoteErr)
		assert.Equal(t, []string{"https://new.example/alice/notes.git"}, remote.Config().URLs)
	})
}

func TestGitLocalRepositoryStatus(t *testing.T) {
	t.Parallel()

	t.Run("should classify modified, deleted and untracked paths", func(t *testing.T) {
		t.Parallel()

		// given
		repo, dir := newCommittedRepository(t, map[string]string{"a.txt": "a", "b.txt": "b"})
		writeFile(t, dir, "a.txt", "changed")
		require.NoError(t, os.Remove(filepath.Join(dir, "b.txt")))
		writeFile(t, dir, "c.txt", "c")

		// when
		status, err := repo.Status()

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"a.txt"}, status.Modified)
		assert.Equal(t, []string{"b.txt"}, status.Deleted)
		assert.Equal(t, []string{"c.txt"}, status.Untracked)
	})

	t.Run("should be clean after re-indexing an unchanged tree", func(t *testing.T) {
		t.Parallel()

		// given
		repo, _ := newCommittedRepository(t, map[string]string{"a.txt": "a"})

		// when
		require.NoError(t, repo.DropIndex())
		require.NoError(t, repo.StageAll())
		status, err := repo.Status()

		// then
		require.NoError(t, err)
		assert.True(t, status.IsClean())
	})

	t.Run("should untrack committed files that became ignored after re-indexing", func(t *testing.T) {
		t.Parallel()

		// given
		repo, dir := newCommittedRepository(t, map[string]string{"keep.txt": "k", "secret.txt": "s"})
		writeFile(t, dir, ".gitignore", "secret.txt\n")

		// when
		require.NoError(t, repo.DropIndex())
		require.NoError(t, repo.StageAll())
		status, err := repo.Status()

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"secret.txt"}, status.Deleted)
		assert.Equal(t, []string{".gitignore"}, status.Untracked)
		assert.Empty(t, status.Modified)
		assert.FileExists(t, filepath.Join(dir, "secret.txt"))
	})
}

func TestGitLocalRepositoryPush(t *testing.T) {
	t.Parallel()

	t.Run("should push the branch and treat an up-to-date remote as success", func(t *testing.T) {
		t.Parallel()

		// given
		repo, _ := newCommittedRepository(t, map[string]string{"a.txt": "a"})
		remote := newBareRemote(t)
		require.NoError(t, repo.AddRemote("origin", remote))

		// when
		first := repo.Push(context.Background(), pushInput(false))
		second := repo.Push(context.Background(), pushInput(false))

		// then
		require.NoError(t, first)
		require.NoError(t, second)
		bare, err := git.PlainOpen(remote)
		require.NoError(t, err)
		_, refErr := bare.Reference(plumbing.NewBranchReferenceName("master"), false)
		assert.NoError(t, refErr)
	})

	t.Run("should report diverged history as non-fast-forward and accept a forced push", func(t *testing.T) {
		t.Parallel()

		// given
		repo, dir := newCommittedRepository(t, map[string]string{"a.txt": "a"})
		remote := newBareRemote(t)
		require.NoError(t, repo.AddRemote("origin", remote))
		require.NoError(t, repo.Push(context.Background(), pushInput(false)))

		require.NoError(t, repo.Destroy())
		require.NoError(t, repo.Init("master"))
		require.NoError(t, repo.AddRemote("origin", remote))
		writeFile(t, dir, "b.txt", "b")
		require.NoError(t, repo.StageAll())
		_, err := repo.Commit("unrelated history", author)
		require.NoError(t, err)

		// when
		rejected := repo.Push(context.Background(), pushInput(false))
		forced := repo.Push(context.Background(), pushInput(true))

		// then
		require.Error(t, rejected)
		assert.True(t, entities.IsNonFastForward(rejected))
		assert.NoError(t, forced)
	})

	t.Run("should report a branch missing locally as non-fast-forward without pushing", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		writeFile(t, dir, "z.txt", "z")
		repo := gitlocal.NewLocalRepository(dir)
		require.NoError(t, repo.Init("main"))
		require.NoError(t, repo.StageAll())
		_, err := repo.Commit("on main", author)
		require.NoError(t, err)
		remote := newBareRemote(t)
		require.NoError(t, repo.AddRemote("origin", remote))

		// when
		pushErr := repo.Push(context.Background(), pushInput(false))

		// then
		require.Error(t, pushErr)
		assert.True(t, entities.IsNonFastForward(pushErr))
		bare, openErr := git.PlainOpen(remote)
		require.NoError(t, openErr)
		_, refErr := bare.Reference(plumbing.NewBranchReferenceName("master"), false)
		assert.ErrorIs(t, refErr, plumbing.ErrReferenceNotFound)
	})

	t.Run("should push the configured branch after re-initializing a repository on another branch", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		writeFile(t, dir, "z.txt", "z")
		repo := gitlocal.NewLocalRepository(dir)
		require.NoError(t, repo.Init("main"))
		require.NoError(t, repo.StageAll())
		_, err := repo.Commit("on main", author)
		require.NoError(t, err)
		remote := newBareRemote(t)
		require.NoError(t, repo.AddRemote("origin", remote))
		require.Error(t, repo.Push(context.Background(), pushInput(false)))

		require.NoError(t, repo.Destroy())
		require.NoError(t, repo.Init("master"))
		require.NoError(t, repo.AddRemote("origin", remote))
		require.NoError(t, repo.StageAll())
		_, err = repo.Commit("reset", author)
		require.NoError(t, err)

		// when
		forced := repo.Push(context.Background(), pushInput(true))

		// then
		require.NoError(t, forced)
		bare, openErr := git.PlainOpen(remote)
		require.NoError(t, openErr)
		_, refErr := bare.Reference(plumbing.NewBranchReferenceName("master"), false)
		assert.NoError(t, refErr)
	})

	t.Run("should report an unreachable remote as a non-recoverable failure", func(t *testing.T) {
		t.Parallel()

		// given
		repo, _ := newCommittedRepository(t, map[string]string{"a.txt": "a"})
		require.NoError(t, repo.AddRemote("origin", filepath.Join(t.TempDir(), "missing")))

		// when
		err := repo.Push(context.Background(), pushInput(false))

		// then
		require.Error(t, err)
		var pushErr *entities.PushError
		require.ErrorAs(t, err, &pushErr)
		assert.Equal(t, "origin", pushErr.RemoteName)
		assert.Equal(t, entities.PushFailedOther, pushErr.Kind)
	})
}

func TestGitLocalRepositoryDestroy(t *testing.T) {
	t.Parallel()

	t.Run("should remove git metadata and keep working files", func(t *testing.T) {
		t.Parallel()

		// given
		repo, dir := newCommittedRepository(t, map[string]string{"a.txt": "a"})

		// when
		err := repo.Destroy()

		// then
		require.NoError(t, err)
		assert.False(t, repo.HasVersionControl())
		assert.NoDirExists(t, filepath.Join(dir, ".git"))
		assert.FileExists(t, filepath.Join(dir, "a.txt"))
	})
}

func TestClassifyPushError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected entities.PushFailureKind
	}{
		{"local fast-forward check", errors.New("non-fast-forward update: refs/heads/master"), entities.PushRejectedNonFastForward},
		{"server rejection", errors.New("! [rejected] master -> master (fetch first)"), entities.PushRejectedNonFastForward},
		{"unknown remote tip", fmt.Errorf("walk: %w", plumbing.ErrObjectNotFound), entities.PushRejectedNonFastForward},
		{"sentinel", git.ErrNonFastForwardUpdate, entities.PushRejectedNonFastForward},
		{"refspec without source", errors.New("error: src refspec master does not match any"), entities.PushRejectedNonFastForward},
		{"authentication", errors.New("authentication required"), entities.PushFailedOther},
		{"network", errors.New("dial tcp: connection refused"), entities.PushFailedOther},
	}

	for _, tt := range tests {
		t.Run("should classify "+tt.name, func(t *testing.T) {
			t.Parallel()

			// when
			kind := gitlocal.ClassifyPushError(tt.err)

			// then
			assert.Equal(t, tt.expected, kind)
		})
	}
}
