//go:build unit

package commands_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autosync/internal/domain/commands"
	"github.com/rios0rios0/autosync/internal/domain/entities"
	"github.com/rios0rios0/autosync/internal/domain/repositories"
	"github.com/rios0rios0/autosync/internal/infrastructure/repositories/gitlocal"
	"github.com/rios0rios0/autosync/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/autosync/test/infrastructure/repositorydoubles"
)

func TestSyncCommandExecuteWithGit(t *testing.T) {
	t.Parallel()

	t.Run("should reset a repository checked out on another branch and push the configured one", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		remotes := t.TempDir()
		_, err := git.PlainInit(filepath.Join(remotes, "notes.git"), true)
		require.NoError(t, err)

		dir := entities.NewDirectory(root, "notes")
		require.NoError(t, os.Mkdir(dir.Path, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir.Path, "z.txt"), []byte("z"), 0o644))
		require.NoError(t, gitlocal.NewLocalRepository(dir.Path).Init("main"))

		provider := &doubles.SpyHostingRepository{
			ProviderName:   "github",
			CloneURLPrefix: remotes + string(filepath.Separator),
		}
		settings := entitybuilders.NewSettingsBuilder().WithRoot(root).BuildSettings()
		cmd := commands.NewSyncCommand(gitlocal.NewLocalRepositoryFactory())
		providers := []repositories.HostingRepository{provider}

		// when
		first := cmd.Execute(context.Background(), settings, dir, providers)
		second := cmd.Execute(context.Background(), settings, dir, providers)

		// then
		require.NoError(t, first.Err)
		assert.Equal(t, entities.OutcomeResetAndPushed, first.Outcome)
		assert.Equal(t, entities.OutcomeUpToDate, second.Outcome)

		bare, openErr := git.PlainOpen(filepath.Join(remotes, "notes.git"))
		require.NoError(t, openErr)
		_, refErr := bare.Reference(plumbing.NewBranchReferenceName(entities.DefaultBranch), false)
		assert.NoError(t, refErr)
	})
}
