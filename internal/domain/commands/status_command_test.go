//go:build unit

package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autosync/internal/domain/commands"
	"github.com/rios0rios0/autosync/internal/domain/entities"
	doubles "github.com/rios0rios0/autosync/test/infrastructure/repositorydoubles"
)

func TestStatusCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should report version control, missing remotes and pending changes", func(t *testing.T) {
		t.Parallel()

		// given
		settings := newRunSettings()
		workspace := &doubles.StubWorkspaceRepository{Names: []string{"fresh", "partial", "synced"}}
		factory := doubles.NewSpyLocalRepositoryFactory()
		factory.Register(entities.NewDirectory(settings.Root, "partial").Path,
			doubles.NewSpyLocalRepository().
				WithVersionControl(map[string]string{"github": "https://github.com/alice/partial.git"}).
				WithPending("a.txt", "b.txt"))
		factory.Register(entities.NewDirectory(settings.Root, "synced").Path,
			doubles.NewSpyLocalRepository().WithVersionControl(map[string]string{
				"github": "https://github.com/alice/synced.git",
				"gitlab": "https://gitlab.com/alice/synced.git",
			}))
		cmd := commands.NewStatusCommand(workspace, factory)

		// when
		reports, err := cmd.Execute(context.Background(), settings, "")

		// then
		require.NoError(t, err)
		require.Len(t, reports, 3)

		assert.False(t, reports[0].HasVersionControl)
		assert.Equal(t, []string{"github", "gitlab"}, reports[0].MissingRemotes)
		assert.False(t, reports[0].InSync())

		assert.True(t, reports[1].HasVersionControl)
		assert.Equal(t, []string{"gitlab"}, reports[1].MissingRemotes)
		assert.Equal(t, 2, reports[1].Changes)

		assert.True(t, reports[2].InSync())
	})

	t.Run("should not modify any repository", func(t *testing.T) {
		t.Parallel()

		// given
		settings := newRunSettings()
		local := doubles.NewSpyLocalRepository().WithPending("a.txt")
		workspace := &doubles.StubWorkspaceRepository{Names: []string{"fresh"}}
		factory := doubles.NewSpyLocalRepositoryFactory()
		factory.Register(entities.NewDirectory(settings.Root, "fresh").Path, local)
		cmd := commands.NewStatusCommand(workspace, factory)

		// when
		_, err := cmd.Execute(context.Background(), settings, "fresh")

		// then
		require.NoError(t, err)
		assert.Empty(t, local.InitBranches)
		assert.Zero(t, local.DropCallCount)
		assert.Zero(t, local.StageCallCount)
		assert.Empty(t, local.Commits)
	})
}
