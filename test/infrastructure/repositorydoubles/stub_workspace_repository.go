//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/autosync/internal/domain/entities"
	"github.com/rios0rios0/autosync/internal/domain/repositories"
)

// StubWorkspaceRepository returns a fixed list of directory names under any root.
type StubWorkspaceRepository struct {
	Names   []string
	ListErr error
	Roots   []string
}

var _ repositories.WorkspaceRepository = (*StubWorkspaceRepository)(nil)

func (w *StubWorkspaceRepository) ListDirectories(root string) ([]entities.Directory, error) {
	w.Roots = append(w.Roots, root)
	if w.ListErr != nil {
		return nil, w.ListErr
	}

	dirs := make([]entities.Directory, 0, len(w.Names))
	for _, name := range w.Names {
		dirs = append(dirs, entities.NewDirectory(root, name))
	}
	return dirs, nil
}
