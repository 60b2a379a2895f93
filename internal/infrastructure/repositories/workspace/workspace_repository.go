package workspace

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/rios0rios0/autosync/internal/domain/entities"
	"github.com/rios0rios0/autosync/internal/domain/repositories"
)

// OSWorkspaceRepository lists directories on the local filesystem.
type OSWorkspaceRepository struct{}

// NewWorkspaceRepository creates a new OSWorkspaceRepository.
func NewWorkspaceRepository() *OSWorkspaceRepository {
	return &OSWorkspaceRepository{}
}

var _ repositories.WorkspaceRepository = (*OSWorkspaceRepository)(nil)

// ListDirectories returns every immediate subdirectory of root. Symlinks that
// resolve to directories are included; regular files are skipped.
func (w *OSWorkspaceRepository) ListDirectories(root string) ([]entities.Directory, error) {
	fs := osfs.New(root)

	infos, err := fs.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", root, err)
	}

	dirs := make([]entities.Directory, 0, len(infos))
	for _, info := range infos {
		if info.Mode()&os.ModeSymlink != 0 {
			target, statErr := fs.Stat(info.Name())
			if statErr != nil {
				continue
			}
			info = target
		}
		if !info.IsDir() {
			continue
		}
		dirs = append(dirs, entities.NewDirectory(root, info.Name()))
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name < dirs[j].Name })
	return dirs, nil
}
