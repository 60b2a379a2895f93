package repositories

import "github.com/rios0rios0/autosync/internal/domain/entities"

// WorkspaceRepository lists the candidate directories under the root.
type WorkspaceRepository interface {
	// ListDirectories returns the immediate subdirectories of root, sorted by name.
	ListDirectories(root string) ([]entities.Directory, error)
}
