package repositories

import (
	"context"

	"github.com/rios0rios0/autosync/internal/domain/entities"
)

// LocalRepository wraps the version-control state of one working directory.
type LocalRepository interface {
	// HasVersionControl reports whether the directory carries git metadata.
	HasVersionControl() bool

	// Init creates empty git metadata with branch as HEAD.
	Init(branch string) error

	// AddRemote registers a remote under label pointing at url.
	AddRemote(label, url string) error

	// ListRemotes returns the labels of all registered remotes.
	ListRemotes() ([]string, error)

	// DropIndex empties the index so that the next StageAll rebuilds it from
	// the current tree and ignore rules.
	DropIndex() error

	// Status reports paths that differ from HEAD, staged or not.
	Status() (entities.WorkingTreeStatus, error)

	// StageAll stages every change, including deletions.
	StageAll() error

	// Commit records the staged content and returns the commit hash.
	Commit(message string, author entities.AuthorSettings) (string, error)

	// Push sends the branch to one remote. Failures are *entities.PushError.
	Push(ctx context.Context, input entities.PushInput) error

	// Destroy irrecoverably deletes the git metadata, keeping working files.
	Destroy() error
}

// LocalRepositoryFactory opens the LocalRepository of a directory path.
type LocalRepositoryFactory interface {
	Open(path string) LocalRepository
}
