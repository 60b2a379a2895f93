package gitlocal

import "github.com/rios0rios0/autosync/internal/domain/repositories"

// GitLocalRepositoryFactory opens go-git backed local repositories.
type GitLocalRepositoryFactory struct{}

// NewLocalRepositoryFactory creates a new GitLocalRepositoryFactory.
func NewLocalRepositoryFactory() *GitLocalRepositoryFactory {
	return &GitLocalRepositoryFactory{}
}

var _ repositories.LocalRepositoryFactory = (*GitLocalRepositoryFactory)(nil)

func (f *GitLocalRepositoryFactory) Open(path string) repositories.LocalRepository {
	return NewLocalRepository(path)
}
