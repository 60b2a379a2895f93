package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/autosync/internal/domain/repositories"
	adoRepo "github.com/rios0rios0/autosync/internal/infrastructure/repositories/azuredevops"
	bbRepo "github.com/rios0rios0/autosync/internal/infrastructure/repositories/bitbucket"
	ghRepo "github.com/rios0rios0/autosync/internal/infrastructure/repositories/github"
	gitRepo "github.com/rios0rios0/autosync/internal/infrastructure/repositories/gitlocal"
	glRepo "github.com/rios0rios0/autosync/internal/infrastructure/repositories/gitlab"
	wsRepo "github.com/rios0rios0/autosync/internal/infrastructure/repositories/workspace"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register provider registry with all hosting provider factories
	if err := container.Provide(NewDefaultProviderRegistry); err != nil {
		return err
	}

	// Register local filesystem and git implementations
	if err := container.Provide(func() domainRepos.LocalRepositoryFactory {
		return gitRepo.NewLocalRepositoryFactory()
	}); err != nil {
		return err
	}
	if err := container.Provide(func() domainRepos.WorkspaceRepository {
		return wsRepo.NewWorkspaceRepository()
	}); err != nil {
		return err
	}

	return nil
}

// NewDefaultProviderRegistry returns a registry with every supported provider type.
func NewDefaultProviderRegistry() *ProviderRegistry {
	reg := NewProviderRegistry()
	reg.Register("github", ghRepo.NewHostingRepository)
	reg.Register("gitlab", glRepo.NewHostingRepository)
	reg.Register("bitbucket", bbRepo.NewHostingRepository)
	reg.Register("azuredevops", adoRepo.NewHostingRepository)
	return reg
}
