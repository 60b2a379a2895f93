package repositories

import (
	"context"

	"github.com/rios0rios0/autosync/internal/domain/entities"
)

// HostingRepository abstracts a Git hosting service account (GitHub, GitLab,
// Bitbucket, Azure DevOps) on which remote repositories are provisioned.
type HostingRepository interface {
	// Name returns the provider type (e.g. "github").
	Name() string

	// RemoteName returns the stable git remote label used for this provider.
	RemoteName() string

	// Credentials returns the basic-auth pair used to push to this provider.
	Credentials() entities.Credentials

	// EnsureRepository creates the repository under the configured namespace,
	// or returns the existing one. "Already exists" is never an error.
	EnsureRepository(ctx context.Context, name string) (*entities.Repository, error)
}
