package github

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autosync/internal/domain/entities"
	"github.com/rios0rios0/autosync/internal/domain/repositories"
)

const (
	providerName = "github"
	defaultHost  = "github.com"
	pushUsername = "x-access-token"
)

// GitHubHostingRepository implements repositories.HostingRepository for GitHub.
type GitHubHostingRepository struct {
	settings entities.ProviderSettings
	client   *gh.Client
	host     string
}

// NewHostingRepository creates a GitHub provider for one settings entry.
// A configured host switches the client to GitHub Enterprise Server.
func NewHostingRepository(settings entities.ProviderSettings) repositories.HostingRepository {
	client := gh.NewClient(nil).WithAuthToken(settings.Token)
	host := defaultHost

	if settings.Host != "" {
		baseURL := entities.BaseURL(settings.Host)
		enterprise, err := client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			logger.Warnf("[%s] Ignoring invalid host %q: %v", providerName, settings.Host, err)
		} else {
			client = enterprise
			host = entities.HostName(settings.Host)
		}
	}

	return &GitHubHostingRepository{
		settings: settings,
		client:   client,
		host:     host,
	}
}

func (p *GitHubHostingRepository) Name() string       { return providerName }
func (p *GitHubHostingRepository) RemoteName() string { return p.settings.RemoteName() }

func (p *GitHubHostingRepository) Credentials() entities.Credentials {
	return entities.Credentials{Username: pushUsername, Token: p.settings.Token}
}

// EnsureRepository creates the repository for the authenticated user, or under
// the organization when the namespace is one. A 422 means it already exists.
func (p *GitHubHostingRepository) EnsureRepository(
	ctx context.Context,
	name string,
) (*entities.Repository, error) {
	owner := ""
	if p.settings.Organization {
		owner = p.settings.Namespace
	}

	created, resp, err := p.client.Repositories.Create(ctx, owner, &gh.Repository{
		Name:    gh.String(name),
		Private: gh.Bool(p.settings.Private),
	})
	if err == nil {
		logger.Infof("[%s] Created repository %s/%s", providerName, p.settings.Namespace, name)
		return p.toEntity(created, name), nil
	}

	if resp == nil || resp.StatusCode != http.StatusUnprocessableEntity {
		return nil, fmt.Errorf("%w: %s: %w", entities.ErrProviderTransport, providerName, err)
	}

	logger.Infof("[%s] Repository %s/%s already exists", providerName, p.settings.Namespace, name)

	existing, _, getErr := p.client.Repositories.Get(ctx, p.settings.Namespace, name)
	if getErr != nil {
		logger.Debugf("[%s] Could not fetch %s/%s, using default clone URL: %v",
			providerName, p.settings.Namespace, name, getErr)
		return p.toEntity(nil, name), nil
	}
	return p.toEntity(existing, name), nil
}

func (p *GitHubHostingRepository) toEntity(repo *gh.Repository, name string) *entities.Repository {
	cloneURL := repo.GetCloneURL()
	if cloneURL == "" {
		cloneURL = entities.FallbackCloneURL(p.host, p.settings.Namespace, name)
	}

	entity := &entities.Repository{
		Name:          name,
		Organization:  p.settings.Namespace,
		DefaultBranch: repo.GetDefaultBranch(),
		RemoteURL:     cloneURL,
		SSHURL:        repo.GetSSHURL(),
		ProviderName:  providerName,
	}
	if repo.GetID() != 0 {
		entity.ID = strconv.FormatInt(repo.GetID(), 10)
	}
	return entity
}
