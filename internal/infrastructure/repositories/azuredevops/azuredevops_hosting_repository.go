package azuredevops

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autosync/internal/domain/entities"
	"github.com/rios0rios0/autosync/internal/domain/repositories"
)

const (
	providerName = "azuredevops"
	defaultHost  = "dev.azure.com"
	pushUsername = "pat"
)

var errInvalidNamespace = errors.New(`azure devops namespace must be "organization/project"`)

// AzureDevOpsHostingRepository implements repositories.HostingRepository for
// Azure DevOps. The namespace is "organization/project".
type AzureDevOpsHostingRepository struct {
	settings     entities.ProviderSettings
	client       *Client
	host         string
	organization string
	project      string
}

// NewHostingRepository creates an Azure DevOps provider for one settings entry.
func NewHostingRepository(settings entities.ProviderSettings) repositories.HostingRepository {
	host := defaultHost
	if settings.Host != "" {
		host = settings.Host
	}

	organization, project, _ := strings.Cut(strings.Trim(settings.Namespace, "/"), "/")
	return &AzureDevOpsHostingRepository{
		settings:     settings,
		client:       NewClient(host, organization, settings.Token),
		host:         entities.HostName(host),
		organization: organization,
		project:      project,
	}
}

func (p *AzureDevOpsHostingRepository) Name() string       { return providerName }
func (p *AzureDevOpsHostingRepository) RemoteName() string { return p.settings.RemoteName() }

func (p *AzureDevOpsHostingRepository) Credentials() entities.Credentials {
	return entities.Credentials{Username: pushUsername, Token: p.settings.Token}
}

// EnsureRepository creates the git repository inside the project. Visibility
// is inherited from the project, so the private flag is ignored.
func (p *AzureDevOpsHostingRepository) EnsureRepository(
	ctx context.Context,
	name string,
) (*entities.Repository, error) {
	if p.organization == "" || p.project == "" {
		return nil, fmt.Errorf("%w: got %q", errInvalidNamespace, p.settings.Namespace)
	}

	project, err := p.client.GetProject(ctx, p.project)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: failed to resolve project %q: %w",
			entities.ErrProviderTransport, providerName, p.project, err)
	}

	created, err := p.client.CreateRepository(ctx, project, name)
	if err == nil {
		logger.Infof("[%s] Created repository %s/%s", providerName, p.settings.Namespace, name)
		return p.toEntity(created, name), nil
	}

	var apiErr *apiError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusConflict {
		return nil, fmt.Errorf("%w: %s: %w", entities.ErrProviderTransport, providerName, err)
	}

	logger.Infof("[%s] Repository %s/%s already exists", providerName, p.settings.Namespace, name)

	existing, getErr := p.client.GetRepository(ctx, p.project, name)
	if getErr != nil {
		logger.Debugf("[%s] Could not fetch %s/%s, using default clone URL: %v",
			providerName, p.settings.Namespace, name, getErr)
		return p.toEntity(nil, name), nil
	}
	return p.toEntity(existing, name), nil
}

func (p *AzureDevOpsHostingRepository) toEntity(repo *Repository, name string) *entities.Repository {
	entity := &entities.Repository{
		Name:         name,
		Organization: p.organization,
		Project:      p.project,
		RemoteURL:    p.fallbackCloneURL(name),
		ProviderName: providerName,
	}
	if repo == nil {
		return entity
	}

	entity.ID = repo.ID
	entity.DefaultBranch = repo.DefaultBranch
	entity.SSHURL = repo.SSHURL
	if repo.RemoteURL != "" {
		entity.RemoteURL = stripUserInfo(repo.RemoteURL)
	}
	return entity
}

// fallbackCloneURL follows the "<host>/<org>/<project>/_git/<name>" layout.
func (p *AzureDevOpsHostingRepository) fallbackCloneURL(name string) string {
	return fmt.Sprintf("https://%s/%s/%s/_git/%s",
		strings.TrimSuffix(p.host, "/"), p.organization, url.PathEscape(p.project), url.PathEscape(name))
}

// stripUserInfo drops the "org@" prefix Azure DevOps puts in remote URLs.
func stripUserInfo(remoteURL string) string {
	parsed, err := url.Parse(remoteURL)
	if err != nil {
		return remoteURL
	}
	parsed.User = nil
	return parsed.String()
}
