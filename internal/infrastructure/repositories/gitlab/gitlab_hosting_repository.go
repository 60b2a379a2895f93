package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	logger "github.com/sirupsen/logrus"
	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/autosync/internal/domain/entities"
	"github.com/rios0rios0/autosync/internal/domain/repositories"
)

const (
	providerName = "gitlab"
	defaultHost  = "gitlab.com"
	pushUsername = "oauth2"
)

var errClientNotInitialized = errors.New("gitlab client not initialized")

// GitLabHostingRepository implements repositories.HostingRepository for GitLab.
type GitLabHostingRepository struct {
	settings entities.ProviderSettings
	client   *gl.Client
	host     string
}

// NewHostingRepository creates a GitLab provider for one settings entry.
func NewHostingRepository(settings entities.ProviderSettings) repositories.HostingRepository {
	host := defaultHost
	if settings.Host != "" {
		host = settings.Host
	}

	client, err := gl.NewClient(settings.Token, gl.WithBaseURL(entities.BaseURL(host)))
	if err != nil {
		logger.Warnf("[%s] Failed to create client: %v", providerName, err)
		client = nil
	}

	return &GitLabHostingRepository{
		settings: settings,
		client:   client,
		host:     entities.HostName(host),
	}
}

func (p *GitLabHostingRepository) Name() string       { return providerName }
func (p *GitLabHostingRepository) RemoteName() string { return p.settings.RemoteName() }

func (p *GitLabHostingRepository) Credentials() entities.Credentials {
	return entities.Credentials{Username: pushUsername, Token: p.settings.Token}
}

// EnsureRepository creates the project in the user namespace, or in the group
// when the namespace is one. A 400 or 409 means the path is already taken.
func (p *GitLabHostingRepository) EnsureRepository(
	ctx context.Context,
	name string,
) (*entities.Repository, error) {
	if p.client == nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrProviderTransport, errClientNotInitialized)
	}

	visibility := gl.PublicVisibility
	if p.settings.Private {
		visibility = gl.PrivateVisibility
	}
	opts := &gl.CreateProjectOptions{
		Name:       gl.Ptr(name),
		Path:       gl.Ptr(name),
		Visibility: gl.Ptr(visibility),
	}

	if p.settings.Organization {
		group, _, err := p.client.Groups.GetGroup(p.settings.Namespace, nil, gl.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: failed to resolve group %q: %w",
				entities.ErrProviderTransport, providerName, p.settings.Namespace, err)
		}
		opts.NamespaceID = gl.Ptr(group.ID)
	}

	project, resp, err := p.client.Projects.CreateProject(opts, gl.WithContext(ctx))
	if err == nil {
		logger.Infof("[%s] Created repository %s/%s", providerName, p.settings.Namespace, name)
		return p.toEntity(project, name), nil
	}

	if resp == nil || (resp.StatusCode != http.StatusBadRequest && resp.StatusCode != http.StatusConflict) {
		return nil, fmt.Errorf("%w: %s: %w", entities.ErrProviderTransport, providerName, err)
	}

	logger.Infof("[%s] Repository %s/%s already exists", providerName, p.settings.Namespace, name)

	existing, _, getErr := p.client.Projects.GetProject(
		p.settings.Namespace+"/"+name, nil, gl.WithContext(ctx),
	)
	if getErr != nil {
		logger.Debugf("[%s] Could not fetch %s/%s, using default clone URL: %v",
			providerName, p.settings.Namespace, name, getErr)
		return p.toEntity(nil, name), nil
	}
	return p.toEntity(existing, name), nil
}

func (p *GitLabHostingRepository) toEntity(project *gl.Project, name string) *entities.Repository {
	entity := &entities.Repository{
		Name:         name,
		Organization: p.settings.Namespace,
		RemoteURL:    entities.FallbackCloneURL(p.host, p.settings.Namespace, name),
		ProviderName: providerName,
	}
	if project == nil {
		return entity
	}

	entity.ID = strconv.FormatInt(project.ID, 10)
	entity.DefaultBranch = project.DefaultBranch
	entity.SSHURL = project.SSHURLToRepo
	if project.HTTPURLToRepo != "" {
		entity.RemoteURL = project.HTTPURLToRepo
	}
	return entity
}
