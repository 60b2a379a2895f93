package bitbucket

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autosync/internal/domain/entities"
	"github.com/rios0rios0/autosync/internal/domain/repositories"
)

const (
	providerName   = "bitbucket"
	defaultAPIURL  = "https://api.bitbucket.org"
	defaultHost    = "bitbucket.org"
	tokenUsername  = "x-token-auth"
	requestTimeout = 30 * time.Second
)

type cloneLink struct {
	Name string `json:"name"`
	Href string `json:"href"`
}

type repositoryLinks struct {
	Clone []cloneLink `json:"clone"`
}

type repository struct {
	UUID  string          `json:"uuid"`
	Slug  string          `json:"slug"`
	Links repositoryLinks `json:"links"`
}

type createRepositoryRequest struct {
	SCM       string `json:"scm"`
	IsPrivate bool   `json:"is_private"`
}

// BitbucketHostingRepository implements repositories.HostingRepository for
// Bitbucket Cloud workspaces.
type BitbucketHostingRepository struct {
	settings   entities.ProviderSettings
	apiURL     string
	host       string
	httpClient *http.Client
}

// NewHostingRepository creates a Bitbucket provider for one settings entry.
// The namespace is the workspace slug.
func NewHostingRepository(settings entities.ProviderSettings) repositories.HostingRepository {
	apiURL := defaultAPIURL
	host := defaultHost
	if settings.Host != "" {
		apiURL = entities.BaseURL(settings.Host)
		host = entities.HostName(settings.Host)
	}

	return &BitbucketHostingRepository{
		settings:   settings,
		apiURL:     apiURL,
		host:       host,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

func (p *BitbucketHostingRepository) Name() string       { return providerName }
func (p *BitbucketHostingRepository) RemoteName() string { return p.settings.RemoteName() }

// Credentials uses the configured account name, or the access-token user when
// none is set.
func (p *BitbucketHostingRepository) Credentials() entities.Credentials {
	username := p.settings.Username
	if username == "" {
		username = tokenUsername
	}
	return entities.Credentials{Username: username, Token: p.settings.Token}
}

// EnsureRepository creates the repository in the workspace. Bitbucket answers
// 400 when the slug is taken, which is treated as "already exists".
func (p *BitbucketHostingRepository) EnsureRepository(
	ctx context.Context,
	name string,
) (*entities.Repository, error) {
	slug := strings.ToLower(name)
	endpoint := fmt.Sprintf("/2.0/repositories/%s/%s", url.PathEscape(p.settings.Namespace), url.PathEscape(slug))

	status, body, err := p.doRequest(ctx, http.MethodPost, endpoint, &createRepositoryRequest{
		SCM:       "git",
		IsPrivate: p.settings.Private,
	})
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusOK || status == http.StatusCreated:
		logger.Infof("[%s] Created repository %s/%s", providerName, p.settings.Namespace, slug)
		return p.toEntity(body, name, slug), nil
	case status == http.StatusBadRequest || status == http.StatusConflict:
		logger.Infof("[%s] Repository %s/%s already exists", providerName, p.settings.Namespace, slug)
	default:
		return nil, fmt.Errorf("%w: %s: unexpected status %d: %s",
			entities.ErrProviderTransport, providerName, status, strings.TrimSpace(string(body)))
	}

	getStatus, existing, getErr := p.doRequest(ctx, http.MethodGet, endpoint, nil)
	if getErr != nil || getStatus != http.StatusOK {
		logger.Debugf("[%s] Could not fetch %s/%s (status %d), using default clone URL: %v",
			providerName, p.settings.Namespace, slug, getStatus, getErr)
		return p.toEntity(nil, name, slug), nil
	}
	return p.toEntity(existing, name, slug), nil
}

func (p *BitbucketHostingRepository) toEntity(body []byte, name, slug string) *entities.Repository {
	entity := &entities.Repository{
		Name:         name,
		Organization: p.settings.Namespace,
		RemoteURL:    entities.FallbackCloneURL(p.host, p.settings.Namespace, slug),
		ProviderName: providerName,
	}
	if len(body) == 0 {
		return entity
	}

	var repo repository
	if err := json.Unmarshal(body, &repo); err != nil {
		logger.Debugf("[%s] Failed to decode repository %s: %v", providerName, slug, err)
		return entity
	}

	entity.ID = repo.UUID
	for _, link := range repo.Links.Clone {
		switch link.Name {
		case "https":
			entity.RemoteURL = stripUserInfo(link.Href)
		case "ssh":
			entity.SSHURL = link.Href
		}
	}
	return entity
}

// stripUserInfo drops the "user@" part Bitbucket embeds in HTTPS clone links.
func stripUserInfo(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	parsed.User = nil
	return parsed.String()
}

func (p *BitbucketHostingRepository) doRequest(
	ctx context.Context,
	method, endpoint string,
	payload any,
) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.apiURL+endpoint, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	// access tokens authenticate the REST API as bearer, app passwords need the account name
	if p.settings.Username == "" {
		req.Header.Set("Authorization", "Bearer "+p.settings.Token)
	} else {
		req.SetBasicAuth(p.settings.Username, p.settings.Token)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s: %w", entities.ErrProviderTransport, providerName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, body, nil
}
