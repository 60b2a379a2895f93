package azuredevops

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/rios0rios0/autosync/internal/domain/entities"
)

const (
	apiVersion     = "7.0"
	requestTimeout = 30 * time.Second
)

// Client represents an Azure DevOps API client scoped to one organization.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Project is the subset of the project resource the provider needs.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Repository is the subset of the git repository resource the provider needs.
type Repository struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	RemoteURL     string `json:"remoteUrl"`
	SSHURL        string `json:"sshUrl"`
	DefaultBranch string `json:"defaultBranch"`
}

type projectReference struct {
	ID string `json:"id"`
}

type createRepositoryRequest struct {
	Name    string           `json:"name"`
	Project projectReference `json:"project"`
}

// apiError carries the status of a failed call so callers can tell conflicts apart.
type apiError struct {
	StatusCode int
	Body       string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// NewClient creates a new Azure DevOps client for "<host>/<organization>".
func NewClient(host, organization, pat string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(entities.BaseURL(host), "/") + "/" + url.PathEscape(organization),
		token:   pat,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// GetProject returns the project with the given name.
func (c *Client) GetProject(ctx context.Context, project string) (*Project, error) {
	endpoint := fmt.Sprintf("/_apis/projects/%s?api-version=%s", url.PathEscape(project), apiVersion)

	body, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var result Project
	if unmarshalErr := json.Unmarshal(body, &result); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to decode project: %w", unmarshalErr)
	}
	return &result, nil
}

// CreateRepository creates a git repository inside the project.
func (c *Client) CreateRepository(ctx context.Context, project *Project, name string) (*Repository, error) {
	endpoint := fmt.Sprintf("/%s/_apis/git/repositories?api-version=%s", url.PathEscape(project.Name), apiVersion)

	body, err := c.doRequest(ctx, http.MethodPost, endpoint, &createRepositoryRequest{
		Name:    name,
		Project: projectReference{ID: project.ID},
	})
	if err != nil {
		return nil, err
	}

	var result Repository
	if unmarshalErr := json.Unmarshal(body, &result); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to decode repository: %w", unmarshalErr)
	}
	return &result, nil
}

// GetRepository returns the repository with the given name inside the project.
func (c *Client) GetRepository(ctx context.Context, project, name string) (*Repository, error) {
	endpoint := fmt.Sprintf("/%s/_apis/git/repositories/%s?api-version=%s",
		url.PathEscape(project), url.PathEscape(name), apiVersion)

	body, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var result Repository
	if unmarshalErr := json.Unmarshal(body, &result); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to decode repository: %w", unmarshalErr)
	}
	return &result, nil
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Basic auth with an empty user and the PAT as password
	auth := base64.StdEncoding.EncodeToString([]byte(":" + c.token))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apiError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	return respBody, nil
}
