//go:build unit

package azuredevops_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autosync/internal/domain/entities"
	"github.com/rios0rios0/autosync/internal/infrastructure/repositories/azuredevops"
)

func newSettings(host string) entities.ProviderSettings {
	return entities.ProviderSettings{
		Type:      "azuredevops",
		Token:     "ado-pat",
		Namespace: "contoso/platform",
		Host:      host,
	}
}

func projectHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("api-version") != "7.0" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	_, _ = w.Write([]byte(`{"id":"p-1","name":"platform"}`))
}

func TestAzureDevOpsHostingRepositoryEnsureRepository(t *testing.T) {
	t.Parallel()

	t.Run("should create the repository inside the project", func(t *testing.T) {
		t.Parallel()

		// given
		mux := http.NewServeMux()
		mux.HandleFunc("GET /contoso/_apis/projects/platform", projectHandler)
		mux.HandleFunc("POST /contoso/platform/_apis/git/repositories", func(w http.ResponseWriter, r *http.Request) {
			expected := "Basic " + base64.StdEncoding.EncodeToString([]byte(":ado-pat"))
			assert.Equal(t, expected, r.Header.Get("Authorization"))

			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "notes", body["name"])
			assert.Equal(t, map[string]any{"id": "p-1"}, body["project"])

			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"r-1","name":"notes","remoteUrl":"https://contoso@dev.azure.com/contoso/platform/_git/notes"}`))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		provider := azuredevops.NewHostingRepository(newSettings(server.URL))

		// when
		repo, err := provider.EnsureRepository(context.Background(), "notes")

		// then
		require.NoError(t, err)
		assert.Equal(t, "r-1", repo.ID)
		assert.Equal(t, "platform", repo.Project)
		assert.Equal(t, "https://dev.azure.com/contoso/platform/_git/notes", repo.RemoteURL)
	})

	t.Run("should read the existing repository on conflict", func(t *testing.T) {
		t.Parallel()

		// given
		mux := http.NewServeMux()
		mux.HandleFunc("GET /contoso/_apis/projects/platform", projectHandler)
		mux.HandleFunc("POST /contoso/platform/_apis/git/repositories", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"TF400948: A Git repository with the name notes already exists."}`))
		})
		mux.HandleFunc("GET /contoso/platform/_apis/git/repositories/notes", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"id":"r-1","name":"notes","remoteUrl":"https://dev.azure.com/contoso/platform/_git/notes"}`))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		provider := azuredevops.NewHostingRepository(newSettings(server.URL))

		// when
		repo, err := provider.EnsureRepository(context.Background(), "notes")

		// then
		require.NoError(t, err)
		assert.Equal(t, "r-1", repo.ID)
	})

	t.Run("should fall back to the conventional clone URL when the lookup fails", func(t *testing.T) {
		t.Parallel()

		// given
		mux := http.NewServeMux()
		mux.HandleFunc("GET /contoso/_apis/projects/platform", projectHandler)
		mux.HandleFunc("POST /contoso/platform/_apis/git/repositories", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusConflict)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		provider := azuredevops.NewHostingRepository(newSettings(server.URL))

		// when
		repo, err := provider.EnsureRepository(context.Background(), "notes")

		// then
		require.NoError(t, err)
		host := strings.TrimPrefix(server.URL, "http://")
		assert.Equal(t, "https://"+host+"/contoso/platform/_git/notes", repo.RemoteURL)
	})

	t.Run("should return a transport error when the project cannot be resolved", func(t *testing.T) {
		t.Parallel()

		// given
		mux := http.NewServeMux()
		mux.HandleFunc("GET /contoso/_apis/projects/platform", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		provider := azuredevops.NewHostingRepository(newSettings(server.URL))

		// when
		_, err := provider.EnsureRepository(context.Background(), "notes")

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrProviderTransport)
	})

	t.Run("should reject a namespace without a project", func(t *testing.T) {
		t.Parallel()

		// given
		settings := newSettings("http://127.0.0.1:1")
		settings.Namespace = "contoso"
		provider := azuredevops.NewHostingRepository(settings)

		// when
		_, err := provider.EnsureRepository(context.Background(), "notes")

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "organization/project")
	})
}

func TestAzureDevOpsHostingRepositoryCredentials(t *testing.T) {
	t.Parallel()

	// given
	provider := azuredevops.NewHostingRepository(newSettings(""))

	// when
	creds := provider.Credentials()

	// then
	assert.Equal(t, "pat", creds.Username)
	assert.Equal(t, "ado-pat", creds.Token)
	assert.Equal(t, "azuredevops", provider.Name())
}
