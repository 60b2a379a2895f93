package entities

import (
	"strings"

	gitforgeEntities "github.com/rios0rios0/gitforge/pkg/global/domain/entities"
)

// Repository is re-exported from gitforge.
type Repository = gitforgeEntities.Repository

// RemoteBinding pairs a local directory with one provider's remote identity.
// It is re-derived on every run and never persisted.
type RemoteBinding struct {
	Directory  string
	RemoteName string
	CloneURL   string
}

// FallbackCloneURL is the HTTPS clone URL used when a provider does not
// return one: https://<host>/<namespace>/<name>.git.
func FallbackCloneURL(host, namespace, name string) string {
	return "https://" + strings.TrimSuffix(HostName(host), "/") + "/" + namespace + "/" + name + ".git"
}

// HostName strips the scheme from a configured host, leaving "host[:port][/path]".
func HostName(host string) string {
	if _, rest, found := strings.Cut(host, "://"); found {
		return rest
	}
	return host
}

// BaseURL returns host as an absolute URL, defaulting the scheme to https.
func BaseURL(host string) string {
	if strings.Contains(host, "://") {
		return strings.TrimSuffix(host, "/")
	}
	return "https://" + strings.TrimSuffix(host, "/")
}
