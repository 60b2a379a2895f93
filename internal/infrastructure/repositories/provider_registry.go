package repositories

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rios0rios0/autosync/internal/domain/entities"
	domainRepos "github.com/rios0rios0/autosync/internal/domain/repositories"
)

// ProviderFactory is a constructor function that creates a HostingRepository
// from one provider entry of the settings.
type ProviderFactory func(settings entities.ProviderSettings) domainRepos.HostingRepository

// ProviderRegistry manages all registered hosting provider implementations.
type ProviderRegistry struct {
	providers map[string]ProviderFactory
}

// NewProviderRegistry creates an empty provider registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]ProviderFactory),
	}
}

// Register adds a provider factory under the given type name (e.g. "github").
func (r *ProviderRegistry) Register(name string, factory ProviderFactory) {
	r.providers[name] = factory
}

// Get returns a configured provider instance for a single settings entry.
func (r *ProviderRegistry) Get(settings entities.ProviderSettings) (domainRepos.HostingRepository, error) {
	factory, ok := r.providers[settings.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)",
			entities.ErrUnknownProvider, settings.Type, strings.Join(r.Names(), ", "))
	}
	return factory(settings), nil
}

// Build instantiates every configured provider, preserving the configured
// order. Push order across remotes follows this order.
func (r *ProviderRegistry) Build(settings []entities.ProviderSettings) ([]domainRepos.HostingRepository, error) {
	providers := make([]domainRepos.HostingRepository, 0, len(settings))
	seen := make(map[string]bool, len(settings))

	for _, providerSettings := range settings {
		label := providerSettings.RemoteName()
		if seen[label] {
			return nil, fmt.Errorf("duplicate remote name %q", label)
		}
		seen[label] = true

		provider, err := r.Get(providerSettings)
		if err != nil {
			return nil, err
		}
		providers = append(providers, provider)
	}

	return providers, nil
}

// Names returns the sorted list of registered provider names.
func (r *ProviderRegistry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
