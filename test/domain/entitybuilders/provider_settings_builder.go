//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/autosync/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// ProviderSettingsBuilder helps create provider entries with a fluent interface.
type ProviderSettingsBuilder struct {
	*testkit.BaseBuilder
	providerType string
	token        string
	namespace    string
	remote       string
}

// NewProviderSettingsBuilder creates a GitHub entry with sensible defaults.
func NewProviderSettingsBuilder() *ProviderSettingsBuilder {
	return &ProviderSettingsBuilder{
		BaseBuilder:  testkit.NewBaseBuilder(),
		providerType: "github",
		token:        "test-token",
		namespace:    "alice",
	}
}

// WithType sets the provider type.
func (b *ProviderSettingsBuilder) WithType(providerType string) *ProviderSettingsBuilder {
	b.providerType = providerType
	return b
}

// WithToken sets the token.
func (b *ProviderSettingsBuilder) WithToken(token string) *ProviderSettingsBuilder {
	b.token = token
	return b
}

// WithNamespace sets the namespace.
func (b *ProviderSettingsBuilder) WithNamespace(namespace string) *ProviderSettingsBuilder {
	b.namespace = namespace
	return b
}

// WithRemote sets the git remote label.
func (b *ProviderSettingsBuilder) WithRemote(remote string) *ProviderSettingsBuilder {
	b.remote = remote
	return b
}

// Build creates the provider entry (satisfies testkit.Builder interface).
func (b *ProviderSettingsBuilder) Build() interface{} {
	return b.BuildProviderSettings()
}

// BuildProviderSettings creates the provider entry with a concrete return type.
func (b *ProviderSettingsBuilder) BuildProviderSettings() entities.ProviderSettings {
	return entities.ProviderSettings{
		Type:      b.providerType,
		Token:     b.token,
		Namespace: b.namespace,
		Remote:    b.remote,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ProviderSettingsBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.providerType = "github"
	b.token = "test-token"
	b.namespace = "alice"
	b.remote = ""
	return b
}

// Clone creates a deep copy of the ProviderSettingsBuilder.
func (b *ProviderSettingsBuilder) Clone() testkit.Builder {
	return &ProviderSettingsBuilder{
		BaseBuilder:  b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		providerType: b.providerType,
		token:        b.token,
		namespace:    b.namespace,
		remote:       b.remote,
	}
}
