//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"time"

	"github.com/rios0rios0/autosync/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// SettingsBuilder helps create test settings with a fluent interface.
type SettingsBuilder struct {
	*testkit.BaseBuilder
	root      string
	branch    string
	exclude   []string
	workers   int
	timeout   time.Duration
	providers []entities.ProviderSettings
}

// NewSettingsBuilder creates a new settings builder with sensible defaults
// and no providers.
func NewSettingsBuilder() *SettingsBuilder {
	return &SettingsBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		root:        "/workspace",
		branch:      entities.DefaultBranch,
		workers:     entities.DefaultWorkers,
	}
}

// WithRoot sets the root directory.
func (b *SettingsBuilder) WithRoot(root string) *SettingsBuilder {
	b.root = root
	return b
}

// WithBranch sets the pushed branch.
func (b *SettingsBuilder) WithBranch(branch string) *SettingsBuilder {
	b.branch = branch
	return b
}

// WithExclude sets the excluded directory names.
func (b *SettingsBuilder) WithExclude(names ...string) *SettingsBuilder {
	b.exclude = names
	return b
}

// WithWorkers sets the worker pool size.
func (b *SettingsBuilder) WithWorkers(workers int) *SettingsBuilder {
	b.workers = workers
	return b
}

// WithTimeout sets the per-directory timeout.
func (b *SettingsBuilder) WithTimeout(timeout time.Duration) *SettingsBuilder {
	b.timeout = timeout
	return b
}

// WithProvider appends a provider entry.
func (b *SettingsBuilder) WithProvider(provider entities.ProviderSettings) *SettingsBuilder {
	b.providers = append(b.providers, provider)
	return b
}

// Build creates the settings (satisfies testkit.Builder interface).
func (b *SettingsBuilder) Build() interface{} {
	return b.BuildSettings()
}

// BuildSettings creates the settings with a concrete return type.
func (b *SettingsBuilder) BuildSettings() *entities.Settings {
	return &entities.Settings{
		Root:          b.root,
		Branch:        b.branch,
		CommitMessage: entities.DefaultCommitMessage,
		ResetMessage:  entities.DefaultResetMessage,
		Author: entities.AuthorSettings{
			Name:  entities.DefaultAuthorName,
			Email: entities.DefaultAuthorEmail,
		},
		Exclude:   append([]string(nil), b.exclude...),
		Workers:   b.workers,
		Timeout:   b.timeout,
		Providers: append([]entities.ProviderSettings(nil), b.providers...),
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *SettingsBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.root = "/workspace"
	b.branch = entities.DefaultBranch
	b.exclude = nil
	b.workers = entities.DefaultWorkers
	b.timeout = 0
	b.providers = nil
	return b
}

// Clone creates a deep copy of the SettingsBuilder.
func (b *SettingsBuilder) Clone() testkit.Builder {
	return &SettingsBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		root:        b.root,
		branch:      b.branch,
		exclude:     append([]string(nil), b.exclude...),
		workers:     b.workers,
		timeout:     b.timeout,
		providers:   append([]entities.ProviderSettings(nil), b.providers...),
	}
}
