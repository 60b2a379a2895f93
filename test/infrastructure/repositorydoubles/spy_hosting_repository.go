//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/autosync/internal/domain/entities"
	"github.com/rios0rios0/autosync/internal/domain/repositories"
)

// SpyHostingRepository implements repositories.HostingRepository as a configurable spy.
type SpyHostingRepository struct {
	// --- identity ---
	ProviderName string
	Remote       string
	Username     string
	Token        string

	// --- EnsureRepository ---
	// CloneURLPrefix is joined with the requested name to build the clone URL.
	CloneURLPrefix string
	EnsureErr      error
	EnsuredNames   []string

	mu sync.Mutex
}

var _ repositories.HostingRepository = (*SpyHostingRepository)(nil)

func (p *SpyHostingRepository) Name() string { return p.ProviderName }

func (p *SpyHostingRepository) RemoteName() string {
	if p.Remote != "" {
		return p.Remote
	}
	return p.ProviderName
}

func (p *SpyHostingRepository) Credentials() entities.Credentials {
	return entities.Credentials{Username: p.Username, Token: p.Token}
}

func (p *SpyHostingRepository) EnsureRepository(_ context.Context, name string) (*entities.Repository, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.EnsuredNames = append(p.EnsuredNames, name)
	if p.EnsureErr != nil {
		return nil, p.EnsureErr
	}
	return &entities.Repository{
		Name:         name,
		RemoteURL:    p.CloneURLPrefix + name + ".git",
		ProviderName: p.ProviderName,
	}, nil
}

// EnsureCallCount returns how many times EnsureRepository was invoked.
func (p *SpyHostingRepository) EnsureCallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.EnsuredNames)
}
