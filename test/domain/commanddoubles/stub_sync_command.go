//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"
	"time"

	"github.com/rios0rios0/autosync/internal/domain/commands"
	"github.com/rios0rios0/autosync/internal/domain/entities"
	"github.com/rios0rios0/autosync/internal/domain/repositories"
)

// StubSyncCommand is a stub implementation of commands.Sync. Outcomes are
// looked up by directory name; unknown directories are up to date.
type StubSyncCommand struct {
	Outcomes map[string]entities.SyncOutcome
	// Panics lists directories whose sync panics.
	Panics map[string]bool
	// Duration is reported by every result.
	Duration time.Duration

	mu        sync.Mutex
	Processed []string
	Providers [][]string
}

var _ commands.Sync = (*StubSyncCommand)(nil)

func (s *StubSyncCommand) Execute(
	_ context.Context,
	_ *entities.Settings,
	dir entities.Directory,
	providers []repositories.HostingRepository,
) entities.SyncResult {
	s.mu.Lock()
	s.Processed = append(s.Processed, dir.Name)
	labels := make([]string, 0, len(providers))
	for _, provider := range providers {
		labels = append(labels, provider.RemoteName())
	}
	s.Providers = append(s.Providers, labels)
	s.mu.Unlock()

	if s.Panics[dir.Name] {
		panic("sync exploded for " + dir.Name)
	}

	outcome, ok := s.Outcomes[dir.Name]
	if !ok {
		outcome = entities.OutcomeUpToDate
	}
	result := entities.SyncResult{Directory: dir.Name, Outcome: outcome, Duration: s.Duration}
	if outcome == entities.OutcomeFailed {
		result.Err = entities.ErrProviderTransport
	}
	return result
}
