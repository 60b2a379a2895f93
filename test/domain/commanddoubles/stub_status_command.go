//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/autosync/internal/domain/commands"
	"github.com/rios0rios0/autosync/internal/domain/entities"
)

// StubStatusCommand is a stub implementation of commands.Status.
type StubStatusCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Reports          []entities.DirectoryReport
	LastDirectory    string
}

var _ commands.Status = (*StubStatusCommand)(nil)

func (s *StubStatusCommand) Execute(
	_ context.Context,
	_ *entities.Settings,
	directoryName string,
) ([]entities.DirectoryReport, error) {
	s.ExecuteCallCount++
	s.LastDirectory = directoryName
	return s.Reports, s.ExecuteErr
}
