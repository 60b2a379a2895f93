package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autosync/internal/domain/entities"
	"github.com/rios0rios0/autosync/internal/domain/repositories"
)

// Status is the interface for the read-only status command.
type Status interface {
	Execute(ctx context.Context, settings *entities.Settings, directoryName string) ([]entities.DirectoryReport, error)
}

// StatusCommand inspects every directory without touching the network or
// the git metadata.
type StatusCommand struct {
	workspace    repositories.WorkspaceRepository
	localFactory repositories.LocalRepositoryFactory
}

// NewStatusCommand creates a new StatusCommand.
func NewStatusCommand(
	workspace repositories.WorkspaceRepository,
	localFactory repositories.LocalRepositoryFactory,
) *StatusCommand {
	return &StatusCommand{
		workspace:    workspace,
		localFactory: localFactory,
	}
}

// Execute returns one report per selected directory, in discovery order.
func (it *StatusCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	directoryName string,
) ([]entities.DirectoryReport, error) {
	all, err := it.workspace.ListDirectories(settings.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to list directories: %w", err)
	}

	dirs := selectDirectories(all, settings, directoryName)
	reports := make([]entities.DirectoryReport, 0, len(dirs))
	for _, dir := range dirs {
		reports = append(reports, it.inspect(settings, dir))
	}
	return reports, nil
}

func (it *StatusCommand) inspect(settings *entities.Settings, dir entities.Directory) entities.DirectoryReport {
	report := entities.DirectoryReport{Directory: dir.Name}
	repo := it.localFactory.Open(dir.Path)

	if !repo.HasVersionControl() {
		for _, provider := range settings.Providers {
			report.MissingRemotes = append(report.MissingRemotes, provider.RemoteName())
		}
		return report
	}
	report.HasVersionControl = true

	labels, err := repo.ListRemotes()
	if err != nil {
		report.Err = fmt.Errorf("failed to list remotes: %w", err)
		return report
	}
	registered := make(map[string]bool, len(labels))
	for _, label := range labels {
		registered[label] = true
	}
	for _, provider := range settings.Providers {
		if !registered[provider.RemoteName()] {
			report.MissingRemotes = append(report.MissingRemotes, provider.RemoteName())
		}
	}

	status, err := repo.Status()
	if err != nil {
		report.Err = fmt.Errorf("failed to read status: %w", err)
		return report
	}
	report.Changes = status.Count()

	logger.Debugf("[%s] %d change(s), %d missing remote(s)", dir.Name, report.Changes, len(report.MissingRemotes))
	return report
}
