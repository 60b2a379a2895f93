package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/autosync/internal/domain/entities"
	"github.com/rios0rios0/autosync/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/autosync/internal/infrastructure/repositories"
)

var errNoMatchingDirectory = errors.New("no directory matches the filter")

// Run is the interface for the run command (batch mode).
type Run interface {
	Execute(ctx context.Context, settings *entities.Settings, opts RunOptions) (*entities.RunSummary, error)
}

// RunOptions holds runtime options for a single run.
type RunOptions struct {
	Verbose       bool
	ProviderName  string        // If set, only sync to providers of this type or remote name
	DirectoryName string        // If set, only process this directory
	Workers       int           // Overrides settings.Workers when > 0
	Timeout       time.Duration // Overrides settings.Timeout when > 0
}

// RunCommand orchestrates a whole run:
// build providers -> discover directories -> sync each one in isolation.
type RunCommand struct {
	providerRegistry *infraRepos.ProviderRegistry
	workspace        repositories.WorkspaceRepository
	sync             Sync
}

// NewRunCommand creates a new RunCommand.
func NewRunCommand(
	providerRegistry *infraRepos.ProviderRegistry,
	workspace repositories.WorkspaceRepository,
	sync Sync,
) *RunCommand {
	return &RunCommand{
		providerRegistry: providerRegistry,
		workspace:        workspace,
		sync:             sync,
	}
}

// Execute syncs every selected directory. A failing directory never stops
// the others; failures are reported in the summary, not as an error.
func (it *RunCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts RunOptions,
) (*entities.RunSummary, error) {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	providerSettings := selectProviders(settings.Providers, opts.ProviderName)
	if len(providerSettings) == 0 {
		return nil, fmt.Errorf("%w: no provider matches %q", entities.ErrNoProviders, opts.ProviderName)
	}

	providers, err := it.providerRegistry.Build(providerSettings)
	if err != nil {
		return nil, err
	}

	all, err := it.workspace.ListDirectories(settings.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to list directories: %w", err)
	}

	dirs := selectDirectories(all, settings, opts.DirectoryName)
	if opts.DirectoryName != "" && len(dirs) == 0 {
		return nil, fmt.Errorf("%w: %q", errNoMatchingDirectory, opts.DirectoryName)
	}

	workers := settings.Workers
	if opts.Workers > 0 {
		workers = opts.Workers
	}
	timeout := settings.Timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	logger.Infof("Found %d directories in %q, syncing with %d provider(s) using %d worker(s)",
		len(dirs), settings.Root, len(providers), max(workers, 1))

	// each task owns its slot, so results keep discovery order
	results := make([]entities.SyncResult, len(dirs))

	var group errgroup.Group
	group.SetLimit(max(workers, 1))
	for i, dir := range dirs {
		group.Go(func() error {
			results[i] = it.syncIsolated(ctx, settings, dir, providers, timeout)
			return nil
		})
	}
	_ = group.Wait()

	summary := &entities.RunSummary{}
	var elapsed time.Duration
	for _, result := range results {
		summary.Add(result)
		elapsed += result.Duration
	}
	logger.Infof(
		"Run complete: %d directories processed, %d up to date, %d pushed, %d reset, %d failed (%s spent syncing)",
		summary.Total(),
		summary.Count(entities.OutcomeUpToDate),
		summary.Count(entities.OutcomePushed),
		summary.Count(entities.OutcomeResetAndPushed),
		summary.Count(entities.OutcomeFailed),
		elapsed.Round(time.Millisecond),
	)
	for _, result := range summary.Failed() {
		logger.Warnf("  [%s] %v", result.Directory, result.Err)
	}

	return summary, nil
}

// syncIsolated turns a panic inside one directory into a failed result.
func (it *RunCommand) syncIsolated(
	ctx context.Context,
	settings *entities.Settings,
	dir entities.Directory,
	providers []repositories.HostingRepository,
	timeout time.Duration,
) (result entities.SyncResult) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("unexpected panic: %v", r)
			logger.Errorf("[%s] Error: %v", dir.Name, err)
			result = entities.NewFailedResult(dir.Name, err)
		}
	}()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := ctx.Err(); err != nil {
		logger.Errorf("[%s] Error: %v", dir.Name, err)
		return entities.NewFailedResult(dir.Name, err)
	}

	result = it.sync.Execute(ctx, settings, dir, providers)
	logger.Debugf("[%s] Finished as %s in %s", dir.Name, result.Outcome, result.Duration.Round(time.Millisecond))
	return result
}

// selectProviders keeps the providers whose type or remote label equals name.
func selectProviders(all []entities.ProviderSettings, name string) []entities.ProviderSettings {
	if name == "" {
		return all
	}

	var selected []entities.ProviderSettings
	for _, provider := range all {
		if provider.Type == name || provider.RemoteName() == name {
			selected = append(selected, provider)
		}
	}
	return selected
}

func selectDirectories(all []entities.Directory, settings *entities.Settings, name string) []entities.Directory {
	selected := make([]entities.Directory, 0, len(all))
	for _, dir := range all {
		if name != "" && dir.Name != name {
			continue
		}
		if settings.IsExcluded(dir.Name) {
			logger.Debugf("[%s] Excluded by configuration", dir.Name)
			continue
		}
		selected = append(selected, dir)
	}
	return selected
}
