package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autosync/internal/domain/entities"
	"github.com/rios0rios0/autosync/internal/domain/repositories"
)

// Sync is the interface for reconciling a single directory with its remotes.
type Sync interface {
	Execute(
		ctx context.Context,
		settings *entities.Settings,
		dir entities.Directory,
		providers []repositories.HostingRepository,
	) entities.SyncResult
}

// SyncCommand runs the reconcile-and-push protocol for one directory:
// bootstrap -> reindex -> decide -> commit -> push, with a one-shot
// destructive recovery when a remote rejects the push as non-fast-forward.
type SyncCommand struct {
	localFactory repositories.LocalRepositoryFactory
}

// NewSyncCommand creates a new SyncCommand.
func NewSyncCommand(localFactory repositories.LocalRepositoryFactory) *SyncCommand {
	return &SyncCommand{localFactory: localFactory}
}

// Execute reconciles dir with every provider, in the order given.
func (it *SyncCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	dir entities.Directory,
	providers []repositories.HostingRepository,
) entities.SyncResult {
	started := time.Now()
	result := it.reconcile(ctx, settings, dir, providers)
	result.Duration = time.Since(started)
	return result
}

func (it *SyncCommand) reconcile(
	ctx context.Context,
	settings *entities.Settings,
	dir entities.Directory,
	providers []repositories.HostingRepository,
) entities.SyncResult {
	repo := it.localFactory.Open(dir.Path)

	created, err := bootstrap(ctx, dir, repo, providers, settings.Branch)
	if err != nil {
		return failed(dir, err)
	}

	if dropErr := repo.DropIndex(); dropErr != nil {
		logger.Warnf("[%s] Failed to re-index, continuing with cached state: %v", dir.Name, dropErr)
	}

	if stageErr := repo.StageAll(); stageErr != nil {
		return failed(dir, fmt.Errorf("failed to stage changes: %w", stageErr))
	}

	status, err := repo.Status()
	if err != nil {
		return failed(dir, fmt.Errorf("failed to read status: %w", err))
	}

	if status.IsClean() {
		logger.Infof("[%s] Up to date, no changes to commit", dir.Name)
		return entities.SyncResult{Directory: dir.Name, Outcome: entities.OutcomeUpToDate, Created: created}
	}

	logger.Debugf(
		"[%s] %d added, %d modified, %d deleted",
		dir.Name, len(status.Untracked), len(status.Modified), len(status.Deleted),
	)

	if _, commitErr := repo.Commit(settings.CommitMessage, settings.Author); commitErr != nil {
		return failed(dir, fmt.Errorf("failed to commit: %w", commitErr))
	}

	var pushErrs []error
	for _, provider := range providers {
		pushErr := repo.Push(ctx, newPushInput(provider, settings.Branch, false))
		if pushErr == nil {
			logger.Debugf("[%s] Pushed %s to %s", dir.Name, settings.Branch, provider.RemoteName())
			continue
		}

		if entities.IsNonFastForward(pushErr) {
			logger.Warnf("[%s] Remote %s diverged, resetting: %v", dir.Name, provider.RemoteName(), pushErr)
			result := recoverHistory(ctx, settings, dir, repo, providers)
			result.Created = created
			return result
		}

		logger.Errorf("[%s] Push to %s failed: %v", dir.Name, provider.RemoteName(), pushErr)
		pushErrs = append(pushErrs, pushErr)
	}

	if len(pushErrs) > 0 {
		return failed(dir, errors.Join(pushErrs...))
	}

	logger.Infof("[%s] Changes pushed", dir.Name)
	return entities.SyncResult{Directory: dir.Name, Outcome: entities.OutcomePushed, Created: created}
}

// recoverHistory discards the local history, rebuilds the repository from the
// working files and force-pushes the single fresh commit to every provider.
func recoverHistory(
	ctx context.Context,
	settings *entities.Settings,
	dir entities.Directory,
	repo repositories.LocalRepository,
	providers []repositories.HostingRepository,
) entities.SyncResult {
	if err := repo.Destroy(); err != nil {
		return failed(dir, fmt.Errorf("%w: failed to remove git metadata: %w", entities.ErrRecoveryFailed, err))
	}

	if _, err := bootstrap(ctx, dir, repo, providers, settings.Branch); err != nil {
		return failed(dir, fmt.Errorf("%w: %w", entities.ErrRecoveryFailed, err))
	}

	if err := commitAll(repo, settings.ResetMessage, settings.Author); err != nil {
		return failed(dir, fmt.Errorf("%w: %w", entities.ErrRecoveryFailed, err))
	}

	var pushErrs []error
	for _, provider := range providers {
		if err := repo.Push(ctx, newPushInput(provider, settings.Branch, true)); err != nil {
			logger.Errorf("[%s] Forced push to %s failed: %v", dir.Name, provider.RemoteName(), err)
			pushErrs = append(pushErrs, err)
		}
	}

	if len(pushErrs) > 0 {
		return failed(dir, fmt.Errorf("%w: %w", entities.ErrRecoveryFailed, errors.Join(pushErrs...)))
	}

	logger.Infof("[%s] Reset and pushed cleanly", dir.Name)
	return entities.SyncResult{Directory: dir.Name, Outcome: entities.OutcomeResetAndPushed}
}

// bootstrap makes sure the directory has git metadata and one remote per
// provider. It returns true when the repository was initialized.
func bootstrap(
	ctx context.Context,
	dir entities.Directory,
	repo repositories.LocalRepository,
	providers []repositories.HostingRepository,
	branch string,
) (bool, error) {
	if !repo.HasVersionControl() {
		bindings, err := ensureBindings(ctx, dir, providers)
		if err != nil {
			return false, err
		}

		if initErr := repo.Init(branch); initErr != nil {
			return false, fmt.Errorf("failed to init repository: %w", initErr)
		}
		if addErr := addRemotes(repo, bindings); addErr != nil {
			return false, addErr
		}

		logger.Infof("[%s] Initialized repository with %d remote(s)", dir.Name, len(bindings))
		return true, nil
	}

	labels, err := repo.ListRemotes()
	if err != nil {
		return false, fmt.Errorf("failed to list remotes: %w", err)
	}

	registered := make(map[string]bool, len(labels))
	for _, label := range labels {
		registered[label] = true
	}

	var missing []repositories.HostingRepository
	for _, provider := range providers {
		if !registered[provider.RemoteName()] {
			missing = append(missing, provider)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}

	bindings, err := ensureBindings(ctx, dir, missing)
	if err != nil {
		return false, err
	}
	if addErr := addRemotes(repo, bindings); addErr != nil {
		return false, addErr
	}

	for _, binding := range bindings {
		logger.Infof("[%s] Added missing remote %s", dir.Name, binding.RemoteName)
	}
	return false, nil
}

func ensureBindings(
	ctx context.Context,
	dir entities.Directory,
	providers []repositories.HostingRepository,
) ([]entities.RemoteBinding, error) {
	bindings := make([]entities.RemoteBinding, 0, len(providers))
	for _, provider := range providers {
		remote, err := provider.EnsureRepository(ctx, dir.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to ensure %s repository: %w", provider.Name(), err)
		}
		bindings = append(bindings, entities.RemoteBinding{
			Directory:  dir.Name,
			RemoteName: provider.RemoteName(),
			CloneURL:   remote.RemoteURL,
		})
	}
	return bindings, nil
}

func addRemotes(repo repositories.LocalRepository, bindings []entities.RemoteBinding) error {
	for _, binding := range bindings {
		if err := repo.AddRemote(binding.RemoteName, binding.CloneURL); err != nil {
			return fmt.Errorf("failed to add remote %q: %w", binding.RemoteName, err)
		}
	}
	return nil
}

func commitAll(repo repositories.LocalRepository, message string, author entities.AuthorSettings) error {
	if err := repo.StageAll(); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	if _, err := repo.Commit(message, author); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func newPushInput(provider repositories.HostingRepository, branch string, force bool) entities.PushInput {
	return entities.PushInput{
		RemoteName: provider.RemoteName(),
		Branch:     branch,
		Force:      force,
		Auth:       provider.Credentials(),
	}
}

func failed(dir entities.Directory, err error) entities.SyncResult {
	logger.Errorf("[%s] Error: %v", dir.Name, err)
	return entities.NewFailedResult(dir.Name, err)
}
