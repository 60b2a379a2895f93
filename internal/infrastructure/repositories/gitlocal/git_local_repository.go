package gitlocal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autosync/internal/domain/entities"
	"github.com/rios0rios0/autosync/internal/domain/repositories"
)

// indexVersion is the on-disk version written when the index is emptied.
const indexVersion = 2

// rejectionMarkers are substrings of push errors that mean the remote holds
// history the local branch does not contain.
//
//nolint:gochecknoglobals // read-only lookup table
var rejectionMarkers = []string{
	"non-fast-forward",
	"fetch first",
	"some refs were not updated",
	"src refspec",
}

// GitLocalRepository implements repositories.LocalRepository with go-git.
type GitLocalRepository struct {
	path string
	fs   billy.Filesystem
}

// NewLocalRepository creates a LocalRepository for the working directory at path.
func NewLocalRepository(path string) *GitLocalRepository {
	return &GitLocalRepository{
		path: path,
		fs:   osfs.New(path),
	}
}

var _ repositories.LocalRepository = (*GitLocalRepository)(nil)

func (r *GitLocalRepository) HasVersionControl() bool {
	info, err := r.fs.Stat(git.GitDirName)
	return err == nil && info.IsDir()
}

func (r *GitLocalRepository) Init(branch string) error {
	_, err := git.PlainInitWithOptions(r.path, &git.PlainInitOptions{
		InitOptions: git.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName(branch),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize %q: %w", r.path, err)
	}
	return nil
}

// AddRemote registers the remote, replacing an existing one with the same label.
func (r *GitLocalRepository) AddRemote(label, url string) error {
	repo, err := r.open()
	if err != nil {
		return err
	}

	remoteConfig := &config.RemoteConfig{Name: label, URLs: []string{url}}
	_, err = repo.CreateRemote(remoteConfig)
	if errors.Is(err, git.ErrRemoteExists) {
		if deleteErr := repo.DeleteRemote(label); deleteErr != nil {
			return fmt.Errorf("failed to replace remote %q: %w", label, deleteErr)
		}
		_, err = repo.CreateRemote(remoteConfig)
	}
	if err != nil {
		return fmt.Errorf("failed to add remote %q: %w", label, err)
	}
	return nil
}

func (r *GitLocalRepository) ListRemotes() ([]string, error) {
	repo, err := r.open()
	if err != nil {
		return nil, err
	}

	remotes, err := repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("failed to list remotes: %w", err)
	}

	labels := make([]string, 0, len(remotes))
	for _, remote := range remotes {
		labels = append(labels, remote.Config().Name)
	}
	sort.Strings(labels)
	return labels, nil
}

// DropIndex replaces the index with an empty one. Tracked paths that now
// match an ignore rule drop out on the next StageAll.
func (r *GitLocalRepository) DropIndex() error {
	repo, err := r.open()
	if err != nil {
		return err
	}
	if setErr := repo.Storer.SetIndex(&index.Index{Version: indexVersion}); setErr != nil {
		return fmt.Errorf("failed to reset index: %w", setErr)
	}
	return nil
}

func (r *GitLocalRepository) Status() (entities.WorkingTreeStatus, error) {
	var result entities.WorkingTreeStatus

	worktree, err := r.worktree()
	if err != nil {
		return result, err
	}

	status, err := worktree.Status()
	if err != nil {
		return result, fmt.Errorf("failed to compute status: %w", err)
	}

	for path, file := range status {
		switch {
		case file.Worktree == git.Untracked || file.Staging == git.Added:
			result.Untracked = append(result.Untracked, path)
		case file.Worktree == git.Deleted || file.Staging == git.Deleted:
			result.Deleted = append(result.Deleted, path)
		case file.Worktree != git.Unmodified || file.Staging != git.Unmodified:
			result.Modified = append(result.Modified, path)
		}
	}

	sort.Strings(result.Untracked)
	sort.Strings(result.Modified)
	sort.Strings(result.Deleted)
	return result, nil
}

func (r *GitLocalRepository) StageAll() error {
	worktree, err := r.worktree()
	if err != nil {
		return err
	}
	if addErr := worktree.AddWithOptions(&git.AddOptions{All: true}); addErr != nil {
		return fmt.Errorf("failed to stage changes: %w", addErr)
	}
	return nil
}

func (r *GitLocalRepository) Commit(message string, author entities.AuthorSettings) (string, error) {
	worktree, err := r.worktree()
	if err != nil {
		return "", err
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  author.Name,
			Email: author.Email,
			When:  time.Now(),
		},
		AllowEmptyCommits: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}

	logger.Debugf("Committed %s in %q", hash.String(), r.path)
	return hash.String(), nil
}

// Push sends refs/heads/<branch> to the remote. An up-to-date remote is not an error.
func (r *GitLocalRepository) Push(ctx context.Context, input entities.PushInput) error {
	repo, err := r.open()
	if err != nil {
		return &entities.PushError{RemoteName: input.RemoteName, Kind: entities.PushFailedOther, Err: err}
	}

	ref := plumbing.NewBranchReferenceName(input.Branch)
	if _, refErr := repo.Reference(ref, true); refErr != nil {
		// go-git reports a refspec without local source as already up to date
		kind := entities.PushFailedOther
		if errors.Is(refErr, plumbing.ErrReferenceNotFound) {
			kind = entities.PushRejectedNonFastForward
		}
		return &entities.PushError{
			RemoteName: input.RemoteName,
			Kind:       kind,
			Err:        fmt.Errorf("refspec %s has no local source: %w", ref, refErr),
		}
	}

	refSpec := config.RefSpec(fmt.Sprintf("%s:%s", ref, ref))
	if input.Force {
		refSpec = "+" + refSpec
	}

	opts := &git.PushOptions{
		RemoteName: input.RemoteName,
		RefSpecs:   []config.RefSpec{refSpec},
		Force:      input.Force,
	}
	if input.Auth.Token != "" {
		opts.Auth = &githttp.BasicAuth{
			Username: input.Auth.Username,
			Password: input.Auth.Token,
		}
	}

	err = repo.PushContext(ctx, opts)
	if err == nil || errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}

	return &entities.PushError{
		RemoteName: input.RemoteName,
		Kind:       classifyPushError(err),
		Err:        err,
	}
}

// Destroy removes the .git directory, leaving the working files untouched.
func (r *GitLocalRepository) Destroy() error {
	if err := util.RemoveAll(r.fs, git.GitDirName); err != nil {
		return fmt.Errorf("failed to remove %q: %w", git.GitDirName, err)
	}
	return nil
}

func (r *GitLocalRepository) open() (*git.Repository, error) {
	repo, err := git.PlainOpen(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %q: %w", r.path, err)
	}
	return repo, nil
}

func (r *GitLocalRepository) worktree() (*git.Worktree, error) {
	repo, err := r.open()
	if err != nil {
		return nil, err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open worktree: %w", err)
	}
	return worktree, nil
}

// classifyPushError maps go-git and server-side rejections to a failure kind.
// A remote tip that is unknown locally is reported as a missing object.
func classifyPushError(err error) entities.PushFailureKind {
	if errors.Is(err, git.ErrNonFastForwardUpdate) || errors.Is(err, plumbing.ErrObjectNotFound) {
		return entities.PushRejectedNonFastForward
	}

	message := strings.ToLower(err.Error())
	for _, marker := range rejectionMarkers {
		if strings.Contains(message, marker) {
			return entities.PushRejectedNonFastForward
		}
	}
	return entities.PushFailedOther
}
