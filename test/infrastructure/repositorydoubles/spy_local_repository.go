//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rios0rios0/autosync/internal/domain/entities"
	"github.com/rios0rios0/autosync/internal/domain/repositories"
)

// SpyLocalRepository implements repositories.LocalRepository in memory.
// It models just enough state (metadata present, remotes, pending changes)
// for the syncer to run its full protocol against it.
type SpyLocalRepository struct {
	// --- state ---
	Initialized bool
	Remotes     map[string]string
	// Pending is what Status reports; Commit clears it.
	Pending entities.WorkingTreeStatus

	// --- failure injection ---
	InitErr    error
	StatusErr  error
	StageErr   error
	CommitErr  error
	DestroyErr error
	DropErr    error
	// PushErrs maps a remote label to the errors returned by successive
	// pushes to it. Once exhausted, pushes succeed.
	PushErrs map[string][]error
	// PanicOnStatus makes Status panic, simulating a programming error.
	PanicOnStatus bool

	// --- call tracking ---
	InitBranches   []string
	Commits        []string
	Pushes         []entities.PushInput
	DropCallCount  int
	StageCallCount int
	DestroyCount   int

	mu sync.Mutex
}

var _ repositories.LocalRepository = (*SpyLocalRepository)(nil)

// NewSpyLocalRepository creates a directory without git metadata.
func NewSpyLocalRepository() *SpyLocalRepository {
	return &SpyLocalRepository{Remotes: make(map[string]string)}
}

// WithPending marks paths as untracked so the next sync has changes to commit.
func (r *SpyLocalRepository) WithPending(paths ...string) *SpyLocalRepository {
	r.Pending.Untracked = append(r.Pending.Untracked, paths...)
	return r
}

// WithVersionControl marks the directory as already initialized with the given remotes.
func (r *SpyLocalRepository) WithVersionControl(remotes map[string]string) *SpyLocalRepository {
	r.Initialized = true
	for label, url := range remotes {
		r.Remotes[label] = url
	}
	return r
}

func (r *SpyLocalRepository) HasVersionControl() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Initialized
}

func (r *SpyLocalRepository) Init(branch string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.InitBranches = append(r.InitBranches, branch)
	if r.InitErr != nil {
		return r.InitErr
	}
	r.Initialized = true
	return nil
}

func (r *SpyLocalRepository) AddRemote(label, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.Initialized {
		return fmt.Errorf("add remote %q: repository not initialized", label)
	}
	r.Remotes[label] = url
	return nil
}

func (r *SpyLocalRepository) ListRemotes() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	labels := make([]string, 0, len(r.Remotes))
	for label := range r.Remotes {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels, nil
}

func (r *SpyLocalRepository) DropIndex() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.DropCallCount++
	return r.DropErr
}

func (r *SpyLocalRepository) Status() (entities.WorkingTreeStatus, error) {
	if r.PanicOnStatus {
		panic("status exploded")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Pending, r.StatusErr
}

func (r *SpyLocalRepository) StageAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.StageCallCount++
	return r.StageErr
}

func (r *SpyLocalRepository) Commit(message string, _ entities.AuthorSettings) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CommitErr != nil {
		return "", r.CommitErr
	}
	r.Commits = append(r.Commits, message)
	r.Pending = entities.WorkingTreeStatus{}
	return fmt.Sprintf("%040d", len(r.Commits)), nil
}

func (r *SpyLocalRepository) Push(_ context.Context, input entities.PushInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Pushes = append(r.Pushes, input)
	if _, ok := r.Remotes[input.RemoteName]; !ok {
		return &entities.PushError{
			RemoteName: input.RemoteName,
			Kind:       entities.PushFailedOther,
			Err:        fmt.Errorf("remote %q not found", input.RemoteName),
		}
	}

	queue := r.PushErrs[input.RemoteName]
	if len(queue) == 0 {
		return nil
	}
	r.PushErrs[input.RemoteName] = queue[1:]
	return queue[0]
}

func (r *SpyLocalRepository) Destroy() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.DestroyCount++
	if r.DestroyErr != nil {
		return r.DestroyErr
	}
	r.Initialized = false
	r.Remotes = make(map[string]string)
	return nil
}

// SpyLocalRepositoryFactory returns pre-registered spies keyed by directory path.
type SpyLocalRepositoryFactory struct {
	Repositories map[string]*SpyLocalRepository
	mu           sync.Mutex
}

var _ repositories.LocalRepositoryFactory = (*SpyLocalRepositoryFactory)(nil)

// NewSpyLocalRepositoryFactory creates an empty factory.
func NewSpyLocalRepositoryFactory() *SpyLocalRepositoryFactory {
	return &SpyLocalRepositoryFactory{Repositories: make(map[string]*SpyLocalRepository)}
}

// Register binds a spy to a directory path.
func (f *SpyLocalRepositoryFactory) Register(path string, repo *SpyLocalRepository) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Repositories[path] = repo
}

// Open returns the registered spy, or a fresh uninitialized one.
func (f *SpyLocalRepositoryFactory) Open(path string) repositories.LocalRepository {
	f.mu.Lock()
	defer f.mu.Unlock()

	repo, ok := f.Repositories[path]
	if !ok {
		repo = NewSpyLocalRepository()
		f.Repositories[path] = repo
	}
	return repo
}
