package entities

// WorkingTreeStatus lists the paths that differ between the worktree and HEAD.
type WorkingTreeStatus struct {
	Untracked []string
	Modified  []string
	Deleted   []string
}

// IsClean reports whether there is nothing to commit.
func (s WorkingTreeStatus) IsClean() bool {
	return len(s.Untracked) == 0 && len(s.Modified) == 0 && len(s.Deleted) == 0
}

// Count returns the total number of changed paths.
func (s WorkingTreeStatus) Count() int {
	return len(s.Untracked) + len(s.Modified) + len(s.Deleted)
}
