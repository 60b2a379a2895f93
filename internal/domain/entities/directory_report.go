package entities

// DirectoryReport is the read-only view of a directory printed by the status command.
type DirectoryReport struct {
	Directory         string
	HasVersionControl bool
	MissingRemotes    []string
	Changes           int
	Err               error
}

// InSync reports whether the next sync would be a no-op for this directory.
func (r DirectoryReport) InSync() bool {
	return r.Err == nil && r.HasVersionControl && len(r.MissingRemotes) == 0 && r.Changes == 0
}
