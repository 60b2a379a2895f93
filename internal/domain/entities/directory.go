package entities

import "path/filepath"

// Directory is one unit of synchronization: an immediate subdirectory of the
// configured root. Its name doubles as the remote repository name.
type Directory struct {
	Name string
	Path string
}

// NewDirectory builds a Directory for the child name under root.
func NewDirectory(root, name string) Directory {
	return Directory{
		Name: name,
		Path: filepath.Join(root, name),
	}
}
