package entities

import (
	"errors"
	"fmt"
)

// Credentials is the HTTPS basic-auth pair used to push to a provider.
type Credentials struct {
	Username string
	Token    string
}

// PushInput describes a single push of the local branch to one remote.
type PushInput struct {
	RemoteName string
	Branch     string
	Force      bool
	Auth       Credentials
}

// PushFailureKind distinguishes the push failures the syncer reacts to.
type PushFailureKind int

const (
	// PushFailedOther is any failure that recovery cannot fix (auth, network...).
	PushFailedOther PushFailureKind = iota
	// PushRejectedNonFastForward means the remote has history the local
	// branch does not descend from.
	PushRejectedNonFastForward
)

func (k PushFailureKind) String() string {
	switch k {
	case PushRejectedNonFastForward:
		return "non-fast-forward"
	case PushFailedOther:
		return "other"
	default:
		return "unknown"
	}
}

// PushError is returned by LocalRepository.Push.
type PushError struct {
	RemoteName string
	Kind       PushFailureKind
	Err        error
}

func (e *PushError) Error() string {
	return fmt.Sprintf("push to %q failed (%s): %v", e.RemoteName, e.Kind, e.Err)
}

func (e *PushError) Unwrap() error { return e.Err }

// IsNonFastForward reports whether err is a push rejection caused by diverged history.
func IsNonFastForward(err error) bool {
	var pushErr *PushError
	return errors.As(err, &pushErr) && pushErr.Kind == PushRejectedNonFastForward
}
