package ugit

import "github.com/pkg/errors"

// Sentinel error kinds. Callers should compare with errors.Is: most
// errors this package returns wrap one of these with context via
// errors.Wrapf. Some do not, e.g. an empty UpdateRef value, a symbolic
// ref cycle, or FindRoot finding no repository.
var (
	// ErrObjectNotFound means the requested OID is absent from the store.
	ErrObjectNotFound = errors.New("object not found")
	// ErrTypeMismatch means an object's stored type differs from what
	// the caller expected.
	ErrTypeMismatch = errors.New("object type mismatch")
	// ErrCorruptObject means a tree or commit failed to parse.
	ErrCorruptObject = errors.New("corrupt object")
	// ErrUnknownRef means ResolveName exhausted every candidate.
	ErrUnknownRef = errors.New("unknown ref")
	// ErrNonFastForward means a push target diverged from the remote tip.
	ErrNonFastForward = errors.New("update is not a fast-forward")
	// ErrInvalidPath means a path component is ".", "..", or contains "/".
	ErrInvalidPath = errors.New("invalid path component")
	// ErrIOError wraps an otherwise-unclassified filesystem failure.
	ErrIOError = errors.New("i/o error")
)
