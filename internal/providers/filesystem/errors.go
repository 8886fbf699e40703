package filesystem

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can branch on it without parsing
// messages. The string value is the stable wire code.
type Kind string

const (
	KindInvalidRoot        Kind = "invalid_root"
	KindInvalidPath        Kind = "invalid_path"
	KindEscape             Kind = "escape"
	KindNotAFile           Kind = "not_a_file"
	KindDestinationMissing Kind = "destination_missing"
	KindCreateFailed       Kind = "create_failed"
	KindRenameFailed       Kind = "rename_failed"
	KindDeleteFailed       Kind = "delete_failed"
	KindMoveFailed         Kind = "move_failed"
	KindInvalidArgument    Kind = "invalid_argument"
)

// Error implements error so a Kind can be used as an errors.Is target.
func (k Kind) Error() string {
	return string(k)
}

var (
	// ErrTraversal marks a path that contains ".." where none is allowed.
	ErrTraversal = errors.New("path contains traversal segment")

	// ErrOutsideRoot marks a resolved path that is not below the root.
	ErrOutsideRoot = errors.New("path escapes selected root")

	// ErrNotAllowed marks a root outside every configured allowed root.
	ErrNotAllowed = errors.New("root is not in the allowed list")

	// ErrInvalidName marks a file name that is not a single path element.
	ErrInvalidName = errors.New("name must be a single path element")

	// ErrDestinationExists marks a rename or move onto an existing entry.
	ErrDestinationExists = errors.New("destination already exists")

	// ErrCrossDevice marks a move between two filesystems.
	ErrCrossDevice = errors.New("source and destination are on different devices")

	// ErrNotADirectory marks a move destination that exists but is not a directory.
	ErrNotADirectory = errors.New("destination is not a directory")

	errNotRegular = errors.New("target is not a regular file")
)

// Error wraps a failure with the operation, the caller-supplied path and
// its Kind.
type Error struct {
	Op   string // Operation that failed (e.g., "rename", "list")
	Path string // Path as supplied by the caller
	Kind Kind
	Err  error // Underlying error
}

// Error implements the error interface, providing a formatted error message
func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap implements error unwrapping for the errors.Is/As functions
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is this error's Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

func newError(op, path string, kind Kind, err error) *Error {
	return &Error{Op: op, Path: path, Kind: kind, Err: err}
}

// KindOf returns the Kind carried by err, or "" when err is nil or did not
// come from this package.
func KindOf(err error) Kind {
	var fsErr *Error
	if errors.As(err, &fsErr) {
		return fsErr.Kind
	}
	return ""
}

// Common operation names for consistent logging and error reporting
const (
	OpOpenRoot = "open_root"
	OpResolve  = "resolve"
	OpList     = "list"
	OpRename   = "rename"
	OpDelete   = "delete"
	OpMove     = "move"
	OpMkdir    = "mkdir"
	OpMounts   = "mounts"
)
