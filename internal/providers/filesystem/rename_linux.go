//go:build linux

package filesystem

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// renameNoReplace renames atomically without replacing an existing entry.
// Kernels or filesystems without RENAME_NOREPLACE fall back to
// renameIfAbsent.
func renameNoReplace(oldpath, newpath string) error {
	err := unix.Renameat2(unix.AT_FDCWD, oldpath, unix.AT_FDCWD, newpath, unix.RENAME_NOREPLACE)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.EEXIST):
		return ErrDestinationExists
	case errors.Is(err, unix.ENOSYS), errors.Is(err, unix.EINVAL):
		return renameIfAbsent(oldpath, newpath)
	}

	linkErr := &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: err}
	if errors.Is(err, unix.EXDEV) {
		return fmt.Errorf("%w: %w", ErrCrossDevice, linkErr)
	}
	return linkErr
}

func isCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}
