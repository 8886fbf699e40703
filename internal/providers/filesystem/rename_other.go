//go:build !linux

package filesystem

import (
	"errors"
	"syscall"
)

func renameNoReplace(oldpath, newpath string) error {
	return renameIfAbsent(oldpath, newpath)
}

func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}
