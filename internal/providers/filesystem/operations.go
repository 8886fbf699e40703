package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/confine/internal/shared/types"
)

// OperationsOps handles single-file mutations (rename, delete, move)
type OperationsOps struct {
	*FilesystemOps
}

// GetTools returns file operation tool definitions
func (o *OperationsOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.rename",
			Name:        "Rename File",
			Description: "Rename a regular file in place",
			Parameters: []types.Parameter{
				{Name: "root", Type: "string", Description: "Root directory", Required: true},
				{Name: "relative_path", Type: "string", Description: "File path relative to root", Required: true},
				{Name: "new_name", Type: "string", Description: "New file name (single path element)", Required: true},
			},
			Returns: "boolean",
		},
		{
			ID:          "filesystem.delete",
			Name:        "Delete File",
			Description: "Delete a regular file",
			Parameters: []types.Parameter{
				{Name: "root", Type: "string", Description: "Root directory", Required: true},
				{Name: "relative_path", Type: "string", Description: "File path relative to root", Required: true},
			},
			Returns: "boolean",
		},
		{
			ID:          "filesystem.move",
			Name:        "Move File",
			Description: "Move a regular file into a directory inside the same root",
			Parameters: []types.Parameter{
				{Name: "root", Type: "string", Description: "Root directory", Required: true},
				{Name: "from_relative", Type: "string", Description: "File path relative to root", Required: true},
				{Name: "to_relative_dir", Type: "string", Description: "Destination directory relative to root (empty for root)", Required: true},
				{Name: "create_dir", Type: "boolean", Description: "Create the destination if missing", Required: false},
			},
			Returns: "object",
		},
	}
}

// moveFile performs the final step of Move.
var moveFile = renameNoReplace

// resolveFile resolves rel and requires it to be a regular file.
func (o *OperationsOps) resolveFile(r *Root, op, rel string) (string, error) {
	target, err := r.Resolve(rel)
	if err != nil {
		return "", withOp(err, op)
	}
	info, err := os.Lstat(target)
	if err != nil {
		return "", newError(op, rel, KindInvalidPath, err)
	}
	if !info.Mode().IsRegular() {
		return "", newError(op, rel, KindNotAFile, errNotRegular)
	}
	return target, nil
}

// checkName accepts a single path element and classifies anything else.
func checkName(name string) (Kind, error) {
	switch {
	case name == ".." || hasTraversal(name):
		return KindEscape, ErrTraversal
	case name == "" || name == ".":
		return KindInvalidPath, ErrInvalidName
	case strings.ContainsFunc(name, isSeparator), strings.ContainsRune(name, 0):
		return KindInvalidPath, ErrInvalidName
	}
	return "", nil
}

// Rename gives a regular file a new name in the same directory. Renaming
// onto an existing entry fails with ErrDestinationExists; renaming to the
// current name is a no-op.
func (o *OperationsOps) Rename(ctx context.Context, root, relativePath, newName string) (err error) {
	done := o.track(OpRename,
		zap.String("root", root),
		zap.String("path", relativePath),
		zap.String("new_name", newName))
	defer func() { done(err) }()

	r, err := o.openRoot(OpRename, root)
	if err != nil {
		return err
	}
	target, err := o.resolveFile(r, OpRename, relativePath)
	if err != nil {
		return err
	}
	if kind, nameErr := checkName(newName); nameErr != nil {
		return newError(OpRename, newName, kind, nameErr)
	}

	parent := filepath.Dir(target)
	if !r.Contains(parent) {
		return newError(OpRename, relativePath, KindEscape, ErrOutsideRoot)
	}
	dest := filepath.Join(parent, newName)
	if dest == target {
		return nil
	}

	if err := renameNoReplace(target, dest); err != nil {
		return newError(OpRename, relativePath, KindRenameFailed, err)
	}
	return nil
}

// Delete removes a regular file. Directories are refused with KindNotAFile.
func (o *OperationsOps) Delete(ctx context.Context, root, relativePath string) (err error) {
	done := o.track(OpDelete, zap.String("root", root), zap.String("path", relativePath))
	defer func() { done(err) }()

	r, err := o.openRoot(OpDelete, root)
	if err != nil {
		return err
	}
	target, err := o.resolveFile(r, OpDelete, relativePath)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil {
		return newError(OpDelete, relativePath, KindDeleteFailed, err)
	}
	return nil
}

// normalizeDestination maps "", "/" and "." to the root and strips leading
// separators so the remainder is always root-relative.
func normalizeDestination(dir string) string {
	d := strings.TrimSpace(dir)
	if d == "" || d == "/" || d == "." {
		return ""
	}
	return strings.TrimLeftFunc(d, isSeparator)
}

// Move relocates a regular file into toRelativeDir, keeping its name. With
// createDir the destination chain is created first; if the move then fails
// the outcome is partial and lists the directories left behind.
func (o *OperationsOps) Move(ctx context.Context, root, fromRelative, toRelativeDir string, createDir bool) (outcome *Outcome, err error) {
	done := o.track(OpMove,
		zap.String("root", root),
		zap.String("from", fromRelative),
		zap.String("to", toRelativeDir),
		zap.Bool("create_dir", createDir))
	defer func() { done(err) }()

	r, err := o.openRoot(OpMove, root)
	if err != nil {
		return unchanged(), err
	}
	src, err := o.resolveFile(r, OpMove, fromRelative)
	if err != nil {
		return unchanged(), err
	}

	destDir := r.Canonical
	var pending *PendingPath
	if destRel := normalizeDestination(toRelativeDir); destRel != "" {
		joined := r.join(destRel)
		if !r.Contains(joined) {
			return unchanged(), newError(OpMove, toRelativeDir, KindEscape, ErrOutsideRoot)
		}

		_, statErr := os.Stat(joined)
		switch {
		case statErr == nil:
			if destDir, err = r.Within(joined); err != nil {
				return unchanged(), withOp(err, OpMove)
			}
		case errors.Is(statErr, fs.ErrNotExist), errors.Is(statErr, syscall.ENOTDIR):
			// A path running through a regular file is as absent as a missing one.
			if !createDir {
				return unchanged(), newError(OpMove, toRelativeDir, KindDestinationMissing, statErr)
			}
			if pending, err = r.ResolveForCreate(destRel); err != nil {
				return unchanged(), withOp(err, OpMove)
			}
			if err := os.MkdirAll(pending.Target, dirPerm); err != nil {
				return r.outcomeFor(pending), newError(OpMove, toRelativeDir, KindCreateFailed, err)
			}
			if destDir, err = r.Within(pending.Target); err != nil {
				return r.outcomeFor(pending), withOp(err, OpMove)
			}
		default:
			return unchanged(), newError(OpMove, toRelativeDir, KindInvalidPath, statErr)
		}
	}

	info, err := os.Stat(destDir)
	if err != nil {
		return r.outcomeFor(pending), newError(OpMove, toRelativeDir, KindMoveFailed, err)
	}
	if !info.IsDir() {
		return r.outcomeFor(pending), newError(OpMove, toRelativeDir, KindMoveFailed, ErrNotADirectory)
	}

	dest := filepath.Join(destDir, filepath.Base(src))
	if dest == src {
		return applied(), nil
	}
	if err := moveFile(src, dest); err != nil {
		return r.outcomeFor(pending), newError(OpMove, fromRelative, KindMoveFailed, err)
	}
	return applied(), nil
}

// renameIfAbsent is the portable no-overwrite rename. The existence check
// and the rename are two steps, so a racing writer can still be replaced.
func renameIfAbsent(oldpath, newpath string) error {
	if _, err := os.Lstat(newpath); err == nil {
		return ErrDestinationExists
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.Rename(oldpath, newpath); err != nil {
		if isCrossDevice(err) {
			return fmt.Errorf("%w: %w", ErrCrossDevice, err)
		}
		return err
	}
	return nil
}
