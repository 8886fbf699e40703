package filesystem_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/confine/internal/providers/filesystem"
)

func newOperations(t *testing.T) *filesystem.OperationsOps {
	return &filesystem.OperationsOps{FilesystemOps: newOps(t)}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestOperationsOpsGetTools(t *testing.T) {
	tools := newOperations(t).GetTools()

	ids := make([]string, len(tools))
	for i, tool := range tools {
		ids[i] = tool.ID
	}
	assert.Equal(t, []string{"filesystem.rename", "filesystem.delete", "filesystem.move"}, ids)
}

func TestRename(t *testing.T) {
	root := newRoot(t)
	writeFile(t, root, "docs/old.txt", 4)

	ops := newOperations(t)
	require.NoError(t, ops.Rename(context.Background(), root, "docs/old.txt", "new.txt"))

	assert.False(t, exists(filepath.Join(root, "docs", "old.txt")))
	assert.Equal(t, "xxxx", readFile(t, filepath.Join(root, "docs", "new.txt")))
}

func TestRenameSameNameIsNoop(t *testing.T) {
	root := newRoot(t)
	writeFile(t, root, "keep.txt", 1)

	require.NoError(t, newOperations(t).Rename(context.Background(), root, "keep.txt", "keep.txt"))
	assert.True(t, exists(filepath.Join(root, "keep.txt")))
}

func TestRenameRefusesOverwrite(t *testing.T) {
	root := newRoot(t)
	writeFile(t, root, "a.txt", 1)
	writeFile(t, root, "b.txt", 2)

	err := newOperations(t).Rename(context.Background(), root, "a.txt", "b.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, filesystem.KindRenameFailed)
	assert.ErrorIs(t, err, filesystem.ErrDestinationExists)

	assert.Equal(t, "x", readFile(t, filepath.Join(root, "a.txt")))
	assert.Equal(t, "xx", readFile(t, filepath.Join(root, "b.txt")))
}

func TestRenameRejections(t *testing.T) {
	base := newRoot(t)
	root := mkdir(t, base, "root")
	writeFile(t, root, "f.txt", 1)
	mkdir(t, root, "folder")
	outside := writeFile(t, base, "outside.txt", 1)
	symlink(t, outside, filepath.Join(root, "link.txt"))

	tests := []struct {
		name    string
		path    string
		newName string
		kind    filesystem.Kind
	}{
		{"directory", "folder", "renamed", filesystem.KindNotAFile},
		{"root itself", "", "renamed", filesystem.KindNotAFile},
		{"missing", "nope.txt", "renamed", filesystem.KindInvalidPath},
		{"escape source", "../outside.txt", "renamed", filesystem.KindEscape},
		{"symlink out of root", "link.txt", "renamed", filesystem.KindEscape},
		{"parent name", "f.txt", "..", filesystem.KindEscape},
		{"traversal name", "f.txt", "../evil.txt", filesystem.KindEscape},
		{"dot name", "f.txt", ".", filesystem.KindInvalidPath},
		{"empty name", "f.txt", "", filesystem.KindInvalidPath},
		{"nested name", "f.txt", "sub/evil.txt", filesystem.KindInvalidPath},
		{"nul in name", "f.txt", "a\x00b", filesystem.KindInvalidPath},
	}
	ops := newOperations(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ops.Rename(context.Background(), root, tt.path, tt.newName)
			require.Error(t, err)
			assert.Equal(t, tt.kind, filesystem.KindOf(err))
		})
	}

	assert.True(t, exists(filepath.Join(root, "f.txt")))
	assert.True(t, exists(filepath.Join(root, "folder")))
	assert.True(t, exists(outside))
	assert.False(t, exists(filepath.Join(base, "evil.txt")))
}

func TestDelete(t *testing.T) {
	root := newRoot(t)
	path := writeFile(t, root, "a/x.txt", 1)

	require.NoError(t, newOperations(t).Delete(context.Background(), root, "a/x.txt"))
	assert.False(t, exists(path))
	assert.True(t, exists(filepath.Join(root, "a")))
}

func TestDeleteRejections(t *testing.T) {
	base := newRoot(t)
	root := mkdir(t, base, "root")
	mkdir(t, root, "dir")
	outside := writeFile(t, base, "outside.txt", 1)

	ops := newOperations(t)
	ctx := context.Background()

	err := ops.Delete(ctx, root, "dir")
	assert.ErrorIs(t, err, filesystem.KindNotAFile)
	assert.True(t, exists(filepath.Join(root, "dir")))

	err = ops.Delete(ctx, root, "../outside.txt")
	assert.ErrorIs(t, err, filesystem.KindEscape)
	assert.True(t, exists(outside))

	err = ops.Delete(ctx, root, "missing.txt")
	assert.ErrorIs(t, err, filesystem.KindInvalidPath)

	err = ops.Delete(ctx, filepath.Join(base, "nope"), "x.txt")
	assert.ErrorIs(t, err, filesystem.KindInvalidRoot)
}

func TestMoveIntoExistingDirectory(t *testing.T) {
	root := newRoot(t)
	writeFile(t, root, "inbox/photo.jpg", 3)
	mkdir(t, root, "archive")

	outcome, err := newOperations(t).Move(context.Background(), root, "inbox/photo.jpg", "archive", false)
	require.NoError(t, err)
	assert.Equal(t, filesystem.StateApplied, outcome.State)

	assert.False(t, exists(filepath.Join(root, "inbox", "photo.jpg")))
	assert.Equal(t, "xxx", readFile(t, filepath.Join(root, "archive", "photo.jpg")))
}

func TestMoveToRootAliases(t *testing.T) {
	for _, dest := range []string{"", ".", "/", "  "} {
		t.Run(dest, func(t *testing.T) {
			root := newRoot(t)
			writeFile(t, root, "a/x.txt", 1)

			outcome, err := newOperations(t).Move(context.Background(), root, "a/x.txt", dest, false)
			require.NoError(t, err)
			assert.Equal(t, filesystem.StateApplied, outcome.State)
			assert.True(t, exists(filepath.Join(root, "x.txt")))
		})
	}
}

func TestMoveLeadingSeparatorIsRootRelative(t *testing.T) {
	root := newRoot(t)
	writeFile(t, root, "x.txt", 1)
	mkdir(t, root, "dest")

	_, err := newOperations(t).Move(context.Background(), root, "x.txt", "/dest", false)
	require.NoError(t, err)
	assert.True(t, exists(filepath.Join(root, "dest", "x.txt")))
}

func TestMoveSameDirectoryIsNoop(t *testing.T) {
	root := newRoot(t)
	writeFile(t, root, "d/x.txt", 1)

	outcome, err := newOperations(t).Move(context.Background(), root, "d/x.txt", "d", false)
	require.NoError(t, err)
	assert.Equal(t, filesystem.StateApplied, outcome.State)
	assert.True(t, exists(filepath.Join(root, "d", "x.txt")))
}

func TestMoveMissingDestination(t *testing.T) {
	root := newRoot(t)
	src := writeFile(t, root, "x.txt", 1)

	outcome, err := newOperations(t).Move(context.Background(), root, "x.txt", "new/dir", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, filesystem.KindDestinationMissing)
	assert.Equal(t, filesystem.StateUnchanged, outcome.State)

	assert.True(t, exists(src))
	assert.False(t, exists(filepath.Join(root, "new")))
	info, err := os.Stat(filepath.Join(root, "file.txt"))
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())
}

func TestMoveCreatesDestination(t *testing.T) {
	root := newRoot(t)
	writeFile(t, root, "x.txt", 1)

	outcome, err := newOperations(t).Move(context.Background(), root, "x.txt", "new/dir", true)
	require.NoError(t, err)
	assert.Equal(t, filesystem.StateApplied, outcome.State)
	assert.True(t, exists(filepath.Join(root, "new", "dir", "x.txt")))
}

func TestMoveRefusesOverwrite(t *testing.T) {
	root := newRoot(t)
	writeFile(t, root, "x.txt", 1)
	writeFile(t, root, "dest/x.txt", 2)

	outcome, err := newOperations(t).Move(context.Background(), root, "x.txt", "dest", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, filesystem.KindMoveFailed)
	assert.ErrorIs(t, err, filesystem.ErrDestinationExists)
	assert.Equal(t, filesystem.StateUnchanged, outcome.State)

	assert.Equal(t, "x", readFile(t, filepath.Join(root, "x.txt")))
	assert.Equal(t, "xx", readFile(t, filepath.Join(root, "dest", "x.txt")))
}

func TestMoveDestinationIsFile(t *testing.T) {
	root := newRoot(t)
	writeFile(t, root, "x.txt", 1)
	writeFile(t, root, "notdir", 1)

	_, err := newOperations(t).Move(context.Background(), root, "x.txt", "notdir", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, filesystem.KindMoveFailed)
	assert.ErrorIs(t, err, filesystem.ErrNotADirectory)
}

func TestMoveRejections(t *testing.T) {
	base := newRoot(t)
	root := mkdir(t, base, "root")
	writeFile(t, root, "x.txt", 1)
	writeFile(t, root, "file.txt", 1)
	mkdir(t, root, "folder")
	mkdir(t, base, "outside")
	symlink(t, filepath.Join(base, "outside"), filepath.Join(root, "out"))

	tests := []struct {
		name      string
		from      string
		to        string
		createDir bool
		kind      filesystem.Kind
	}{
		{"source is directory", "folder", "", false, filesystem.KindNotAFile},
		{"source escapes", "../outside", "", false, filesystem.KindEscape},
		{"destination escapes lexically", "x.txt", "../../etc", false, filesystem.KindEscape},
		{"destination escapes lexically with create", "x.txt", "../evil", true, filesystem.KindEscape},
		{"destination symlink outside", "x.txt", "out", false, filesystem.KindEscape},
		{"create under outside symlink", "x.txt", "out/new", true, filesystem.KindEscape},
		{"create with inner traversal", "x.txt", "folder/../new", true, filesystem.KindEscape},
		{"destination under a regular file", "x.txt", "file.txt/sub", false, filesystem.KindDestinationMissing},
		{"create under a regular file", "x.txt", "file.txt/sub", true, filesystem.KindCreateFailed},
	}
	ops := newOperations(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := ops.Move(context.Background(), root, tt.from, tt.to, tt.createDir)
			require.Error(t, err)
			assert.Equal(t, tt.kind, filesystem.KindOf(err))
			assert.Equal(t, filesystem.StateUnchanged, outcome.State)
		})
	}

	assert.True(t, exists(filepath.Join(root, "x.txt")))
	assert.False(t, exists(filepath.Join(base, "outside", "x.txt")))
	assert.False(t, exists(filepath.Join(base, "outside", "new")))
	assert.False(t, exists(filepath.Join(root, "new")))
}
