//go:build linux

package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMountBases(t *testing.T) {
	assert.Equal(t, []string{"/media", "/run/media/alice", "/mnt"}, defaultMountBases("alice"))
	assert.Equal(t, []string{"/media", "/run/media", "/mnt"}, defaultMountBases(""))
}

func TestMountOpsListConfiguredBases(t *testing.T) {
	base := canonicalTemp(t)
	require.NoError(t, os.MkdirAll(filepath.Join(base, "drive"), 0o755))

	m := &MountOps{FilesystemOps: &FilesystemOps{MountBases: []string{base}}}
	assert.Equal(t, []MountPoint{{Path: filepath.Join(base, "drive"), Label: "drive"}}, m.List(context.Background()))
}

func TestMountOpsListDefaultsNeverNil(t *testing.T) {
	m := &MountOps{FilesystemOps: &FilesystemOps{}}
	assert.NotNil(t, m.List(context.Background()))
}
