package filesystem

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/confine/internal/shared/types"
)

// MountOps discovers removable and mounted storage a user may pick as a root.
type MountOps struct {
	*FilesystemOps
}

// GetTools returns mount discovery tool definitions
func (m *MountOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.mounts",
			Name:        "List Mounts",
			Description: "List candidate mount points under the platform's removable-media directories",
			Parameters:  []types.Parameter{},
			Returns:     "array",
		},
	}
}

// List returns the immediate subdirectories of every mount base. Bases that
// are missing or unreadable contribute nothing; discovery never fails.
func (m *MountOps) List(ctx context.Context) []MountPoint {
	done := m.track(OpMounts)
	defer done(nil)

	if !mountsSupported {
		return []MountPoint{}
	}

	bases := m.MountBases
	if len(bases) == 0 {
		bases = defaultMountBases(os.Getenv("USER"))
	}
	return scanMounts(m.log(), bases)
}

func scanMounts(logger *zap.Logger, bases []string) []MountPoint {
	mounts := []MountPoint{}
	for _, base := range bases {
		info, err := os.Stat(base)
		if err != nil || !info.IsDir() {
			continue
		}
		entries, err := os.ReadDir(base)
		if err != nil {
			logger.Debug("Skipping unreadable mount base", zap.String("base", base), zap.Error(err))
			continue
		}
		for _, entry := range entries {
			path := filepath.Join(base, entry.Name())
			if info, err := os.Stat(path); err != nil || !info.IsDir() {
				continue
			}
			mounts = append(mounts, MountPoint{Path: path, Label: entry.Name()})
		}
	}
	return mounts
}
