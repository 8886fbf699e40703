//go:build linux

package filesystem

import "path/filepath"

const mountsSupported = true

// defaultMountBases returns the directories desktop Linux mounts removable
// media under. The user segment is only appended when user is known.
func defaultMountBases(user string) []string {
	runMedia := "/run/media"
	if user != "" {
		runMedia = filepath.Join(runMedia, user)
	}
	return []string{"/media", runMedia, "/mnt"}
}
