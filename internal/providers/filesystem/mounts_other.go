//go:build !linux

package filesystem

const mountsSupported = false

func defaultMountBases(string) []string {
	return nil
}
