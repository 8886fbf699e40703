// Package filesystem provides root-confined file operations.
//
// Every operation takes a caller-selected root directory and paths relative
// to it. The root is canonicalized on each call and every resolved path must
// stay inside it after symlinks are followed.
//
// The package is organized into operation groups sharing one FilesystemOps:
//   - paths: Root canonicalization and the confinement checks
//   - directory: Recursive listing (fastwalk) and folder creation
//   - operations: Rename, delete and move of regular files
//   - mounts: Removable-media discovery
//   - provider: Registry tools over the groups above
//
// Failures are *Error values carrying a Kind; branch with errors.Is:
//
//	if errors.Is(err, filesystem.KindEscape) { ... }
//
// Move and CreateFolder also return an Outcome telling whether a failure
// left directories behind.
//
// Example Usage:
//
//	ops := &filesystem.FilesystemOps{Logger: logger}
//	dir := &filesystem.DirectoryOps{FilesystemOps: ops}
//	files, err := dir.List(ctx, "/media/usb", filesystem.ListOptions{Pattern: "**/*.jpg"})
package filesystem
