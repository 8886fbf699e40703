package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/confine/internal/shared/types"
)

// DirectoryOps lists and creates directories under a root.
type DirectoryOps struct {
	*FilesystemOps
}

// ListOptions narrows or enriches a listing.
type ListOptions struct {
	// Pattern is a doublestar glob matched against each slash-separated
	// relative path. Empty matches everything.
	Pattern string

	// DetectMIME sniffs each file's content type.
	DetectMIME bool
}

// GetTools returns directory operation tool definitions
func (d *DirectoryOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.list",
			Name:        "List Files",
			Description: "Recursively list regular files under a root without following symlinks",
			Parameters: []types.Parameter{
				{Name: "root", Type: "string", Description: "Root directory", Required: true},
				{Name: "pattern", Type: "string", Description: "Glob over relative paths (e.g. **/*.txt)", Required: false},
				{Name: "detect_mime", Type: "boolean", Description: "Sniff content types", Required: false},
			},
			Returns: "array",
		},
		{
			ID:          "filesystem.mkdir",
			Name:        "Create Folder",
			Description: "Create a folder and any missing parents inside a root",
			Parameters: []types.Parameter{
				{Name: "root", Type: "string", Description: "Root directory", Required: true},
				{Name: "relative_dir", Type: "string", Description: "Folder path relative to root", Required: true},
			},
			Returns: "object",
		},
	}
}

// List walks root and returns every regular file below it, sorted by
// relative path. Symlinks are neither listed nor followed, including links
// to regular files inside the root; callers see each file once, under its
// real path. Subdirectories that cannot be read are skipped; an unreadable
// root is KindInvalidRoot.
func (d *DirectoryOps) List(ctx context.Context, root string, opts ListOptions) (entries []FileEntry, err error) {
	done := d.track(OpList, zap.String("root", root), zap.String("pattern", opts.Pattern))
	defer func() { done(err) }()

	if opts.Pattern != "" && !doublestar.ValidatePattern(opts.Pattern) {
		return nil, newError(OpList, opts.Pattern, KindInvalidPath, doublestar.ErrBadPattern)
	}

	r, err := d.openRoot(OpList, root)
	if err != nil {
		return nil, err
	}

	// fastwalk reports an unreadable root through the callback like any other
	// directory; probe it first so it is not mistaken for a skippable child.
	f, err := os.Open(r.Canonical)
	if err != nil {
		return nil, newError(OpList, root, KindInvalidRoot, err)
	}
	f.Close()

	var mu sync.Mutex
	entries = []FileEntry{}

	conf := fastwalk.Config{
		Follow: false,
	}

	walkErr := fastwalk.Walk(&conf, r.Canonical, func(path string, de fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			if path == r.Canonical {
				return err
			}
			d.log().Debug("Skipping unreadable entry", zap.String("path", path), zap.Error(err))
			return nil
		}
		if de == nil || !de.Type().IsRegular() {
			return nil
		}

		rel, relErr := filepath.Rel(r.Canonical, path)
		if relErr != nil {
			d.log().Warn("Relative path unavailable, using absolute path",
				zap.String("path", path), zap.Error(relErr))
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if opts.Pattern != "" {
			ok, matchErr := doublestar.Match(opts.Pattern, rel)
			if matchErr != nil || !ok {
				return nil
			}
		}

		entry := FileEntry{Path: path, RelativePath: rel}
		if info, infoErr := de.Info(); infoErr == nil {
			entry.Size = info.Size()
		}
		if opts.DetectMIME {
			if mt, mimeErr := mimetype.DetectFile(path); mimeErr == nil {
				entry.MIMEType = mt.String()
			}
		}

		mu.Lock()
		entries = append(entries, entry)
		mu.Unlock()
		return nil
	})
	if walkErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, newError(OpList, root, KindInvalidRoot, walkErr)
	}

	slices.SortFunc(entries, func(a, b FileEntry) int {
		return strings.Compare(a.RelativePath, b.RelativePath)
	})
	d.Metrics.ObserveListed(len(entries))
	return entries, nil
}

// CreateFolder creates relativeDir and any missing parents inside root. It
// is idempotent: an existing directory is success. On failure the returned
// outcome lists the directories that were created before the error.
func (d *DirectoryOps) CreateFolder(ctx context.Context, root, relativeDir string) (outcome *Outcome, err error) {
	done := d.track(OpMkdir, zap.String("root", root), zap.String("path", relativeDir))
	defer func() { done(err) }()

	r, err := d.openRoot(OpMkdir, root)
	if err != nil {
		return unchanged(), err
	}

	pending, err := r.ResolveForCreate(relativeDir)
	if err != nil {
		return unchanged(), withOp(err, OpMkdir)
	}

	if err := os.MkdirAll(pending.Target, dirPerm); err != nil {
		return r.outcomeFor(pending), newError(OpMkdir, relativeDir, KindCreateFailed, err)
	}

	// A racing swap of a created directory for a symlink is caught here.
	if _, err := r.Within(pending.Target); err != nil {
		if errors.Is(err, KindEscape) {
			return r.outcomeFor(pending), withOp(err, OpMkdir)
		}
		return r.outcomeFor(pending), newError(OpMkdir, relativeDir, KindCreateFailed, err)
	}
	return applied(), nil
}
