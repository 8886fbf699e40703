package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// Root is a caller-selected directory together with its canonical form.
// It is derived per request and never cached, so a root that moves or is
// replaced by a symlink between calls is re-checked every time.
type Root struct {
	Path      string // as supplied by the caller
	Canonical string // absolute, symlinks resolved
}

// PendingPath is a directory that may not exist yet, anchored on its nearest
// existing ancestor inside the root.
type PendingPath struct {
	Ancestor string   // canonical nearest existing ancestor
	Target   string   // Ancestor joined with the not-yet-existing tail
	Missing  []string // absent directories between Ancestor and Target, outermost first
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// isWithin reports whether p is root or lies below it. Both must be
// canonical. Comparison is per path element, so /data2 is not within /data.
func isWithin(root, p string) bool {
	if p == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(p, prefix)
}

// hasTraversal reports whether any element of rel is "..".
func hasTraversal(rel string) bool {
	for _, part := range strings.FieldsFunc(rel, isSeparator) {
		if part == ".." {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	return r == '/' || r == filepath.Separator
}

// withOp re-tags a resolver error with the operation that triggered it.
func withOp(err error, op string) error {
	var fsErr *Error
	if !errors.As(err, &fsErr) {
		return err
	}
	tagged := *fsErr
	tagged.Op = op
	return &tagged
}

// OpenRoot canonicalizes root. It fails with KindInvalidRoot when root is
// empty, cannot be resolved or is not a directory.
func OpenRoot(root string) (*Root, error) {
	if strings.TrimSpace(root) == "" {
		return nil, newError(OpOpenRoot, root, KindInvalidRoot, errors.New("root is required"))
	}
	canon, err := canonicalize(root)
	if err != nil {
		return nil, newError(OpOpenRoot, root, KindInvalidRoot, err)
	}
	info, err := os.Stat(canon)
	if err != nil {
		return nil, newError(OpOpenRoot, root, KindInvalidRoot, err)
	}
	if !info.IsDir() {
		return nil, newError(OpOpenRoot, root, KindInvalidRoot, fmt.Errorf("%s is not a directory", canon))
	}
	return &Root{Path: root, Canonical: canon}, nil
}

// Contains reports whether the canonical path p is inside the root.
func (r *Root) Contains(p string) bool {
	return isWithin(r.Canonical, p)
}

func (r *Root) join(rel string) string {
	return filepath.Join(r.Canonical, filepath.FromSlash(rel))
}

// relative renders p for reporting. It falls back to p itself.
func (r *Root) relative(p string) string {
	rel, err := filepath.Rel(r.Canonical, p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}

// Within canonicalizes candidate and checks that it stays inside the root.
// A relative candidate is taken relative to the root. The candidate must
// exist; a missing or dangling path is KindInvalidPath, a resolved path
// outside the root is KindEscape.
func (r *Root) Within(candidate string) (string, error) {
	display := candidate
	if !filepath.IsAbs(candidate) {
		candidate = r.join(candidate)
	}
	canon, err := canonicalize(candidate)
	if err != nil {
		return "", newError(OpResolve, display, KindInvalidPath, err)
	}
	if !r.Contains(canon) {
		return "", newError(OpResolve, display, KindEscape, ErrOutsideRoot)
	}
	return canon, nil
}

// Resolve joins rel onto the root and returns the canonical result. A rel
// that leaves the root lexically is rejected before touching the disk, so
// "../../etc" is an escape whether or not the target exists.
func (r *Root) Resolve(rel string) (string, error) {
	joined := r.join(rel)
	if !r.Contains(joined) {
		return "", newError(OpResolve, rel, KindEscape, ErrOutsideRoot)
	}
	canon, err := r.Within(joined)
	if err != nil {
		var fsErr *Error
		if errors.As(err, &fsErr) {
			fsErr.Path = rel
		}
		return "", err
	}
	return canon, nil
}

// ResolveForCreate plans the creation of directory rel. Any ".." element is
// refused outright. The nearest existing ancestor is canonicalized and must
// be inside the root; the remaining elements are joined onto it with
// securejoin so the target cannot be redirected by a symlink.
func (r *Root) ResolveForCreate(rel string) (*PendingPath, error) {
	if hasTraversal(rel) {
		return nil, newError(OpResolve, rel, KindEscape, ErrTraversal)
	}
	target := r.join(rel)
	if !r.Contains(target) {
		return nil, newError(OpResolve, rel, KindEscape, ErrOutsideRoot)
	}

	ancestor := target
	for {
		_, err := os.Lstat(ancestor)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR) {
			return nil, newError(OpResolve, rel, KindInvalidPath, err)
		}
		parent := filepath.Dir(ancestor)
		if parent == ancestor {
			return nil, newError(OpResolve, rel, KindInvalidPath, errors.New("no existing ancestor"))
		}
		ancestor = parent
	}

	canonAncestor, err := canonicalize(ancestor)
	if err != nil {
		return nil, newError(OpResolve, rel, KindInvalidPath, err)
	}
	if !r.Contains(canonAncestor) {
		return nil, newError(OpResolve, rel, KindEscape, ErrOutsideRoot)
	}

	tail, err := filepath.Rel(ancestor, target)
	if err != nil {
		return nil, newError(OpResolve, rel, KindInvalidPath, err)
	}
	if tail == "." {
		return &PendingPath{Ancestor: canonAncestor, Target: canonAncestor}, nil
	}

	joined, err := securejoin.SecureJoin(canonAncestor, tail)
	if err != nil {
		return nil, newError(OpResolve, rel, KindInvalidPath, err)
	}
	if !r.Contains(joined) {
		return nil, newError(OpResolve, rel, KindEscape, ErrOutsideRoot)
	}

	pending := &PendingPath{Ancestor: canonAncestor, Target: joined}
	cur := canonAncestor
	for _, part := range strings.Split(tail, string(filepath.Separator)) {
		cur = filepath.Join(cur, part)
		pending.Missing = append(pending.Missing, cur)
	}
	return pending, nil
}

// outcomeFor reports which of the directories planned in p now exist. It is
// used after a failure to describe what was left behind.
func (r *Root) outcomeFor(p *PendingPath) *Outcome {
	if p == nil {
		return unchanged()
	}
	var residual []string
	for _, dir := range p.Missing {
		if _, err := os.Lstat(dir); err == nil {
			residual = append(residual, r.relative(dir))
		}
	}
	if len(residual) == 0 {
		return unchanged()
	}
	return &Outcome{State: StatePartial, Residual: residual}
}
