package filesystem

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/confine/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/confine/internal/shared/id"
	"github.com/GriffinCanCode/confine/internal/shared/types"
)

// dirPerm is used for every directory this package creates.
const dirPerm = 0o755

// FileEntry is a snapshot of one regular file taken during a listing.
type FileEntry struct {
	Path         string `json:"path"`          // absolute, canonical
	RelativePath string `json:"relative_path"` // slash-separated, relative to the root
	Size         int64  `json:"size"`
	MIMEType     string `json:"mime_type,omitempty"`
}

// MountPoint is a candidate storage location found by mount discovery.
type MountPoint struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

// State tags how much of an operation reached the disk.
type State string

const (
	// StateApplied means the operation fully succeeded.
	StateApplied State = "applied"
	// StatePartial means some changes were made before the failure.
	StatePartial State = "partial"
	// StateUnchanged means the operation failed without changing anything.
	StateUnchanged State = "unchanged"
)

// Outcome reports the on-disk effect of a multi-step operation. Residual
// lists root-relative paths left behind by a partial failure.
type Outcome struct {
	State    State    `json:"state"`
	Residual []string `json:"residual,omitempty"`
}

func applied() *Outcome   { return &Outcome{State: StateApplied} }
func unchanged() *Outcome { return &Outcome{State: StateUnchanged} }

// FilesystemOps holds the settings shared by every operation group. The zero
// value is usable: no allowlist, default mount bases, no-op logger and no
// metrics.
type FilesystemOps struct {
	Logger  *zap.Logger
	Metrics *monitoring.Metrics

	// AllowedRoots, when non-empty, restricts which roots callers may open.
	AllowedRoots []string

	// MountBases overrides the platform default mount-point parents.
	MountBases []string
}

func (ops *FilesystemOps) log() *zap.Logger {
	if ops.Logger == nil {
		return zap.NewNop()
	}
	return ops.Logger
}

// openRoot canonicalizes root and applies the allowlist.
func (ops *FilesystemOps) openRoot(op, root string) (*Root, error) {
	r, err := OpenRoot(root)
	if err != nil {
		return nil, withOp(err, op)
	}
	if len(ops.AllowedRoots) == 0 {
		return r, nil
	}
	for _, allowed := range ops.AllowedRoots {
		canon, err := canonicalize(allowed)
		if err != nil {
			ops.log().Debug("skipping unresolvable allowed root",
				zap.String("allowed_root", allowed), zap.Error(err))
			continue
		}
		if isWithin(canon, r.Canonical) {
			return r, nil
		}
	}
	return nil, newError(op, root, KindInvalidRoot, ErrNotAllowed)
}

// track starts timing op and returns the function that records its result.
func (ops *FilesystemOps) track(op string, fields ...zap.Field) func(error) {
	start := time.Now()
	opID := id.NewOperationID()
	return func(err error) {
		duration := time.Since(start)
		fields = append(fields,
			zap.String("op", op),
			zap.Stringer("op_id", opID),
			zap.Duration("duration", duration))

		status := "success"
		if err != nil {
			status = string(KindOf(err))
			if status == "" {
				status = "error"
			}
		}
		ops.Metrics.RecordFSOperation(op, status, duration)

		switch {
		case err == nil:
			ops.log().Debug("Filesystem operation completed", fields...)
		case errors.Is(err, KindEscape):
			ops.Metrics.RecordEscape(op)
			ops.log().Warn("Rejected path outside root", append(fields, zap.Error(err))...)
		default:
			ops.log().Info("Filesystem operation failed", append(fields, zap.Error(err))...)
		}
	}
}

// Success helper
func Success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

// Failure helper
func Failure(message string) (*types.Result, error) {
	msg := message
	return &types.Result{Success: false, Error: &msg, ErrorKind: string(KindInvalidArgument)}, nil
}

// FailureFrom converts an operation error into a failed result, keeping the
// machine-readable kind next to the message.
func FailureFrom(err error, data map[string]interface{}) (*types.Result, error) {
	msg := err.Error()
	kind := KindOf(err)
	if kind == "" {
		kind = "internal"
	}
	return &types.Result{Success: false, Error: &msg, ErrorKind: string(kind), Data: data}, nil
}
