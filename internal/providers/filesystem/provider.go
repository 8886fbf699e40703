package filesystem

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/confine/internal/shared/types"
)

// Provider exposes the root-confined filesystem operations as registry
// tools.
type Provider struct {
	ops *FilesystemOps

	Directory  *DirectoryOps
	Operations *OperationsOps
	Mounts     *MountOps
}

// NewProvider wires every operation group to the shared ops. A nil ops uses
// the zero-value defaults.
func NewProvider(ops *FilesystemOps) *Provider {
	if ops == nil {
		ops = &FilesystemOps{}
	}
	return &Provider{
		ops:        ops,
		Directory:  &DirectoryOps{FilesystemOps: ops},
		Operations: &OperationsOps{FilesystemOps: ops},
		Mounts:     &MountOps{FilesystemOps: ops},
	}
}

// Definition returns service metadata with all module tools
func (p *Provider) Definition() types.Service {
	tools := []types.Tool{}
	tools = append(tools, p.Mounts.GetTools()...)
	tools = append(tools, p.Directory.GetTools()...)
	tools = append(tools, p.Operations.GetTools()...)

	return types.Service{
		ID:          "filesystem",
		Name:        "Filesystem Service",
		Description: "Root-confined file listing and management for user-selected folders and removable media",
		Category:    types.CategoryFilesystem,
		Capabilities: []string{
			"mounts", "list", "glob", "mime",
			"rename", "delete", "move", "mkdir",
		},
		Tools: tools,
	}
}

// Execute routes to appropriate module
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	if appCtx != nil && appCtx.RequestID != "" {
		p.ops.log().Debug("Executing filesystem tool",
			zap.String("tool", toolID), zap.String("request_id", appCtx.RequestID))
	}

	switch toolID {
	case "filesystem.mounts":
		return p.mounts(ctx)
	case "filesystem.list":
		return p.list(ctx, params)
	case "filesystem.rename":
		return p.rename(ctx, params)
	case "filesystem.delete":
		return p.delete(ctx, params)
	case "filesystem.move":
		return p.move(ctx, params)
	case "filesystem.mkdir":
		return p.mkdir(ctx, params)
	default:
		return Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

// requiredString reads a non-empty string parameter.
func requiredString(params map[string]interface{}, name string) (string, bool) {
	v, ok := params[name].(string)
	return v, ok && v != ""
}

// optionalString reads a string parameter that may be absent or empty.
func optionalString(params map[string]interface{}, name string) (string, bool) {
	v, present := params[name]
	if !present || v == nil {
		return "", true
	}
	s, ok := v.(string)
	return s, ok
}

func optionalBool(params map[string]interface{}, name string) (bool, bool) {
	v, present := params[name]
	if !present || v == nil {
		return false, true
	}
	b, ok := v.(bool)
	return b, ok
}

func outcomeData(o *Outcome) map[string]interface{} {
	data := map[string]interface{}{"state": string(o.State)}
	if len(o.Residual) > 0 {
		data["residual"] = o.Residual
	}
	return data
}

func (p *Provider) mounts(ctx context.Context) (*types.Result, error) {
	mounts := p.Mounts.List(ctx)
	return Success(map[string]interface{}{
		"mounts": mounts,
		"count":  len(mounts),
	})
}

func (p *Provider) list(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	root, ok := requiredString(params, "root")
	if !ok {
		return Failure("root parameter required")
	}
	pattern, ok := optionalString(params, "pattern")
	if !ok {
		return Failure("pattern must be a string")
	}
	detect, ok := optionalBool(params, "detect_mime")
	if !ok {
		return Failure("detect_mime must be a boolean")
	}

	files, err := p.Directory.List(ctx, root, ListOptions{Pattern: pattern, DetectMIME: detect})
	if err != nil {
		return FailureFrom(err, nil)
	}
	return Success(map[string]interface{}{
		"root":  root,
		"files": files,
		"count": len(files),
	})
}

func (p *Provider) rename(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	root, ok := requiredString(params, "root")
	if !ok {
		return Failure("root parameter required")
	}
	path, ok := requiredString(params, "relative_path")
	if !ok {
		return Failure("relative_path parameter required")
	}
	newName, ok := params["new_name"].(string)
	if !ok {
		return Failure("new_name parameter required")
	}

	if err := p.Operations.Rename(ctx, root, path, newName); err != nil {
		return FailureFrom(err, outcomeData(unchanged()))
	}
	return Success(map[string]interface{}{
		"renamed": true,
		"state":   string(StateApplied),
	})
}

func (p *Provider) delete(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	root, ok := requiredString(params, "root")
	if !ok {
		return Failure("root parameter required")
	}
	path, ok := requiredString(params, "relative_path")
	if !ok {
		return Failure("relative_path parameter required")
	}

	if err := p.Operations.Delete(ctx, root, path); err != nil {
		return FailureFrom(err, outcomeData(unchanged()))
	}
	return Success(map[string]interface{}{
		"deleted": true,
		"state":   string(StateApplied),
	})
}

func (p *Provider) move(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	root, ok := requiredString(params, "root")
	if !ok {
		return Failure("root parameter required")
	}
	from, ok := requiredString(params, "from_relative")
	if !ok {
		return Failure("from_relative parameter required")
	}
	toDir, ok := optionalString(params, "to_relative_dir")
	if !ok {
		return Failure("to_relative_dir must be a string")
	}
	createDir, ok := optionalBool(params, "create_dir")
	if !ok {
		return Failure("create_dir must be a boolean")
	}

	outcome, err := p.Operations.Move(ctx, root, from, toDir, createDir)
	if err != nil {
		return FailureFrom(err, outcomeData(outcome))
	}
	data := outcomeData(outcome)
	data["moved"] = true
	return Success(data)
}

func (p *Provider) mkdir(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	root, ok := requiredString(params, "root")
	if !ok {
		return Failure("root parameter required")
	}
	dir, ok := optionalString(params, "relative_dir")
	if !ok {
		return Failure("relative_dir must be a string")
	}

	outcome, err := p.Directory.CreateFolder(ctx, root, dir)
	if err != nil {
		return FailureFrom(err, outcomeData(outcome))
	}
	data := outcomeData(outcome)
	data["created"] = true
	return Success(data)
}
