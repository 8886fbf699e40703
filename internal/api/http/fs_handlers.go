package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/confine/internal/providers/filesystem"
	"github.com/GriffinCanCode/confine/internal/shared/utils"
)

// ListRequest is the body of POST /fs/list.
type ListRequest struct {
	Root       string `json:"root"`
	Pattern    string `json:"pattern"`
	DetectMIME bool   `json:"detect_mime"`
}

// RenameRequest is the body of POST /fs/rename.
type RenameRequest struct {
	Root         string `json:"root"`
	RelativePath string `json:"relative_path"`
	NewName      string `json:"new_name"`
}

// DeleteRequest is the body of POST /fs/delete.
type DeleteRequest struct {
	Root         string `json:"root"`
	RelativePath string `json:"relative_path"`
}

// MoveRequest is the body of POST /fs/move.
type MoveRequest struct {
	Root          string `json:"root"`
	FromRelative  string `json:"from_relative"`
	ToRelativeDir string `json:"to_relative_dir"`
	CreateDir     bool   `json:"create_dir"`
}

// MkdirRequest is the body of POST /fs/mkdir.
type MkdirRequest struct {
	Root        string `json:"root"`
	RelativeDir string `json:"relative_dir"`
}

// validate runs each check in order and answers 400 on the first failure.
func validate(c *gin.Context, checks ...error) bool {
	for _, err := range checks {
		if err != nil {
			badRequest(c, err)
			return false
		}
	}
	return true
}

// Mounts lists candidate mount points
func (h *Handlers) Mounts(c *gin.Context) {
	mounts := h.fs.Mounts.List(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"mounts": mounts,
		"count":  len(mounts),
	})
}

// List lists regular files under a root
func (h *Handlers) List(c *gin.Context) {
	var req ListRequest
	if !bind(c, &req) {
		return
	}
	if !validate(c, utils.ValidateRoot(req.Root), utils.ValidatePattern(req.Pattern)) {
		return
	}

	files, err := h.fs.Directory.List(c.Request.Context(), req.Root, filesystem.ListOptions{
		Pattern:    req.Pattern,
		DetectMIME: req.DetectMIME,
	})
	if err != nil {
		writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"root":  req.Root,
		"files": files,
		"count": len(files),
	})
}

// Rename renames a file in place
func (h *Handlers) Rename(c *gin.Context) {
	var req RenameRequest
	if !bind(c, &req) {
		return
	}
	if !validate(c,
		utils.ValidateRoot(req.Root),
		utils.ValidatePath(req.RelativePath, "relative_path", true),
		utils.ValidateFileName(req.NewName),
	) {
		return
	}

	if err := h.fs.Operations.Rename(c.Request.Context(), req.Root, req.RelativePath, req.NewName); err != nil {
		writeError(c, err, &filesystem.Outcome{State: filesystem.StateUnchanged})
		return
	}
	c.JSON(http.StatusOK, filesystem.Outcome{State: filesystem.StateApplied})
}

// Delete removes a file
func (h *Handlers) Delete(c *gin.Context) {
	var req DeleteRequest
	if !bind(c, &req) {
		return
	}
	if !validate(c,
		utils.ValidateRoot(req.Root),
		utils.ValidatePath(req.RelativePath, "relative_path", true),
	) {
		return
	}

	if err := h.fs.Operations.Delete(c.Request.Context(), req.Root, req.RelativePath); err != nil {
		writeError(c, err, &filesystem.Outcome{State: filesystem.StateUnchanged})
		return
	}
	c.JSON(http.StatusOK, filesystem.Outcome{State: filesystem.StateApplied})
}

// Move moves a file into a directory
func (h *Handlers) Move(c *gin.Context) {
	var req MoveRequest
	if !bind(c, &req) {
		return
	}
	if !validate(c,
		utils.ValidateRoot(req.Root),
		utils.ValidatePath(req.FromRelative, "from_relative", true),
		utils.ValidatePath(req.ToRelativeDir, "to_relative_dir", false),
	) {
		return
	}

	outcome, err := h.fs.Operations.Move(c.Request.Context(), req.Root, req.FromRelative, req.ToRelativeDir, req.CreateDir)
	if err != nil {
		writeError(c, err, outcome)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// Mkdir creates a directory chain
func (h *Handlers) Mkdir(c *gin.Context) {
	var req MkdirRequest
	if !bind(c, &req) {
		return
	}
	if !validate(c,
		utils.ValidateRoot(req.Root),
		utils.ValidatePath(req.RelativeDir, "relative_dir", false),
	) {
		return
	}

	outcome, err := h.fs.Directory.CreateFolder(c.Request.Context(), req.Root, req.RelativeDir)
	if err != nil {
		writeError(c, err, outcome)
		return
	}
	c.JSON(http.StatusOK, outcome)
}
