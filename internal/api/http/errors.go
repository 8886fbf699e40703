package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/confine/internal/providers/filesystem"
	"github.com/GriffinCanCode/confine/internal/shared/utils"
)

// StatusFor maps a filesystem error to an HTTP status code.
func StatusFor(err error) int {
	if errors.Is(err, filesystem.ErrDestinationExists) {
		return http.StatusConflict
	}
	switch filesystem.KindOf(err) {
	case filesystem.KindInvalidRoot, filesystem.KindInvalidArgument:
		return http.StatusBadRequest
	case filesystem.KindInvalidPath, filesystem.KindDestinationMissing:
		return http.StatusNotFound
	case filesystem.KindEscape:
		return http.StatusForbidden
	case filesystem.KindNotAFile:
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func kindOf(err error) string {
	if kind := filesystem.KindOf(err); kind != "" {
		return string(kind)
	}
	return "internal"
}

// writeError renders err as {error, kind} plus the outcome when one is given.
func writeError(c *gin.Context, err error, outcome *filesystem.Outcome) {
	body := gin.H{
		"error": err.Error(),
		"kind":  kindOf(err),
	}
	if outcome != nil {
		body["state"] = outcome.State
		if len(outcome.Residual) > 0 {
			body["residual"] = outcome.Residual
		}
	}
	_ = c.Error(err)
	c.JSON(StatusFor(err), body)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": err.Error(),
		"kind":  string(filesystem.KindInvalidArgument),
	})
}

// bind decodes a size-limited JSON body into v, answering 400 on failure.
func bind(c *gin.Context, v interface{}) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, utils.MaxBodySize)
	if err := c.ShouldBindJSON(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "request body too large",
				"kind":  string(filesystem.KindInvalidArgument),
			})
			return false
		}
		badRequest(c, err)
		return false
	}
	return true
}
