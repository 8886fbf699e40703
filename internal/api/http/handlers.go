package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/confine/internal/api/middleware"
	"github.com/GriffinCanCode/confine/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/confine/internal/providers/filesystem"
	"github.com/GriffinCanCode/confine/internal/service"
	"github.com/GriffinCanCode/confine/internal/shared/types"
	"github.com/GriffinCanCode/confine/internal/shared/utils"
)

// Version is reported by the root endpoint.
const Version = "0.1.0"

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *service.Registry
	fs       *filesystem.Provider
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewHandlers creates a new handler set. fs serves the typed /fs routes and
// should also be registered in registry for /services/execute.
func NewHandlers(registry *service.Registry, fs *filesystem.Provider, metrics *monitoring.Metrics, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		registry: registry,
		fs:       fs,
		metrics:  metrics,
		logger:   logger,
	}
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "confine",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"service_registry": h.registry.Stats(),
		"metrics":          h.metrics.Snapshot(),
	})
}

// ListServices lists registered services. With ?q= the services are ranked
// against the query instead; ?limit= caps that ranking.
func (h *Handlers) ListServices(c *gin.Context) {
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil || limit <= 0 {
			badRequest(c, errors.New("limit must be a positive integer"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"services": h.registry.Discover(q, limit)})
		return
	}

	categoryStr := c.Query("category")

	var category *types.Category
	if categoryStr != "" {
		cat := types.Category(categoryStr)
		category = &cat
	}

	c.JSON(http.StatusOK, gin.H{
		"services": h.registry.List(category),
		"stats":    h.registry.Stats(),
	})
}

// ExecuteService executes a service tool. Tool-level failures are reported
// in the result body with status 200; only dispatch failures change the
// status code.
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if !bind(c, &req) {
		return
	}

	if err := utils.ValidateToolID(req.ToolID, "tool_id", true); err != nil {
		badRequest(c, err)
		return
	}

	clientIP := c.ClientIP()
	appCtx := &types.Context{
		RequestID: middleware.GetRequestID(c),
		ClientIP:  &clientIP,
	}

	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, appCtx)
	if err != nil {
		status := http.StatusInternalServerError
		kind := "internal"
		if result != nil {
			kind = result.ErrorKind
			switch kind {
			case "invalid_argument":
				status = http.StatusBadRequest
			case "not_found":
				status = http.StatusNotFound
			}
		}
		h.logger.Warn("Service execution failed",
			zap.String("tool_id", req.ToolID),
			zap.String("request_id", appCtx.RequestID),
			zap.Error(err))
		c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
		return
	}

	c.JSON(http.StatusOK, result)
}
