package http

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts every handler on r.
func RegisterRoutes(r gin.IRouter, h *Handlers) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	fs := r.Group("/fs")
	fs.GET("/mounts", h.Mounts)
	fs.POST("/list", h.List)
	fs.POST("/rename", h.Rename)
	fs.POST("/delete", h.Delete)
	fs.POST("/move", h.Move)
	fs.POST("/mkdir", h.Mkdir)

	r.GET("/services", h.ListServices)
	r.POST("/services/execute", h.ExecuteService)
}
