// Package service provides the registry that exposes providers as tools.
//
// Tools are addressed as "service.tool" (e.g. "filesystem.move"). The HTTP
// API's /services endpoints and the health report are backed by the
// registry.
//
// Example Usage:
//
//	registry := service.NewRegistry(metrics)
//	registry.Register(filesystem.NewProvider(ops))
//	result, err := registry.Execute(ctx, "filesystem.list", params, appCtx)
package service
