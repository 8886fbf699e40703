// Package middleware provides the gin middleware stack for the confine API.
//
//   - RequestID: accepts or generates a ULID request ID (X-Request-ID)
//   - AccessLog: one zap line per request, level chosen by status
//   - CORS: gin-contrib/cors with configurable origins
//   - RateLimit: per-IP token bucket with idle eviction
//   - GlobalRateLimit: a single bucket shared by every client
//
// Example Usage:
//
//	router.Use(middleware.RequestID())
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig().WithOrigins(cfg.CORS.AllowOrigins)))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
