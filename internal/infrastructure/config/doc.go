// Package config provides 12-factor configuration for the confine backend.
//
// Values are layered: built-in defaults, then an optional TOML or YAML file
// named by CONFINE_CONFIG, then environment variables. Server flags override
// all of them.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Logging: Log level and output format
//   - RateLimit: Per-IP and optional server-wide rate limits
//   - CORS: Allowed browser origins
//   - Filesystem: Allowed roots and mount discovery bases
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		return err
//	}
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - RATE_LIMIT_GLOBAL_RPS, RATE_LIMIT_GLOBAL_BURST (0 disables)
//   - CORS_ORIGINS
//   - CONFINE_ALLOWED_ROOTS, CONFINE_MOUNT_BASES (comma separated)
package config
