// Package server assembles the confine HTTP service: logger, metrics
// registry, filesystem provider, service registry, gin middleware and
// routes, wrapped in gzip compression.
package server
