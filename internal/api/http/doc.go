// Package http implements the JSON API over the filesystem provider and the
// service registry.
//
// Failures answer {"error", "kind"} and, for mutations, the operation
// outcome ("state", "residual"). StatusFor maps error kinds to status codes.
package http
