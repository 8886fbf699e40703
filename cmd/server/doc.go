// Command server runs the confine HTTP API.
//
// Configuration comes from defaults, the file named by CONFINE_CONFIG, the
// environment and finally these flags:
//
//	-port, -host, -log-level, -dev, -allowed-roots
//
// SIGINT and SIGTERM trigger a graceful shutdown.
package main
