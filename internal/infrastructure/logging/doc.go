// Package logging builds zap loggers for the server and the CLI.
//
// Production configuration writes JSON to stdout; development writes
// colored console lines. CLIConfig sends everything to stderr so command
// output on stdout stays parseable. Component returns a child logger tagged
// by name.
package logging
