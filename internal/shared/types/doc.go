// Package types holds the wire types shared by the registry, the providers
// and the HTTP layer: service and tool definitions, the caller Context and
// the Result every tool returns. A failed Result carries a machine-readable
// ErrorKind next to its message.
package types
