// Package id generates the identifiers confine attaches to requests and
// filesystem operations.
//
// IDs are prefixed ULIDs (req_01H..., op_01H...): lexicographically sortable
// by creation time and readable in logs.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// RequestID identifies an API request
type RequestID string

// OperationID identifies a single filesystem operation in logs
type OperationID string

const (
	RequestPrefix   = "req"
	OperationPrefix = "op"
)

// maxExternalLength bounds caller-supplied request ids echoed back.
const maxExternalLength = 128

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source,
// for deterministic tests.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

// NewOperationID generates a new operation ID
func NewOperationID() OperationID {
	return OperationID(Default().GenerateWithPrefix(OperationPrefix))
}

func (id RequestID) String() string   { return string(id) }
func (id OperationID) String() string { return string(id) }

// IsValid checks if an ID string is a valid ULID, with or without prefix
func IsValid(id string) bool {
	_, err := parse(id)
	return err == nil
}

// parse strips a "prefix_" if present before decoding the ULID.
func parse(id string) (ulid.ULID, error) {
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		id = id[i+1:]
	}
	return ulid.Parse(id)
}

// AcceptRequestID reports whether a caller-supplied request id is safe to
// reuse: short, printable ASCII, no spaces.
func AcceptRequestID(s string) bool {
	if s == "" || len(s) > maxExternalLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] <= ' ' || s[i] > '~' {
			return false
		}
	}
	return true
}
