// Package id provides typed ULID generation for the engine.
//
// Owners and views get distinct prefixed types so a log line never leaves
// doubt about what an identifier names, and a view handle can never be
// passed where an owner is expected.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// OwnerID identifies the user a session belongs to.
type OwnerID string

// ViewID identifies one rendered container instance.
type ViewID string

const (
	ownerPrefix = "own"
	viewPrefix  = "view"
)

// Generator generates prefixed ULIDs.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process-wide generator.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator(rand.Reader)
	})
	return defaultGenerator
}

// NewGenerator creates a generator reading entropy from r. Tests can pass a
// deterministic reader.
func NewGenerator(r io.Reader) *Generator {
	return &Generator{entropy: r}
}

// Generate creates one ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewOwnerID generates a new owner ID.
func NewOwnerID() OwnerID {
	return OwnerID(Default().GenerateWithPrefix(ownerPrefix))
}

// NewViewID generates a new view ID.
func NewViewID() ViewID {
	return ViewID(Default().GenerateWithPrefix(viewPrefix))
}

func (id OwnerID) String() string { return string(id) }
func (id ViewID) String() string  { return string(id) }
