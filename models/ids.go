// ABOUTME: Identifier generation for documents, contacts, deals and tasks
// ABOUTME: ULIDs combine a millisecond timestamp with monotonic random entropy
package models

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// NewID returns a fresh, lexically time-ordered identifier.
func NewID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
