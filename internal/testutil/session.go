package testutil

import (
	"fmt"
	"sync"
)

// SequentialSessions generates predictable session ids for tests:
// "<prefix>-0001", "<prefix>-0002", ...
//
// Unlike engine.FixedGenerator it never runs out, so scenarios can commit
// any number of durations.
//
// Thread-safety: safe for concurrent use.
type SequentialSessions struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialSessions creates a generator. An empty prefix becomes "session".
func NewSequentialSessions(prefix string) *SequentialSessions {
	if prefix == "" {
		prefix = "session"
	}
	return &SequentialSessions{prefix: prefix}
}

// Generate implements engine.SessionIDGenerator.
func (g *SequentialSessions) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}

