package pagebuilder

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator issues ids for pages, sections, rows and widgets.
type IDGenerator interface {
	NewID(kind string) string
}

// UUIDGenerator issues random UUIDs.
type UUIDGenerator struct{}

// NewID returns a new UUID string.
func (UUIDGenerator) NewID(string) string {
	return uuid.NewString()
}

// SequenceGenerator issues readable, deterministic ids ("widget-3"). Useful
// for fixtures and tests.
type SequenceGenerator struct {
	mu   sync.Mutex
	next map[string]int
}

// NewID returns the next id for the kind.
func (g *SequenceGenerator) NewID(kind string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.next == nil {
		g.next = map[string]int{}
	}
	g.next[kind]++
	return fmt.Sprintf("%s-%d", kind, g.next[kind])
}
