// Package idgen mints time-derived transaction ids of the form TXN<unix-millis>.
package idgen

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// Prefix starts every generated id.
const Prefix = "TXN"

// Generator produces strictly increasing ids. When two ids are requested in the
// same millisecond, or the clock steps back, the next id is last+1.
type Generator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// New creates a generator reading time from now. A nil now uses time.Now.
func New(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now}
}

// Next returns a new id.
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms

	return Prefix + strconv.FormatInt(ms, 10)
}

// Observe raises the floor to an id read from an existing log so that ids minted
// after a restart never repeat it. Ids not produced by a Generator are ignored.
func (g *Generator) Observe(id string) {
	ms, ok := Parse(id)
	if !ok {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if ms > g.last {
		g.last = ms
	}
}

// Parse extracts the millisecond component of a generated id.
func Parse(id string) (int64, bool) {
	digits, found := strings.CutPrefix(id, Prefix)
	// seed ids such as TXN001 are far too short to be epoch millis
	if !found || len(digits) < 10 {
		return 0, false
	}

	ms, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || ms <= 0 {
		return 0, false
	}
	return ms, true
}
