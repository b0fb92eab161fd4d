package ledger

import (
	"strconv"
	"sync"
	"time"
)

// Clock supplies the current time. Injected so ids and default dates are
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// IDGenerator hands out record ids derived from the clock in milliseconds.
// Ids are strictly increasing: when the clock has not moved since the last
// id, the previous value is bumped by one.
type IDGenerator struct {
	mu    sync.Mutex
	clock Clock
	last  int64
}

func NewIDGenerator(clock Clock) *IDGenerator {
	if clock == nil {
		clock = SystemClock{}
	}
	return &IDGenerator{clock: clock}
}

func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.clock.Now().UnixMilli()
	if n <= g.last {
		n = g.last + 1
	}
	g.last = n
	return strconv.FormatInt(n, 10)
}

// Observe raises the floor so ids issued later sort after id. Non-numeric
// ids are ignored.
func (g *IDGenerator) Observe(id string) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return
	}
	g.mu.Lock()
	if n > g.last {
		g.last = n
	}
	g.mu.Unlock()
}
