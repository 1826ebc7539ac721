// Package singleton shows two ways to hand out one process-wide instance:
// a guarded owner initialised through sync.Once, and a lazily built value
// factory.
package singleton

import "sync"

// TickCounter counts ticks.
type TickCounter interface {
	Tick()
	Ticks() int
}

// GlobalCounter keeps track of the number of ticks across the process.
type GlobalCounter struct {
	mu    sync.Mutex
	ticks int
}

var (
	counter     *GlobalCounter
	counterOnce sync.Once
)

// Counter returns the process-wide GlobalCounter, creating it on first use.
func Counter() *GlobalCounter {
	counterOnce.Do(func() {
		counter = &GlobalCounter{}
	})
	return counter
}

// Tick increases the counter by one.
func (c *GlobalCounter) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks++
}

// Ticks returns the total number of ticks.
func (c *GlobalCounter) Ticks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}
