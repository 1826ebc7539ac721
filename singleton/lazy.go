package singleton

import "sync"

// Lazy returns a factory that calls build once, on first use, and returns
// that same value on every call.
func Lazy[T any](build func() T) func() T {
	return sync.OnceValue(build)
}

type ticker struct {
	mu    sync.Mutex
	ticks int
}

func (t *ticker) Tick() {
	t.mu.Lock()
	t.ticks++
	t.mu.Unlock()
}

func (t *ticker) Ticks() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ticks
}

// Ticker returns the process-wide ticker.
var Ticker = Lazy(func() TickCounter { return &ticker{} })
