package observer

import "sync"

// Listener is an observer assembled from a callback. It counts the
// updates it receives and keeps the last payload, then hands the payload
// to the callback, whose error is reported to the notifying subject.
type Listener[T any] struct {
	Tally

	fn   func(payload T) error
	mu   sync.Mutex
	last T
}

// OnUpdate creates a Listener around fn. A nil fn only counts updates.
func OnUpdate[T any](fn func(payload T) error) *Listener[T] {
	return &Listener[T]{fn: fn}
}

func (l *Listener[T]) Update(payload T) error {
	l.Record()
	l.mu.Lock()
	l.last = payload
	l.mu.Unlock()

	if l.fn == nil {
		return nil
	}
	return l.fn(payload)
}

// Last returns the most recent payload, or the zero value before any update.
func (l *Listener[T]) Last() T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}
