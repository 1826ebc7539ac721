// Package observer implements the subject/observer notification protocol.
//
// A Subject owns an ordered set of observers and a delivery counter.
// Concrete subjects such as Switch compose a Subject and keep the
// notify routine to themselves; concrete observers such as Lightbulb
// compose a Tally to count the updates they receive.
//
// Delivery is synchronous. Each notify pass works on a snapshot of the
// observers attached when the pass starts, so an observer that attaches
// or detaches others from inside Update only affects later passes.
package observer

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"

	"github.com/pkg/errors"
	"github.com/tidwall/btree"
	"go.uber.org/multierr"
)

// Observer receives payloads from the subjects it is attached to.
type Observer[T any] interface {
	Update(payload T) error
}

// Observable is the capability shared by every subject-like type.
type Observable[T any] interface {
	Attach(o Observer[T])
	Detach(o Observer[T])
	ObserversSize() int
	NotifyCount() int
}

// DeliveryError reports an observer that failed to handle a payload.
type DeliveryError struct {
	// Position is the zero-based index of the observer in the pass snapshot.
	Position int
	Observer any
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("observer %d (%T): %v", e.Position, e.Observer, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

type options struct {
	logger   *slog.Logger
	isolated bool
}

// Option configures a Subject.
type Option func(*options)

// WithLogger makes the subject log attach, detach and delivery at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithIsolatedDelivery keeps delivering after an observer fails. Failures
// are combined and returned once every observer in the pass was tried.
func WithIsolatedDelivery() Option {
	return func(o *options) {
		o.isolated = true
	}
}

// Subject is the reusable notification core: an insertion-ordered set of
// observers plus the count of successful individual deliveries.
type Subject[T any] struct {
	mu          sync.RWMutex
	order       *btree.Map[uint64, Observer[T]]
	index       map[Observer[T]]uint64
	seq         uint64
	notifyCount int
	opts        options
}

// NewSubject creates a subject with no observers.
func NewSubject[T any](opts ...Option) *Subject[T] {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}
	return &Subject[T]{
		order: btree.NewMap[uint64, Observer[T]](0),
		index: make(map[Observer[T]]uint64),
		opts:  o,
	}
}

// Attach adds o unless it is already attached. A nil observer is ignored.
// Observers are keyed by identity, so their value must be comparable all
// the way down, including whatever their interface fields hold.
func (s *Subject[T]) Attach(o Observer[T]) {
	if o == nil {
		return
	}
	if !hashable(o) {
		panic(fmt.Sprintf("observer: cannot attach uncomparable observer of type %T", o))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[o]; ok {
		return
	}
	s.seq++
	s.index[o] = s.seq
	s.order.Set(s.seq, o)
	s.opts.logger.Debug("observer attached", "observer", fmt.Sprintf("%T", o), "size", len(s.index))
}

// Detach removes o if it is attached.
func (s *Subject[T]) Detach(o Observer[T]) {
	if o == nil || !hashable(o) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	seq, ok := s.index[o]
	if !ok {
		return
	}
	delete(s.index, o)
	s.order.Delete(seq)
	s.opts.logger.Debug("observer detached", "observer", fmt.Sprintf("%T", o), "size", len(s.index))
}

// ObserversSize returns the number of attached observers.
func (s *Subject[T]) ObserversSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.index)
}

// NotifyCount returns the number of successful deliveries so far.
func (s *Subject[T]) NotifyCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notifyCount
}

// Notify delivers payload to every observer attached when the call starts,
// in attach order. By default the first failure stops the pass and is
// returned as a *DeliveryError; deliveries made before it stay counted.
func (s *Subject[T]) Notify(payload T) error {
	var errs error
	for i, o := range s.snapshot() {
		if err := o.Update(payload); err != nil {
			err = errors.WithStack(&DeliveryError{Position: i, Observer: o, Err: err})
			s.opts.logger.Debug("delivery failed", "position", i, "error", err)
			if !s.opts.isolated {
				return err
			}
			errs = multierr.Append(errs, err)
			continue
		}

		s.mu.Lock()
		s.notifyCount++
		s.mu.Unlock()
	}
	return errs
}

func hashable(o any) bool {
	return reflect.ValueOf(o).Comparable()
}

func (s *Subject[T]) snapshot() []Observer[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Observer[T], 0, s.order.Len())
	s.order.Scan(func(_ uint64, o Observer[T]) bool {
		out = append(out, o)
		return true
	})
	return out
}
