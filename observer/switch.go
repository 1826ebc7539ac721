package observer

import "sync"

// Switch is a subject with an on/off state. It starts off and every
// Toggle broadcasts the new state to the attached observers.
type Switch struct {
	mu      sync.Mutex
	isOn    bool
	subject *Subject[bool]
}

var _ Observable[bool] = (*Switch)(nil)

// NewSwitch creates a switch in the off state with no observers.
func NewSwitch(opts ...Option) *Switch {
	return &Switch{subject: NewSubject[bool](opts...)}
}

// Toggle flips the switch and notifies observers with the new state.
func (s *Switch) Toggle() error {
	s.mu.Lock()
	s.isOn = !s.isOn
	state := s.isOn
	s.mu.Unlock()

	return s.subject.Notify(state)
}

// IsOn reports whether the switch is on.
func (s *Switch) IsOn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isOn
}

// Attach adds o to the switch's observers.
func (s *Switch) Attach(o Observer[bool]) { s.subject.Attach(o) }

// Detach removes o from the switch's observers.
func (s *Switch) Detach(o Observer[bool]) { s.subject.Detach(o) }

// ObserversSize returns the number of attached observers.
func (s *Switch) ObserversSize() int { return s.subject.ObserversSize() }

// NotifyCount returns the number of successful deliveries.
func (s *Switch) NotifyCount() int { return s.subject.NotifyCount() }
