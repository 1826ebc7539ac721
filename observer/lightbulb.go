package observer

import (
	"sync"

	"github.com/google/uuid"
)

// Tally counts the updates an observer has received. Observer types embed
// it and call Record once per Update.
type Tally struct {
	mu      sync.Mutex
	updates int
}

// Record counts one update.
func (t *Tally) Record() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.updates++
}

// UpdateCount returns the number of updates recorded.
func (t *Tally) UpdateCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updates
}

// Lightbulb observes a boolean subject and mirrors its last state.
type Lightbulb struct {
	Tally

	name string
	mu   sync.Mutex
	isOn bool
}

var _ Observer[bool] = (*Lightbulb)(nil)

// NewLightbulb creates a bulb that is off and has seen no updates.
// Without a name the bulb is named with a random UUID.
func NewLightbulb(name ...string) *Lightbulb {
	n := ""
	if len(name) > 0 {
		n = name[0]
	}
	if n == "" {
		n = uuid.NewString()
	}
	return &Lightbulb{name: n}
}

// Update turns the bulb on or off to match state.
func (l *Lightbulb) Update(state bool) error {
	l.Record()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.isOn = state
	return nil
}

// IsOn reports whether the bulb is lit.
func (l *Lightbulb) IsOn() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.isOn
}

// Name returns the bulb's name.
func (l *Lightbulb) Name() string {
	return l.name
}
