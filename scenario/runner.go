package scenario

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/lemmego/patterns/observer"
	"github.com/pkg/errors"
)

// BulbState is the observed state of one bulb after a step.
type BulbState struct {
	Name     string
	Attached bool
	IsOn     bool
	Updates  int
}

// Snapshot records the state after one step.
type Snapshot struct {
	Step        int
	Op          string
	Observer    string
	Failed      bool
	IsOn        bool
	NotifyCount int
	Size        int
	Bulbs       []BulbState
}

// Report is the outcome of a run. On failure it holds the steps that ran.
type Report struct {
	Name  string
	Steps []Snapshot
}

// MismatchError reports a failed expectation.
type MismatchError struct {
	Step  int
	Op    string
	Field string
	Want  any
	Got   any
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("step %d (%s): %s: want %v, got %v", e.Step, e.Op, e.Field, e.Want, e.Got)
}

type runOptions struct {
	logger   *slog.Logger
	isolated bool
}

// RunOption configures Run.
type RunOption func(*runOptions)

// ErrFaultyBulb is what bulbs listed as failing report on every update.
var ErrFaultyBulb = errors.New("faulty bulb")

// faultyBulb lights up like any bulb, then reports the update as failed.
type faultyBulb struct {
	*observer.Lightbulb
}

func (f faultyBulb) Update(state bool) error {
	_ = f.Lightbulb.Update(state)
	return ErrFaultyBulb
}

// WithLogger logs each step, and the switch's deliveries, at debug level.
func WithLogger(l *slog.Logger) RunOption {
	return func(o *runOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithIsolatedDelivery forces isolated delivery even if the script does
// not ask for it.
func WithIsolatedDelivery() RunOption {
	return func(o *runOptions) {
		o.isolated = true
	}
}

// Run executes the script against a fresh switch and fresh bulbs. It stops
// at the first failed expectation, unexpected delivery error or context
// cancellation.
func Run(ctx context.Context, s *Script, opts ...RunOption) (*Report, error) {
	o := runOptions{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	subjectOpts := []observer.Option{observer.WithLogger(o.logger)}
	if o.isolated || s.Isolated {
		subjectOpts = append(subjectOpts, observer.WithIsolatedDelivery())
	}
	sw := observer.NewSwitch(subjectOpts...)

	bulbs := make(map[string]*observer.Lightbulb, len(s.Observers))
	observers := make(map[string]observer.Observer[bool], len(s.Observers))
	attached := make(map[string]bool, len(s.Observers))
	for _, name := range s.Observers {
		bulbs[name] = observer.NewLightbulb(name)
		observers[name] = bulbs[name]
	}
	for _, name := range s.Failing {
		observers[name] = faultyBulb{bulbs[name]}
	}

	report := &Report{Name: s.Name}
	log := o.logger.With("scenario", s.Name)

	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return report, errors.Wrapf(err, "step %d", i)
		}

		var err error
		switch st.Op {
		case OpAttach:
			sw.Attach(observers[st.Observer])
			attached[st.Observer] = true
		case OpDetach:
			sw.Detach(observers[st.Observer])
			delete(attached, st.Observer)
		case OpToggle:
			err = sw.Toggle()
		case OpUpdate:
			err = observers[st.Observer].Update(*st.Payload)
		}
		if err != nil && !st.Fails {
			return report, errors.Wrapf(err, "step %d (%s)", i, st.Op)
		}

		snap := Snapshot{
			Step:        i,
			Op:          st.Op,
			Observer:    st.Observer,
			Failed:      err != nil,
			IsOn:        sw.IsOn(),
			NotifyCount: sw.NotifyCount(),
			Size:        sw.ObserversSize(),
		}
		for _, name := range s.Observers {
			b := bulbs[name]
			snap.Bulbs = append(snap.Bulbs, BulbState{
				Name:     name,
				Attached: attached[name],
				IsOn:     b.IsOn(),
				Updates:  b.UpdateCount(),
			})
		}
		report.Steps = append(report.Steps, snap)
		log.Debug("step done", "step", i, "op", st.Op, "observer", st.Observer,
			"is_on", snap.IsOn, "notify_count", snap.NotifyCount, "size", snap.Size, "error", err)

		if st.Fails && err == nil {
			return report, &MismatchError{Step: i, Op: st.Op, Field: "fails", Want: true, Got: false}
		}

		if err := check(i, st, sw, bulbs); err != nil {
			return report, err
		}
	}
	return report, nil
}

func check(i int, st Step, sw *observer.Switch, bulbs map[string]*observer.Lightbulb) error {
	e := st.Expect
	if e == nil {
		return nil
	}
	mismatch := func(field string, want, got any) error {
		return &MismatchError{Step: i, Op: st.Op, Field: field, Want: want, Got: got}
	}

	if e.IsOn != nil && *e.IsOn != sw.IsOn() {
		return mismatch("is_on", *e.IsOn, sw.IsOn())
	}
	if e.NotifyCount != nil && *e.NotifyCount != sw.NotifyCount() {
		return mismatch("notify_count", *e.NotifyCount, sw.NotifyCount())
	}
	if e.Size != nil && *e.Size != sw.ObserversSize() {
		return mismatch("size", *e.Size, sw.ObserversSize())
	}
	for name, be := range e.Observers {
		b := bulbs[name]
		if be.IsOn != nil && *be.IsOn != b.IsOn() {
			return mismatch(name+".is_on", *be.IsOn, b.IsOn())
		}
		if be.Updates != nil && *be.Updates != b.UpdateCount() {
			return mismatch(name+".updates", *be.Updates, b.UpdateCount())
		}
	}
	return nil
}
