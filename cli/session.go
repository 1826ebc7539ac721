package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/lemmego/patterns/cmder"
	"github.com/lemmego/patterns/observer"
)

const (
	actionAttach = "attach"
	actionDetach = "detach"
	actionToggle = "toggle"
	actionStatus = "status"
	actionQuit   = "quit"
)

var actions = []string{actionAttach, actionDetach, actionToggle, actionStatus, actionQuit}

// session drives a switch from prompts. Bulbs are created on first attach
// and remembered after detach so their counters stay visible.
type session struct {
	p      cmder.Prompter
	out    io.Writer
	sw     *observer.Switch
	bulbs  map[string]*observer.Lightbulb
	linked map[string]bool
}

func newSession(p cmder.Prompter, out io.Writer, sw *observer.Switch) *session {
	return &session{
		p:      p,
		out:    out,
		sw:     sw,
		bulbs:  make(map[string]*observer.Lightbulb),
		linked: make(map[string]bool),
	}
}

func (s *session) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		action, err := s.p.Select("Action", actions)
		if err != nil {
			return quiet(err)
		}

		switch action {
		case actionAttach:
			name, err := s.p.Ask("Bulb name", BulbName)
			if err != nil {
				return quiet(err)
			}
			b, ok := s.bulbs[name]
			if !ok {
				b = observer.NewLightbulb(name)
				s.bulbs[name] = b
			}
			s.sw.Attach(b)
			s.linked[name] = true
			fmt.Fprintf(s.out, "attached %s\n", name)
		case actionDetach:
			names := s.attached()
			if len(names) == 0 {
				fmt.Fprintln(s.out, "no bulbs attached")
				continue
			}
			name, err := s.p.Select("Bulb", names)
			if err != nil {
				return quiet(err)
			}
			s.sw.Detach(s.bulbs[name])
			delete(s.linked, name)
			fmt.Fprintf(s.out, "detached %s\n", name)
		case actionToggle:
			if err := s.sw.Toggle(); err != nil {
				return err
			}
			fmt.Fprintf(s.out, "switch is %s\n", onOff(s.sw.IsOn()))
		case actionStatus:
			s.status()
		case actionQuit:
			return nil
		}
	}
}

func (s *session) attached() []string {
	names := make([]string, 0, len(s.linked))
	for name := range s.linked {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *session) status() {
	renderSwitch(s.out, s.sw)
	names := make([]string, 0, len(s.bulbs))
	for name := range s.bulbs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b := s.bulbs[name]
		fmt.Fprintf(s.out, "  %s: %s, updates %d\n", name, onOff(b.IsOn()), b.UpdateCount())
	}
}

// quiet treats an aborted prompt as a normal exit.
func quiet(err error) error {
	if errors.Is(err, cmder.ErrAborted) {
		return nil
	}
	return err
}
