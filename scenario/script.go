// Package scenario replays scripted attach, detach and toggle sequences
// against a switch and a set of named lightbulbs, checking the counters
// after each step.
package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iancoleman/strcase"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Ops a step can perform.
const (
	OpAttach = "attach"
	OpDetach = "detach"
	OpToggle = "toggle"
	// OpUpdate calls Update on a bulb directly, bypassing the switch.
	OpUpdate = "update"
)

// Script is a named sequence of steps over a fixed set of bulbs.
//
// Bulb names are snake_cased wherever they appear, so "hallLamp",
// "hall-lamp" and "hall_lamp" name the same bulb. Bulbs listed in Failing
// light up like the others but report every update as failed.
type Script struct {
	Name      string   `json:"name" yaml:"name" toml:"name"`
	Observers []string `json:"observers" yaml:"observers" toml:"observers"`
	Failing   []string `json:"failing,omitempty" yaml:"failing,omitempty" toml:"failing,omitempty"`
	Isolated  bool     `json:"isolated" yaml:"isolated" toml:"isolated"`
	Steps     []Step   `json:"steps" yaml:"steps" toml:"steps"`
}

// Step is one operation on the switch or a bulb. Fails marks a step that
// must return a delivery error; any other step that errors ends the run.
type Step struct {
	Op       string  `json:"op" yaml:"op" toml:"op"`
	Observer string  `json:"observer,omitempty" yaml:"observer,omitempty" toml:"observer,omitempty"`
	Payload  *bool   `json:"payload,omitempty" yaml:"payload,omitempty" toml:"payload,omitempty"`
	Fails    bool    `json:"fails,omitempty" yaml:"fails,omitempty" toml:"fails,omitempty"`
	Expect   *Expect `json:"expect,omitempty" yaml:"expect,omitempty" toml:"expect,omitempty"`
}

// Expect lists the values to check after a step. Unset fields are not checked.
type Expect struct {
	IsOn        *bool                 `json:"is_on,omitempty" yaml:"is_on,omitempty" toml:"is_on,omitempty"`
	NotifyCount *int                  `json:"notify_count,omitempty" yaml:"notify_count,omitempty" toml:"notify_count,omitempty"`
	Size        *int                  `json:"size,omitempty" yaml:"size,omitempty" toml:"size,omitempty"`
	Observers   map[string]BulbExpect `json:"observers,omitempty" yaml:"observers,omitempty" toml:"observers,omitempty"`
}

// BulbExpect lists the values to check on one bulb.
type BulbExpect struct {
	IsOn    *bool `json:"is_on,omitempty" yaml:"is_on,omitempty" toml:"is_on,omitempty"`
	Updates *int  `json:"updates,omitempty" yaml:"updates,omitempty" toml:"updates,omitempty"`
}

// ValidationError reports a script that cannot be run.
type ValidationError struct {
	// Step is the zero-based step index, or -1 for script level problems.
	Step   int
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Step < 0 {
		return "invalid script: " + e.Reason
	}
	return fmt.Sprintf("invalid script: step %d: %s", e.Step, e.Reason)
}

// Load reads a script file. The format follows the extension:
// .yaml/.yml, .toml or .json.
func Load(path string) (*Script, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read script")
	}
	s, err := Parse(b, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes and validates a script in the given format.
func Parse(data []byte, format string) (*Script, error) {
	var s Script
	var err error
	switch strings.ToLower(format) {
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &s)
	case "toml":
		err = toml.Unmarshal(data, &s)
	case "json":
		err = json.Unmarshal(data, &s)
	default:
		return nil, errors.Errorf("unsupported script format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s script", format)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate normalizes op and bulb names and checks that every step can run.
func (s *Script) Validate() error {
	known := make(map[string]bool, len(s.Observers))
	for i, name := range s.Observers {
		name = bulbName(name)
		if name == "" {
			return &ValidationError{Step: -1, Reason: "empty observer name"}
		}
		if known[name] {
			return &ValidationError{Step: -1, Reason: fmt.Sprintf("duplicate observer %q", name)}
		}
		known[name] = true
		s.Observers[i] = name
	}
	for i, name := range s.Failing {
		name = bulbName(name)
		if !known[name] {
			return &ValidationError{Step: -1, Reason: fmt.Sprintf("unknown failing observer %q", name)}
		}
		s.Failing[i] = name
	}

	for i := range s.Steps {
		st := &s.Steps[i]
		st.Op = strings.ToLower(strings.TrimSpace(st.Op))
		st.Observer = bulbName(st.Observer)

		switch st.Op {
		case OpToggle:
		case OpAttach, OpDetach, OpUpdate:
			if st.Observer == "" {
				return &ValidationError{Step: i, Reason: st.Op + " needs an observer"}
			}
			if !known[st.Observer] {
				return &ValidationError{Step: i, Reason: fmt.Sprintf("unknown observer %q", st.Observer)}
			}
			if st.Op == OpUpdate && st.Payload == nil {
				return &ValidationError{Step: i, Reason: "update needs a payload"}
			}
		default:
			return &ValidationError{Step: i, Reason: fmt.Sprintf("unknown op %q", st.Op)}
		}

		if st.Expect == nil || len(st.Expect.Observers) == 0 {
			continue
		}
		byName := make(map[string]BulbExpect, len(st.Expect.Observers))
		for name, be := range st.Expect.Observers {
			name = bulbName(name)
			if !known[name] {
				return &ValidationError{Step: i, Reason: fmt.Sprintf("expectation for unknown observer %q", name)}
			}
			if _, dup := byName[name]; dup {
				return &ValidationError{Step: i, Reason: fmt.Sprintf("duplicate expectation for observer %q", name)}
			}
			byName[name] = be
		}
		st.Expect.Observers = byName
	}
	return nil
}

func bulbName(name string) string {
	return strcase.ToSnake(strings.TrimSpace(name))
}
