package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lemmego/patterns/cmder"
	"github.com/lemmego/patterns/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePrompter answers prompts from a fixed list and aborts once it runs out.
type fakePrompter struct {
	answers []string
	asked   []string
}

func (f *fakePrompter) next(label string) (string, error) {
	f.asked = append(f.asked, label)
	if len(f.answers) == 0 {
		return "", cmder.ErrAborted
	}
	a := f.answers[0]
	f.answers = f.answers[1:]
	return a, nil
}

func (f *fakePrompter) Ask(question string, validator cmder.ValidateFunc) (string, error) {
	a, err := f.next(question)
	if err != nil {
		return "", err
	}
	if validator != nil {
		if err := validator(a); err != nil {
			return "", err
		}
	}
	return a, nil
}

func (f *fakePrompter) Select(label string, items []string) (string, error) {
	a, err := f.next(label)
	if err != nil {
		return "", err
	}
	for _, item := range items {
		if item == a {
			return a, nil
		}
	}
	return "", fmt.Errorf("%q is not one of %v", a, items)
}

func execute(t *testing.T, p cmder.Prompter, args ...string) (string, error) {
	t.Helper()
	a := &app{cfg: config.New(), prompter: p}
	cmd := newRootCmd(a)

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunBuiltin(t *testing.T) {
	out, err := execute(t, nil, "observer", "run")
	require.NoError(t, err)
	assert.Contains(t, out, "Scenario switch")
	assert.Contains(t, out, "Step")
	assert.Contains(t, out, "Notified")
	assert.Contains(t, out, `scenario "switch" passed`)
}

func TestRunScriptMismatch(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
observers: [a]
steps:
  - {op: attach, observer: a}
  - op: toggle
    expect: {is_on: false}
`), 0o644))

	out, err := execute(t, nil, "observer", "run", p, "--isolated")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is_on: want false, got true")
	assert.Contains(t, out, "Scenario bad")
	assert.NotContains(t, out, "passed")
}

func TestRunFaultyBuiltin(t *testing.T) {
	out, err := execute(t, nil, "observer", "run", "--builtin", "faulty")
	require.NoError(t, err)
	assert.Contains(t, out, "toggle!")
	assert.Contains(t, out, `scenario "faulty" passed`)

	out, err = execute(t, nil, "observer", "run", "--builtin", "faulty", "--isolated")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 3 (toggle): notify_count: want 1, got 2")
	assert.Contains(t, out, "toggle!")
	assert.NotContains(t, out, "passed")
}

func TestRunUnknownBuiltin(t *testing.T) {
	_, err := execute(t, nil, "observer", "run", "--builtin", "missing")
	assert.ErrorContains(t, err, "unknown builtin scenario")
}

func TestDemo(t *testing.T) {
	out, err := execute(t, nil, "observer", "demo", "--bulbs", "3", "--toggles", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Switch: off")
	assert.Contains(t, out, "Notify Count: 6")
	assert.Contains(t, out, "Observers: 3")
	assert.Contains(t, out, "bulb-3: off, 2 updates")

	out, err = execute(t, nil, "observer", "demo", "--bulbs", "1", "--toggles", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "bulb-1: on, 1 update\n")
}

func TestDemoRejectsNegative(t *testing.T) {
	_, err := execute(t, nil, "observer", "demo", "--bulbs", "-1")
	assert.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, nil, "scenarios", "--log-level", "chatty")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestScenarios(t *testing.T) {
	out, err := execute(t, nil, "scenarios")
	require.NoError(t, err)
	assert.Equal(t, "duplicates\nfaulty\nswitch\n", out)
}

func TestConfigDump(t *testing.T) {
	out, err := execute(t, nil, "config", "--log-level", "debug", "--isolated")
	require.NoError(t, err)
	assert.Equal(t, "log:\n    format: text\n    level: debug\nobserver:\n    isolated: true\n", out)
}

func TestSingleton(t *testing.T) {
	out, err := execute(t, nil, "singleton", "--refs", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "once: 4 references, same instance: true")
	assert.Contains(t, out, "lazy: 4 references, same instance: true")

	_, err = execute(t, nil, "singleton", "--refs", "0")
	assert.Error(t, err)
}

func TestInteractiveSession(t *testing.T) {
	p := &fakePrompter{answers: []string{
		"attach", "kitchen",
		"attach", "hall",
		"toggle",
		"detach", "kitchen",
		"toggle",
		"status",
		"quit",
	}}

	out, err := execute(t, p, "observer", "interactive")
	require.NoError(t, err)
	assert.Contains(t, out, "attached kitchen")
	assert.Contains(t, out, "detached kitchen")
	assert.Contains(t, out, "switch is on")
	assert.Contains(t, out, "switch is off")
	assert.Contains(t, out, "Notify Count: 3")
	assert.Contains(t, out, "Observers: 1")
	assert.Contains(t, out, "hall: off, updates 2")
	assert.Contains(t, out, "kitchen: on, updates 1")
	assert.Empty(t, p.answers)
}

func TestInteractiveDetachWithNoBulbs(t *testing.T) {
	p := &fakePrompter{answers: []string{"detach"}}

	out, err := execute(t, p, "observer", "interactive")
	require.NoError(t, err, "running out of answers aborts quietly")
	assert.Contains(t, out, "no bulbs attached")
	assert.Equal(t, []string{"Action", "Action"}, p.asked)
}

func TestInteractiveRejectsBadName(t *testing.T) {
	p := &fakePrompter{answers: []string{"attach", "Kitchen"}}

	_, err := execute(t, p, "observer", "interactive")
	assert.ErrorContains(t, err, "must start with a lowercase letter")
}

func TestBulbName(t *testing.T) {
	for _, ok := range []string{"a", "kitchen", "bulb-1", "hall_2"} {
		assert.NoError(t, BulbName(ok), ok)
	}
	for _, bad := range []string{"", "1bulb", "Kitchen", "bulb 1", "bulb!"} {
		assert.Error(t, BulbName(bad), bad)
	}
}

func TestReportCellsMarkAttached(t *testing.T) {
	out, err := execute(t, nil, "observer", "run", "--builtin", "switch")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 3)
	// step 0 attaches a, which has not been updated yet
	assert.Contains(t, lines[2], "off/0*")
}
