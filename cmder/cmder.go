// Package cmder asks questions on the terminal.
package cmder

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("prompt aborted")

// ValidateFunc checks an answer before Ask accepts it.
type ValidateFunc func(string) error

// Prompter asks the user for input.
type Prompter interface {
	Ask(question string, validator ValidateFunc) (string, error)
	Select(label string, items []string) (string, error)
}

// Console is a Prompter backed by promptui.
type Console struct{}

var _ Prompter = Console{}

func (Console) Ask(question string, validator ValidateFunc) (string, error) {
	if validator == nil {
		validator = func(string) error { return nil }
	}

	prompt := promptui.Prompt{
		Label:    question,
		Validate: promptui.ValidateFunc(validator),
	}

	res, err := prompt.Run()
	if err != nil {
		return "", mapErr(err)
	}
	return strings.TrimSpace(res), nil
}

func (Console) Select(label string, items []string) (string, error) {
	prompt := promptui.Select{
		Label: label,
		Items: items,
	}

	_, result, err := prompt.Run()
	if err != nil {
		return "", mapErr(err)
	}
	return result, nil
}

func mapErr(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return ErrAborted
	}
	return err
}
