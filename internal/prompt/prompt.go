// Package prompt asks the user questions on the terminal.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrInterrupted indicates the user pressed Ctrl+C at a prompt.
var ErrInterrupted = errors.New("interrupted")

// selectPageSize is the number of options shown at once by MultiSelect.
const selectPageSize = 20

// Terminal asks questions through survey.
type Terminal struct {
	stdio survey.AskOpt
}

// NewTerminal creates a Terminal prompting on the given streams.
func NewTerminal(stdin terminal.FileReader, stdout terminal.FileWriter, stderr io.Writer) *Terminal {
	return &Terminal{stdio: survey.WithStdio(stdin, stdout, stderr)}
}

// NewStdTerminal creates a Terminal prompting on the process's standard streams.
func NewStdTerminal() *Terminal {
	return NewTerminal(os.Stdin, os.Stdout, os.Stderr)
}

// Confirm asks a yes/no question.
func (t *Terminal) Confirm(message string, defaultAnswer bool) (bool, error) {
	answer := defaultAnswer
	err := survey.AskOne(&survey.Confirm{Message: message, Default: defaultAnswer}, &answer, t.stdio)
	if err != nil {
		return false, wrapErr(err)
	}
	return answer, nil
}

// MultiSelect lets the user pick any number of options. Typing filters the list.
func (t *Terminal) MultiSelect(message string, options []string) ([]string, error) {
	var selected []string
	err := survey.AskOne(&survey.MultiSelect{
		Message:  message,
		Options:  options,
		PageSize: selectPageSize,
	}, &selected, t.stdio)
	if err != nil {
		return nil, wrapErr(err)
	}
	return selected, nil
}

func wrapErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrInterrupted
	}
	return fmt.Errorf("prompt failed: %w", err)
}

// Static answers every confirmation with the same value, for --yes and
// non-interactive use.
type Static struct {
	Answer bool
}

// Confirm returns the static answer.
func (s Static) Confirm(string, bool) (bool, error) {
	return s.Answer, nil
}
