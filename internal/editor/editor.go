// Package editor hands text to an external editor program and reads it back.
package editor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/google/shlex"
	"github.com/spf13/afero"
)

// DefaultProgram is used when no editor is configured.
const DefaultProgram = "vi"

// ErrAborted indicates the editor exited with a non-zero status.
var ErrAborted = errors.New("edit aborted")

// Editor runs an external editor on a scratch file.
type Editor struct {
	program string
	fs      afero.Fs
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// New creates an Editor for the given command line, e.g. "vim" or "code --wait".
// An empty program falls back to DefaultProgram.
func New(program string) *Editor {
	if program == "" {
		program = DefaultProgram
	}
	return &Editor{
		program: program,
		fs:      afero.NewOsFs(),
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
}

// WithIO attaches the editor process to the given streams instead of the terminal.
func (e *Editor) WithIO(stdin io.Reader, stdout, stderr io.Writer) *Editor {
	e.stdin = stdin
	e.stdout = stdout
	e.stderr = stderr
	return e
}

// WithFS creates the scratch file on fs instead of the OS filesystem. The
// editor process still opens the file by path, so fs must be backed by the OS.
func (e *Editor) WithFS(fs afero.Fs) *Editor {
	e.fs = fs
	return e
}

// Program returns the configured command line.
func (e *Editor) Program() string {
	return e.program
}

// Edit writes initial to a scratch file, blocks until the editor exits and
// returns the file's final contents. The scratch file is always removed.
//
// If the editor exits with a non-zero status the initial text is returned
// together with ErrAborted.
func (e *Editor) Edit(initial string) (string, error) {
	args, err := shlex.Split(e.program)
	if err != nil {
		return "", fmt.Errorf("failed to parse editor command %q: %w", e.program, err)
	}
	if len(args) == 0 {
		return "", fmt.Errorf("editor command %q is empty", e.program)
	}

	path, err := e.writeScratch(initial)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = e.fs.Remove(path)
	}()

	cmd := exec.Command(args[0], append(args[1:], path)...)
	cmd.Stdin = e.stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return initial, fmt.Errorf("%w: %s: %w", ErrAborted, args[0], err)
		}
		return "", fmt.Errorf("failed to run editor %s: %w", args[0], err)
	}

	data, err := afero.ReadFile(e.fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read edited file: %w", err)
	}
	return string(data), nil
}

func (e *Editor) writeScratch(text string) (string, error) {
	f, err := afero.TempFile(e.fs, "", "edmv-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create scratch file: %w", err)
	}
	path := f.Name()

	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		_ = e.fs.Remove(path)
		return "", fmt.Errorf("failed to write scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = e.fs.Remove(path)
		return "", fmt.Errorf("failed to close scratch file: %w", err)
	}
	return path, nil
}
