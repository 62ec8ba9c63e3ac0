package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"github.com/peterh/liner"
)

// ErrAborted is returned by ReadLine when the user aborts a prompt (Ctrl-C).
var ErrAborted = errors.New("input aborted")

// IsEndOfInput reports whether err means no more input will come.
func IsEndOfInput(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, ErrAborted)
}

// Terminal is the line-oriented console the application talks through.
type Terminal interface {
	// ReadLine shows prompt and returns the next line without its newline.
	ReadLine(prompt string) (string, error)
	ClearScreen()
	Out() io.Writer
	Close() error
}

// StreamTerminal reads lines from any reader. Used for pipes and tests.
type StreamTerminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewStreamTerminal returns a terminal reading from in and writing to out.
func NewStreamTerminal(in io.Reader, out io.Writer) *StreamTerminal {
	return &StreamTerminal{in: bufio.NewReader(in), out: out}
}

// ReadLine writes prompt and reads up to the next newline. A final line
// without newline is returned; after that io.EOF.
func (t *StreamTerminal) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		_, _ = io.WriteString(t.out, prompt)
	}

	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}

		return "", fmt.Errorf("read input: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// ClearScreen does nothing; a stream has no screen.
func (*StreamTerminal) ClearScreen() {}

// Out returns the output writer.
func (t *StreamTerminal) Out() io.Writer { return t.out }

// Close does nothing.
func (*StreamTerminal) Close() error { return nil }

// LinerTerminal edits lines with history on an interactive terminal.
type LinerTerminal struct {
	state  *liner.State
	output *termenv.Output
	out    io.Writer
}

// NewLinerTerminal takes over the process terminal. out must be stdout.
// Call Close to restore the terminal mode.
func NewLinerTerminal(out io.Writer) *LinerTerminal {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)

	return &LinerTerminal{
		state:  state,
		output: termenv.NewOutput(out),
		out:    out,
	}
}

// ReadLine prompts with line editing. Non-empty lines go into history.
func (t *LinerTerminal) ReadLine(prompt string) (string, error) {
	line, err := t.state.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", ErrAborted
		}

		return "", fmt.Errorf("read input: %w", err)
	}

	if strings.TrimSpace(line) != "" {
		t.state.AppendHistory(line)
	}

	return line, nil
}

// ClearScreen clears the screen and moves the cursor home.
func (t *LinerTerminal) ClearScreen() {
	t.output.ClearScreen()
}

// Out returns the output writer.
func (t *LinerTerminal) Out() io.Writer { return t.out }

// Close restores the terminal.
func (t *LinerTerminal) Close() error {
	err := t.state.Close()
	if err != nil {
		return fmt.Errorf("restore terminal: %w", err)
	}

	return nil
}
