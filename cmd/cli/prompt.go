package main

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// prompter reads one line of input at a time.
type prompter interface {
	Close()
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
}

// newPrompter returns a line editor when stdin is a terminal and a plain
// reader otherwise, so scripts can be piped in.
func newPrompter() prompter {
	if info, err := os.Stdin.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 && liner.TerminalSupported() {
		return newInteractive()
	}
	return newNonInteractive(os.Stdin)
}

// noninteractive prompter just blindly reads from its input.
type noninteractive struct {
	input *bufio.Reader
}

func newNonInteractive(r io.Reader) *noninteractive {
	return &noninteractive{input: bufio.NewReader(r)}
}

func (i *noninteractive) Close() {
}

func (i *noninteractive) Prompt(prompt string) (string, error) {
	line, err := i.input.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return strings.TrimRight(line, "\r\n"), err
}

func (i *noninteractive) AppendHistory(line string) {
}

// interactive prompter provides line editing and input history.
type interactive struct {
	line *liner.State
}

func newInteractive() *interactive {
	i := &interactive{
		line: liner.NewLiner(),
	}
	i.line.SetCtrlCAborts(true)
	return i
}

func (i *interactive) Close() {
	i.line.Close()
}

func (i *interactive) Prompt(prompt string) (string, error) {
	line, err := i.line.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	return line, err
}

func (i *interactive) AppendHistory(line string) {
	i.line.AppendHistory(line)
}
