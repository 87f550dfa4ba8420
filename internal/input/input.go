// Package input has the line readers that console front-ends get player
// commands from.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// DefaultPrompt is shown before each command in interactive mode.
const DefaultPrompt = "> "

// DirectReader implements command.Reader and reads commands from any
// io.Reader. It does not sanitize the input of control and escape sequences.
//
// DirectReader should not be created directly; use NewDirectReader.
type DirectReader struct {
	r *bufio.Reader
}

// InteractiveReader implements command.Reader and reads commands from stdin
// using a Go implementation of GNU Readline. This keeps input clear of editing
// escape sequences and gives the player a command history. It should only be
// used when stdin is a terminal.
//
// InteractiveReader should not be created directly; use NewInteractiveReader.
type InteractiveReader struct {
	rl *readline.Instance
}

// NewDirectReader creates a DirectReader that reads from r.
func NewDirectReader(r io.Reader) *DirectReader {
	return &DirectReader{r: bufio.NewReader(r)}
}

// NewInteractiveReader initializes readline. If historyFile is not empty,
// commands are kept in it across runs. The returned reader must have Close
// called on it to restore the terminal.
func NewInteractiveReader(historyFile string) (*InteractiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      DefaultPrompt,
		HistoryFile: historyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return &InteractiveReader{rl: rl}, nil
}

// Close does nothing; it exists so DirectReader implements command.Reader.
func (dr *DirectReader) Close() error {
	return nil
}

// Close tears down readline.
func (ir *InteractiveReader) Close() error {
	return ir.rl.Close()
}

// ReadCommand reads the next line that has something other than whitespace in
// it, and returns it trimmed. At end of input it returns "" and io.EOF; a last
// line without a line ending is returned first.
func (dr *DirectReader) ReadCommand() (string, error) {
	for {
		line, err := dr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
		if err == io.EOF {
			return "", io.EOF
		}
	}
}

// ReadCommand reads the next non-blank line typed at the prompt. Ctrl-D gives
// io.EOF and Ctrl-C gives readline.ErrInterrupt.
func (ir *InteractiveReader) ReadCommand() (string, error) {
	for {
		line, err := ir.rl.Readline()
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
	}
}

// SetPrompt changes the prompt shown before each command.
func (ir *InteractiveReader) SetPrompt(p string) {
	ir.rl.SetPrompt(p)
}
