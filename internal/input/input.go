// Package input reads lines of user input for the refa menu and loads
// patterns from files.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// LineReader is a source of lines of user input.
type LineReader interface {
	// ReadLine reads the next line with surrounding whitespace removed. At end
	// of input the error is io.EOF.
	ReadLine() (string, error)

	// ReadRawLine reads the next line exactly as typed, with only the line
	// ending removed. Blank lines are always returned.
	ReadRawLine() (string, error)

	// AllowBlank sets whether ReadLine returns blank lines instead of
	// skipping them.
	AllowBlank(allow bool)

	// SetPrompt sets the text shown before input is read.
	SetPrompt(p string)

	Close() error
}

// DirectLineReader implements LineReader and reads lines from any generic
// input stream directly. It does not sanitize the input of control and escape
// sequences and never shows a prompt.
//
// DirectLineReader should not be used directly; instead, create one with
// [NewDirectReader].
type DirectLineReader struct {
	r             *bufio.Reader
	blanksAllowed bool
}

// InteractiveLineReader implements LineReader and reads lines from stdin
// using a go implementation of the GNU Readline library. This keeps input
// clear of all typing and editing escape sequences and enables the use of
// history. This should in general only be used when directly connected to a
// TTY.
//
// InteractiveLineReader should not be used directly; instead, create one with
// [NewInteractiveReader].
type InteractiveLineReader struct {
	rl            *readline.Instance
	blanksAllowed bool
}

// NewDirectReader creates a DirectLineReader with a buffered reader on r.
func NewDirectReader(r io.Reader) *DirectLineReader {
	return &DirectLineReader{
		r: bufio.NewReader(r),
	}
}

// NewInteractiveReader creates an InteractiveLineReader and initializes
// readline. The returned reader must have Close() called on it before
// disposal to properly teardown readline resources.
func NewInteractiveReader() (*InteractiveLineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: "> ",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveLineReader{rl: rl}, nil
}

// Close is a no-op; DirectLineReader holds no resources.
func (dlr *DirectLineReader) Close() error {
	return nil
}

// Close cleans up readline resources.
func (ilr *InteractiveLineReader) Close() error {
	return ilr.rl.Close()
}

// ReadLine reads the next line. Unless blank lines are allowed, this blocks
// until a line containing non-space characters is read.
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. A final line with no newline is returned normally.
func (dlr *DirectLineReader) ReadLine() (string, error) {
	for {
		line, err := dlr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)

		if line != "" || dlr.blanksAllowed {
			return line, nil
		}
	}
}

// ReadLine reads the next line. Unless blank lines are allowed, this blocks
// until a line containing non-space characters is read.
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. An interrupt (Ctrl-C) is also reported as io.EOF.
func (ilr *InteractiveLineReader) ReadLine() (string, error) {
	for {
		line, err := ilr.rl.Readline()
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)

		if line != "" || ilr.blanksAllowed {
			return line, nil
		}
	}
}

// ReadRawLine reads the next line without trimming it. At end of input the
// error is io.EOF.
func (dlr *DirectLineReader) ReadRawLine() (string, error) {
	line, err := dlr.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}

	return trimLineEnding(line), nil
}

// ReadRawLine reads the next line without trimming it. An interrupt is
// reported as io.EOF.
func (ilr *InteractiveLineReader) ReadRawLine() (string, error) {
	line, err := ilr.rl.Readline()
	if err == readline.ErrInterrupt {
		return "", io.EOF
	}
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}

	return trimLineEnding(line), nil
}

func trimLineEnding(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// AllowBlank sets whether blank lines are returned. By default they are not.
func (dlr *DirectLineReader) AllowBlank(allow bool) {
	dlr.blanksAllowed = allow
}

// AllowBlank sets whether blank lines are returned. By default they are not.
func (ilr *InteractiveLineReader) AllowBlank(allow bool) {
	ilr.blanksAllowed = allow
}

// SetPrompt has no effect on a DirectLineReader.
func (dlr *DirectLineReader) SetPrompt(p string) {}

// SetPrompt updates the prompt to the given text.
func (ilr *InteractiveLineReader) SetPrompt(p string) {
	ilr.rl.SetPrompt(p)
}
