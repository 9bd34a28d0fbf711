// Package hostio provides the console the evaluator reads input lines from
// and prints output lines to.
package hostio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Console is the host I/O collaborator of the evaluator. ReadLine returns
// one line without its terminator and io.EOF once input is exhausted.
type Console interface {
	ReadLine() (string, error)
	WriteLine(line string) error
}

// StdConsole reads lines from an io.Reader and writes lines to an
// io.Writer. When Prompt is non-empty it is written to PromptOut before
// every read.
type StdConsole struct {
	in        *bufio.Reader
	out       *bufio.Writer
	Prompt    string
	PromptOut io.Writer
}

// NewStdConsole creates a console over in and out
func NewStdConsole(in io.Reader, out io.Writer) *StdConsole {
	return &StdConsole{
		in:  bufio.NewReader(in),
		out: bufio.NewWriter(out),
	}
}

// ReadLine implements Console. Pending output is flushed first so that
// anything printed before the read is visible while the read blocks.
func (c *StdConsole) ReadLine() (string, error) {
	if err := c.out.Flush(); err != nil {
		return "", err
	}
	if c.Prompt != "" && c.PromptOut != nil {
		fmt.Fprint(c.PromptOut, c.Prompt)
	}

	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSuffix(line, "\r"), nil
		}
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// WriteLine implements Console
func (c *StdConsole) WriteLine(line string) error {
	if _, err := c.out.WriteString(line); err != nil {
		return err
	}
	return c.out.WriteByte('\n')
}

// Flush writes any buffered output
func (c *StdConsole) Flush() error {
	return c.out.Flush()
}
