package hostio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/edwingeng/deque"
)

// ScriptedConsole serves input from a queue of prepared lines. Output
// lines are recorded, or written to an io.Writer for a replay console.
type ScriptedConsole struct {
	input  deque.Deque
	output []string
	out    io.Writer
}

// NewScriptedConsole creates a console that will answer reads with lines,
// in order.
func NewScriptedConsole(lines ...string) *ScriptedConsole {
	c := &ScriptedConsole{input: deque.NewDeque()}
	for _, l := range lines {
		c.input.PushBack(l)
	}
	return c
}

// NewReplayConsole creates a console that answers reads with the lines of
// r and writes output to out.
func NewReplayConsole(r io.Reader, out io.Writer) (*ScriptedConsole, error) {
	c := &ScriptedConsole{input: deque.NewDeque(), out: out}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		c.input.PushBack(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// Pending returns the number of unread input lines
func (c *ScriptedConsole) Pending() int {
	return c.input.Len()
}

// ReadLine implements Console
func (c *ScriptedConsole) ReadLine() (string, error) {
	if c.input.Empty() {
		return "", io.EOF
	}
	return c.input.PopFront().(string), nil
}

// WriteLine implements Console
func (c *ScriptedConsole) WriteLine(line string) error {
	if c.out != nil {
		_, err := fmt.Fprintln(c.out, line)
		return err
	}
	c.output = append(c.output, line)
	return nil
}

// Flush does nothing; output is never buffered
func (c *ScriptedConsole) Flush() error {
	return nil
}

// Output returns the output as it would appear on a terminal
func (c *ScriptedConsole) Output() string {
	if len(c.output) == 0 {
		return ""
	}
	return strings.Join(c.output, "\n") + "\n"
}
