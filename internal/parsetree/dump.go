package parsetree

import (
	"fmt"
	"io"
	"strings"

	"github.com/dragonsrcool/dragons/internal/lexer"
)

// Dump writes n sideways: the second half of the children above the node,
// the first half below it, so the leftmost operand ends up at the bottom.
// Missing children print as NIL. Atomic, Comparable and Condition nodes
// print their lexeme, everything else its kind and child count.
func Dump(w io.Writer, n *Node) error {
	d := &dumper{w: w}
	d.node(n, 0)
	return d.err
}

// String renders the tree with Dump
func (n *Node) String() string {
	var sb strings.Builder
	_ = Dump(&sb, n)
	return sb.String()
}

type dumper struct {
	w   io.Writer
	err error
}

func (d *dumper) printf(format string, args ...interface{}) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

func (d *dumper) node(n *Node, level int) {
	indent := strings.Repeat("|  ", level)
	if n == nil {
		d.printf("%sNIL\n", indent)
		return
	}

	half := len(n.Children) / 2

	for i := len(n.Children) - 1; i >= half; i-- {
		d.child(n.Children[i], level+1)
	}

	switch n.Kind {
	case Atomic, Comparable, Condition:
		d.printf("%s%s\n", indent, n.Lexeme())
	default:
		if n.Token != nil && n.Token.Type == lexer.TokenIdentifier {
			d.printf("%s%s(%d) %s\n", indent, n.Kind, len(n.Children), n.Lexeme())
		} else {
			d.printf("%s%s(%d)\n", indent, n.Kind, len(n.Children))
		}
	}

	for i := half - 1; i >= 0; i-- {
		d.child(n.Children[i], level+1)
	}
}

func (d *dumper) child(c *Node, level int) {
	if c == nil {
		d.printf("%sNIL\n", strings.Repeat("|  ", level))
		return
	}
	d.node(c, level)
}
