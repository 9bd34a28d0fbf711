// Package parsetree defines the arity-tagged parse tree shared by the
// parser and the evaluator.
//
// A tree is pure data. The only structural operation beyond appending is
// InsertLeftLeaf, which the parser uses to turn its right-recursive
// output for chains of same-precedence operators into a left-leaning tree.
package parsetree

import (
	"fmt"

	"github.com/dragonsrcool/dragons/internal/lexer"
)

// Kind selects the evaluation rule of a node
type Kind int

const (
	Program Kind = iota
	Function
	Params
	Body
	Atomic
	Return
	CreateVar
	CreateArray
	Reassign
	Write
	Read
	List
	Path
	Loop
	Condition
	Comparable
	Add
	Sub
	Mul
	Div
	Pow
	Negation
	Def
	Call
	Index

	kindCount
)

var kindNames = [...]string{
	Program:     "PROGRAM",
	Function:    "FUNCTION",
	Params:      "PARAMS",
	Body:        "BODY",
	Atomic:      "ATOMIC",
	Return:      "RETURN",
	CreateVar:   "CREATEVAR",
	CreateArray: "CREATEARRAY",
	Reassign:    "REASSIGN",
	Write:       "WRITE",
	Read:        "READ",
	List:        "LIST",
	Path:        "PATH",
	Loop:        "LOOP",
	Condition:   "CONDITION",
	Comparable:  "COMPARABLE",
	Add:         "ADD",
	Sub:         "SUB",
	Mul:         "MUL",
	Div:         "DIV",
	Pow:         "POW",
	Negation:    "NEGATION",
	Def:         "DEF",
	Call:        "CALL",
	Index:       "INDEX",
}

func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Variadic marks kinds whose number of children is not fixed
const Variadic = -1

var arities = [kindCount]int{
	Program:     Variadic,
	Function:    2, // params (may be nil), body
	Params:      Variadic,
	Body:        Variadic,
	Atomic:      0,
	Return:      1,
	CreateVar:   2, // name, initializer (may be nil)
	CreateArray: 2, // name, size
	Reassign:    2, // target, value (may be nil)
	Write:       1,
	Read:        1,
	List:        Variadic,
	Path:        3, // condition, here, there (may be nil)
	Loop:        2,
	Condition:   2,
	Comparable:  2,
	Add:         2,
	Sub:         2,
	Mul:         2,
	Div:         2,
	Pow:         2,
	Negation:    1,
	Def:         1,
	Call:        1, // argument list (may be nil)
	Index:       2, // array, index
}

// Arity returns the declared number of children for k, or Variadic
func Arity(k Kind) int {
	if k < 0 || k >= kindCount {
		return Variadic
	}
	return arities[k]
}

// Node is one parse tree node. Token holds the keyword, operator,
// identifier or literal the node was built from; for operator nodes its
// lexeme disambiguates the operation. Optional children are stored as nil
// entries so that a kind's slots keep fixed positions.
type Node struct {
	Kind     Kind
	Token    *lexer.Token
	Children []*Node
}

// New creates a childless node
func New(kind Kind, tok *lexer.Token) *Node {
	return &Node{Kind: kind, Token: tok}
}

// Leaf creates an Atomic node for a literal or identifier token
func Leaf(tok lexer.Token) *Node {
	return New(Atomic, &tok)
}

// Append adds child (possibly nil) as the last child and returns n
func (n *Node) Append(child *Node) *Node {
	n.Children = append(n.Children, child)
	return n
}

// Child returns the i-th child, or nil if the slot does not exist
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Full reports whether n already holds as many children as its arity
// declares. Variadic nodes are never full.
func (n *Node) Full() bool {
	a := Arity(n.Kind)
	return a != Variadic && len(n.Children) >= a
}

// InsertLeftLeaf inserts leaf at the extreme left position: if n still has
// an unfilled slot, leaf becomes its first child; otherwise the insertion
// descends into the first child.
//
// When parsing `a - b - c` the parser produces SUB(c) for the tail and
// SUB(b) for the middle; splicing SUB(b) into SUB(c) and then `a` into the
// result yields SUB(SUB(a, b), c).
func (n *Node) InsertLeftLeaf(leaf *Node) {
	for cur := n; ; cur = cur.Children[0] {
		if !cur.Full() || len(cur.Children) == 0 || cur.Children[0] == nil {
			cur.Children = append([]*Node{leaf}, cur.Children...)
			return
		}
	}
}

// Lexeme returns the node's token lexeme, or "" when it has no token
func (n *Node) Lexeme() string {
	if n == nil || n.Token == nil {
		return ""
	}
	return n.Token.Literal
}

// Line returns the source line of the node's token, or 0
func (n *Node) Line() int {
	if n == nil || n.Token == nil {
		return 0
	}
	return n.Token.Pos.Line
}
