// Package interp evaluates dragons parse trees directly.
//
// Evaluation is plain recursive descent over the tree: every rule returns
// (Value, error) and the first *errors.Fatal aborts the whole run. Two
// environments are threaded through every rule: the current frame, passed
// explicitly, and the global frame held by the Interpreter.
package interp

import (
	"fmt"

	dragonerrors "github.com/dragonsrcool/dragons/internal/errors"
	"github.com/dragonsrcool/dragons/internal/hostio"
	"github.com/dragonsrcool/dragons/internal/parsetree"
)

// DefaultMaxDepth bounds nested function calls
const DefaultMaxDepth = 10000

// Logger receives debug traces of function calls. *cli.Logger satisfies it.
type Logger interface {
	Debug(format string, args ...interface{})
}

// Interpreter holds the global environment and the host console for one
// run of a program (or one REPL session).
type Interpreter struct {
	global   *Environment
	console  hostio.Console
	logger   Logger
	maxDepth int
	depth    int
}

// Option configures an Interpreter
type Option func(*Interpreter)

// WithLogger traces function calls to l
func WithLogger(l Logger) Option {
	return func(in *Interpreter) { in.logger = l }
}

// WithMaxDepth sets the nested call limit
func WithMaxDepth(n int) Option {
	return func(in *Interpreter) { in.maxDepth = n }
}

// New creates an interpreter with a fresh global environment
func New(console hostio.Console, opts ...Option) *Interpreter {
	in := &Interpreter{
		global:   NewEnvironment(nil),
		console:  console,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Global returns the global environment
func (in *Interpreter) Global() *Environment {
	return in.global
}

// Reset discards every global binding
func (in *Interpreter) Reset() {
	in.global = NewEnvironment(nil)
	in.depth = 0
}

// Run evaluates a Program node: every function is registered in the global
// environment and the first one is run as the entry point. The result is
// the entry function's return value, or its last non-absent statement
// value.
func (in *Interpreter) Run(program *parsetree.Node) (Value, error) {
	if program == nil || program.Kind != parsetree.Program {
		return nil, fmt.Errorf("interp: Run needs a PROGRAM node")
	}
	return in.Eval(program, in.global)
}

// Eval evaluates node in env
func (in *Interpreter) Eval(node *parsetree.Node, env *Environment) (Value, error) {
	switch node.Kind {
	case parsetree.Program:
		return in.evalProgram(node, env)
	case parsetree.Function:
		return in.evalFunction(node, env)
	case parsetree.Params:
		return nil, nil
	case parsetree.Body:
		return in.evalBody(node, env)
	case parsetree.Atomic:
		return in.evalAtomic(node, env)
	case parsetree.Return:
		return in.evalReturn(node, env)
	case parsetree.CreateVar:
		return in.evalCreateVar(node, env)
	case parsetree.CreateArray:
		return in.evalCreateArray(node, env)
	case parsetree.Reassign:
		return in.evalReassign(node, env)
	case parsetree.Write:
		return in.evalWrite(node, env)
	case parsetree.Read:
		return in.evalRead(node, env)
	case parsetree.List:
		return in.evalList(node, env)
	case parsetree.Path:
		return in.evalPath(node, env)
	case parsetree.Loop:
		return in.evalLoop(node, env)
	case parsetree.Condition:
		return in.evalCondition(node, env)
	case parsetree.Comparable:
		return in.evalComparable(node, env)
	case parsetree.Add, parsetree.Sub, parsetree.Mul, parsetree.Div, parsetree.Pow:
		return in.evalArithmetic(node, env)
	case parsetree.Negation:
		return in.evalNegation(node, env)
	case parsetree.Def:
		return in.evalDef(node, env)
	case parsetree.Call:
		return in.evalCall(node, env)
	case parsetree.Index:
		return in.evalIndex(node, env)
	default:
		return nil, fmt.Errorf("interp: no rule for node kind %s", node.Kind)
	}
}

func (in *Interpreter) evalProgram(node *parsetree.Node, env *Environment) (Value, error) {
	for _, fn := range node.Children {
		env.Insert(fn.Lexeme(), FunctionRef(fn))
	}
	if len(node.Children) == 0 {
		return nil, nil
	}

	main := NewEnvironment(env)
	result, err := in.evalFunction(node.Children[0], main)
	if err != nil {
		return nil, err
	}
	if main.Returned() {
		return main.ReturnValue(), nil
	}
	return result, nil
}

// evalFunction runs a Function node's body in env. Parameters are bound by
// the caller.
func (in *Interpreter) evalFunction(node *parsetree.Node, env *Environment) (Value, error) {
	return in.evalBody(node.Child(1), env)
}

// evalBody evaluates statements in order, remembering the last non-absent
// result, and stops as soon as the frame's return slot is filled.
func (in *Interpreter) evalBody(node *parsetree.Node, env *Environment) (Value, error) {
	var result Value
	for _, stmt := range node.Children {
		v, err := in.Eval(stmt, env)
		if err != nil {
			return nil, err
		}
		if env.Returned() {
			return env.ReturnValue(), nil
		}
		if v != nil {
			result = v
		}
	}
	return result, nil
}

func (in *Interpreter) evalReturn(node *parsetree.Node, env *Environment) (Value, error) {
	v, err := in.Eval(node.Child(0), env)
	if err != nil {
		return nil, err
	}
	env.SetReturn(v)
	return v, nil
}

// evalDef registers a function in the current frame, like a local binding
func (in *Interpreter) evalDef(node *parsetree.Node, env *Environment) (Value, error) {
	env.Insert(node.Lexeme(), FunctionRef(node.Child(0)))
	return nil, nil
}

// evalCall evaluates the arguments in the caller's frame and runs the
// function in a new frame whose parent is the global environment, never
// the caller's.
func (in *Interpreter) evalCall(node *parsetree.Node, env *Environment) (Value, error) {
	name := node.Lexeme()
	line := node.Line()

	ref, ok := env.Lookup(name)
	if !ok {
		return nil, dragonerrors.UndefinedFunction(name, line)
	}
	if ref.Kind != RefFunction {
		return nil, dragonerrors.NotAFunction(name, line)
	}
	fn := ref.Fn

	params := fn.Child(0)
	args := node.Child(0)
	if (params == nil) != (args == nil) {
		return nil, dragonerrors.ArityMismatch(name, line)
	}
	if params != nil && len(params.Children) != len(args.Children) {
		return nil, dragonerrors.ArityMismatch(name, line)
	}

	local := NewEnvironment(in.global)
	if params != nil {
		for i, p := range params.Children {
			v, err := in.Eval(args.Children[i], env)
			if err != nil {
				return nil, err
			}
			local.Insert(p.Lexeme(), VariableRef(v))
		}
	}

	if in.depth >= in.maxDepth {
		return nil, dragonerrors.Runtime(dragonerrors.CodeRecursionLimit, line,
			"Maximum call depth %d exceeded calling %s", in.maxDepth, name)
	}
	in.depth++
	defer func() { in.depth-- }()

	if in.logger != nil {
		in.logger.Debug("call %s on line %d (depth %d)", name, line, in.depth)
	}

	return in.evalFunction(fn, local)
}
