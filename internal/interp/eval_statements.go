package interp

import (
	"errors"
	"io"
	"math"
	"strings"

	dragonerrors "github.com/dragonsrcool/dragons/internal/errors"
	"github.com/dragonsrcool/dragons/internal/parsetree"
	"github.com/dragonsrcool/dragons/internal/parser"
)

// bind applies the declaration discipline named by scope: "big" always
// targets the global frame, anything else is a "small" binding.
func (in *Interpreter) bind(scope string, env *Environment, name string, ref *Ref) {
	if scope == "big" {
		bindBig(in.global, name, ref)
		return
	}
	bindSmall(env, name, ref)
}

func (in *Interpreter) evalCreateVar(node *parsetree.Node, env *Environment) (Value, error) {
	var val Value
	if init := node.Child(1); init != nil {
		v, err := in.Eval(init, env)
		if err != nil {
			return nil, err
		}
		val = v
	}
	in.bind(node.Lexeme(), env, node.Child(0).Lexeme(), VariableRef(val))
	return nil, nil
}

func (in *Interpreter) evalCreateArray(node *parsetree.Node, env *Environment) (Value, error) {
	sizeV, err := in.Eval(node.Child(1), env)
	if err != nil {
		return nil, err
	}
	size, err := toIndex(sizeV, node.Line())
	if err != nil {
		return nil, err
	}
	arr := &Array{Elems: make([]Value, size)}
	in.bind(node.Lexeme(), env, node.Child(0).Lexeme(), VariableRef(arr))
	return nil, nil
}

// evalReassign rebinds an existing variable with the small discipline, or
// stores into an array slot. Reading the target first is what reports
// assignment to an undefined variable. Without a value the statement just
// yields the target's current value.
func (in *Interpreter) evalReassign(node *parsetree.Node, env *Environment) (Value, error) {
	target := node.Child(0)
	valueNode := node.Child(1)

	if target.Kind == parsetree.Index {
		if valueNode == nil {
			return in.evalIndex(target, env)
		}
		arrV, err := in.Eval(target.Child(0), env)
		if err != nil {
			return nil, err
		}
		val, err := in.Eval(valueNode, env)
		if err != nil {
			return nil, err
		}
		idxV, err := in.Eval(target.Child(1), env)
		if err != nil {
			return nil, err
		}
		arr, idx, err := slot(arrV, idxV, target.Line())
		if err != nil {
			return nil, err
		}
		arr.Elems[idx] = val
		return nil, nil
	}

	current, err := in.Eval(target, env)
	if err != nil {
		return nil, err
	}
	if valueNode == nil {
		return current, nil
	}
	val, err := in.Eval(valueNode, env)
	if err != nil {
		return nil, err
	}
	bindSmall(env, target.Lexeme(), VariableRef(val))
	return nil, nil
}

// evalRead reads one line of input into the target. The line is
// interpreted as an expression when it is one that can be evaluated on its
// own, and kept as a string otherwise.
func (in *Interpreter) evalRead(node *parsetree.Node, env *Environment) (Value, error) {
	target := node.Child(0)

	if target.Kind == parsetree.Index {
		arrV, err := in.Eval(target.Child(0), env)
		if err != nil {
			return nil, err
		}
		line, err := in.readLine(node)
		if err != nil {
			return nil, err
		}
		idxV, err := in.Eval(target.Child(1), env)
		if err != nil {
			return nil, err
		}
		arr, idx, err := slot(arrV, idxV, target.Line())
		if err != nil {
			return nil, err
		}
		arr.Elems[idx] = in.interpretInput(line)
		return nil, nil
	}

	line, err := in.readLine(node)
	if err != nil {
		return nil, err
	}
	bindSmall(env, target.Lexeme(), VariableRef(in.interpretInput(line)))
	return nil, nil
}

func (in *Interpreter) readLine(node *parsetree.Node) (string, error) {
	line, err := in.console.ReadLine()
	if err == nil {
		return line, nil
	}
	if errors.Is(err, io.EOF) {
		return "", dragonerrors.Runtime(dragonerrors.CodeInputExhausted, node.Line(),
			"End of input while reading %s", node.Child(0).Lexeme())
	}
	f := dragonerrors.Runtime(dragonerrors.CodeInputExhausted, node.Line(), "Cannot read input: %v", err)
	f.Cause = err
	return "", f
}

// interpretInput evaluates line as a standalone expression in an empty
// frame. Anything that does not parse or evaluate that way is a string.
func (in *Interpreter) interpretInput(line string) Value {
	expr, err := parser.FromString(line, "").ParseExpression()
	if err != nil {
		return String(line)
	}
	sandbox := &Interpreter{
		global:   NewEnvironment(nil),
		console:  in.console,
		maxDepth: in.maxDepth,
	}
	v, err := sandbox.Eval(expr, sandbox.global)
	if err != nil || v == nil {
		return String(line)
	}
	return v
}

func (in *Interpreter) evalWrite(node *parsetree.Node, env *Environment) (Value, error) {
	list := node.Child(0)
	parts := make([]string, 0, len(list.Children))
	for _, item := range list.Children {
		v, err := in.Eval(item, env)
		if err != nil {
			return nil, err
		}
		parts = append(parts, Format(v))
	}
	if err := in.console.WriteLine(strings.Join(parts, " ")); err != nil {
		f := dragonerrors.Runtime(dragonerrors.CodeOutputFailed, node.Line(), "Cannot write output: %v", err)
		f.Cause = err
		return nil, f
	}
	return nil, nil
}

// evalList evaluates every item into a new array
func (in *Interpreter) evalList(node *parsetree.Node, env *Environment) (Value, error) {
	arr := &Array{Elems: make([]Value, 0, len(node.Children))}
	for _, item := range node.Children {
		v, err := in.Eval(item, env)
		if err != nil {
			return nil, err
		}
		arr.Elems = append(arr.Elems, v)
	}
	return arr, nil
}

func (in *Interpreter) evalPath(node *parsetree.Node, env *Environment) (Value, error) {
	ok, err := in.test(node.Child(0), env)
	if err != nil {
		return nil, err
	}

	branch := node.Child(1)
	if !ok {
		branch = node.Child(2)
	}
	if branch == nil {
		return nil, nil
	}
	if _, err := in.Eval(branch, env); err != nil {
		return nil, err
	}
	if env.Returned() {
		return env.ReturnValue(), nil
	}
	return nil, nil
}

func (in *Interpreter) evalLoop(node *parsetree.Node, env *Environment) (Value, error) {
	for {
		ok, err := in.test(node.Child(0), env)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		if _, err := in.Eval(node.Child(1), env); err != nil {
			return nil, err
		}
		if env.Returned() {
			return env.ReturnValue(), nil
		}
	}
}

// toIndex converts v to a non-negative integer array size or index
func toIndex(v Value, line int) (int, error) {
	n, ok := v.(Number)
	if !ok {
		return 0, dragonerrors.Runtime(dragonerrors.CodeBadIndex, line,
			"Array index must be a number, not %s", TypeName(v))
	}
	f := float64(n)
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, dragonerrors.Runtime(dragonerrors.CodeBadIndex, line,
			"Array index must be a whole number, not %s", Format(v))
	}
	if f < 0 || f > math.MaxInt32 {
		return 0, dragonerrors.Runtime(dragonerrors.CodeIndexOutOfRange, line,
			"Array index %s out of range", Format(v))
	}
	return int(f), nil
}

// slot resolves an array value and an index value to a valid position
func slot(arrV, idxV Value, line int) (*Array, int, error) {
	arr, ok := arrV.(*Array)
	if !ok {
		return nil, 0, dragonerrors.Runtime(dragonerrors.CodeTypeMismatch, line,
			"Cannot index a value of type %s", TypeName(arrV))
	}
	idx, err := toIndex(idxV, line)
	if err != nil {
		return nil, 0, err
	}
	if idx >= len(arr.Elems) {
		return nil, 0, dragonerrors.IndexOutOfRange(idx, len(arr.Elems), line)
	}
	return arr, idx, nil
}
