package interp

import (
	"math"
	"strings"

	dragonerrors "github.com/dragonsrcool/dragons/internal/errors"
	"github.com/dragonsrcool/dragons/internal/lexer"
	"github.com/dragonsrcool/dragons/internal/parsetree"
)

// evalAtomic yields a literal's value or looks an identifier up. Only
// variables can be read this way.
func (in *Interpreter) evalAtomic(node *parsetree.Node, env *Environment) (Value, error) {
	tok := node.Token
	switch tok.Type {
	case lexer.TokenNumber:
		return Number(tok.Value.(float64)), nil
	case lexer.TokenString:
		return String(tok.Value.(string)), nil
	}

	ref, ok := env.Lookup(tok.Literal)
	if !ok {
		return nil, dragonerrors.UndefinedVariable(tok.Literal, tok.Line())
	}
	if ref.Kind != RefVariable {
		return nil, dragonerrors.NotAVariable(tok.Literal, tok.Line())
	}
	return ref.Value, nil
}

func (in *Interpreter) evalIndex(node *parsetree.Node, env *Environment) (Value, error) {
	arrV, err := in.Eval(node.Child(0), env)
	if err != nil {
		return nil, err
	}
	idxV, err := in.Eval(node.Child(1), env)
	if err != nil {
		return nil, err
	}
	arr, idx, err := slot(arrV, idxV, node.Line())
	if err != nil {
		return nil, err
	}
	return arr.Elems[idx], nil
}

func (in *Interpreter) evalArithmetic(node *parsetree.Node, env *Environment) (Value, error) {
	left, err := in.Eval(node.Child(0), env)
	if err != nil {
		return nil, err
	}
	right, err := in.Eval(node.Child(1), env)
	if err != nil {
		return nil, err
	}
	return arithmetic(node.Kind, node.Lexeme(), left, right, node.Line())
}

// arithmetic applies a binary operator. Numbers support every operator;
// '+' also concatenates two strings and '*' repeats a string a whole
// number of times. Any other combination is a type mismatch.
func arithmetic(kind parsetree.Kind, op string, left, right Value, line int) (Value, error) {
	if kind == parsetree.Div {
		if r, ok := right.(Number); ok && r == 0 {
			return nil, dragonerrors.DivisionByZero(line)
		}
	}

	l, lok := left.(Number)
	r, rok := right.(Number)
	if lok && rok {
		switch kind {
		case parsetree.Add:
			return l + r, nil
		case parsetree.Sub:
			return l - r, nil
		case parsetree.Mul:
			return l * r, nil
		case parsetree.Div:
			return l / r, nil
		case parsetree.Pow:
			return Number(math.Pow(float64(l), float64(r))), nil
		}
	}

	switch kind {
	case parsetree.Add:
		ls, lok := left.(String)
		rs, rok := right.(String)
		if lok && rok {
			return ls + rs, nil
		}
	case parsetree.Mul:
		if s, ok := left.(String); ok && rok {
			return repeat(s, r, right, line)
		}
		if s, ok := right.(String); ok && lok {
			return repeat(s, l, left, line)
		}
	}

	return nil, dragonerrors.TypeMismatch(op, TypeName(left), TypeName(right), line)
}

// maxRepeatLen bounds the length of a string built by repetition
const maxRepeatLen = 1 << 20

func repeat(s String, n Number, nv Value, line int) (Value, error) {
	f := float64(n)
	if f != math.Trunc(f) {
		return nil, dragonerrors.TypeMismatch("*", "string", "fractional number", line)
	}
	if f <= 0 {
		return String(""), nil
	}
	if f*float64(len(s)) > maxRepeatLen {
		return nil, dragonerrors.Runtime(dragonerrors.CodeTypeMismatch, line,
			"String repetition by %s is too large", Format(nv))
	}
	return String(strings.Repeat(string(s), int(f))), nil
}

func (in *Interpreter) evalNegation(node *parsetree.Node, env *Environment) (Value, error) {
	v, err := in.Eval(node.Child(0), env)
	if err != nil {
		return nil, err
	}
	n, ok := v.(Number)
	if !ok {
		return nil, dragonerrors.Runtime(dragonerrors.CodeTypeMismatch, node.Line(),
			"Bad operand type for unary -: %s", TypeName(v))
	}
	return -n, nil
}

// test evaluates a condition node to a Go bool
func (in *Interpreter) test(node *parsetree.Node, env *Environment) (bool, error) {
	v, err := in.Eval(node, env)
	if err != nil {
		return false, err
	}
	return Truthy(v), nil
}

// evalCondition implements 'also' and 'either'. Both short-circuit: the
// right operand is only evaluated when the left one does not decide the
// result.
func (in *Interpreter) evalCondition(node *parsetree.Node, env *Environment) (Value, error) {
	left, err := in.test(node.Child(0), env)
	if err != nil {
		return nil, err
	}

	switch node.Token.Type {
	case lexer.TokenAlso:
		if !left {
			return Bool(false), nil
		}
	case lexer.TokenEither:
		if left {
			return Bool(true), nil
		}
	}

	right, err := in.test(node.Child(1), env)
	if err != nil {
		return nil, err
	}
	return Bool(right), nil
}

func (in *Interpreter) evalComparable(node *parsetree.Node, env *Environment) (Value, error) {
	left, err := in.Eval(node.Child(0), env)
	if err != nil {
		return nil, err
	}
	right, err := in.Eval(node.Child(1), env)
	if err != nil {
		return nil, err
	}

	switch node.Token.Type {
	case lexer.TokenIs:
		return Bool(Equal(left, right)), nil
	case lexer.TokenNot:
		return Bool(!Equal(left, right)), nil
	}

	return order(node.Token.Type, node.Lexeme(), left, right, node.Line())
}

// order applies an ordering operator to two numbers or two strings. Each
// operator is evaluated directly so that NaN is unordered against
// everything, itself included.
func order(op lexer.TokenType, lexeme string, left, right Value, line int) (Value, error) {
	switch l := left.(type) {
	case Number:
		if r, ok := right.(Number); ok {
			return Bool(ordered(op, l, r)), nil
		}
	case String:
		if r, ok := right.(String); ok {
			return Bool(ordered(op, l, r)), nil
		}
	}
	return nil, dragonerrors.TypeMismatch(lexeme, TypeName(left), TypeName(right), line)
}

func ordered[T Number | String](op lexer.TokenType, l, r T) bool {
	switch op {
	case lexer.TokenEats:
		return l < r
	case lexer.TokenEatsMore:
		return l <= r
	case lexer.TokenSpits:
		return l > r
	default:
		return l >= r
	}
}
