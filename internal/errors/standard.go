// Package errors provides the fatal error taxonomy shared by the parser and
// the evaluator. Every failure in the language is fatal: it is returned up
// through the recursion as a *Fatal and reported once by the top-level
// handler.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryLexical ErrorCategory = "LEXICAL"
	CategorySyntax  ErrorCategory = "SYNTAX"
	CategoryRuntime ErrorCategory = "RUNTIME"
)

// Error codes
const (
	CodeUnexpectedToken    = "UNEXPECTED_TOKEN"
	CodeIllegalCharacter   = "ILLEGAL_CHARACTER"
	CodeUndefinedVariable  = "UNDEFINED_VARIABLE"
	CodeNotAVariable       = "NOT_A_VARIABLE"
	CodeUndefinedFunction  = "UNDEFINED_FUNCTION"
	CodeNotAFunction       = "NOT_A_FUNCTION"
	CodeArityMismatch      = "ARITY_MISMATCH"
	CodeDivisionByZero     = "DIVISION_BY_ZERO"
	CodeTypeMismatch       = "TYPE_MISMATCH"
	CodeIndexOutOfRange    = "INDEX_OUT_OF_RANGE"
	CodeBadIndex           = "BAD_INDEX"
	CodeInputExhausted     = "INPUT_EXHAUSTED"
	CodeOutputFailed       = "OUTPUT_FAILED"
	CodeUnterminatedString = "UNTERMINATED_STRING"
	CodeRecursionLimit     = "RECURSION_LIMIT"
)

// Fatal is an unrecoverable lexical, syntax or runtime error. Line and
// Column are 1-based; Column is zero for runtime errors, which are only
// located by line. Found names the offending token of a syntax error.
type Fatal struct {
	Category ErrorCategory
	Code     string
	Message  string
	Found    string
	Line     int
	Column   int
	Cause    error
}

// Error implements the error interface. Runtime errors read
// "<message> on line <n>"; syntax errors carry their full text in Message.
func (e *Fatal) Error() string {
	if e.Category == CategoryRuntime {
		return fmt.Sprintf("%s on line %d", e.Message, e.Line)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *Fatal) Unwrap() error { return e.Cause }

// AsFatal reports whether err is, or wraps, a *Fatal
func AsFatal(err error) (*Fatal, bool) {
	var f *Fatal
	if stderrors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// UnexpectedToken reports a grammar violation
func UnexpectedToken(line, col int, got, want string) *Fatal {
	return &Fatal{
		Category: CategorySyntax,
		Code:     CodeUnexpectedToken,
		Message: fmt.Sprintf("Parser error at line %d, column %d.\nReceived token %s expected %s",
			line, col, got, want),
		Found:  got,
		Line:   line,
		Column: col,
	}
}

// Lexical reports a token the lexer could not recognise
func Lexical(code string, line, col int, detail string) *Fatal {
	return &Fatal{
		Category: CategoryLexical,
		Code:     code,
		Message:  fmt.Sprintf("Lexer error at line %d, column %d.\n%s", line, col, detail),
		Line:     line,
		Column:   col,
	}
}

// Runtime builds a runtime error with the given code
func Runtime(code string, line int, format string, args ...interface{}) *Fatal {
	return &Fatal{
		Category: CategoryRuntime,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
	}
}

// Common runtime error constructors

func UndefinedVariable(name string, line int) *Fatal {
	return Runtime(CodeUndefinedVariable, line, "Undefined variable %s", name)
}

func NotAVariable(name string, line int) *Fatal {
	return Runtime(CodeNotAVariable, line, "%s is not a variable", name)
}

func UndefinedFunction(name string, line int) *Fatal {
	return Runtime(CodeUndefinedFunction, line, "Call to undefined function %s", name)
}

func NotAFunction(name string, line int) *Fatal {
	return Runtime(CodeNotAFunction, line, "Call to non-function %s", name)
}

func ArityMismatch(name string, line int) *Fatal {
	return Runtime(CodeArityMismatch, line, "Wrong number of parameters to function %s", name)
}

func DivisionByZero(line int) *Fatal {
	return Runtime(CodeDivisionByZero, line, "Division by 0")
}

func TypeMismatch(op, left, right string, line int) *Fatal {
	return Runtime(CodeTypeMismatch, line, "Unsupported operand types for %s: %s and %s", op, left, right)
}

func IndexOutOfRange(index, length int, line int) *Fatal {
	return Runtime(CodeIndexOutOfRange, line, "Index %d out of range for array of length %d", index, length)
}
