package errors

import (
	"fmt"
	"io"
	"testing"
)

func TestFatalMessages(t *testing.T) {
	tests := []struct {
		err      *Fatal
		expected string
	}{
		{UndefinedVariable("x", 3), "Undefined variable x on line 3"},
		{UndefinedFunction("f", 1), "Call to undefined function f on line 1"},
		{NotAFunction("v", 2), "Call to non-function v on line 2"},
		{ArityMismatch("f", 9), "Wrong number of parameters to function f on line 9"},
		{DivisionByZero(4), "Division by 0 on line 4"},
		{UnexpectedToken(2, 5, "ID", "DOLLAR"), "Parser error at line 2, column 5.\nReceived token ID expected DOLLAR"},
		{Lexical(CodeIllegalCharacter, 1, 7, "Illegal character '@'"), "Lexer error at line 1, column 7.\nIllegal character '@'"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.expected {
			t.Errorf("Error() = %q, want %q", got, tt.expected)
		}
	}
}

func TestCategories(t *testing.T) {
	if UnexpectedToken(1, 1, "END", "ID").Category != CategorySyntax {
		t.Error("UnexpectedToken should be a syntax error")
	}
	if DivisionByZero(1).Category != CategoryRuntime {
		t.Error("DivisionByZero should be a runtime error")
	}
	if f := UnexpectedToken(1, 1, "END", "ID"); f.Found != "END" || f.Column != 1 {
		t.Errorf("unexpected fields %+v", f)
	}
}

func TestAsFatalUnwrapsChains(t *testing.T) {
	inner := Runtime(CodeInputExhausted, 5, "End of input")
	inner.Cause = io.EOF
	wrapped := fmt.Errorf("running: %w", inner)

	f, ok := AsFatal(wrapped)
	if !ok || f.Code != CodeInputExhausted {
		t.Fatalf("AsFatal = %v, %v", f, ok)
	}
	if f.Unwrap() != io.EOF {
		t.Error("cause lost")
	}
	if _, ok := AsFatal(io.EOF); ok {
		t.Error("plain errors are not fatal")
	}
}
