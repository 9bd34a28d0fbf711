package interp

import (
	"strconv"
	"strings"
)

// Value is a runtime value: Number, String, Bool or *Array. A nil Value
// is the absent value of uninitialised variables and array slots.
type Value interface {
	typeName() string
}

// Number is the only numeric type; all arithmetic is floating point.
type Number float64

// String is a text value
type String string

// Bool is the result of conditions
type Bool bool

// Array is a fixed-size sequence created by an array declaration. Arrays
// are shared by reference.
type Array struct {
	Elems []Value
}

func (Number) typeName() string { return "number" }
func (String) typeName() string { return "string" }
func (Bool) typeName() string   { return "bool" }
func (*Array) typeName() string { return "array" }

// TypeName names the type of v for diagnostics
func TypeName(v Value) string {
	if v == nil {
		return "none"
	}
	return v.typeName()
}

// Format renders v the way the write statement prints it
func Format(v Value) string {
	switch v := v.(type) {
	case nil:
		return "None"
	case Number:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	case String:
		return string(v)
	case Bool:
		if v {
			return "True"
		}
		return "False"
	case *Array:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = Format(e)
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return "?"
	}
}

// Truthy reports whether v counts as true in a condition
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Bool:
		return bool(v)
	case Number:
		return v != 0
	case String:
		return v != ""
	case *Array:
		return len(v.Elems) > 0
	default:
		return false
	}
}

// Equal reports whether a and b are the same value. Values of different
// types are never equal; arrays compare by identity.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case Number:
		bn, ok := b.(Number)
		return ok && a == bn
	case String:
		bs, ok := b.(String)
		return ok && a == bs
	case Bool:
		bb, ok := b.(Bool)
		return ok && a == bb
	case *Array:
		ba, ok := b.(*Array)
		return ok && a == ba
	default:
		return false
	}
}
