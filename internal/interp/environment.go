package interp

import (
	"sort"

	"github.com/dragonsrcool/dragons/internal/parsetree"
)

// RefKind tells whether a name denotes a variable or a function
type RefKind int

const (
	RefVariable RefKind = iota
	RefFunction
)

func (k RefKind) String() string {
	if k == RefFunction {
		return "function"
	}
	return "variable"
}

// Ref is the mutable cell a name is bound to. Rebinding updates the cell
// in place so every frame that reaches it observes the change.
// A function Ref carries its Function node in Fn and no Value.
type Ref struct {
	Kind  RefKind
	Value Value
	Fn    *parsetree.Node
}

// VariableRef creates a variable cell
func VariableRef(v Value) *Ref {
	return &Ref{Kind: RefVariable, Value: v}
}

// FunctionRef creates a function cell for a Function node
func FunctionRef(fn *parsetree.Node) *Ref {
	return &Ref{Kind: RefFunction, Fn: fn}
}

func (r *Ref) assign(other *Ref) {
	r.Kind = other.Kind
	r.Value = other.Value
	r.Fn = other.Fn
}

// Environment is one frame of the scope chain. Lookups fall through to
// the parent frame. Each frame also owns the return slot of the function
// call (or program body) it was created for.
type Environment struct {
	vars   map[string]*Ref
	parent *Environment

	returned    bool
	returnValue Value
}

// NewEnvironment creates an empty frame delegating to parent (may be nil)
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		vars:   make(map[string]*Ref),
		parent: parent,
	}
}

// Lookup walks the chain innermost to outermost and returns the first
// binding of name.
func (e *Environment) Lookup(name string) (*Ref, bool) {
	for env := e; env != nil; env = env.parent {
		if ref, ok := env.vars[name]; ok {
			return ref, true
		}
	}
	return nil, false
}

// Insert binds name in this frame, replacing any binding the frame had
func (e *Environment) Insert(name string, ref *Ref) {
	e.vars[name] = ref
}

// Names returns the names bound directly in this frame, sorted
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetReturn fills the return slot
func (e *Environment) SetReturn(v Value) {
	e.returned = true
	e.returnValue = v
}

// Returned reports whether a return statement fired in this frame
func (e *Environment) Returned() bool {
	return e.returned
}

// ReturnValue returns the value stored by the return statement
func (e *Environment) ReturnValue() Value {
	return e.returnValue
}

// ClearReturn empties the return slot
func (e *Environment) ClearReturn() {
	e.returned = false
	e.returnValue = nil
}

// bindSmall rebinds the nearest frame that already defines name, or binds
// it in env itself when no frame does.
func bindSmall(env *Environment, name string, ref *Ref) {
	if existing, ok := env.Lookup(name); ok {
		existing.assign(ref)
		return
	}
	env.Insert(name, ref)
}

// bindBig rebinds or creates name in the global frame, wherever the
// declaration occurs.
func bindBig(global *Environment, name string, ref *Ref) {
	if existing, ok := global.vars[name]; ok {
		existing.assign(ref)
		return
	}
	global.Insert(name, ref)
}
