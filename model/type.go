package model

import (
	"fmt"
	"strings"
)

// Type is the recursive algebraic type every Func parameter, Func
// return, Struct field, and Enum variant payload is built from.
//
// The marker method is unexported so the set of Type variants is
// closed; callers build Types as literals of the structs below and
// switch on them with Equal or a type switch.
type Type interface {
	fmt.Stringer
	isType()
}

// PrimKind enumerates the primitive scalar types.
type PrimKind string

const (
	Int   PrimKind = "Int"
	Str   PrimKind = "Str"
	Float PrimKind = "Float"
	Bool  PrimKind = "Bool"
	Null  PrimKind = "Null"
)

func (k PrimKind) valid() bool {
	switch k {
	case Int, Str, Float, Bool, Null:
		return true
	}
	return false
}

// Primitive is one of Int, Str, Float, Bool, Null.
type Primitive struct {
	Kind PrimKind
}

func (Primitive) isType()          {}
func (p Primitive) String() string { return string(p.Kind) }

// List is an ordered homogeneous container.
type List struct {
	Elem Type
}

func (List) isType()          {}
func (l List) String() string { return fmt.Sprintf("List<%s>", l.Elem) }

// Set is an unordered homogeneous container.
type Set struct {
	Elem Type
}

func (Set) isType()          {}
func (s Set) String() string { return fmt.Sprintf("Set<%s>", s.Elem) }

// Dict maps a key type to a value type. Unlike the wire schema (which
// must validate arity on decode, see json.go), the Go type always has
// exactly one Key and one Value, so "Dict without exactly two type
// args" can't be represented by a well-formed Dict value.
type Dict struct {
	Key   Type
	Value Type
}

func (Dict) isType()          {}
func (d Dict) String() string { return fmt.Sprintf("Dict<%s, %s>", d.Key, d.Value) }

// Tuple is an ordered, fixed-arity (possibly zero) heterogeneous
// container. Order is significant.
type Tuple struct {
	Elems []Type
}

func (Tuple) isType() {}
func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("Tuple<%s>", strings.Join(parts, ", "))
}

// Ref names a Struct or Enum member elsewhere in the interface graph,
// by absolute name: "package.module.path.MemberName". The reference
// is resolved against the owning Package (and, for cross-package refs,
// a locked dependency) by Validate; Type itself does no resolution.
type Ref struct {
	Name string
}

func (Ref) isType()          {}
func (r Ref) String() string { return fmt.Sprintf("Ref(%s)", r.Name) }

// Equal reports structural equality between two Types: same
// constructor, and recursively equal arguments. Refs are equal iff
// their absolute names are equal.
func Equal(a, b Type) bool {
	switch ta := a.(type) {
	case Primitive:
		tb, ok := b.(Primitive)
		return ok && ta.Kind == tb.Kind
	case List:
		tb, ok := b.(List)
		return ok && Equal(ta.Elem, tb.Elem)
	case Set:
		tb, ok := b.(Set)
		return ok && Equal(ta.Elem, tb.Elem)
	case Dict:
		tb, ok := b.(Dict)
		return ok && Equal(ta.Key, tb.Key) && Equal(ta.Value, tb.Value)
	case Tuple:
		tb, ok := b.(Tuple)
		if !ok || len(ta.Elems) != len(tb.Elems) {
			return false
		}
		for i := range ta.Elems {
			if !Equal(ta.Elems[i], tb.Elems[i]) {
				return false
			}
		}
		return true
	case Ref:
		tb, ok := b.(Ref)
		return ok && ta.Name == tb.Name
	default:
		return false
	}
}
