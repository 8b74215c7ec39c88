package model

import "fmt"

// Member is the closed set of things a Module can hold by name: a
// function, a struct, or an enum.
type Member interface {
	isMember()
	// Kind returns a stable discriminator string, used both by the
	// diff engine (to detect a member-kind change) and the JSON codec.
	Kind() string
}

// Param is one positional, named parameter of a Func. Both name and
// position participate in the signature's identity: a renamed or
// reordered parameter is a different signature entirely, not silently
// compatible.
type Param struct {
	Name string
	Type Type
}

// Func is a function member: an ordered parameter list and a return
// type. There is no variadic or optional-parameter support.
type Func struct {
	Params []Param
	Return Type
}

func (Func) isMember()     {}
func (Func) Kind() string  { return "Func" }
func (f Func) String() string {
	return fmt.Sprintf("Func(%d params) -> %s", len(f.Params), f.Return)
}

// Struct is a record member: a name-to-Type mapping. FieldOrder
// preserves declaration order for display purposes only; it plays no
// role in structural equality or diffing (field identity is by name).
type Struct struct {
	Fields     map[string]Type
	FieldOrder []string
}

func (Struct) isMember()    {}
func (Struct) Kind() string { return "Struct" }
func (s Struct) String() string {
	return fmt.Sprintf("Struct(%d fields)", len(s.Fields))
}

// NewStruct builds a Struct from an ordered list of (name, Type)
// pairs, deriving both Fields and FieldOrder so callers never have to
// keep the two in sync by hand.
func NewStruct(fields ...Param) Struct {
	s := Struct{
		Fields:     make(map[string]Type, len(fields)),
		FieldOrder: make([]string, 0, len(fields)),
	}
	for _, f := range fields {
		s.Fields[f.Name] = f.Type
		s.FieldOrder = append(s.FieldOrder, f.Name)
	}
	return s
}

// Enum is a sum-type member: a name-to-optional-payload mapping. A nil
// payload Type means the variant carries no data.
type Enum struct {
	Variants     map[string]Type
	VariantOrder []string
}

func (Enum) isMember()    {}
func (Enum) Kind() string { return "Enum" }
func (e Enum) String() string {
	return fmt.Sprintf("Enum(%d variants)", len(e.Variants))
}

// EnumVariant pairs a variant name with its (possibly nil) payload,
// used as input to NewEnum.
type EnumVariant struct {
	Name    string
	Payload Type // nil if the variant carries no data
}

// NewEnum builds an Enum from an ordered list of variants.
func NewEnum(variants ...EnumVariant) Enum {
	e := Enum{
		Variants:     make(map[string]Type, len(variants)),
		VariantOrder: make([]string, 0, len(variants)),
	}
	for _, v := range variants {
		e.Variants[v.Name] = v.Payload
		e.VariantOrder = append(e.VariantOrder, v.Name)
	}
	return e
}

// NewFunc builds a Func from an ordered parameter list and return type.
func NewFunc(ret Type, params ...Param) Func {
	return Func{Params: append([]Param(nil), params...), Return: ret}
}
